package ingestion

import (
	"regexp"
	"strings"
)

var (
	innerSpace  = regexp.MustCompile(`[ \t\f\v]+`)
	blankLines  = regexp.MustCompile(`\n{3,}`)
	bulletGlyph = regexp.MustCompile(`^[•·▪●◦‣]\s*`)
)

// CleanText normalizes extracted document text while keeping its line structure:
// CRLF becomes LF, runs of spaces collapse, bullet glyphs become "- " and at most
// one blank line separates paragraphs.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.ReplaceAll(content, "\u00a0", " ")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	out := blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(out)
}

func cleanLine(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ""
	}

	// Markdown headings lose their indentation
	if strings.HasPrefix(trimmed, "#") {
		return trimmed
	}

	indent := len(line) - len(strings.TrimLeft(line, " \t"))
	if bulletGlyph.MatchString(trimmed) {
		trimmed = "- " + bulletGlyph.ReplaceAllString(trimmed, "")
	}
	trimmed = innerSpace.ReplaceAllString(trimmed, " ")
	return strings.Repeat(" ", indent) + trimmed
}

// isBulletLine reports whether a cleaned line is a list item
func isBulletLine(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	return strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ")
}

// BulletItems returns the text of every list item in cleaned text
func BulletItems(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		if isBulletLine(line) {
			item := strings.TrimSpace(strings.TrimLeft(line, " \t")[2:])
			if item != "" {
				items = append(items, item)
			}
		}
	}
	return items
}
