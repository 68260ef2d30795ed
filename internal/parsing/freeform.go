package parsing

import (
	"regexp"
	"strconv"
	"strings"
)

// minItemLength is the shortest line accepted as a free-form item
const minItemLength = 10

var (
	ordinalPattern = regexp.MustCompile(`(?i)^(?:\*\*)?\s*(?:q(?:uestion)?\s*)?\d+\s*[:.)]\s*(?:\*\*)?\s*`)
	bulletPattern  = regexp.MustCompile(`^(?:[-*•·]\s+|\d+\s*[.)]\s+)`)
	labelPattern   = regexp.MustCompile(`(?i)^(?:question|answer)\s*:\s*`)
)

// ParseNumberedItems scans text for lines that start with an ordinal marker
// ("1.", "2)", "Q3:", "Question 4.") and returns the text after the marker.
// Lines that are too short to be a real item are skipped.
func ParseNumberedItems(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		loc := ordinalPattern.FindStringIndex(line)
		if loc == nil {
			continue
		}
		item := strings.Trim(strings.TrimSpace(line[loc[1]:]), `*"'`)
		item = strings.TrimSpace(item)
		if len(item) > minItemLength {
			items = append(items, item)
		}
	}
	return items
}

// CleanItemText normalizes a single-item response: fences, ordinals, labels and
// surrounding quotes are removed and the text is collapsed to one line.
func CleanItemText(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.Trim(text, "`")
	}
	text = strings.Join(strings.Fields(text), " ")
	text = ordinalPattern.ReplaceAllString(text, "")
	text = labelPattern.ReplaceAllString(text, "")
	text = strings.Trim(text, `"'*`)
	return strings.TrimSpace(text)
}

// ParseItemNumber returns the first number in text, e.g. 8 from "8/10" or "Score: 8"
func ParseItemNumber(text string) (float64, bool) {
	match := leadingNumberPattern.FindString(text)
	if match == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseItemList splits a single-item response into list entries.
// One entry per line; a single line is split on commas.
func ParseItemList(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return []string{}
	}

	var raw []string
	if strings.Contains(text, "\n") {
		raw = strings.Split(text, "\n")
	} else {
		raw = strings.Split(text, ",")
	}

	out := make([]string, 0, len(raw))
	for _, entry := range raw {
		entry = strings.TrimSpace(entry)
		entry = bulletPattern.ReplaceAllString(entry, "")
		entry = strings.Trim(entry, `"'*`)
		entry = strings.TrimSpace(entry)
		if entry != "" {
			out = append(out, entry)
		}
	}
	return out
}
