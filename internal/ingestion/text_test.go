package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText_PreserveMarkdownHeadings(t *testing.T) {
	result := CleanText("   # Title\n## Subtitle\nContent here")

	assert.Contains(t, result, "# Title")
	assert.Contains(t, result, "## Subtitle")
	assert.Contains(t, result, "Content here")
}

func TestCleanText_Bullets(t *testing.T) {
	result := CleanText("- Item 1\n* Item 2\n• Item 3\n·Item 4")

	assert.Contains(t, result, "- Item 1")
	assert.Contains(t, result, "* Item 2")
	assert.Contains(t, result, "- Item 3")
	assert.Contains(t, result, "- Item 4")
}

func TestCleanText_NormalizeWhitespace(t *testing.T) {
	result := CleanText("Line    with \t multiple  spaces   ")
	assert.Equal(t, "Line with multiple spaces", result)
}

func TestCleanText_BlankLines(t *testing.T) {
	result := CleanText("Line 1\n\n\n\n\nLine 2\n   \nLine 3")
	assert.Equal(t, "Line 1\n\nLine 2\n\nLine 3", result)
}

func TestCleanText_NormalizeLineEndings(t *testing.T) {
	result := CleanText("Line 1\r\nLine 2\rLine 3\nLine 4")
	assert.Equal(t, "Line 1\nLine 2\nLine 3\nLine 4", result)
}

func TestCleanText_KeepsIndentation(t *testing.T) {
	result := CleanText("Skills\n    Go   and Rust")
	assert.Equal(t, "Skills\n    Go and Rust", result)
}

func TestCleanText_EmptyInput(t *testing.T) {
	assert.Empty(t, CleanText(""))
	assert.Empty(t, CleanText("   \n  \n  "))
}

func TestCleanText_SpecialCharacters(t *testing.T) {
	result := CleanText("Test with émojis 🚀 and spéciàl chàracters")

	assert.Contains(t, result, "émojis")
	assert.Contains(t, result, "🚀")
	assert.Contains(t, result, "spéciàl chàracters")
}

func TestCleanText_Deterministic(t *testing.T) {
	input := "Test content   with   spaces\n\n\nMultiple   blank   lines"
	assert.Equal(t, CleanText(input), CleanText(input))
	assert.Equal(t, CleanText(input), CleanText(CleanText(input)))
}

func TestBulletItems(t *testing.T) {
	text := CleanText("Requirements\n• Go\n- Kubernetes\n  * PostgreSQL\nNot a bullet\n- ")
	assert.Equal(t, []string{"Go", "Kubernetes", "PostgreSQL"}, BulletItems(text))
}
