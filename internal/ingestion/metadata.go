package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
	"unicode/utf8"
)

// Metadata describes where a document came from and what was extracted
type Metadata struct {
	Source      string    `json:"source,omitempty"` // file path, URL or object key
	ContentType string    `json:"content_type"`
	Hash        string    `json:"hash"` // SHA256 of the cleaned text
	Characters  int       `json:"characters"`
	Pages       int       `json:"pages,omitempty"`
	ExtractedAt time.Time `json:"extracted_at"`
}

// Document is extracted, cleaned text with its metadata
type Document struct {
	Text     string   `json:"text"`
	Metadata Metadata `json:"metadata"`
}

func newDocument(text, source, contentType string, pages int) *Document {
	return &Document{
		Text: text,
		Metadata: Metadata{
			Source:      source,
			ContentType: contentType,
			Hash:        computeHash(text),
			Characters:  utf8.RuneCountInString(text),
			Pages:       pages,
			ExtractedAt: time.Now().UTC(),
		},
	}
}

func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
