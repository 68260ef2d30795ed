package ingestion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeHash(t *testing.T) {
	hash1 := computeHash("test content")
	hash2 := computeHash("different content")

	// SHA256 hex
	assert.Len(t, hash1, 64)
	assert.NotEqual(t, hash1, hash2)
	assert.Equal(t, hash1, computeHash("test content"))
}

func TestNewDocument(t *testing.T) {
	before := time.Now().UTC()
	doc := newDocument("héllo", "resume.txt", TypePlain, 0)

	assert.Equal(t, "héllo", doc.Text)
	assert.Equal(t, "resume.txt", doc.Metadata.Source)
	assert.Equal(t, TypePlain, doc.Metadata.ContentType)
	assert.Equal(t, computeHash("héllo"), doc.Metadata.Hash)
	assert.Equal(t, 5, doc.Metadata.Characters)
	assert.False(t, doc.Metadata.ExtractedAt.Before(before))
}
