package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/jonathan/interview-coach/internal/interview"
	"github.com/jonathan/interview-coach/internal/types"
)

func TestSessionDocumentShape(t *testing.T) {
	now := time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC)
	s, err := interview.NewSession("abc", []types.GeneratedQuestion{{Question: "Why Go?", ExpectedKeywords: []string{"concurrency"}}}, now)
	require.NoError(t, err)
	require.NoError(t, s.Start(now))

	raw, err := bson.Marshal(s)
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))
	assert.Equal(t, "abc", doc["_id"])
	assert.Equal(t, "in_progress", doc["status"])
	assert.Contains(t, doc, "started_at")
	assert.NotContains(t, doc, "completed_at")
	assert.NotContains(t, doc, "scores")

	var back interview.Session
	require.NoError(t, bson.Unmarshal(raw, &back))
	assert.Equal(t, s.ID, back.ID)
	assert.Equal(t, "Why Go?", back.Questions[0].Question)
	require.NotNil(t, back.StartedAt)
	assert.True(t, now.Equal(*back.StartedAt))
}
