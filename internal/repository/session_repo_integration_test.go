//go:build integration
// +build integration

package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-coach/internal/interview"
	"github.com/jonathan/interview-coach/internal/types"
)

func TestSessionRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := Connect(ctx, uri)
	if err != nil {
		t.Skipf("Skipping integration test: failed to connect to MongoDB: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	repo := NewSessionRepository(client, "interview_coach_test")

	s, err := interview.NewSession(uuid.NewString(), []types.GeneratedQuestion{{Question: "Tell me about yourself."}}, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, s))

	got, err := repo.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, interview.StatusPending, got.Status)

	require.NoError(t, got.Abandon(time.Now().UTC()))
	require.NoError(t, repo.Save(ctx, got))

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, counts[interview.StatusAbandoned], int64(1))

	listed, err := repo.ListSessions(ctx, interview.StatusAbandoned, 500)
	require.NoError(t, err)
	ids := make([]string, len(listed))
	for i, summary := range listed {
		ids[i] = summary.ID
	}
	assert.Contains(t, ids, s.ID)

	require.NoError(t, repo.Delete(ctx, s.ID))
	_, err = repo.Get(ctx, s.ID)
	assert.ErrorIs(t, err, interview.ErrNotFound)
	assert.ErrorIs(t, repo.Save(ctx, got), interview.ErrNotFound)
}
