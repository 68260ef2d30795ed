// Package repository stores interview sessions in MongoDB.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jonathan/interview-coach/internal/interview"
)

// DefaultDatabase and SessionCollection name where sessions live
const (
	DefaultDatabase   = "interview_coach"
	SessionCollection = "sessions"
)

// Connect opens a client and verifies it with a ping
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return client, nil
}

// SessionRepository implements interview.Store on a MongoDB collection.
// Documents are keyed by the session id.
type SessionRepository struct {
	collection *mongo.Collection
}

// NewSessionRepository returns a repository on database's sessions collection
func NewSessionRepository(client *mongo.Client, database string) *SessionRepository {
	if database == "" {
		database = DefaultDatabase
	}
	return &SessionRepository{
		collection: client.Database(database).Collection(SessionCollection),
	}
}

// Create inserts a new session
func (r *SessionRepository) Create(ctx context.Context, s *interview.Session) error {
	if _, err := r.collection.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("insert session %s: %w", s.ID, err)
	}
	return nil
}

// Get loads a session by id
func (r *SessionRepository) Get(ctx context.Context, id string) (*interview.Session, error) {
	var s interview.Session
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &interview.NotFoundError{ID: id}
		}
		return nil, fmt.Errorf("find session %s: %w", id, err)
	}
	if s.Answers == nil {
		s.Answers = []interview.Answer{}
	}
	return &s, nil
}

// Save replaces a stored session
func (r *SessionRepository) Save(ctx context.Context, s *interview.Session) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": s.ID}, s)
	if err != nil {
		return fmt.Errorf("replace session %s: %w", s.ID, err)
	}
	if res.MatchedCount == 0 {
		return &interview.NotFoundError{ID: s.ID}
	}
	return nil
}

// Delete removes a session
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return &interview.NotFoundError{ID: id}
	}
	return nil
}

// ListSessions returns the newest sessions, optionally filtered by status
func (r *SessionRepository) ListSessions(ctx context.Context, status interview.Status, limit int) ([]interview.Summary, error) {
	if limit <= 0 {
		limit = interview.DefaultListLimit
	}
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"status": 1, "role_title": 1, "created_at": 1})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer cursor.Close(ctx)

	out := []interview.Summary{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode sessions: %w", err)
	}
	return out, nil
}

// CountByStatus returns how many sessions are in each status
func (r *SessionRepository) CountByStatus(ctx context.Context) (map[interview.Status]int64, error) {
	cursor, err := r.collection.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	})
	if err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode session counts: %w", err)
	}

	counts := make(map[interview.Status]int64, len(rows))
	for _, row := range rows {
		counts[interview.Status(row.Status)] = row.Count
	}
	return counts, nil
}
