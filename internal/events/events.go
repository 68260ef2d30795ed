// Package events publishes interview session lifecycle updates.
package events

import (
	"context"
	"sync"
	"time"
)

// Type names a lifecycle transition
type Type string

// Lifecycle event types
const (
	SessionCreated   Type = "session.created"
	SessionStarted   Type = "session.started"
	AnswerSubmitted  Type = "answer.submitted"
	SessionCompleted Type = "session.completed"
	SessionAbandoned Type = "session.abandoned"
	SessionDeleted   Type = "session.deleted"
)

// Event is one lifecycle update
type Event struct {
	Type         Type      `json:"type"`
	SessionID    string    `json:"session_id"`
	Status       string    `json:"status"`
	CurrentIndex int       `json:"current_index"`
	Total        int       `json:"total"`
	Score        *float64  `json:"score,omitempty"`
	At           time.Time `json:"at"`
}

// Publisher delivers events. Publishing is best effort: callers log failures and carry on.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// Nop discards every event
type Nop struct{}

// Publish does nothing
func (Nop) Publish(context.Context, Event) error { return nil }

// Close does nothing
func (Nop) Close() error { return nil }

// Recorder keeps events in memory, for tests and the practice CLI
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// NewRecorder returns an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Publish records ev
func (r *Recorder) Publish(_ context.Context, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

// Events returns a copy of everything recorded so far
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Types returns the recorded event types in order
func (r *Recorder) Types() []Type {
	events := r.Events()
	out := make([]Type, len(events))
	for i, ev := range events {
		out[i] = ev.Type
	}
	return out
}

// Close does nothing
func (r *Recorder) Close() error { return nil }
