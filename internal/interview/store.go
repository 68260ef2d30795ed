package interview

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// Store persists sessions. Get returns a *NotFoundError for unknown ids.
// Implementations must not retain the *Session passed to Create or Save.
type Store interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// Summary is one row of a session listing
type Summary struct {
	ID        string    `json:"id" bson:"_id"`
	Status    Status    `json:"status" bson:"status"`
	RoleTitle string    `json:"role_title" bson:"role_title"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Lister is implemented by stores that can browse sessions.
// ListSessions returns the newest sessions first; an empty status matches all.
type Lister interface {
	ListSessions(ctx context.Context, status Status, limit int) ([]Summary, error)
	CountByStatus(ctx context.Context) (map[Status]int64, error)
}

// ErrListingUnsupported is returned when the configured store is not a Lister
var ErrListingUnsupported = errors.New("session store does not support listing")

// DefaultListLimit applies when a listing asks for zero or fewer rows
const DefaultListLimit = 50

// MemoryStore keeps sessions in process memory
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore returns an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

// Create stores a new session
func (m *MemoryStore) Create(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s.Clone()
	return nil
}

// Get returns a copy of the session
func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	return s.Clone(), nil
}

// Save replaces a stored session
func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.ID]; !ok {
		return &NotFoundError{ID: s.ID}
	}
	m.sessions[s.ID] = s.Clone()
	return nil
}

// Delete removes a session
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return &NotFoundError{ID: id}
	}
	delete(m.sessions, id)
	return nil
}

// Len returns the number of stored sessions
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// ListSessions returns up to limit sessions, newest first
func (m *MemoryStore) ListSessions(_ context.Context, status Status, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	m.mu.RLock()
	out := make([]Summary, 0, len(m.sessions))
	for _, s := range m.sessions {
		if status != "" && s.Status != status {
			continue
		}
		out = append(out, Summary{ID: s.ID, Status: s.Status, RoleTitle: s.RoleTitle, CreatedAt: s.CreatedAt})
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// CountByStatus returns how many sessions are in each status
func (m *MemoryStore) CountByStatus(_ context.Context) (map[Status]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[Status]int64)
	for _, s := range m.sessions {
		counts[s.Status]++
	}
	return counts, nil
}
