// Package cache fronts a session store with Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jonathan/interview-coach/internal/interview"
	"github.com/jonathan/interview-coach/internal/logger"
)

// DefaultTTL bounds how long a cached session lives without being written
const DefaultTTL = 30 * time.Minute

const keyPrefix = "interview:session:"

// Key returns the Redis key for a session id
func Key(id string) string {
	return keyPrefix + id
}

// SessionCache is a write-through cache in front of another interview.Store.
// The backing store is authoritative: cache failures are logged and the
// operation falls through to it.
type SessionCache struct {
	client  *redis.Client
	backing interview.Store
	ttl     time.Duration
	log     *zap.Logger
}

// NewSessionCache wraps backing with a Redis cache
func NewSessionCache(client *redis.Client, backing interview.Store, ttl time.Duration, log *zap.Logger) *SessionCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SessionCache{client: client, backing: backing, ttl: ttl, log: logger.OrNop(log)}
}

// Create stores in the backing store, then caches
func (c *SessionCache) Create(ctx context.Context, s *interview.Session) error {
	if err := c.backing.Create(ctx, s); err != nil {
		return err
	}
	c.set(ctx, s)
	return nil
}

// Get serves from Redis when possible
func (c *SessionCache) Get(ctx context.Context, id string) (*interview.Session, error) {
	data, err := c.client.Get(ctx, Key(id)).Bytes()
	switch {
	case err == nil:
		var s interview.Session
		if err := json.Unmarshal(data, &s); err == nil {
			return &s, nil
		}
		c.log.Warn("discarding corrupt cached session", zap.String(logger.FieldSession, id))
	case !errors.Is(err, redis.Nil):
		c.log.Warn("session cache read failed", zap.String(logger.FieldSession, id), zap.Error(err))
	}

	s, err := c.backing.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.set(ctx, s)
	return s, nil
}

// Save writes through to the backing store
func (c *SessionCache) Save(ctx context.Context, s *interview.Session) error {
	if err := c.backing.Save(ctx, s); err != nil {
		// the cached copy may now be stale
		c.evict(ctx, s.ID)
		return err
	}
	c.set(ctx, s)
	return nil
}

// Delete removes the session from both layers
func (c *SessionCache) Delete(ctx context.Context, id string) error {
	c.evict(ctx, id)
	return c.backing.Delete(ctx, id)
}

// ListSessions reads through to the backing store; listings are not cached
func (c *SessionCache) ListSessions(ctx context.Context, status interview.Status, limit int) ([]interview.Summary, error) {
	lister, ok := c.backing.(interview.Lister)
	if !ok {
		return nil, interview.ErrListingUnsupported
	}
	return lister.ListSessions(ctx, status, limit)
}

func (c *SessionCache) CountByStatus(ctx context.Context) (map[interview.Status]int64, error) {
	lister, ok := c.backing.(interview.Lister)
	if !ok {
		return nil, interview.ErrListingUnsupported
	}
	return lister.CountByStatus(ctx)
}

func (c *SessionCache) set(ctx context.Context, s *interview.Session) {
	data, err := json.Marshal(s)
	if err != nil {
		c.log.Warn("session cache encode failed", zap.String(logger.FieldSession, s.ID), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, Key(s.ID), data, c.ttl).Err(); err != nil {
		c.log.Warn("session cache write failed", zap.String(logger.FieldSession, s.ID), zap.Error(err))
	}
}

func (c *SessionCache) evict(ctx context.Context, id string) {
	if err := c.client.Del(ctx, Key(id)).Err(); err != nil {
		c.log.Warn("session cache evict failed", zap.String(logger.FieldSession, id), zap.Error(err))
	}
}
