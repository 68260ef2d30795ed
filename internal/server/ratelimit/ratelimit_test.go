package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(cfg *Config) (*Limiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	l := NewLimiter(cfg)
	l.now = clock.Now
	return l, clock
}

func TestLimiter_Allow(t *testing.T) {
	l, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})
	defer l.Stop()

	for i := 0; i < 10; i++ {
		allowed, info := l.Allow("127.0.0.1", "/interviews/abc", "GET")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 10-(i+1), info.Remaining)
	}

	allowed, info := l.Allow("127.0.0.1", "/interviews/abc", "GET")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.InDelta(t, 6*time.Second, info.RetryAfter, float64(10*time.Millisecond))
	assert.True(t, info.ResetTime.After(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)))
}

func TestLimiter_Refill(t *testing.T) {
	l, clock := newTestLimiter(&Config{Enabled: true, DefaultLimit: 60, DefaultWindow: time.Minute})
	defer l.Stop()

	for i := 0; i < 60; i++ {
		allowed, _ := l.Allow("c", "/interviews", "GET")
		require.True(t, allowed)
	}
	allowed, _ := l.Allow("c", "/interviews", "GET")
	require.False(t, allowed)

	// one token per second
	clock.Advance(time.Second)
	allowed, _ = l.Allow("c", "/interviews", "GET")
	assert.True(t, allowed)
	allowed, _ = l.Allow("c", "/interviews", "GET")
	assert.False(t, allowed)
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})
	defer l.Stop()

	allowed, _ := l.Allow("a", "/x", "GET")
	assert.True(t, allowed)
	allowed, _ = l.Allow("a", "/x", "GET")
	assert.False(t, allowed)

	allowed, _ = l.Allow("b", "/x", "GET")
	assert.True(t, allowed)
}

func TestLimiter_EndpointPatternSharesBucket(t *testing.T) {
	l, _ := newTestLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/interviews/*/answers", Method: "POST", Limit: 2, Window: time.Minute},
		},
	})
	defer l.Stop()

	allowed, info := l.Allow("c", "/interviews/s1/answers", "POST")
	assert.True(t, allowed)
	assert.Equal(t, 2, info.Limit)
	allowed, _ = l.Allow("c", "/interviews/s2/answers", "POST")
	assert.True(t, allowed)
	allowed, _ = l.Allow("c", "/interviews/s3/answers", "POST")
	assert.False(t, allowed)

	// other routes use the default limit
	allowed, info = l.Allow("c", "/interviews/s1", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 100, info.Limit)
}

func TestLimiter_Disabled(t *testing.T) {
	l := NewLimiter(&Config{Enabled: false})
	defer l.Stop()

	for i := 0; i < 100; i++ {
		allowed, _ := l.Allow("c", "/interviews", "POST")
		require.True(t, allowed)
	}
	assert.Zero(t, l.Len())
}

func TestLimiter_WhitelistAndBlacklist(t *testing.T) {
	l, _ := newTestLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"10.0.0.1": true},
		Blacklist:     map[string]bool{"10.0.0.2": true},
	})
	defer l.Stop()

	for i := 0; i < 5; i++ {
		allowed, _ := l.Allow("10.0.0.1", "/x", "GET")
		assert.True(t, allowed)
	}
	allowed, _ := l.Allow("10.0.0.2", "/x", "GET")
	assert.False(t, allowed)
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	l, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})
	defer l.Stop()

	for i := 0; i < 10; i++ {
		allowed, _ := l.Allow("c", "/health", "GET")
		require.True(t, allowed)
	}
}

func TestLimiter_CleanupBuckets(t *testing.T) {
	l, clock := newTestLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})
	defer l.Stop()

	l.Allow("old", "/x", "GET")
	clock.Advance(2 * time.Hour)
	l.Allow("new", "/x", "GET")
	require.Equal(t, 2, l.Len())

	l.cleanupBuckets(clock.Now().Add(-time.Hour))
	assert.Equal(t, 1, l.Len())
}

func TestLimiter_Concurrent(t *testing.T) {
	l, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 50, DefaultWindow: time.Hour})
	defer l.Stop()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, _ := l.Allow("c", "/x", "GET")
			if ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, allowed)
}

func TestLimiter_StopTwice(t *testing.T) {
	l := NewLimiter(DefaultConfig())
	l.Stop()
	assert.NotPanics(t, l.Stop)
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()
	tests := []struct {
		path, method string
		want         string
	}{
		{"/interviews", "POST", "/interviews"},
		{"/interviews/", "POST", "/interviews"},
		{"/interviews", "GET", ""},
		{"/interviews/abc/answers", "POST", "/interviews/*/answers"},
		{"/interviews/abc/start", "POST", ""},
		{"/resumes/upload", "POST", "/resumes/upload"},
		{"/health", "GET", "/health"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s %s", tt.method, tt.path), func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Path)
		})
	}
}

func TestNewConfig(t *testing.T) {
	assert.False(t, NewConfig(0, 5, "").Enabled)

	cfg := NewConfig(0.5, 3, "10.0.0.1, 10.0.0.2,")
	assert.True(t, cfg.Enabled)
	assert.Len(t, cfg.Whitelist, 2)
	for _, ec := range cfg.EndpointConfigs {
		assert.Equal(t, 30, ec.Limit)
		assert.Equal(t, 3, ec.Burst)
	}
}
