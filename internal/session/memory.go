package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryCache keeps sessions in process memory. A zero ttl never expires.
type MemoryCache struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]Session
	ttl      time.Duration
	now      func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		sessions: make(map[uuid.UUID]Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, id uuid.UUID) (Session, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.sessions[id]
	if !ok || expired(s, c.ttl, c.now()) {
		return Session{}, ErrNotFound
	}
	return s, nil
}

func (c *MemoryCache) Save(_ context.Context, s Session) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if prev, ok := c.sessions[s.ID]; ok && s.CreatedAt.IsZero() {
		s.CreatedAt = prev.CreatedAt
	}
	c.sessions[s.ID] = stamp(s, c.now())
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(c.sessions, id)
	return nil
}

// DeleteExpired drops every expired session and reports how many went.
func (c *MemoryCache) DeleteExpired(_ context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	n := 0
	for id, s := range c.sessions {
		if expired(s, c.ttl, now) {
			delete(c.sessions, id)
			n++
		}
	}
	return n, nil
}
