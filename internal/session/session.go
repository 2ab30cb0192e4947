// Package session persists what an operator's front-end remembers between requests:
// the backend bearer token, the page they signed into and the user profile.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/model"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

// Session is one operator's cached state. Cleared entirely on logout.
type Session struct {
	ID         uuid.UUID  `json:"id"`
	Token      string     `json:"token"`
	ActivePage string     `json:"activePage"`
	User       model.User `json:"user"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// Cache stores sessions by id. Get returns ErrNotFound for unknown or expired ids.
type Cache interface {
	Get(ctx context.Context, id uuid.UUID) (Session, error)
	Save(ctx context.Context, s Session) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Handle binds a Cache to one session id. It is the gateway's token source and the
// store's logout hook.
type Handle struct {
	cache Cache
	id    uuid.UUID
}

func NewHandle(cache Cache, id uuid.UUID) *Handle {
	return &Handle{cache: cache, id: id}
}

func (h *Handle) ID() uuid.UUID { return h.id }

// Load returns the bound session.
func (h *Handle) Load(ctx context.Context) (Session, error) {
	return h.cache.Get(ctx, h.id)
}

// Token returns the cached backend token, or "" when nothing is cached.
func (h *Handle) Token(ctx context.Context) (string, error) {
	s, err := h.cache.Get(ctx, h.id)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return s.Token, nil
}

// Clear removes the bound session from the cache.
func (h *Handle) Clear(ctx context.Context) error {
	err := h.cache.Delete(ctx, h.id)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

func expired(s Session, ttl time.Duration, now time.Time) bool {
	return ttl > 0 && now.Sub(s.UpdatedAt) > ttl
}

func stamp(s Session, now time.Time) Session {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	return s
}
