package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FileCache keeps sessions in a JSON file readable only by the current user. Used by
// the terminal client.
type FileCache struct {
	mu   sync.Mutex
	path string
}

func NewFileCache(path string) *FileCache {
	return &FileCache{path: path}
}

// IDFor derives a stable session id for a backend base URL.
func IDFor(backendURL string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(backendURL))
}

func (c *FileCache) Get(_ context.Context, id uuid.UUID) (Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	all, err := c.read()
	if err != nil {
		return Session{}, err
	}
	s, ok := all[id.String()]
	if !ok {
		return Session{}, ErrNotFound
	}
	return s, nil
}

func (c *FileCache) Save(_ context.Context, s Session) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	all, err := c.read()
	if err != nil {
		return err
	}
	if prev, ok := all[s.ID.String()]; ok && s.CreatedAt.IsZero() {
		s.CreatedAt = prev.CreatedAt
	}
	all[s.ID.String()] = stamp(s, time.Now())
	return c.write(all)
}

func (c *FileCache) Delete(_ context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	all, err := c.read()
	if err != nil {
		return err
	}
	if _, ok := all[id.String()]; !ok {
		return ErrNotFound
	}
	delete(all, id.String())
	return c.write(all)
}

func (c *FileCache) read() (map[string]Session, error) {
	raw, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]Session), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	all := make(map[string]Session)
	if len(raw) == 0 {
		return all, nil
	}
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil, fmt.Errorf("decode session file: %w", err)
	}
	return all, nil
}

func (c *FileCache) write(all map[string]Session) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	raw, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return os.Rename(tmp, c.path)
}
