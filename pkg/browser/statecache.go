package browser

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod/lib/proto"
)

// ErrNoCachedState means no usable cached session exists for the user
var ErrNoCachedState = errors.New("no cached browser state")

// StateCache persists the cookies of an authenticated browser session so
// later runs can skip the login flow. Cached state is advisory: callers
// must re-validate with the logged-in marker and fall back to a fresh
// login when it no longer holds.
type StateCache struct {
	dir    string
	maxAge time.Duration
}

type cachedState struct {
	UserID  string                 `json:"user_id"`
	SavedAt time.Time              `json:"saved_at"`
	Cookies []*proto.NetworkCookie `json:"cookies"`
}

// NewStateCache creates a cache under dir. Entries older than maxAge are
// treated as missing; zero disables the age check.
func NewStateCache(dir string, maxAge time.Duration) (*StateCache, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create state cache directory: %w", err)
	}
	return &StateCache{dir: dir, maxAge: maxAge}, nil
}

// Save writes the user's cookies atomically
func (c *StateCache) Save(userID string, cookies []*proto.NetworkCookie) error {
	state := cachedState{
		UserID:  userID,
		SavedAt: time.Now(),
		Cookies: cookies,
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	path := c.path(userID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to finalize state: %w", err)
	}
	return nil
}

// Load returns the user's cached cookies, or ErrNoCachedState
func (c *StateCache) Load(userID string) ([]*proto.NetworkCookie, error) {
	data, err := os.ReadFile(c.path(userID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoCachedState
		}
		return nil, err
	}

	var state cachedState
	if err := json.Unmarshal(data, &state); err != nil {
		// Corrupt cache reads as missing; the next save overwrites it
		return nil, ErrNoCachedState
	}

	if c.maxAge > 0 && time.Since(state.SavedAt) > c.maxAge {
		return nil, ErrNoCachedState
	}

	return state.Cookies, nil
}

// Clear removes the user's cached state
func (c *StateCache) Clear(userID string) error {
	err := os.Remove(c.path(userID))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (c *StateCache) path(userID string) string {
	return filepath.Join(c.dir, userID+".cookies.json")
}
