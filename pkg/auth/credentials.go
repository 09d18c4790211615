package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// Session is one user's Pinterest session credential: the value of the
// session cookie captured from a logged-in browser, plus optional login
// credentials for the form-based strategy.
type Session struct {
	UserID       string    `json:"user_id"`
	Cookie       string    `json:"cookie"`
	Email        string    `json:"email,omitempty"`
	Password     string    `json:"password,omitempty"`
	UserAgent    string    `json:"user_agent,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// HasCookie reports whether the cookie-injection login strategy applies.
func (s *Session) HasCookie() bool {
	return s != nil && s.Cookie != ""
}

// HasCredentials reports whether the form-login strategy applies.
func (s *Session) HasCredentials() bool {
	return s != nil && s.Email != "" && s.Password != ""
}

// Store is the interface for storing and retrieving session credentials
type Store interface {
	// Store saves the credential for a user
	Store(session *Session) error

	// Retrieve gets the credential for a specific user id
	Retrieve(userID string) (*Session, error)

	// List returns all stored credentials
	List() ([]*Session, error)

	// Delete removes the credential for a specific user id
	Delete(userID string) error

	// Exists checks if a credential exists for a user id
	Exists(userID string) bool
}

// Manager handles credential storage with fallback mechanisms. The
// environment store is consulted first so cron deployments with
// PINFEED_SESSION_<USER> variables win over interactively stored state.
type Manager struct {
	stores []Store
}

// NewManager creates a new credential manager with appropriate backends
func NewManager(envPrefix string) (*Manager, error) {
	stores := []Store{NewEnvironmentStore(envPrefix)}

	// Keyring when the system keychain is usable
	keyringStore, err := NewKeyringStore()
	if err == nil {
		stores = append(stores, keyringStore)
	}

	// Encrypted file as the always-available persistent fallback
	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	encryptedStore, err := NewEncryptedFileStore(filepath.Join(configDir, "sessions.enc"))
	if err != nil {
		return nil, fmt.Errorf("failed to create encrypted store: %w", err)
	}
	stores = append(stores, encryptedStore)

	return &Manager{stores: stores}, nil
}

// NewManagerWithStores creates a manager with an explicit store chain
func NewManagerWithStores(stores ...Store) *Manager {
	return &Manager{stores: stores}
}

// Store saves the credential using the first store that accepts it
func (m *Manager) Store(session *Session) error {
	if session.UserID == "" {
		return errors.New("user id is required")
	}
	if session.Cookie == "" && !session.HasCredentials() {
		return errors.New("a session cookie or email/password pair is required")
	}

	session.LastModified = time.Now()

	var lastErr error
	for _, store := range m.stores {
		if err := store.Store(session); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}

	if lastErr != nil {
		return fmt.Errorf("failed to store credential: %w", lastErr)
	}
	return errors.New("no available credential stores")
}

// Retrieve gets the credential from the first store that has it
func (m *Manager) Retrieve(userID string) (*Session, error) {
	for _, store := range m.stores {
		if session, err := store.Retrieve(userID); err == nil && session != nil {
			return session, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, userID)
}

// List returns all stored credentials from all stores
func (m *Manager) List() ([]*Session, error) {
	byUser := make(map[string]*Session)

	for _, store := range m.stores {
		sessions, err := store.List()
		if err != nil {
			continue
		}
		for _, session := range sessions {
			if existing, ok := byUser[session.UserID]; !ok || session.LastModified.After(existing.LastModified) {
				byUser[session.UserID] = session
			}
		}
	}

	var result []*Session
	for _, session := range byUser {
		result = append(result, session)
	}

	return result, nil
}

// Delete removes the credential from all stores
func (m *Manager) Delete(userID string) error {
	var deleted bool
	var lastErr error

	for _, store := range m.stores {
		if err := store.Delete(userID); err == nil {
			deleted = true
		} else {
			lastErr = err
		}
	}

	if !deleted && lastErr != nil {
		return fmt.Errorf("failed to delete credential: %w", lastErr)
	}
	if !deleted {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, userID)
	}

	return nil
}

// getConfigDir returns the configuration directory path
func getConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, "Library", "Application Support", "pinfeed")
	case "windows":
		configDir = filepath.Join(os.Getenv("APPDATA"), "pinfeed")
	default: // Linux and others
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			configDir = filepath.Join(xdgConfig, "pinfeed")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			configDir = filepath.Join(home, ".config", "pinfeed")
		}
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// EnvVarName returns the environment variable that holds a user's session
// cookie: <PREFIX>_<USER_ID uppercased, dashes mapped to underscores>.
func EnvVarName(prefix, userID string) string {
	suffix := strings.ToUpper(strings.ReplaceAll(userID, "-", "_"))
	return prefix + "_" + suffix
}

// Sanitize creates a copy of the session with sensitive data masked
func Sanitize(session *Session) *Session {
	if session == nil {
		return nil
	}

	return &Session{
		UserID:       session.UserID,
		Cookie:       Mask(session.Cookie),
		Email:        session.Email,
		Password:     Mask(session.Password),
		UserAgent:    session.UserAgent,
		LastModified: session.LastModified,
	}
}

// Mask hides all but the first 4 and last 4 characters of a secret
func Mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

// Errors
var (
	ErrSessionNotFound  = errors.New("session credential not found")
	ErrInvalidSession   = errors.New("invalid session credential")
	ErrStoreUnavailable = errors.New("credential store unavailable")
)
