package auth

import (
	"os"
	"time"
)

// EnvironmentStore implements Store using per-user environment variables.
// The variable name follows the <PREFIX>_<USER_ID_UPPER> convention; this is
// the primary source in cron deployments.
type EnvironmentStore struct {
	prefix string
}

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore(prefix string) *EnvironmentStore {
	return &EnvironmentStore{prefix: prefix}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(session *Session) error {
	return ErrStoreUnavailable
}

// Retrieve gets the session cookie from the user's environment variable
func (e *EnvironmentStore) Retrieve(userID string) (*Session, error) {
	if userID == "" {
		return nil, ErrInvalidSession
	}

	cookie := os.Getenv(EnvVarName(e.prefix, userID))
	if cookie == "" {
		return nil, ErrSessionNotFound
	}

	return &Session{
		UserID:       userID,
		Cookie:       cookie,
		LastModified: time.Now(),
	}, nil
}

// List is not supported: user ids are not discoverable from the environment
func (e *EnvironmentStore) List() ([]*Session, error) {
	return []*Session{}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(userID string) error {
	return ErrStoreUnavailable
}

// Exists checks if the user's environment variable is set
func (e *EnvironmentStore) Exists(userID string) bool {
	return os.Getenv(EnvVarName(e.prefix, userID)) != ""
}
