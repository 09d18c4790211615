package auth

import "sync"

// MockStore is an in-memory Store for tests
type MockStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	// Optional error injection
	StoreErr    error
	RetrieveErr error
	ListErr     error
	DeleteErr   error
}

// NewMockStore creates an empty in-memory store
func NewMockStore() *MockStore {
	return &MockStore{sessions: make(map[string]*Session)}
}

func (m *MockStore) Store(session *Session) error {
	if m.StoreErr != nil {
		return m.StoreErr
	}
	if session == nil || session.UserID == "" {
		return ErrInvalidSession
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s := *session
	m.sessions[session.UserID] = &s
	return nil
}

func (m *MockStore) Retrieve(userID string) (*Session, error) {
	if m.RetrieveErr != nil {
		return nil, m.RetrieveErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[userID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	s := *session
	return &s, nil
}

func (m *MockStore) List() ([]*Session, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Session
	for _, session := range m.sessions {
		s := *session
		out = append(out, &s)
	}
	return out, nil
}

func (m *MockStore) Delete(userID string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[userID]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, userID)
	return nil
}

func (m *MockStore) Exists(userID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.sessions[userID]
	return ok
}
