package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvVarName(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		userID string
		want   string
	}{
		{"simple", "PINFEED_SESSION", "alice", "PINFEED_SESSION_ALICE"},
		{"dashes become underscores", "PINFEED_SESSION", "craft-ideas", "PINFEED_SESSION_CRAFT_IDEAS"},
		{"already upper", "PINFEED_SESSION", "BOB", "PINFEED_SESSION_BOB"},
		{"mixed", "PINFEED_SESSION", "Team-42", "PINFEED_SESSION_TEAM_42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EnvVarName(tt.prefix, tt.userID))
		})
	}
}

func TestEnvironmentStore(t *testing.T) {
	store := NewEnvironmentStore("PINFEED_SESSION")

	t.Run("missing variable", func(t *testing.T) {
		_, err := store.Retrieve("nobody-here")
		assert.ErrorIs(t, err, ErrSessionNotFound)
		assert.False(t, store.Exists("nobody-here"))
	})

	t.Run("set variable", func(t *testing.T) {
		t.Setenv("PINFEED_SESSION_ALICE", "cookie-value-123")

		session, err := store.Retrieve("alice")
		require.NoError(t, err)
		assert.Equal(t, "alice", session.UserID)
		assert.Equal(t, "cookie-value-123", session.Cookie)
		assert.True(t, store.Exists("alice"))
	})

	t.Run("dashed user id", func(t *testing.T) {
		t.Setenv("PINFEED_SESSION_CRAFT_IDEAS", "cookie-value-456")

		session, err := store.Retrieve("craft-ideas")
		require.NoError(t, err)
		assert.Equal(t, "cookie-value-456", session.Cookie)
	})

	t.Run("write operations unsupported", func(t *testing.T) {
		assert.ErrorIs(t, store.Store(&Session{UserID: "alice", Cookie: "x"}), ErrStoreUnavailable)
		assert.ErrorIs(t, store.Delete("alice"), ErrStoreUnavailable)
	})
}

func TestManagerFallbackOrder(t *testing.T) {
	first := NewMockStore()
	second := NewMockStore()
	manager := NewManagerWithStores(first, second)

	require.NoError(t, second.Store(&Session{UserID: "alice", Cookie: "from-second"}))

	session, err := manager.Retrieve("alice")
	require.NoError(t, err)
	assert.Equal(t, "from-second", session.Cookie)

	// First store wins once it has the credential
	require.NoError(t, first.Store(&Session{UserID: "alice", Cookie: "from-first"}))

	session, err = manager.Retrieve("alice")
	require.NoError(t, err)
	assert.Equal(t, "from-first", session.Cookie)
}

func TestManagerStore(t *testing.T) {
	t.Run("requires user id", func(t *testing.T) {
		manager := NewManagerWithStores(NewMockStore())
		err := manager.Store(&Session{Cookie: "x"})
		assert.Error(t, err)
	})

	t.Run("requires cookie or credentials", func(t *testing.T) {
		manager := NewManagerWithStores(NewMockStore())
		err := manager.Store(&Session{UserID: "alice"})
		assert.Error(t, err)

		err = manager.Store(&Session{UserID: "alice", Email: "a@example.com", Password: "pw"})
		assert.NoError(t, err)
	})

	t.Run("falls through failing store", func(t *testing.T) {
		failing := NewMockStore()
		failing.StoreErr = ErrStoreUnavailable
		working := NewMockStore()
		manager := NewManagerWithStores(failing, working)

		require.NoError(t, manager.Store(&Session{UserID: "alice", Cookie: "x"}))
		assert.True(t, working.Exists("alice"))
	})

	t.Run("sets last modified", func(t *testing.T) {
		store := NewMockStore()
		manager := NewManagerWithStores(store)

		require.NoError(t, manager.Store(&Session{UserID: "alice", Cookie: "x"}))

		session, err := store.Retrieve("alice")
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now(), session.LastModified, time.Minute)
	})
}

func TestManagerDelete(t *testing.T) {
	store := NewMockStore()
	manager := NewManagerWithStores(NewEnvironmentStore("PINFEED_SESSION"), store)

	require.NoError(t, store.Store(&Session{UserID: "alice", Cookie: "x"}))
	require.NoError(t, manager.Delete("alice"))
	assert.False(t, store.Exists("alice"))

	err := manager.Delete("alice")
	assert.Error(t, err)
}

func TestManagerList(t *testing.T) {
	older := NewMockStore()
	newer := NewMockStore()
	require.NoError(t, older.Store(&Session{UserID: "alice", Cookie: "old", LastModified: time.Now().Add(-time.Hour)}))
	require.NoError(t, newer.Store(&Session{UserID: "alice", Cookie: "new", LastModified: time.Now()}))
	require.NoError(t, newer.Store(&Session{UserID: "bob", Cookie: "b"}))

	manager := NewManagerWithStores(older, newer)

	sessions, err := manager.List()
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	byUser := make(map[string]*Session)
	for _, s := range sessions {
		byUser[s.UserID] = s
	}
	assert.Equal(t, "new", byUser["alice"].Cookie)
	assert.Equal(t, "b", byUser["bob"].Cookie)
}

func TestEncryptedFileStore(t *testing.T) {
	t.Setenv("PINFEED_PASSPHRASE", "test-passphrase")

	dir := t.TempDir()
	store, err := NewEncryptedFileStore(dir + "/sessions.enc")
	require.NoError(t, err)

	session := &Session{
		UserID:   "alice",
		Cookie:   "secret-cookie",
		Email:    "alice@example.com",
		Password: "secret-password",
	}

	require.NoError(t, store.Store(session))

	got, err := store.Retrieve("alice")
	require.NoError(t, err)
	assert.Equal(t, "secret-cookie", got.Cookie)
	assert.Equal(t, "alice@example.com", got.Email)

	// Reopen with the same passphrase
	reopened, err := NewEncryptedFileStore(dir + "/sessions.enc")
	require.NoError(t, err)

	got, err = reopened.Retrieve("alice")
	require.NoError(t, err)
	assert.Equal(t, "secret-cookie", got.Cookie)

	// Last session deleted removes the file
	require.NoError(t, store.Delete("alice"))
	_, err = store.Retrieve("alice")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMask(t *testing.T) {
	assert.Equal(t, "", Mask(""))
	assert.Equal(t, "********", Mask("short"))
	assert.Equal(t, "********", Mask("12345678"))
	assert.Equal(t, "abcd...wxyz", Mask("abcdefghijklmnopqrstuvwxyz"))
}

func TestSanitize(t *testing.T) {
	assert.Nil(t, Sanitize(nil))

	session := &Session{
		UserID:   "alice",
		Cookie:   "a-very-long-session-cookie-value",
		Email:    "alice@example.com",
		Password: "hunter2hunter2",
	}

	clean := Sanitize(session)
	assert.Equal(t, "alice", clean.UserID)
	assert.NotContains(t, clean.Cookie, "session-cookie")
	assert.NotEqual(t, session.Password, clean.Password)
	assert.Equal(t, session.Email, clean.Email)

	// Original untouched
	assert.Equal(t, "a-very-long-session-cookie-value", session.Cookie)
}

func TestSessionPredicates(t *testing.T) {
	var nilSession *Session
	assert.False(t, nilSession.HasCookie())
	assert.False(t, nilSession.HasCredentials())

	assert.True(t, (&Session{Cookie: "x"}).HasCookie())
	assert.False(t, (&Session{Email: "a"}).HasCredentials())
	assert.True(t, (&Session{Email: "a", Password: "b"}).HasCredentials())
}
