package session_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmaloney/backoffice/internal/client"
	"github.com/rmaloney/backoffice/internal/session"
)

func sessionPath(t *testing.T) string {
	return filepath.Join(t.TempDir(), "session.json")
}

func TestStore_StartsLoggedOut(t *testing.T) {
	store, err := session.NewStore(sessionPath(t))
	require.NoError(t, err)

	assert.False(t, store.IsAuthenticated())
	assert.Empty(t, store.Token())
	assert.Nil(t, store.Current())
}

func TestStore_LoginPersistsAcrossRestarts(t *testing.T) {
	path := sessionPath(t)

	store, err := session.NewStore(path)
	require.NoError(t, err)

	user := &client.User{ID: "user123", Name: "Test User", Email: "user@example.com", Role: "user"}
	require.NoError(t, store.Login("token123", user))

	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, "token123", store.Token())

	// A fresh store against the same file restores the session
	restored, err := session.NewStore(path)
	require.NoError(t, err)

	assert.True(t, restored.IsAuthenticated())
	assert.Equal(t, "token123", restored.Token())
	require.NotNil(t, restored.Current())
	assert.Equal(t, "user123", restored.Current().ID)
	assert.Equal(t, "user@example.com", restored.Current().Email)
}

func TestStore_LogoutClearsSessionAndFile(t *testing.T) {
	path := sessionPath(t)

	store, err := session.NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Login("token123", &client.User{ID: "user123"}))

	require.NoError(t, store.Logout())

	assert.False(t, store.IsAuthenticated())
	assert.Empty(t, store.Token())
	assert.Nil(t, store.Current())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "session file should be removed on logout")

	// Restart after logout stays logged out
	restored, err := session.NewStore(path)
	require.NoError(t, err)
	assert.False(t, restored.IsAuthenticated())
}

func TestStore_LogoutWithoutLoginIsIdempotent(t *testing.T) {
	store, err := session.NewStore(sessionPath(t))
	require.NoError(t, err)

	assert.NoError(t, store.Logout())
	assert.NoError(t, store.Logout())
}

func TestStore_CorruptFileStartsLoggedOut(t *testing.T) {
	path := sessionPath(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store, err := session.NewStore(path)
	require.NoError(t, err)
	assert.False(t, store.IsAuthenticated())
}

func TestStore_FileIsOwnerOnly(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}

	path := sessionPath(t)
	store, err := session.NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Login("token123", &client.User{ID: "user123"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestStore_OnChangeFiresOnEveryTransition(t *testing.T) {
	store, err := session.NewStore(sessionPath(t))
	require.NoError(t, err)

	changes := 0
	store.OnChange(func() { changes++ })

	require.NoError(t, store.Login("token123", &client.User{ID: "user123"}))
	require.NoError(t, store.SetUser(&client.User{ID: "user123", Name: "Renamed"}))
	require.NoError(t, store.Logout())

	assert.Equal(t, 3, changes)
}
