package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cloudtalk/internal/models"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "chat-user.json"))
	require.NoError(t, err)
	return store
}

func TestLoadWithoutSession(t *testing.T) {
	store := tempStore(t)

	_, ok, err := store.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store := tempStore(t)
	user := models.User{UID: "u1", DisplayName: "Alice", Email: "alice@cloudtalk.local"}

	require.NoError(t, store.Save(user))

	loaded, ok, err := store.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, user, loaded)
}

func TestClearRemovesSession(t *testing.T) {
	store := tempStore(t)
	require.NoError(t, store.Save(models.User{UID: "u1"}))

	require.NoError(t, store.Clear())
	_, ok, err := store.Load()
	require.NoError(t, err)
	assert.False(t, ok)

	// Clearing twice is fine.
	require.NoError(t, store.Clear())
}

func TestLoadCorruptSession(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chat-user.json")
	store, err := NewStore(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))
	_, _, err = store.Load()
	require.Error(t, err)
}
