package keyring

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestFileKeyringRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "keyring.json")
	fk := NewFileKeyring(path, "secret")

	_, err := fk.Get("svc", "token")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, fk.Set("svc", "token", "abc"))
	got, err := fk.Get("svc", "token")
	require.NoError(t, err)
	assert.Equal(t, "abc", got)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "abc")

	require.NoError(t, fk.Delete("svc", "token"))
	_, err = fk.Get("svc", "token")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileKeyringDeleteMissing(t *testing.T) {
	fk := NewFileKeyring(filepath.Join(t.TempDir(), "keyring.json"), "secret")
	assert.NoError(t, fk.Delete("svc", "nothing"))

	require.NoError(t, fk.Set("svc", "a", "1"))
	assert.NoError(t, fk.Delete("svc", "nothing"))
}

func TestFileKeyringWrongPassword(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keyring.json")
	require.NoError(t, NewFileKeyring(path, "one").Set("svc", "token", "abc"))

	_, err := NewFileKeyring(path, "two").Get("svc", "token")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestFileKeyringCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keyring.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileKeyring(path, "x").Get("svc", "token")
	assert.Error(t, err)
}

func TestManagerSystemBackend(t *testing.T) {
	keyring.MockInit()
	km := NewKeyringManager(BackendSystem, "", "")
	assert.False(t, km.UsesFile())

	_, err := km.Get("svc", "user")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, km.Set("svc", "user", "v"))
	got, err := km.Get("svc", "user")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	require.NoError(t, km.Delete("svc", "user"))
	assert.NoError(t, km.Delete("svc", "user"))
}

func TestManagerFileBackend(t *testing.T) {
	km := NewKeyringManager(BackendFile, filepath.Join(t.TempDir(), "k.json"), "pw")
	assert.True(t, km.UsesFile())
	require.NoError(t, km.Set("svc", "user", "v"))
	got, err := km.Get("svc", "user")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestManagerAutoPrefersSystem(t *testing.T) {
	keyring.MockInit()
	km := NewKeyringManager(BackendAuto, filepath.Join(t.TempDir(), "k.json"), "pw")
	assert.False(t, km.UsesFile())
}

func TestDefaultKeyringPathEnv(t *testing.T) {
	t.Setenv("EAW_KEYRING_PATH", "/tmp/custom.json")
	assert.Equal(t, "/tmp/custom.json", GetDefaultKeyringPath())

	t.Setenv("EAW_KEYRING_PASSWORD", "pw")
	assert.Equal(t, "pw", GetMasterPasswordFromEnv())
}
