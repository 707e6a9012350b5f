package envfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const credentials = `# Zoho Books
ZOHO_CLIENT_ID=1000.ABC
ZOHO_CLIENT_SECRET=secret
ZOHO_ACCESS_TOKEN=old-token
ZOHO_REFRESH_TOKEN=1000.refresh
`

func newStore(t *testing.T, contents string) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "credentials.env")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))

	return NewStore(path)
}

func TestGet(t *testing.T) {
	store := newStore(t, credentials)

	v, err := store.Get("ZOHO_CLIENT_ID")
	require.NoError(t, err)
	assert.Equal(t, "1000.ABC", v)

	v, err = store.Get("ZOHO_REDIRECT_URL")
	require.NoError(t, err)
	assert.Equal(t, "", v)
}

func TestGetWithMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.env"))

	_, err := store.Get("ZOHO_CLIENT_ID")
	assert.Error(t, err)
}

func TestSetReplacesOnlyTheTargetLine(t *testing.T) {
	store := newStore(t, credentials)

	require.NoError(t, store.Set("ZOHO_ACCESS_TOKEN", "new-token"))

	b, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	expected := `# Zoho Books
ZOHO_CLIENT_ID=1000.ABC
ZOHO_CLIENT_SECRET=secret
ZOHO_ACCESS_TOKEN=new-token
ZOHO_REFRESH_TOKEN=1000.refresh
`
	assert.Equal(t, expected, string(b))
}

func TestSetAppendsMissingKey(t *testing.T) {
	store := newStore(t, "ZOHO_CLIENT_ID=1000.ABC")

	require.NoError(t, store.Set("ZOHO_ACCESS_TOKEN", "new-token"))

	b, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, "ZOHO_CLIENT_ID=1000.ABC\nZOHO_ACCESS_TOKEN=new-token\n", string(b))
}

func TestSetPreservesCRLF(t *testing.T) {
	store := newStore(t, "A=1\r\nZOHO_ACCESS_TOKEN=old\r\nB=2\r\n")

	require.NoError(t, store.Set("ZOHO_ACCESS_TOKEN", "new"))

	b, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, "A=1\r\nZOHO_ACCESS_TOKEN=new\r\nB=2\r\n", string(b))
}

func TestSetDoesNotMatchKeyPrefix(t *testing.T) {
	store := newStore(t, "ZOHO_ACCESS_TOKEN_EXPIRY=3600\n")

	require.NoError(t, store.Set("ZOHO_ACCESS_TOKEN", "new"))

	b, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, "ZOHO_ACCESS_TOKEN_EXPIRY=3600\nZOHO_ACCESS_TOKEN=new\n", string(b))
}

func TestSetReplacesExportAndSpacedForms(t *testing.T) {
	store := newStore(t, "export ZOHO_CLIENT_ID=1000.ABC\nZOHO_ACCESS_TOKEN = old\r\n  export ZOHO_REFRESH_TOKEN: 1000.refresh\n# ZOHO_ACCESS_TOKEN=commented\n")

	require.NoError(t, store.Set("ZOHO_ACCESS_TOKEN", "new-token"))
	require.NoError(t, store.Set("ZOHO_REFRESH_TOKEN", "1000.rotated"))

	b, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, "export ZOHO_CLIENT_ID=1000.ABC\nZOHO_ACCESS_TOKEN = new-token\r\n  export ZOHO_REFRESH_TOKEN: 1000.rotated\n# ZOHO_ACCESS_TOKEN=commented\n", string(b))

	v, err := store.Get("ZOHO_ACCESS_TOKEN")
	require.NoError(t, err)
	assert.Equal(t, "new-token", v)
}

func TestSetCreatesMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "credentials.env"))

	require.NoError(t, store.Set("ZOHO_ACCESS_TOKEN", "new-token"))

	v, err := store.Get("ZOHO_ACCESS_TOKEN")
	require.NoError(t, err)
	assert.Equal(t, "new-token", v)
}

func TestSetPreservesFileMode(t *testing.T) {
	store := newStore(t, credentials)
	require.NoError(t, os.Chmod(store.Path(), 0640))

	require.NoError(t, store.Set("ZOHO_ACCESS_TOKEN", "new-token"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0640), info.Mode().Perm())
}

func TestSetWithInvalidValue(t *testing.T) {
	store := newStore(t, credentials)

	assert.Error(t, store.Set("ZOHO_ACCESS_TOKEN", "line1\nline2"))
	assert.Error(t, store.Set("", "value"))

	b, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, credentials, string(b))
}
