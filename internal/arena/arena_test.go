package arena

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTempFile(t *testing.T) {
	base := t.TempDir()
	a, err := New(base, nil)
	require.NoError(t, err)

	path, err := a.NewTempFile([]byte("hello"))
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	assert.True(t, filepath.IsAbs(path))
	assert.Contains(t, a.ReservedFiles(), path)
}

func TestReservePortRecordsPort(t *testing.T) {
	a, err := New(t.TempDir(), nil)
	require.NoError(t, err)

	p1, err := a.ReservePort()
	require.NoError(t, err)
	assert.Greater(t, p1, 0)

	assert.Contains(t, a.ReservedPorts(), p1)
}

func TestReleaseAllRemovesDirAndIsIdempotent(t *testing.T) {
	base := t.TempDir()
	a, err := New(base, nil)
	require.NoError(t, err)

	path, err := a.NewTempFile([]byte("x"))
	require.NoError(t, err)

	a.ReleaseAll()
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Idempotent: calling again must not panic or error.
	a.ReleaseAll()
}
