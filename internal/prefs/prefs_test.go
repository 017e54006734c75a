package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLastDirRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	require.Empty(t, LastDir())

	pics := t.TempDir()
	require.NoError(t, SaveLastDir(pics))
	require.Equal(t, pics, LastDir())

	p, err := Load()
	require.NoError(t, err)
	require.Equal(t, pics, p.LastDir)
}

func TestLastDirIgnoresVanishedDirectory(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	gone := filepath.Join(t.TempDir(), "gone")
	require.NoError(t, os.Mkdir(gone, 0o755))
	require.NoError(t, SaveLastDir(gone))
	require.NoError(t, os.Remove(gone))
	require.Empty(t, LastDir())
}
