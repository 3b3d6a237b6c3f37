package upgrade

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorilla-devs/ferium-sub000/internal/sources"
)

func TestClean(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"keep.jar", "stale.jar", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.jar"), 0755))

	resolutions := []Resolution{
		{Name: "Keep", Data: sources.DownloadData{Output: "keep.jar"}},
		{Name: "New", Data: sources.DownloadData{Output: "new.jar"}},
	}

	moved, err := Clean(dir, resolutions, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"stale.jar"}, moved)

	assert.FileExists(t, filepath.Join(dir, "keep.jar"))
	assert.FileExists(t, filepath.Join(dir, "notes.txt"))
	assert.DirExists(t, filepath.Join(dir, "sub.jar"))
	assert.NoFileExists(t, filepath.Join(dir, "stale.jar"))
	assert.FileExists(t, filepath.Join(dir, OldDir, "stale.jar"))
}

func TestCleanMissingDirectory(t *testing.T) {
	moved, err := Clean(filepath.Join(t.TempDir(), "nope"), nil, nil)
	assert.NoError(t, err)
	assert.Empty(t, moved)
}
