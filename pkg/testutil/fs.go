package testutil

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/sysdot/pkg/filesystem"
	"github.com/arthur-debert/sysdot/pkg/types"
	"github.com/stretchr/testify/require"
)

// NewMemoryFS returns an in-memory FS pre-populated with the given files.
func NewMemoryFS(t *testing.T, files map[string]string) types.FS {
	t.Helper()
	fs := filesystem.NewMemory()
	for path, content := range files {
		require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, fs.WriteFile(path, []byte(content), 0644))
	}
	return fs
}

// ReadFileString reads a file and fails the test on error.
func ReadFileString(t *testing.T, fs types.FS, path string) string {
	t.Helper()
	data, err := fs.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// Exists reports whether a path exists on the FS.
func Exists(fs types.FS, path string) bool {
	_, err := fs.Stat(path)
	return err == nil
}
