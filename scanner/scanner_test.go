package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	tempDir := t.TempDir()
	for path, content := range files {
		fullPath := filepath.Join(tempDir, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
		require.NoError(t, os.WriteFile(fullPath, []byte(content), 0o644))
	}
	return tempDir
}

func TestProjectScanner(t *testing.T) {
	t.Parallel()

	tempDir := writeTree(t, map[string]string{
		"main.nano":           "print(1)",
		"lib.nn":              "x",
		"notes.txt":           "This is a text file",
		"subdir/util.nano":    "f()",
		".git/objects/a.nano": "hidden",
	})

	scannedFiles, err := New(tempDir, Extensions(".nano", ".nn")).Scan()
	require.NoError(t, err)

	var paths []string
	for _, file := range scannedFiles {
		paths = append(paths, file.Path)
		assert.Greater(t, file.Size, int64(0), "File size should be greater than 0")
	}

	assert.Equal(t, []string{
		filepath.Join(tempDir, "lib.nn"),
		filepath.Join(tempDir, "main.nano"),
		filepath.Join(tempDir, "subdir", "util.nano"),
	}, paths)
}

func TestScanner_NilFilter(t *testing.T) {
	t.Parallel()

	tempDir := writeTree(t, map[string]string{"a.txt": "a", "b/c.md": "c"})

	files, err := New(tempDir, nil).Scan()
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestScanner_MissingRoot(t *testing.T) {
	t.Parallel()

	_, err := New(filepath.Join(t.TempDir(), "missing"), nil).Scan()
	assert.Error(t, err)
}
