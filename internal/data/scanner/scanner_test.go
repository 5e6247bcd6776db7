package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	return path
}

func TestIsSupported(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"hours.xlsx", true},
		{"HOURS.XLSX", true},
		{"export.csv", true},
		{"notes.txt", false},
		{"legacy.xls", false},
		{"~$hours.xlsx", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsSupported(tt.path))
		})
	}
}

func TestFileScannerScanDirectory(t *testing.T) {
	dir := t.TempDir()
	a := touch(t, filepath.Join(dir, "2024", "hours.xlsx"))
	b := touch(t, filepath.Join(dir, "2025", "hours.csv"))
	touch(t, filepath.Join(dir, "README.md"))
	touch(t, filepath.Join(dir, "2024", "~$hours.xlsx"))

	files, err := NewFileScanner(dir).Scan()

	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, files)
}

func TestFileScannerExplicitFilesAndDuplicates(t *testing.T) {
	dir := t.TempDir()
	a := touch(t, filepath.Join(dir, "hours.csv"))
	other := touch(t, filepath.Join(dir, "hours.txt"))

	files, err := NewFileScanner(a, dir, other).Scan()

	require.NoError(t, err)
	assert.Equal(t, []string{a, other}, files)
}

func TestFileScannerEmptyDirectory(t *testing.T) {
	files, err := NewFileScanner(t.TempDir()).Scan()

	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFileScannerMissingPath(t *testing.T) {
	files, err := NewFileScanner("/path/that/does/not/exist").Scan()

	assert.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Nil(t, files)
}
