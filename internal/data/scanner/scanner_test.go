package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0644))
	}
}

func TestNewFileScanner(t *testing.T) {
	scanner := NewFileScanner("/tmp/test")

	assert.NotNil(t, scanner)
	assert.Equal(t, "/tmp/test", scanner.baseDir)
}

func TestFileScannerScanEmptyDirectory(t *testing.T) {
	files, err := NewFileScanner(t.TempDir()).Scan()

	require.NoError(t, err)
	assert.Empty(t, files, "Empty directory should return no files")
}

func TestFileScannerScanNonExistentDirectory(t *testing.T) {
	files, err := NewFileScanner("/path/that/does/not/exist").Scan()

	require.NoError(t, err, "Scanner should handle non-existent directory gracefully")
	assert.Empty(t, files)
}

func TestFileScannerScanWithCallLogs(t *testing.T) {
	tempDir := t.TempDir()
	writeFiles(t, tempDir,
		"b.jsonl",
		"a.jsonl",
		"upper.JSONL",
		"data.json",
		"readme.txt",
		"subdir/c.jsonl",
		"subdir/other.log",
	)

	files, err := NewFileScanner(tempDir).Scan()
	require.NoError(t, err)

	expected := []string{
		filepath.Join(tempDir, "a.jsonl"),
		filepath.Join(tempDir, "b.jsonl"),
		filepath.Join(tempDir, "subdir", "c.jsonl"),
		filepath.Join(tempDir, "upper.JSONL"),
	}
	assert.Equal(t, expected, files)
}

func TestIsCallLog(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"calls.jsonl", true},
		{"CALLS.JSONL", true},
		{"/var/log/app/calls.jsonl", true},
		{"calls.json", false},
		{"calls.jsonl.bak", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsCallLog(tt.path))
		})
	}
}

func TestExpandPaths(t *testing.T) {
	tempDir := t.TempDir()
	logDir := filepath.Join(tempDir, "logs")
	writeFiles(t, tempDir, "single.txt", "logs/one.jsonl", "logs/two.jsonl", "logs/skip.txt")
	missing := filepath.Join(tempDir, "missing.jsonl")

	files, err := ExpandPaths([]string{
		filepath.Join(tempDir, "single.txt"),
		logDir,
		missing,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(tempDir, "single.txt"),
		filepath.Join(logDir, "one.jsonl"),
		filepath.Join(logDir, "two.jsonl"),
		missing,
	}, files)
}

func TestExpandPathsEmptyDirectory(t *testing.T) {
	files, err := ExpandPaths([]string{t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, files)
}
