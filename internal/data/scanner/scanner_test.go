package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileScanner(t *testing.T) {
	scanner := NewFileScanner("/tmp/test")

	assert.Equal(t, "/tmp/test", scanner.baseDir)
	assert.Equal(t, DefaultExtensions, scanner.extensions)
}

func TestFileScannerScanEmptyDirectory(t *testing.T) {
	files, err := NewFileScanner(t.TempDir()).Scan()

	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFileScannerScanNonExistentDirectory(t *testing.T) {
	files, err := NewFileScanner("/path/that/does/not/exist").Scan()

	require.NoError(t, err, "walk errors are skipped")
	assert.Empty(t, files)
}

func TestFileScannerScanTraceFiles(t *testing.T) {
	tempDir := t.TempDir()

	testFiles := []struct {
		path    string
		isTrace bool
	}{
		{"layers.jsonl", true},
		{"windows.winscope", true},
		{"TX.JSONL", true},
		{"data.json", false},
		{"readme.txt", false},
		{"nested/video.jsonl", true},
		{"nested/other.log", false},
	}

	var expected []string
	for _, file := range testFiles {
		fullPath := filepath.Join(tempDir, file.path)
		require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0755))
		require.NoError(t, os.WriteFile(fullPath, []byte("{}"), 0644))
		if file.isTrace {
			expected = append(expected, fullPath)
		}
	}

	files, err := NewFileScanner(tempDir).Scan()
	require.NoError(t, err)
	assert.ElementsMatch(t, expected, files)
	assert.IsNonDecreasing(t, files)
}
