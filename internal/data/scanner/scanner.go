package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/penwyp/go-winscope/internal/util"
)

// DefaultExtensions are the file suffixes recognized as trace recordings
var DefaultExtensions = []string{".jsonl", ".winscope"}

// FileScanner finds trace files under a directory
type FileScanner struct {
	baseDir    string
	extensions []string
}

// NewFileScanner creates a new FileScanner instance
func NewFileScanner(baseDir string) *FileScanner {
	return &FileScanner{
		baseDir:    baseDir,
		extensions: DefaultExtensions,
	}
}

// Scan walks the directory and returns every trace file path, sorted
func (s *FileScanner) Scan() ([]string, error) {
	start := time.Now()
	var files []string
	dirCount := 0
	totalCount := 0

	util.LogDebugf("Start scanning directory: %s", s.baseDir)

	err := filepath.Walk(s.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			util.LogDebugf("Skip file (error): %s - %v", path, err)
			return nil
		}

		if info.IsDir() {
			dirCount++
			return nil
		}

		totalCount++
		if s.matches(path) {
			files = append(files, path)
		}
		return nil
	})

	sort.Strings(files)

	util.LogDebugf("File scan completed: duration %v, scanned %d directories, %d files, found %d trace files",
		time.Since(start), dirCount, totalCount, len(files))

	return files, err
}

func (s *FileScanner) matches(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range s.extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// IsTraceFile reports whether path has one of the default trace extensions
func IsTraceFile(path string) bool {
	return (&FileScanner{extensions: DefaultExtensions}).matches(path)
}
