package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/penwyp/go-api-cost-tracker/internal/util"
)

const callLogExt = ".jsonl"

// FileScanner finds call logs under a directory
type FileScanner struct {
	baseDir string
}

// NewFileScanner creates a new FileScanner instance
func NewFileScanner(baseDir string) *FileScanner {
	return &FileScanner{baseDir: baseDir}
}

// Scan returns every .jsonl file under the directory, sorted by path.
// Unreadable entries are skipped.
func (s *FileScanner) Scan() ([]string, error) {
	start := time.Now()
	var files []string
	dirCount := 0

	util.LogDebug(fmt.Sprintf("Start scanning directory: %s", s.baseDir))

	err := filepath.WalkDir(s.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			util.LogDebug(fmt.Sprintf("Skip file (error): %s - %v", path, err))
			return nil
		}
		if d.IsDir() {
			dirCount++
			return nil
		}
		if IsCallLog(path) {
			files = append(files, path)
		}
		return nil
	})

	sort.Strings(files)
	util.LogDebug(fmt.Sprintf("File scan completed: duration %v, scanned %d directories, found %d call logs",
		time.Since(start), dirCount, len(files)))

	return files, err
}

// IsCallLog reports whether path has the call log extension, ignoring case
func IsCallLog(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), callLogExt)
}

// ExpandPaths replaces each directory in paths with the call logs it contains.
// Files are kept as given whatever their extension; missing paths are kept so
// the caller can report them.
func ExpandPaths(paths []string) ([]string, error) {
	var result []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			result = append(result, path)
			continue
		}

		files, err := NewFileScanner(path).Scan()
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			util.LogWarnf("No call logs found in %s", path)
		}
		result = append(result, files...)
	}
	return result, nil
}
