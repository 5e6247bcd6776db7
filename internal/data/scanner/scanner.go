package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/penwyp/go-hours-report/internal/util"
)

// SupportedExtensions lists the input formats the loader understands.
var SupportedExtensions = []string{".xlsx", ".csv"}

// FileScanner resolves the configured data paths into input files.
type FileScanner struct {
	paths []string
}

func NewFileScanner(paths ...string) *FileScanner {
	return &FileScanner{paths: paths}
}

// IsSupported reports whether path looks like a work log file. Office lock
// files ("~$hours.xlsx") are ignored.
func IsSupported(path string) bool {
	if strings.HasPrefix(filepath.Base(path), "~$") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range SupportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

// Scan returns every supported file. Explicit file arguments are kept even
// when their extension is unknown so the loader can report it; directories
// are walked recursively. Duplicates are removed and the result is sorted.
func (s *FileScanner) Scan() ([]string, error) {
	start := time.Now()
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, root := range s.paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("data path %s: %w", root, err)
		}

		if !info.IsDir() {
			add(root)
			continue
		}

		util.LogDebugf("Start scanning directory: %s", root)
		err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				util.LogDebugf("Skip file (error): %s - %v", path, err)
				return nil
			}
			if !info.IsDir() && IsSupported(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	util.LogDebugf("File scan completed: duration %v, %d paths, found %d files",
		time.Since(start), len(s.paths), len(files))

	return files, nil
}
