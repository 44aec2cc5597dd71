// Package scanner finds the source files under a directory tree.
package scanner

import (
	"os"
	"path/filepath"
	"sort"
)

type FileInfo struct {
	Path string
	Size int64
}

// Scanner walks a directory and keeps the files accepted by its filter.
type Scanner struct {
	rootDir string
	accept  func(path string) bool
}

// New creates a scanner over rootDir. A nil accept keeps every file.
func New(rootDir string, accept func(path string) bool) *Scanner {
	return &Scanner{
		rootDir: rootDir,
		accept:  accept,
	}
}

// Extensions returns a filter accepting the given file extensions.
func Extensions(exts ...string) func(string) bool {
	set := make(map[string]bool, len(exts))
	for _, ext := range exts {
		set[ext] = true
	}
	return func(path string) bool {
		return set[filepath.Ext(path)]
	}
}

// Scan returns the accepted files sorted by path. Hidden directories are
// skipped.
func (s *Scanner) Scan() ([]FileInfo, error) {
	var files []FileInfo

	err := filepath.Walk(s.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if path != s.rootDir && isHidden(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if s.accept == nil || s.accept(path) {
			files = append(files, FileInfo{
				Path: path,
				Size: info.Size(),
			})
		}
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, err
}

func isHidden(name string) bool {
	return len(name) > 1 && name[0] == '.'
}
