package walker

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FileInfo represents a file found under the walk root
type FileInfo struct {
	Path    string // Absolute path
	RelPath string // Slash-separated path relative to root
	Size    int64
}

// Walker walks regular files with extension and exclude pattern filters
type Walker struct {
	root       string
	extensions []string
	excludes   []string
}

// NewWalker creates a new file walker. An empty extensions list accepts every file.
func NewWalker(root string, extensions, excludes []string) (*Walker, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("get absolute path: %w", err)
	}

	for _, pattern := range excludes {
		if !doublestar.ValidatePattern(strings.TrimSuffix(pattern, "/")) {
			return nil, fmt.Errorf("invalid exclude pattern: %s", pattern)
		}
	}

	return &Walker{
		root:       absRoot,
		extensions: extensions,
		excludes:   excludes,
	}, nil
}

// Root returns the absolute walk root
func (w *Walker) Root() string {
	return w.root
}

// Walk walks the file tree and returns matching files.
// A root that does not exist yields no files.
func (w *Walker) Walk() ([]FileInfo, error) {
	info, err := os.Stat(w.root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", w.root)
	}

	var files []FileInfo

	err = filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.Type().IsRegular() {
			return nil
		}

		if !w.hasExtension(path) {
			return nil
		}

		relPath, err := filepath.Rel(w.root, path)
		if err != nil {
			return fmt.Errorf("get relative path: %w", err)
		}
		relPath = filepath.ToSlash(relPath)

		if w.isExcluded(relPath) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("get file info: %w", err)
		}

		files = append(files, FileInfo{
			Path:    path,
			RelPath: relPath,
			Size:    info.Size(),
		})

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	return files, nil
}

func (w *Walker) hasExtension(path string) bool {
	if len(w.extensions) == 0 {
		return true
	}
	ext := filepath.Ext(path)
	for _, want := range w.extensions {
		if ext == want {
			return true
		}
	}
	return false
}

// isExcluded checks if a path matches any exclude pattern
func (w *Walker) isExcluded(path string) bool {
	return IsExcluded(path, w.excludes)
}

// IsExcluded reports whether a slash-separated relative path matches any pattern.
// Patterns ending with / exclude everything under a matching directory.
func IsExcluded(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.HasSuffix(pattern, "/") {
			dirPattern := strings.TrimSuffix(pattern, "/")
			parts := strings.Split(path, "/")
			for i := 1; i < len(parts); i++ {
				subPath := strings.Join(parts[:i], "/")
				if matched, _ := doublestar.Match(dirPattern, subPath); matched {
					return true
				}
			}
			continue
		}
		if matched, _ := doublestar.Match(pattern, path); matched {
			return true
		}
	}
	return false
}
