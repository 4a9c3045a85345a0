// Package fs provides file system adapters for discovering, reading and
// fingerprinting manifests.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
	"slices"

	"go.trai.ch/reqs/internal/core/ports"
	"go.trai.ch/zerr"
)

// skipDirs are never descended into during discovery.
var skipDirs = []string{
	".git",
	".jj",
	".hg",
	".reqs",
	".tox",
	".venv",
	"venv",
	"node_modules",
	"__pycache__",
	"site-packages",
}

// Walker provides file walking functionality.
type Walker struct{}

var _ ports.ManifestFinder = (*Walker)(nil)

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields every file below root, skipping version control,
// virtual environment and ignored directories. Paths start with root.
func (w *Walker) WalkFiles(root string, ignores []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // unreadable entries are skipped
			}

			if d.IsDir() {
				if path != root && w.shouldSkipDir(d.Name(), ignores) {
					return filepath.SkipDir
				}
				return nil
			}

			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func (w *Walker) shouldSkipDir(name string, ignores []string) bool {
	if slices.Contains(skipDirs, name) {
		return true
	}
	for _, ignore := range ignores {
		if matched, _ := filepath.Match(ignore, name); matched {
			return true
		}
	}
	return false
}

// Discover returns the files below root whose base name matches pattern,
// relative to root and sorted.
func (w *Walker) Discover(root, pattern string) ([]string, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "invalid discovery pattern"), "pattern", pattern)
	}

	var found []string
	for path := range w.WalkFiles(root, nil) {
		if matched, _ := filepath.Match(pattern, filepath.Base(path)); !matched {
			continue
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to relativize path"), "path", path)
		}
		found = append(found, rel)
	}

	slices.Sort(found)
	return found, nil
}
