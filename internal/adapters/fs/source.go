package fs

import (
	"context"
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/reqs/internal/core/domain"
	"go.trai.ch/reqs/internal/core/ports"
	"go.trai.ch/zerr"
)

const defaultFileMode iofs.FileMode = 0o644

var _ ports.ManifestSource = (*Source)(nil)

// Source reads and writes manifests on the local file system.
type Source struct{}

// NewSource creates a new Source.
func NewSource() *Source {
	return &Source{}
}

// Read returns the content of the manifest at path.
func (s *Source) Read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return nil, zerr.With(zerr.Wrap(domain.ErrManifestNotFound, "no such file"), "path", path)
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read manifest"), "path", path)
	}
	return data, nil
}

// Write replaces the manifest at path, keeping its permissions. The new
// content is written to a sibling file first and renamed into place.
func (s *Source) Write(path string, data []byte) error {
	mode := defaultFileMode
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create temporary manifest"), "path", path)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.With(zerr.Wrap(err, "failed to write manifest"), "path", path)
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return zerr.With(zerr.Wrap(err, "failed to set manifest permissions"), "path", path)
	}
	if err := tmp.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write manifest"), "path", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to replace manifest"), "path", path)
	}
	return nil
}

// Resolve returns the path of target as referenced from the manifest at
// from. Relative targets are resolved against the directory of from.
func (s *Source) Resolve(from, target string) string {
	if filepath.IsAbs(target) {
		return filepath.Clean(target)
	}
	return filepath.Join(filepath.Dir(from), filepath.FromSlash(target))
}
