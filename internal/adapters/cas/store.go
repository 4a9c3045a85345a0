// Package cas implements the lock state store.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/reqs/internal/core/domain"
	"go.trai.ch/reqs/internal/core/ports"
	"go.trai.ch/zerr"
)

// Store implements ports.StateStore using a flat JSON file keyed by
// manifest path.
type Store struct {
	path string

	once    sync.Once
	loadErr error

	mu    sync.RWMutex
	cache map[string]domain.ManifestState
}

var _ ports.StateStore = (*Store)(nil)

// NewStore creates a new StateStore backed by the file at the given path.
// The file is read on first use, and a missing file is an empty store.
func NewStore(path string) *Store {
	return &Store{
		path:  filepath.Clean(path),
		cache: make(map[string]domain.ManifestState),
	}
}

// Path returns the location of the state file.
func (s *Store) Path() string {
	return s.path
}

// ensureLoaded reads the state file once. A corrupt file fails every
// later Get and Put instead of being overwritten.
func (s *Store) ensureLoaded() error {
	s.once.Do(func() { s.loadErr = s.load() })
	return s.loadErr
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, "failed to read lock state"), "path", s.path)
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.cache); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrStateCorrupt, err.Error()), "path", s.path)
	}

	return nil
}

func (s *Store) save() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.cache, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return zerr.Wrap(err, "failed to marshal lock state")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory for lock state"), "path", dir)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return zerr.Wrap(err, "failed to create temporary lock state")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		return zerr.Wrap(err, "failed to write lock state")
	}
	if err := tmp.Close(); err != nil {
		return zerr.Wrap(err, "failed to write lock state")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to replace lock state"), "path", s.path)
	}

	return nil
}

// Get retrieves the locked state for a manifest path.
func (s *Store) Get(path string) (*domain.ManifestState, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.cache[filepath.ToSlash(path)]
	if !ok {
		return nil, nil
	}
	return &state, nil
}

// Put stores the state and persists the store.
func (s *Store) Put(state domain.ManifestState) error {
	if err := s.ensureLoaded(); err != nil {
		return err
	}
	state.Path = filepath.ToSlash(state.Path)

	s.mu.Lock()
	s.cache[state.Path] = state
	s.mu.Unlock()

	return s.save()
}
