package ports

import "go.trai.ch/reqs/internal/core/domain"

// StateStore defines the interface for storing and retrieving locked manifest state.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type StateStore interface {
	// Get retrieves the locked state for a manifest path.
	// Returns nil, nil if not found.
	Get(path string) (*domain.ManifestState, error)

	// Put stores the state.
	Put(state domain.ManifestState) error
}
