package ports

import (
	"context"
	"iter"
)

// WatchOp describes a file system change.
type WatchOp int

const (
	// OpCreate is a new file or directory.
	OpCreate WatchOp = iota
	// OpWrite is a content change.
	OpWrite
	// OpRemove is a deletion.
	OpRemove
	// OpRename is a move away from the path.
	OpRename
)

// WatchEvent is a change to a single path.
type WatchEvent struct {
	Path      string
	Operation WatchOp
}

// Watcher observes a directory tree for changes.
//
//go:generate go run go.uber.org/mock/mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type Watcher interface {
	// Start begins watching root recursively until ctx is done.
	Start(ctx context.Context, root string) error
	// Stop releases the watcher.
	Stop() error
	// Events yields changes until the watcher stops.
	Events() iter.Seq[WatchEvent]
}
