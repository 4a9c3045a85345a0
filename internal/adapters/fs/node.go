package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/reqs/internal/core/ports"
)

const (
	// SourceNodeID is the unique identifier for the manifest source Graft node.
	SourceNodeID graft.ID = "adapter.manifest_source"
	// FinderNodeID is the unique identifier for the manifest finder Graft node.
	FinderNodeID graft.ID = "adapter.manifest_finder"
	// FingerprinterNodeID is the unique identifier for the fingerprinter Graft node.
	FingerprinterNodeID graft.ID = "adapter.fingerprinter"
)

func init() {
	graft.Register(graft.Node[ports.ManifestSource]{
		ID:        SourceNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ManifestSource, error) {
			return NewSource(), nil
		},
	})

	graft.Register(graft.Node[ports.ManifestFinder]{
		ID:        FinderNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ManifestFinder, error) {
			return NewWalker(), nil
		},
	})

	graft.Register(graft.Node[ports.Fingerprinter]{
		ID:        FingerprinterNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Fingerprinter, error) {
			return NewHasher(), nil
		},
	})
}
