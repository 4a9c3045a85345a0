package scheduler

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/reqs/internal/adapters/fs"                 //nolint:depguard // Wired in engine wiring
	"go.trai.ch/reqs/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/reqs/internal/core/ports"
)

// NodeID is the unique identifier for the loader Graft node.
const NodeID graft.ID = "engine.loader"

func init() {
	graft.Register(graft.Node[*Loader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fs.SourceNodeID,
			progrock.NodeID,
		},
		Run: func(ctx context.Context) (*Loader, error) {
			source, err := graft.Dep[ports.ManifestSource](ctx)
			if err != nil {
				return nil, err
			}

			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			return NewLoader(source, telemetry), nil
		},
	})
}
