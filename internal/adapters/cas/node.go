package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/reqs/internal/adapters/config"
	"go.trai.ch/reqs/internal/core/domain"
	"go.trai.ch/reqs/internal/core/ports"
)

// NodeID is the unique identifier for the state store Graft node.
const NodeID graft.ID = "adapter.state_store"

func init() {
	graft.Register(graft.Node[ports.StateStore]{
		ID:        NodeID,
		// Resolved from the working directory on every execution.
		Cacheable: false,
		DependsOn: []graft.ID{config.SettingsNodeID},
		Run: func(ctx context.Context) (ports.StateStore, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return NewStore(cfg.StatePath), nil
		},
	})
}
