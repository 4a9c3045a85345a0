package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/reqs/internal/adapters/cas"                //nolint:depguard // Wired in app layer
	"go.trai.ch/reqs/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/reqs/internal/adapters/fs"                 //nolint:depguard // Wired in app layer
	"go.trai.ch/reqs/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/reqs/internal/adapters/render"             //nolint:depguard // Wired in app layer
	"go.trai.ch/reqs/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/reqs/internal/adapters/watcher"            //nolint:depguard // Wired in app layer
	"go.trai.ch/reqs/internal/core/ports"
	"go.trai.ch/reqs/internal/engine/scheduler"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		// Resolved from the working directory on every execution.
		Cacheable: false,
		DependsOn: []graft.ID{
			config.NodeID,
			scheduler.NodeID,
			fs.SourceNodeID,
			fs.FinderNodeID,
			fs.FingerprinterNodeID,
			cas.NodeID,
			render.NodeID,
			watcher.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		// Resolved from the working directory on every execution.
		Cacheable: false,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			progrock.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	configLoader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	loader, err := graft.Dep[*scheduler.Loader](ctx)
	if err != nil {
		return nil, err
	}

	source, err := graft.Dep[ports.ManifestSource](ctx)
	if err != nil {
		return nil, err
	}

	finder, err := graft.Dep[ports.ManifestFinder](ctx)
	if err != nil {
		return nil, err
	}

	fingerprinter, err := graft.Dep[ports.Fingerprinter](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.StateStore](ctx)
	if err != nil {
		return nil, err
	}

	renderer, err := graft.Dep[ports.Renderer](ctx)
	if err != nil {
		return nil, err
	}

	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(configLoader, loader, source, finder, fingerprinter, store, renderer, w, log), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	telemetry, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:       app,
		Logger:    log,
		Telemetry: telemetry,
	}, nil
}
