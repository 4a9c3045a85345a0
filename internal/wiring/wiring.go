// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/reqs/internal/adapters/cas"
	_ "go.trai.ch/reqs/internal/adapters/config"
	_ "go.trai.ch/reqs/internal/adapters/fs"
	_ "go.trai.ch/reqs/internal/adapters/logger"
	_ "go.trai.ch/reqs/internal/adapters/render"
	_ "go.trai.ch/reqs/internal/adapters/telemetry/progrock"
	_ "go.trai.ch/reqs/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/reqs/internal/app"
	_ "go.trai.ch/reqs/internal/engine/scheduler"
)
