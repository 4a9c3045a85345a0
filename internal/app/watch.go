package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"go.trai.ch/reqs/internal/adapters/watcher" //nolint:depguard // Debouncing is part of the watch use case
	"go.trai.ch/reqs/internal/core/domain"
	"go.trai.ch/zerr"
)

const defaultDebounce = watcher.DefaultDebounceWindow

// Watch runs Check once and then again whenever a manifest or the
// configuration file below the project root changes, until ctx is done.
// Failed checks are reported and watching continues.
func (a *App) Watch(ctx context.Context, paths []string, opts CheckOptions) error {
	cfg, err := a.configLoader.Load(a.dir)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	if err := a.watcher.Start(ctx, cfg.Root); err != nil {
		return zerr.Wrap(err, "failed to start watcher")
	}

	rerun := make(chan struct{}, 1)
	debouncer := watcher.NewDebouncer(a.debounce, func(changed []string) {
		a.logger.Info(fmt.Sprintf("%d files changed", len(changed)))
		select {
		case rerun <- struct{}{}:
		default:
		}
	}).Match(watched(cfg))

	var wg sync.WaitGroup
	wg.Go(func() {
		for event := range a.watcher.Events() {
			debouncer.Add(event.Path)
		}
	})
	defer func() {
		_ = a.watcher.Stop()
		wg.Wait()
	}()

	a.runCheck(ctx, paths, opts)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-rerun:
			a.runCheck(ctx, paths, opts)
		}
	}
}

func (a *App) runCheck(ctx context.Context, paths []string, opts CheckOptions) {
	err := a.Check(ctx, paths, opts)
	switch {
	case err == nil, errors.Is(err, domain.ErrCheckFailed):
		// findings were rendered
	case ctx.Err() != nil:
	default:
		a.logger.Error(err)
	}
}

// watched reports whether a change to path can affect a check: the
// configuration file, files matching the discovery pattern and any other
// .txt file, since includes may use any name.
func watched(cfg *domain.Config) func(path string) bool {
	return func(path string) bool {
		base := filepath.Base(path)
		if base == domain.ConfigFileName || filepath.Ext(base) == ".txt" {
			return true
		}
		ok, _ := filepath.Match(cfg.Pattern, base)
		return ok
	}
}
