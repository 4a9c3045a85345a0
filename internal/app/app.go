// Package app implements the application layer for reqs.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/reqs/internal/core/domain"
	"go.trai.ch/reqs/internal/core/ports"
	"go.trai.ch/reqs/internal/engine/lint"
	"go.trai.ch/reqs/internal/engine/parser"
	"go.trai.ch/reqs/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader  ports.ConfigLoader
	loader        *scheduler.Loader
	source        ports.ManifestSource
	finder        ports.ManifestFinder
	fingerprinter ports.Fingerprinter
	store         ports.StateStore
	renderer      ports.Renderer
	watcher       ports.Watcher
	logger        ports.Logger

	out      io.Writer
	dir      string
	debounce time.Duration
	now      func() time.Time
}

// New creates a new App instance working in the current directory.
func New(
	configLoader ports.ConfigLoader,
	loader *scheduler.Loader,
	source ports.ManifestSource,
	finder ports.ManifestFinder,
	fingerprinter ports.Fingerprinter,
	store ports.StateStore,
	renderer ports.Renderer,
	watcher ports.Watcher,
	log ports.Logger,
) *App {
	dir, err := os.Getwd()
	if err != nil {
		dir = "."
	}
	return &App{
		configLoader:  configLoader,
		loader:        loader,
		source:        source,
		finder:        finder,
		fingerprinter: fingerprinter,
		store:         store,
		renderer:      renderer,
		watcher:       watcher,
		logger:        log,
		out:           os.Stdout,
		dir:           dir,
		debounce:      defaultDebounce,
		now:           time.Now,
	}
}

// WithOutput sets where results are written.
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// WithDir sets the directory relative paths and the configuration search start from.
func (a *App) WithDir(dir string) *App {
	a.dir = dir
	return a
}

// WithDebounce sets how long Watch waits for changes to settle.
func (a *App) WithDebounce(d time.Duration) *App {
	a.debounce = d
	return a
}

// WithClock replaces the time source used for lock timestamps.
func (a *App) WithClock(now func() time.Time) *App {
	a.now = now
	return a
}

// SetQuiet silences informational log messages when the logger supports it.
func (a *App) SetQuiet(quiet bool) {
	if q, ok := a.logger.(interface{ SetQuiet(bool) }); ok {
		q.SetQuiet(quiet)
	}
}

// ParseOptions configures Parse.
type ParseOptions struct {
	Format string
}

// Parse renders the records of the selected manifests. It fails on the
// first invalid line.
func (a *App) Parse(ctx context.Context, paths []string, opts ParseOptions) error {
	s, err := a.load(ctx, paths)
	if err != nil {
		return err
	}
	cfg, res := s.config, s.result
	if err := firstError(res.Diagnostics); err != nil {
		return err
	}

	format, err := a.outputFormat(cfg, opts.Format)
	if err != nil {
		return err
	}
	return a.renderer.Manifests(a.out, format, res.Manifests)
}

// CheckOptions configures Check and Watch.
type CheckOptions struct {
	Format  string
	Strict  bool
	Disable []string
}

// Check reports syntax errors, include problems and lint findings. It
// returns domain.ErrCheckFailed when any finding is an error.
func (a *App) Check(ctx context.Context, paths []string, opts CheckOptions) error {
	s, err := a.load(ctx, paths)
	if err != nil {
		return err
	}
	cfg, res := s.config, s.result

	format, err := a.outputFormat(cfg, opts.Format)
	if err != nil {
		return err
	}

	lintCfg := domain.LintConfig{
		Disable: slices.Concat(cfg.Lint.Disable, opts.Disable),
		Strict:  cfg.Lint.Strict || opts.Strict,
	}

	diags := slices.Clone(res.Diagnostics)
	for _, m := range res.Manifests {
		diags = append(diags, lint.Check(m, lintCfg)...)
	}
	domain.SortDiagnostics(diags)

	if err := a.renderer.Diagnostics(a.out, format, diags); err != nil {
		return err
	}

	if domain.HasErrors(diags) {
		return zerr.With(zerr.Wrap(domain.ErrCheckFailed, "manifests have errors"), "errors", countErrors(diags))
	}
	return nil
}

// FormatOptions configures Format.
type FormatOptions struct {
	// Write replaces files that are not in canonical form.
	Write bool
	// Check lists files that are not in canonical form and fails if there are any.
	Check bool
}

// Format prints the canonical text of the selected manifests, or applies it
// in place. Included manifests are not formatted unless selected.
func (a *App) Format(ctx context.Context, paths []string, opts FormatOptions) error {
	s, err := a.load(ctx, paths)
	if err != nil {
		return err
	}
	if err := firstError(s.result.Diagnostics); err != nil {
		return err
	}

	var unformatted []string
	for _, m := range s.result.Manifests {
		if !slices.Contains(s.roots, a.abs(m.Path)) {
			continue
		}

		formatted := parser.Format(m)
		changed := formatted != string(m.Raw)

		switch {
		case opts.Check:
			if changed {
				unformatted = append(unformatted, m.Path)
				_, _ = fmt.Fprintln(a.out, m.Path)
			}
		case opts.Write:
			if !changed {
				continue
			}
			if err := a.source.Write(a.abs(m.Path), []byte(formatted)); err != nil {
				return err
			}
			a.logger.Info("formatted " + m.Path)
		default:
			if _, err := io.WriteString(a.out, formatted); err != nil {
				return zerr.Wrap(err, "failed to write output")
			}
		}
	}

	if len(unformatted) > 0 {
		return zerr.With(zerr.Wrap(domain.ErrNotFormatted, "run reqs fmt --write"), "manifests", strings.Join(unformatted, ", "))
	}
	return nil
}

// Lock records the fingerprints of the selected manifests and their
// includes under a new snapshot id.
func (a *App) Lock(ctx context.Context, paths []string) error {
	s, err := a.load(ctx, paths)
	if err != nil {
		return err
	}
	cfg, res := s.config, s.result
	if err := firstError(res.Diagnostics); err != nil {
		return err
	}

	snapshot := uuid.NewString()
	now := a.now().UTC()
	for _, m := range res.Manifests {
		state := domain.ManifestState{
			Path:         a.stateKey(cfg, m.Path),
			Fingerprint:  a.fingerprinter.Fingerprint([]byte(parser.Canonical(m))),
			ContentHash:  a.fingerprinter.Fingerprint(m.Raw),
			Requirements: len(m.Requirements()),
			SnapshotID:   snapshot,
			Timestamp:    now,
		}
		if err := a.store.Put(state); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to store lock state"), "path", m.Path)
		}
	}

	a.logger.Info(fmt.Sprintf("locked %d manifests in snapshot %s", len(res.Manifests), snapshot))
	return nil
}

// StatusOptions configures Status.
type StatusOptions struct {
	Format string
	// ExitCode fails with domain.ErrStateDrift when a manifest was modified or never locked.
	ExitCode bool
}

// Status compares the selected manifests with their locked state.
func (a *App) Status(ctx context.Context, paths []string, opts StatusOptions) error {
	s, err := a.load(ctx, paths)
	if err != nil {
		return err
	}
	cfg, res := s.config, s.result
	if err := firstError(res.Diagnostics); err != nil {
		return err
	}

	format, err := a.outputFormat(cfg, opts.Format)
	if err != nil {
		return err
	}

	reports := make([]domain.StateReport, 0, len(res.Manifests))
	var drifted []string
	for _, m := range res.Manifests {
		locked, err := a.store.Get(a.stateKey(cfg, m.Path))
		if err != nil {
			return err
		}

		fingerprint := a.fingerprinter.Fingerprint([]byte(parser.Canonical(m)))
		status := domain.Compare(locked, fingerprint, a.fingerprinter.Fingerprint(m.Raw))

		report := domain.StateReport{
			Path:        m.Path,
			Status:      status,
			Fingerprint: fingerprint,
		}
		if locked != nil {
			report.SnapshotID = locked.SnapshotID
			report.LockedAt = locked.Timestamp
		}
		reports = append(reports, report)

		if status.IsDrift() {
			drifted = append(drifted, m.Path)
		}
	}

	if err := a.renderer.Status(a.out, format, reports); err != nil {
		return err
	}

	if opts.ExitCode && len(drifted) > 0 {
		return zerr.With(zerr.Wrap(domain.ErrStateDrift, "run reqs lock"), "manifests", strings.Join(drifted, ", "))
	}
	return nil
}

// session is the state shared by the operations of one command.
type session struct {
	config *domain.Config
	roots  []string
	result *scheduler.Result
}

// load resolves the configuration and the manifests to work on, then loads them.
func (a *App) load(ctx context.Context, paths []string) (*session, error) {
	cfg, err := a.configLoader.Load(a.dir)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	roots, err := a.selectRoots(cfg, paths)
	if err != nil {
		return nil, err
	}

	res, err := a.loader.Load(ctx, roots, cfg.Parallelism)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load manifests")
	}

	for _, m := range res.Manifests {
		m.Path = a.display(m.Path)
	}
	for i := range res.Diagnostics {
		res.Diagnostics[i].Path = a.display(res.Diagnostics[i].Path)
	}
	return &session{config: cfg, roots: roots, result: res}, nil
}

// selectRoots returns absolute manifest paths. Explicit paths win over the
// configured list, which wins over discovery.
func (a *App) selectRoots(cfg *domain.Config, paths []string) ([]string, error) {
	if len(paths) > 0 {
		roots := make([]string, len(paths))
		for i, p := range paths {
			roots[i] = a.abs(p)
		}
		return roots, nil
	}

	rel := cfg.Manifests
	if len(rel) == 0 {
		var err error
		rel, err = a.finder.Discover(cfg.Root, cfg.Pattern)
		if err != nil {
			return nil, zerr.Wrap(err, "failed to discover manifests")
		}
	}
	if len(rel) == 0 {
		err := zerr.Wrap(domain.ErrNoManifests, "pass manifest paths or list them in "+domain.ConfigFileName)
		return nil, zerr.With(zerr.With(err, "root", cfg.Root), "pattern", cfg.Pattern)
	}

	roots := make([]string, len(rel))
	for i, p := range rel {
		roots[i] = filepath.Join(cfg.Root, filepath.FromSlash(p))
	}
	return roots, nil
}

func (a *App) outputFormat(cfg *domain.Config, flag string) (domain.OutputFormat, error) {
	if flag == "" {
		return cfg.Format, nil
	}
	format, err := domain.ParseOutputFormat(flag)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "expected text, json or yaml"), "format", flag)
	}
	return format, nil
}

func (a *App) abs(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(a.dir, p)
}

// display shortens p to a path relative to the working directory when p
// lies below it.
func (a *App) display(p string) string {
	rel, err := filepath.Rel(a.dir, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return p
	}
	return rel
}

// stateKey identifies a manifest in the state store by its path relative to the project root.
func (a *App) stateKey(cfg *domain.Config, p string) string {
	rel, err := filepath.Rel(cfg.Root, a.abs(p))
	if err != nil {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(rel)
}

// firstError converts the first error-level diagnostic into an error.
func firstError(diags []domain.Diagnostic) error {
	for _, d := range diags {
		if d.Severity != domain.SeverityError {
			continue
		}
		err := zerr.Wrap(domain.ErrInvalidManifest, d.Message)
		err = zerr.With(err, "path", d.Path)
		if d.Line > 0 {
			err = zerr.With(err, "line", d.Line)
		}
		return err
	}
	return nil
}

func countErrors(diags []domain.Diagnostic) int {
	n := 0
	for _, d := range diags {
		if d.Severity == domain.SeverityError {
			n++
		}
	}
	return n
}
