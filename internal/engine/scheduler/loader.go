// Package scheduler loads manifests together with the manifests they include.
package scheduler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"go.trai.ch/reqs/internal/core/domain"
	"go.trai.ch/reqs/internal/core/ports"
	"go.trai.ch/reqs/internal/engine/parser"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of a Load.
type Result struct {
	// Manifests are ordered so that included manifests come before the
	// manifests that include them.
	Manifests []*domain.Manifest

	// Diagnostics holds syntax errors and include problems, sorted by path and line.
	Diagnostics []domain.Diagnostic

	Graph *domain.IncludeGraph
}

// Loader reads manifests and follows their -r and -c includes.
type Loader struct {
	source    ports.ManifestSource
	telemetry ports.Telemetry
}

// NewLoader creates a new Loader.
func NewLoader(source ports.ManifestSource, telemetry ports.Telemetry) *Loader {
	return &Loader{
		source:    source,
		telemetry: telemetry,
	}
}

// pending is a manifest waiting to be read. Roots have no includer.
type pending struct {
	path    string
	from    string
	include domain.Include
}

type loaded struct {
	manifest *domain.Manifest
	diags    []domain.Diagnostic
}

// Load reads the root manifests and everything they include, up to
// parallelism files at a time. A missing root or an include cycle fails the
// load. A missing include is reported as a diagnostic on the including line.
func (l *Loader) Load(ctx context.Context, roots []string, parallelism int) (*Result, error) {
	if parallelism < 1 {
		parallelism = runtime.NumCPU()
	}

	graph := domain.NewIncludeGraph()
	byPath := make(map[string]*domain.Manifest)
	seen := make(map[string]bool)
	missing := make(map[string]bool)
	var edges []pending
	var diags []domain.Diagnostic

	var wave []pending
	for _, root := range roots {
		p := filepath.Clean(root)
		if seen[p] {
			continue
		}
		seen[p] = true
		graph.AddNode(p)
		wave = append(wave, pending{path: p})
	}

	// Each wave reads the files discovered by the previous one.
	for len(wave) > 0 {
		results, err := l.loadWave(ctx, wave, parallelism)
		if err != nil {
			return nil, err
		}

		var next []pending
		for i, res := range results {
			p := wave[i]
			if res.manifest == nil {
				missing[p.path] = true
				continue
			}

			byPath[p.path] = res.manifest
			diags = append(diags, res.diags...)

			for _, inc := range res.manifest.Includes() {
				if isRemote(inc.Path) {
					diags = append(diags, domain.Diagnostic{
						Path:     p.path,
						Line:     inc.Line,
						Rule:     domain.RuleInclude,
						Severity: domain.SeverityInfo,
						Message:  fmt.Sprintf("remote manifest %s is not followed", inc.Path),
					})
					continue
				}

				target := l.source.Resolve(p.path, inc.Path)
				graph.AddEdge(p.path, target)
				edge := pending{path: target, from: p.path, include: inc}
				edges = append(edges, edge)
				if seen[target] {
					continue
				}
				seen[target] = true
				next = append(next, edge)
			}
		}
		wave = next
	}

	// Every line including a missing file is reported, not only the first.
	for _, e := range edges {
		if missing[e.path] {
			diags = append(diags, domain.Diagnostic{
				Path:     e.from,
				Line:     e.include.Line,
				Rule:     domain.RuleInclude,
				Severity: domain.SeverityError,
				Message:  fmt.Sprintf("included manifest %s does not exist", e.include.Path),
			})
		}
	}

	if err := graph.Validate(); err != nil {
		return nil, err
	}

	result := &Result{Graph: graph, Diagnostics: diags}
	for p := range graph.Walk() {
		if m, ok := byPath[p]; ok {
			result.Manifests = append(result.Manifests, m)
		}
	}
	domain.SortDiagnostics(result.Diagnostics)

	return result, nil
}

func (l *Loader) loadWave(ctx context.Context, wave []pending, limit int) ([]loaded, error) {
	results := make([]loaded, len(wave))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, p := range wave {
		g.Go(func() error {
			res, err := l.loadOne(gctx, p)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (l *Loader) loadOne(ctx context.Context, p pending) (loaded, error) {
	ctx, vertex := l.telemetry.Record(ctx, "parse "+p.path)

	data, err := l.source.Read(ctx, p.path)
	if err != nil {
		vertex.Complete(err)
		if p.from != "" && errors.Is(err, domain.ErrManifestNotFound) {
			return loaded{}, nil
		}
		return loaded{}, err
	}

	m, diags, err := parser.ParseAll(p.path, bytes.NewReader(data))
	if err != nil {
		vertex.Complete(err)
		return loaded{}, err
	}

	for _, d := range diags {
		vertex.Log(domain.LogLevelFor(d.Severity), fmt.Sprintf("line %d: %s", d.Line, d.Message))
	}
	if len(diags) > 0 {
		vertex.Complete(zerr.With(zerr.Wrap(domain.ErrInvalidManifest, "manifest has invalid lines"), "path", p.path))
	} else {
		vertex.Complete(nil)
	}

	return loaded{manifest: m, diags: diags}, nil
}

// isRemote reports whether an include target is a URL rather than a file.
func isRemote(target string) bool {
	return strings.Contains(target, "://")
}
