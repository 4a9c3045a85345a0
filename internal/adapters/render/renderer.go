// Package render writes parse, check and status results as text, JSON or YAML.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"go.trai.ch/reqs/internal/core/domain"
	"go.trai.ch/reqs/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.Renderer = (*Renderer)(nil)

// Renderer implements ports.Renderer.
type Renderer struct{}

// New creates a new Renderer.
func New() *Renderer {
	return &Renderer{}
}

// Manifests renders parsed manifests.
func (r *Renderer) Manifests(w io.Writer, format domain.OutputFormat, manifests []*domain.Manifest) error {
	dtos := make([]ManifestDTO, len(manifests))
	for i, m := range manifests {
		dtos[i] = toManifestDTO(m)
	}

	switch format {
	case domain.FormatJSON:
		return writeJSON(w, dtos)
	case domain.FormatYAML:
		return writeYAML(w, dtos)
	case domain.FormatText, "":
		return r.manifestsText(w, dtos)
	default:
		return unknownFormat(format)
	}
}

func (r *Renderer) manifestsText(w io.Writer, dtos []ManifestDTO) error {
	st := newStyles(w)
	for i, m := range dtos {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		header := fmt.Sprintf("%s (%d requirements)", m.Path, len(m.Requirements))
		if _, err := fmt.Fprintln(w, st.header.Render(header)); err != nil {
			return err
		}
		for _, line := range indexLines(m.Index) {
			if _, err := fmt.Fprintln(w, st.muted.Render(line)); err != nil {
				return err
			}
		}
		for _, inc := range m.Includes {
			if _, err := fmt.Fprintln(w, st.muted.Render(fmt.Sprintf("%s %s", inc.Kind, inc.Path))); err != nil {
				return err
			}
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, req := range m.Requirements {
			_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\n", req.Line, displayName(req), source(req))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func indexLines(idx domain.IndexConfig) []string {
	var lines []string
	if idx.URL != "" {
		lines = append(lines, "index "+idx.URL)
	}
	for _, u := range idx.ExtraURLs {
		lines = append(lines, "extra-index "+u)
	}
	for _, u := range idx.FindLinks {
		lines = append(lines, "find-links "+u)
	}
	if idx.NoIndex {
		lines = append(lines, "no-index")
	}
	if idx.Pre {
		lines = append(lines, "pre-releases allowed")
	}
	return lines
}

func displayName(req RequirementDTO) string {
	name := req.Name
	if name == "" {
		name = "-"
	}
	if len(req.Extras) > 0 {
		name += "[" + strings.Join(req.Extras, ",") + "]"
	}
	if req.Editable {
		name += " (editable)"
	}
	return name
}

func source(req RequirementDTO) string {
	src := req.URL
	switch {
	case src != "":
	case len(req.Specifiers) == 0:
		src = "*"
	default:
		src = strings.Join(req.Specifiers, ",")
	}
	if req.Marker != "" {
		src += "; " + req.Marker
	}
	return src
}

// Diagnostics renders check findings.
func (r *Renderer) Diagnostics(w io.Writer, format domain.OutputFormat, diags []domain.Diagnostic) error {
	if diags == nil {
		diags = []domain.Diagnostic{}
	}

	switch format {
	case domain.FormatJSON:
		return writeJSON(w, diags)
	case domain.FormatYAML:
		return writeYAML(w, diags)
	case domain.FormatText, "":
		return r.diagnosticsText(w, diags)
	default:
		return unknownFormat(format)
	}
}

func (r *Renderer) diagnosticsText(w io.Writer, diags []domain.Diagnostic) error {
	st := newStyles(w)
	if len(diags) == 0 {
		_, err := fmt.Fprintln(w, st.muted.Render("no problems found"))
		return err
	}

	counts := make(map[domain.Severity]int)
	for _, d := range diags {
		counts[d.Severity]++
		loc := d.Path
		if d.Line > 0 {
			loc = fmt.Sprintf("%s:%d", d.Path, d.Line)
		}
		sev := st.severity[d.Severity].Render(d.Severity.String())
		if _, err := fmt.Fprintf(w, "%s: %s: %s [%s]\n", loc, sev, d.Message, d.Rule); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w, st.muted.Render(fmt.Sprintf("%d error(s), %d warning(s), %d info",
		counts[domain.SeverityError], counts[domain.SeverityWarning], counts[domain.SeverityInfo])))
	return err
}

// Status renders lock state reports.
func (r *Renderer) Status(w io.Writer, format domain.OutputFormat, reports []domain.StateReport) error {
	if reports == nil {
		reports = []domain.StateReport{}
	}

	switch format {
	case domain.FormatJSON:
		return writeJSON(w, reports)
	case domain.FormatYAML:
		return writeYAML(w, reports)
	case domain.FormatText, "":
		return r.statusText(w, reports)
	default:
		return unknownFormat(format)
	}
}

func (r *Renderer) statusText(w io.Writer, reports []domain.StateReport) error {
	st := newStyles(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, rep := range reports {
		locked := "-"
		if !rep.LockedAt.IsZero() {
			locked = rep.LockedAt.UTC().Format("2006-01-02 15:04:05Z")
		}
		snapshot := rep.SnapshotID
		if snapshot == "" {
			snapshot = "-"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			rep.Path, st.status[rep.Status].Render(string(rep.Status)), snapshot, locked)
	}
	return tw.Flush()
}

func unknownFormat(format domain.OutputFormat) error {
	return zerr.With(zerr.Wrap(domain.ErrUnknownFormat, "cannot render"), "format", string(format))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return zerr.Wrap(err, "failed to encode json")
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return zerr.Wrap(err, "failed to encode yaml")
	}
	if err := enc.Close(); err != nil {
		return zerr.Wrap(err, "failed to encode yaml")
	}
	return nil
}
