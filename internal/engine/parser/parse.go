// Package parser reads and writes dependency manifests in the
// requirements-file format.
package parser

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"go.trai.ch/reqs/internal/core/domain"
	"go.trai.ch/zerr"
)

// ParseLine parses one logical line. The returned entry has no line number.
func ParseLine(text string) (domain.Entry, error) {
	code, comment, hasComment := splitComment(text)
	code = strings.TrimSpace(code)
	entry := domain.Entry{Comment: comment}

	switch {
	case code == "" && hasComment:
		entry.Kind = domain.EntryComment

	case code == "":
		entry.Kind = domain.EntryBlank

	case strings.HasPrefix(code, "-"):
		if target, ok := editableTarget(code); ok {
			req, err := parseEditable(target, code)
			if err != nil {
				return domain.Entry{}, err
			}
			entry.Kind = domain.EntryRequirement
			entry.Requirement = req
			return entry, nil
		}
		opts, err := parseOptions(code)
		if err != nil {
			return domain.Entry{}, err
		}
		entry.Kind = domain.EntryOptions
		entry.Options = opts

	default:
		spec, opts := splitRequirementOptions(code)
		req, err := ParseRequirement(spec)
		if err != nil {
			return domain.Entry{}, err
		}
		if opts != "" {
			hashes, err := parseHashes(opts, code)
			if err != nil {
				return domain.Entry{}, err
			}
			req.Hashes = hashes
		}
		entry.Kind = domain.EntryRequirement
		entry.Requirement = req
	}

	return entry, nil
}

func parseEditable(target, line string) (*domain.Requirement, error) {
	if target == "" {
		return nil, zerr.With(lineError(domain.ErrMissingOptionValue, "option needs a value", line), "option", "--editable")
	}
	// Anything that is not a URL is a local path, as in "-e src/pkg".
	if first, _, _ := strings.Cut(target, " "); strings.Contains(first, "://") && !isBareReference(target) {
		return nil, lineError(domain.ErrInvalidURL, "editable target must be a url or path", line)
	}
	req, err := parseReference(target)
	if err != nil {
		return nil, err
	}
	req.Editable = true
	return req, nil
}

// Parse reads a whole manifest and fails on the first invalid line.
// The error carries "path" and "line" metadata.
func Parse(path string, r io.Reader) (*domain.Manifest, error) {
	m, errs, err := parse(path, r)
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return m, nil
}

// ParseAll reads a whole manifest, keeping every valid line and reporting
// each invalid one as a syntax diagnostic. The error is only set when r
// cannot be read.
func ParseAll(path string, r io.Reader) (*domain.Manifest, []domain.Diagnostic, error) {
	m, errs, err := parse(path, r)
	if err != nil {
		return nil, nil, err
	}

	diags := make([]domain.Diagnostic, 0, len(errs))
	for _, e := range errs {
		line, _ := metadataInt(e, "line")
		diags = append(diags, domain.Diagnostic{
			Path:     path,
			Line:     line,
			Rule:     domain.RuleSyntax,
			Severity: domain.SeverityError,
			Message:  e.Error(),
		})
	}
	return m, diags, nil
}

func parse(path string, r io.Reader) (*domain.Manifest, []error, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, zerr.With(zerr.Wrap(err, "failed to read manifest"), "path", path)
	}

	lines, err := readLines(bytes.NewReader(data))
	if err != nil {
		return nil, nil, zerr.With(err, "path", path)
	}

	m := &domain.Manifest{
		Path:    path,
		Entries: make([]domain.Entry, 0, len(lines)),
		Raw:     data,
	}

	var errs []error
	for _, l := range lines {
		entry, err := ParseLine(l.text)
		if err != nil {
			errs = append(errs, zerr.With(zerr.With(err, "path", path), "line", l.number))
			continue
		}
		entry.Line = l.number
		m.Entries = append(m.Entries, entry)
	}

	return m, errs, nil
}

func metadataInt(err error, key string) (int, bool) {
	var zErr *zerr.Error
	if !errors.As(err, &zErr) {
		return 0, false
	}
	v, ok := zErr.Metadata()[key].(int)
	return v, ok
}
