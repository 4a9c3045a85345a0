// Package domain contains the core domain models for dependency manifests.
package domain

import (
	"slices"
	"strings"
)

// Operator is a PEP 440 version comparison operator.
type Operator string

const (
	// OpArbitrary matches the version string exactly, without normalization.
	OpArbitrary Operator = "==="
	// OpEqual pins a version (wildcards allowed).
	OpEqual Operator = "=="
	// OpNotEqual excludes a version (wildcards allowed).
	OpNotEqual Operator = "!="
	// OpLessEqual is an inclusive upper bound.
	OpLessEqual Operator = "<="
	// OpGreaterEqual is an inclusive lower bound.
	OpGreaterEqual Operator = ">="
	// OpCompatible is the compatible release clause.
	OpCompatible Operator = "~="
	// OpLess is an exclusive upper bound.
	OpLess Operator = "<"
	// OpGreater is an exclusive lower bound.
	OpGreater Operator = ">"
)

// Operators lists all operators so that no entry is a prefix of a later one.
var Operators = []Operator{
	OpArbitrary,
	OpEqual,
	OpNotEqual,
	OpLessEqual,
	OpGreaterEqual,
	OpCompatible,
	OpLess,
	OpGreater,
}

// Specifier is a single version clause such as ">=2.1.0dev".
type Specifier struct {
	Op      Operator
	Version string
}

// String returns the clause in canonical form.
func (s Specifier) String() string {
	return string(s.Op) + s.Version
}

// Requirement is a dependency record: a package with an optional version
// constraint or direct source reference.
type Requirement struct {
	// Name is the package name as written. It is empty only for bare
	// direct references without an #egg= fragment.
	Name InternedString

	// Extras are the optional feature sets selected in brackets.
	Extras []string

	// Specifiers constrain registry versions. Empty when URL is set.
	Specifiers []Specifier

	// URL is the direct reference (e.g. "git+https://host/repo@rev").
	URL string

	// Marker is the environment marker after ';', kept verbatim.
	Marker string

	// Hashes are the --hash values attached to the line.
	Hashes []string

	// Editable is set for -e/--editable lines.
	Editable bool
}

// Key returns the normalized package name used for comparisons.
func (r *Requirement) Key() string {
	return NormalizeName(r.Name.String())
}

// IsDirect reports whether the requirement is sourced from a URL or path
// rather than a registry version.
func (r *Requirement) IsDirect() bool {
	return r.URL != ""
}

// MinVersion returns the version of the first ">=" clause.
func (r *Requirement) MinVersion() (string, bool) {
	for _, s := range r.Specifiers {
		if s.Op == OpGreaterEqual {
			return s.Version, true
		}
	}
	return "", false
}

// IsPinned reports whether the requirement resolves to exactly one artifact.
func (r *Requirement) IsPinned() bool {
	if r.IsDirect() {
		return true
	}
	return slices.ContainsFunc(r.Specifiers, func(s Specifier) bool {
		return (s.Op == OpEqual && !strings.HasSuffix(s.Version, ".*")) || s.Op == OpArbitrary
	})
}

// HasExtra reports whether the named extra is selected.
func (r *Requirement) HasExtra(extra string) bool {
	key := NormalizeName(extra)
	return slices.ContainsFunc(r.Extras, func(e string) bool {
		return NormalizeName(e) == key
	})
}

// NormalizeName returns the PEP 503 normalized form of a package name:
// lowercase, with runs of '-', '_' and '.' collapsed to a single '-'.
func NormalizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	pendingSep := false
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == '-' || c == '_' || c == '.' {
			pendingSep = true
			continue
		}
		if pendingSep && b.Len() > 0 {
			b.WriteByte('-')
		}
		pendingSep = false
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		b.WriteByte(c)
	}
	return b.String()
}
