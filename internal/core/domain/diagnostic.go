package domain

import (
	"slices"
	"strings"
)

// Severity ranks a diagnostic.
type Severity int

const (
	// SeverityInfo is advisory.
	SeverityInfo Severity = iota
	// SeverityWarning should be looked at.
	SeverityWarning
	// SeverityError fails a check.
	SeverityError
)

// String returns the lowercase name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// ParseSeverity converts a name to a Severity, defaulting to info.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(s) {
	case "warning", "warn":
		return SeverityWarning
	case "error":
		return SeverityError
	default:
		return SeverityInfo
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

const (
	// RuleSyntax is the rule name used for lines that fail to parse.
	RuleSyntax = "syntax"
	// RuleInclude is the rule name used for -r and -c references that are not followed.
	RuleInclude = "include"
)

// Diagnostic is a finding about a manifest line.
type Diagnostic struct {
	Path     string   `json:"path" yaml:"path"`
	Line     int      `json:"line,omitempty" yaml:"line,omitempty"`
	Rule     string   `json:"rule" yaml:"rule"`
	Severity Severity `json:"severity" yaml:"severity"`
	Message  string   `json:"message" yaml:"message"`
}

// SortDiagnostics orders diagnostics by path, then line. Findings on the
// same line keep their relative order.
func SortDiagnostics(diags []Diagnostic) {
	slices.SortStableFunc(diags, func(a, b Diagnostic) int {
		if c := strings.Compare(a.Path, b.Path); c != 0 {
			return c
		}
		return a.Line - b.Line
	})
}

// HasErrors reports whether any diagnostic is error-level.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
