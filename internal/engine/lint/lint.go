// Package lint checks parsed manifests for likely mistakes.
package lint

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"go.trai.ch/reqs/internal/core/domain"
)

// Rule names.
const (
	RuleDuplicate      = "duplicate"
	RuleUnpinned       = "unpinned"
	RuleInvalidVersion = "invalid-version"
	RuleInsecureIndex  = "insecure-index"
	RuleMutableRef     = "mutable-ref"
)

// Rules lists every rule in the order it runs.
var Rules = []string{
	RuleDuplicate,
	RuleUnpinned,
	RuleInvalidVersion,
	RuleInsecureIndex,
	RuleMutableRef,
}

// pep440 matches public and local version identifiers, case-insensitively.
var pep440 = regexp.MustCompile(`(?i)^v?(?:[0-9]+!)?[0-9]+(?:\.[0-9]+)*` +
	`(?:[-_.]?(?:a|b|c|rc|alpha|beta|pre|preview)[-_.]?[0-9]*)?` +
	`(?:-[0-9]+|[-_.]?(?:post|rev|r)[-_.]?[0-9]*)?` +
	`(?:[-_.]?dev[-_.]?[0-9]*)?` +
	`(?:\+[a-z0-9]+(?:[-_.][a-z0-9]+)*)?$`)

var mutableRefs = []string{"master", "main", "HEAD", "trunk", "develop"}

var vcsSchemes = []string{"git+", "hg+", "svn+", "bzr+"}

// Check runs the enabled rules over m.
func Check(m *domain.Manifest, cfg domain.LintConfig) []domain.Diagnostic {
	c := &checker{manifest: m, cfg: cfg}

	if cfg.Enabled(RuleDuplicate) {
		c.duplicates()
	}
	for _, e := range m.Entries {
		switch e.Kind {
		case domain.EntryRequirement:
			c.requirement(e)
		case domain.EntryOptions:
			if cfg.Enabled(RuleInsecureIndex) {
				c.insecureIndex(e)
			}
		default:
		}
	}

	slices.SortStableFunc(c.diags, func(a, b domain.Diagnostic) int {
		return a.Line - b.Line
	})
	return c.diags
}

type checker struct {
	manifest *domain.Manifest
	cfg      domain.LintConfig
	diags    []domain.Diagnostic
}

func (c *checker) report(line int, rule string, sev domain.Severity, format string, args ...any) {
	if c.cfg.Strict && sev == domain.SeverityWarning {
		sev = domain.SeverityError
	}
	c.diags = append(c.diags, domain.Diagnostic{
		Path:     c.manifest.Path,
		Line:     line,
		Rule:     rule,
		Severity: sev,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (c *checker) duplicates() {
	seen := make(map[string]int)
	for _, e := range c.manifest.Entries {
		if e.Kind != domain.EntryRequirement || e.Requirement.Name.String() == "" {
			continue
		}
		key := e.Requirement.Key() + ";" + e.Requirement.Marker
		if first, ok := seen[key]; ok {
			c.report(e.Line, RuleDuplicate, domain.SeverityError,
				"%s is already required on line %d", e.Requirement.Name.String(), first)
			continue
		}
		seen[key] = e.Line
	}
}

func (c *checker) requirement(e domain.Entry) {
	r := e.Requirement

	if c.cfg.Enabled(RuleUnpinned) && !r.IsDirect() && len(r.Specifiers) == 0 {
		c.report(e.Line, RuleUnpinned, domain.SeverityInfo,
			"%s has no version constraint", r.Name.String())
	}

	if c.cfg.Enabled(RuleInvalidVersion) {
		for _, s := range r.Specifiers {
			if msg := versionProblem(s); msg != "" {
				c.report(e.Line, RuleInvalidVersion, domain.SeverityError,
					"%s: %q %s", r.Name.String(), s.String(), msg)
			}
		}
	}

	if c.cfg.Enabled(RuleMutableRef) && r.IsDirect() {
		if msg := refProblem(r.URL); msg != "" {
			c.report(e.Line, RuleMutableRef, domain.SeverityInfo, "%s %s", displayName(r), msg)
		}
	}
}

func (c *checker) insecureIndex(e domain.Entry) {
	for _, o := range e.Options {
		switch o.Kind {
		case domain.OptionIndexURL, domain.OptionExtraIndexURL, domain.OptionFindLinks:
			if strings.HasPrefix(strings.ToLower(o.Value), "http://") {
				c.report(e.Line, RuleInsecureIndex, domain.SeverityWarning,
					"%s uses plain http: %s", o.Kind.Flag(), o.Value)
			}
		default:
		}
	}
}

// versionProblem describes why a clause is not a valid PEP 440 constraint.
// It returns "" for valid clauses.
func versionProblem(s domain.Specifier) string {
	v := s.Version
	switch s.Op {
	case domain.OpArbitrary:
		return ""
	case domain.OpEqual, domain.OpNotEqual:
		v = strings.TrimSuffix(v, ".*")
	case domain.OpCompatible:
		if !strings.Contains(v, ".") {
			return "needs at least two release segments"
		}
	default:
	}

	if strings.Contains(v, "*") {
		return "wildcards are only allowed with == and !="
	}
	if !pep440.MatchString(v) {
		return "is not a valid version"
	}
	return ""
}

// refProblem describes why a VCS reference may change without the manifest changing.
func refProblem(ref string) string {
	if !slices.ContainsFunc(vcsSchemes, func(p string) bool { return strings.HasPrefix(ref, p) }) {
		return ""
	}

	_, rest, ok := strings.Cut(ref, "://")
	if !ok {
		return ""
	}
	rest, _, _ = strings.Cut(rest, "#")
	// user@host comes before the first '/', the revision after it
	slash := strings.IndexByte(rest, '/')
	if slash < 0 {
		return "does not pin a revision"
	}
	at := strings.LastIndexByte(rest[slash:], '@')
	if at < 0 {
		return "does not pin a revision"
	}
	rev := rest[slash+at+1:]
	if slices.Contains(mutableRefs, rev) {
		return fmt.Sprintf("tracks the moving branch %q", rev)
	}
	return ""
}

func displayName(r *domain.Requirement) string {
	if n := r.Name.String(); n != "" {
		return n
	}
	return r.URL
}
