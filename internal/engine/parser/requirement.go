package parser

import (
	"net/url"
	"strings"

	"go.trai.ch/reqs/internal/core/domain"
	"go.trai.ch/zerr"
)

// ParseRequirement parses a single dependency specifier such as
// "torch>=2.1.0dev", "jsonargparse[signatures]" or
// "lightning @ git+https://github.com/Lightning-AI/lightning@master".
// The input must not carry options or comments.
func ParseRequirement(s string) (*domain.Requirement, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, lineError(domain.ErrEmptyRequirement, "nothing to parse", s)
	}
	if isBareReference(s) {
		return parseReference(s)
	}

	i := 0
	for i < len(s) && isNameChar(s[i]) {
		i++
	}
	name := s[:i]
	if !validName(name) {
		return nil, lineError(domain.ErrInvalidName, "expected a package name", s)
	}
	req := &domain.Requirement{Name: domain.NewInternedString(name)}

	rest := strings.TrimLeft(s[i:], " \t")
	if strings.HasPrefix(rest, "[") {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return nil, lineError(domain.ErrInvalidExtras, "unterminated extras list", s)
		}
		extras, err := parseExtras(rest[1:end], s)
		if err != nil {
			return nil, err
		}
		req.Extras = extras
		rest = strings.TrimLeft(rest[end+1:], " \t")
	}

	if after, ok := strings.CutPrefix(rest, "@"); ok {
		ref, marker, err := splitReferenceMarker(strings.TrimSpace(after), s)
		if err != nil {
			return nil, err
		}
		if err := validateURL(ref, s); err != nil {
			return nil, err
		}
		req.URL = ref
		req.Marker = marker
		return req, nil
	}

	specPart, marker, hasMarker := strings.Cut(rest, ";")
	specs, err := parseSpecifiers(specPart, s)
	if err != nil {
		return nil, err
	}
	req.Specifiers = specs

	if hasMarker {
		if req.Marker, err = checkMarker(marker, s); err != nil {
			return nil, err
		}
	}

	return req, nil
}

func parseExtras(list, line string) ([]string, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}
	parts := strings.Split(list, ",")
	extras := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if !validName(p) {
			return nil, zerr.With(lineError(domain.ErrInvalidExtras, "invalid extra name", line), "extra", p)
		}
		extras = append(extras, p)
	}
	return extras, nil
}

func parseSpecifiers(s, line string) ([]domain.Specifier, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if strings.HasPrefix(s, "(") {
		if !strings.HasSuffix(s, ")") {
			return nil, lineError(domain.ErrInvalidSpecifier, "unbalanced parenthesis", line)
		}
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	clauses := strings.Split(s, ",")
	specs := make([]domain.Specifier, 0, len(clauses))
	for _, c := range clauses {
		spec, err := parseSpecifier(strings.TrimSpace(c), line)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func parseSpecifier(clause, line string) (domain.Specifier, error) {
	for _, op := range domain.Operators {
		v, ok := strings.CutPrefix(clause, string(op))
		if !ok {
			continue
		}
		v = strings.TrimSpace(v)
		if !validVersionText(v, op) {
			return domain.Specifier{}, zerr.With(
				lineError(domain.ErrInvalidSpecifier, "invalid version", line), "clause", clause)
		}
		return domain.Specifier{Op: op, Version: v}, nil
	}
	return domain.Specifier{}, zerr.With(
		lineError(domain.ErrInvalidSpecifier, "expected a comparison operator", line), "clause", clause)
}

// validVersionText checks the character set of a version. Structural
// PEP 440 validation is left to the lint rules.
func validVersionText(v string, op domain.Operator) bool {
	if v == "" {
		return false
	}
	for i := 0; i < len(v); i++ {
		c := v[i]
		if op == domain.OpArbitrary {
			if c == ' ' || c == '\t' || c == ',' || c == ';' {
				return false
			}
			continue
		}
		if !isAlnum(c) && !strings.ContainsRune(".*+!-_", rune(c)) {
			return false
		}
	}
	return true
}

// isBareReference reports whether s is a URL or local path rather than a
// named requirement. "name@git+https://..." is named because the '@'
// precedes the scheme separator.
func isBareReference(s string) bool {
	first, _, _ := strings.Cut(s, " ")
	if before, _, ok := strings.Cut(first, "://"); ok {
		return !strings.Contains(before, "@")
	}
	path, _, _ := strings.Cut(first, "[")
	return strings.HasPrefix(first, "file:") ||
		strings.HasPrefix(first, "./") ||
		strings.HasPrefix(first, "../") ||
		strings.HasPrefix(first, "/") ||
		path == "." || path == ".."
}

func isURLReference(ref string) bool {
	return strings.Contains(ref, "://") || strings.HasPrefix(ref, "file:")
}

func parseReference(s string) (*domain.Requirement, error) {
	ref, marker, err := splitReferenceMarker(s, s)
	if err != nil {
		return nil, err
	}
	req := &domain.Requirement{URL: ref, Marker: marker}
	if isURLReference(ref) {
		if err := validateURL(ref, s); err != nil {
			return nil, err
		}
	} else if req.URL, req.Extras, err = splitPathExtras(ref, s); err != nil {
		return nil, err
	}
	if name := eggName(req.URL); name != "" {
		req.Name = domain.NewInternedString(name)
	}
	return req, nil
}

// splitPathExtras separates a trailing "[extras]" from a local path,
// as in ".[dev]" or "./pkg[cuda,test]".
func splitPathExtras(ref, line string) (string, []string, error) {
	if !strings.HasSuffix(ref, "]") {
		return ref, nil, nil
	}
	start := strings.LastIndexByte(ref, '[')
	if start <= 0 {
		return "", nil, lineError(domain.ErrInvalidExtras, "unterminated extras list", line)
	}
	extras, err := parseExtras(ref[start+1:len(ref)-1], line)
	if err != nil {
		return "", nil, err
	}
	return ref[:start], extras, nil
}

// splitReferenceMarker separates a URL from a trailing "; marker".
// The ';' must follow whitespace, since ';' is valid inside URLs.
func splitReferenceMarker(s, line string) (ref, marker string, err error) {
	idx := strings.IndexAny(s, " \t")
	if idx < 0 {
		if s == "" {
			return "", "", lineError(domain.ErrInvalidURL, "missing url after '@'", line)
		}
		return s, "", nil
	}
	ref = s[:idx]
	tail := strings.TrimSpace(s[idx:])
	after, ok := strings.CutPrefix(tail, ";")
	if !ok {
		return "", "", zerr.With(lineError(domain.ErrInvalidURL, "unexpected text after url", line), "text_after", tail)
	}
	marker, err = checkMarker(after, line)
	if err != nil {
		return "", "", err
	}
	return ref, marker, nil
}

// checkMarker trims a marker and rejects empty ones. A leading '#' would
// read as a comment once the record is written back.
func checkMarker(marker, line string) (string, error) {
	marker = strings.TrimSpace(marker)
	switch {
	case marker == "":
		return "", lineError(domain.ErrInvalidMarker, "empty marker after ';'", line)
	case strings.HasPrefix(marker, "#"):
		return "", lineError(domain.ErrInvalidMarker, "marker cannot start with '#'", line)
	}
	return marker, nil
}

func validateURL(raw, line string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrInvalidURL, err.Error()), "text", line)
	}
	if u.Scheme == "" {
		return lineError(domain.ErrInvalidURL, "url has no scheme", line)
	}
	if u.Host == "" && u.Scheme != "file" {
		return lineError(domain.ErrInvalidURL, "url has no host", line)
	}
	return nil
}

// eggName extracts the project name from an "#egg=name" fragment.
func eggName(ref string) string {
	_, frag, ok := strings.Cut(ref, "#")
	if !ok {
		return ""
	}
	for part := range strings.SplitSeq(frag, "&") {
		if v, ok := strings.CutPrefix(part, "egg="); ok {
			v, _, _ = strings.Cut(v, "[")
			if validName(v) {
				return v
			}
		}
	}
	return ""
}

func validName(s string) bool {
	if s == "" || !isAlnum(s[0]) || !isAlnum(s[len(s)-1]) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isNameChar(s[i]) {
			return false
		}
	}
	return true
}

func isNameChar(c byte) bool {
	return isAlnum(c) || c == '.' || c == '-' || c == '_'
}

func isAlnum(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

func lineError(sentinel error, msg, text string) error {
	return zerr.With(zerr.Wrap(sentinel, msg), "text", text)
}
