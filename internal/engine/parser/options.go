package parser

import (
	"strings"

	"go.trai.ch/reqs/internal/core/domain"
	"go.trai.ch/zerr"
)

var longOptions = map[string]domain.OptionKind{
	"index-url":       domain.OptionIndexURL,
	"extra-index-url": domain.OptionExtraIndexURL,
	"pre":             domain.OptionPre,
	"no-index":        domain.OptionNoIndex,
	"find-links":      domain.OptionFindLinks,
	"trusted-host":    domain.OptionTrustedHost,
	"prefer-binary":   domain.OptionPreferBinary,
	"only-binary":     domain.OptionOnlyBinary,
	"no-binary":       domain.OptionNoBinary,
	"requirement":     domain.OptionRequirement,
	"constraint":      domain.OptionConstraint,
}

var shortOptions = map[byte]domain.OptionKind{
	'i': domain.OptionIndexURL,
	'f': domain.OptionFindLinks,
	'r': domain.OptionRequirement,
	'c': domain.OptionConstraint,
}

// parseOptions parses a line made only of installer options, e.g.
// "--extra-index-url https://download.pytorch.org/whl/nightly/cu118 --pre".
func parseOptions(line string) ([]domain.Option, error) {
	tokens := strings.Fields(line)
	opts := make([]domain.Option, 0, len(tokens))

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		kind, value, hasValue, err := lookupOption(tok, line)
		if err != nil {
			return nil, err
		}

		if !kind.TakesValue() {
			if hasValue {
				return nil, zerr.With(lineError(domain.ErrUnexpectedOptionValue, "flag takes no value", line), "option", tok)
			}
			opts = append(opts, domain.Option{Kind: kind})
			continue
		}

		if !hasValue {
			if i+1 >= len(tokens) {
				return nil, zerr.With(lineError(domain.ErrMissingOptionValue, "option needs a value", line), "option", tok)
			}
			i++
			value = tokens[i]
		}
		if value == "" {
			return nil, zerr.With(lineError(domain.ErrMissingOptionValue, "option needs a value", line), "option", tok)
		}

		if err := validateOptionValue(kind, value, line); err != nil {
			return nil, err
		}
		opts = append(opts, domain.Option{Kind: kind, Value: value})
	}

	return opts, nil
}

func lookupOption(tok, line string) (kind domain.OptionKind, value string, hasValue bool, err error) {
	if name, ok := strings.CutPrefix(tok, "--"); ok {
		name, value, hasValue = strings.Cut(name, "=")
		kind, ok = longOptions[name]
		if !ok {
			return "", "", false, zerr.With(lineError(domain.ErrUnknownOption, "unsupported option", line), "option", tok)
		}
		return kind, value, hasValue, nil
	}

	if len(tok) >= 2 && tok[0] == '-' {
		kind, ok := shortOptions[tok[1]]
		if !ok {
			return "", "", false, zerr.With(lineError(domain.ErrUnknownOption, "unsupported option", line), "option", tok)
		}
		if len(tok) > 2 {
			return kind, strings.TrimPrefix(tok[2:], "="), true, nil
		}
		return kind, "", false, nil
	}

	return "", "", false, zerr.With(lineError(domain.ErrUnknownOption, "expected an option", line), "option", tok)
}

func validateOptionValue(kind domain.OptionKind, value, line string) error {
	switch kind {
	case domain.OptionIndexURL, domain.OptionExtraIndexURL:
		return validateURL(value, line)
	case domain.OptionFindLinks:
		if strings.Contains(value, "://") {
			return validateURL(value, line)
		}
	default:
	}
	return nil
}

// splitRequirementOptions separates per-requirement options such as
// "--hash=sha256:..." from the specifier. Options start at the first
// whitespace-preceded '-'.
func splitRequirementOptions(code string) (spec, opts string) {
	for i := 1; i < len(code); i++ {
		if code[i] == '-' && (code[i-1] == ' ' || code[i-1] == '\t') {
			return strings.TrimSpace(code[:i]), strings.TrimSpace(code[i:])
		}
	}
	return code, ""
}

// parseHashes parses the per-requirement option tail. Only --hash is supported.
func parseHashes(opts, line string) ([]string, error) {
	tokens := strings.Fields(opts)
	var hashes []string
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		value, ok := strings.CutPrefix(tok, "--hash=")
		if !ok {
			if tok != "--hash" {
				return nil, zerr.With(lineError(domain.ErrUnknownOption, "unsupported requirement option", line), "option", tok)
			}
			if i+1 >= len(tokens) {
				return nil, zerr.With(lineError(domain.ErrMissingOptionValue, "option needs a value", line), "option", tok)
			}
			i++
			value = tokens[i]
		}
		if algo, digest, found := strings.Cut(value, ":"); !found || algo == "" || digest == "" {
			return nil, zerr.With(lineError(domain.ErrMissingOptionValue, "hash must be algorithm:digest", line), "option", tok)
		}
		hashes = append(hashes, value)
	}
	return hashes, nil
}

// editableTarget returns the target of an -e/--editable line.
func editableTarget(code string) (string, bool) {
	for _, prefix := range []string{"--editable=", "--editable ", "--editable\t", "-e=", "-e ", "-e\t"} {
		if v, ok := strings.CutPrefix(code, prefix); ok {
			return strings.TrimSpace(v), true
		}
	}
	if code == "-e" || code == "--editable" {
		return "", true
	}
	if v, ok := strings.CutPrefix(code, "-e"); ok && (strings.HasPrefix(v, ".") || strings.HasPrefix(v, "/")) {
		return v, true
	}
	return "", false
}
