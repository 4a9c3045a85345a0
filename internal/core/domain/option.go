package domain

import "strings"

// OptionKind identifies a manifest-level installer option.
type OptionKind string

const (
	// OptionIndexURL replaces the primary package index.
	OptionIndexURL OptionKind = "index-url"
	// OptionExtraIndexURL adds a package index.
	OptionExtraIndexURL OptionKind = "extra-index-url"
	// OptionPre allows pre-release and development versions.
	OptionPre OptionKind = "pre"
	// OptionNoIndex disables all package indexes.
	OptionNoIndex OptionKind = "no-index"
	// OptionFindLinks adds a location to search for archives.
	OptionFindLinks OptionKind = "find-links"
	// OptionTrustedHost marks a host as trusted without valid HTTPS.
	OptionTrustedHost OptionKind = "trusted-host"
	// OptionPreferBinary prefers wheels over newer source distributions.
	OptionPreferBinary OptionKind = "prefer-binary"
	// OptionOnlyBinary restricts the named packages to wheels.
	OptionOnlyBinary OptionKind = "only-binary"
	// OptionNoBinary forbids wheels for the named packages.
	OptionNoBinary OptionKind = "no-binary"
	// OptionRequirement includes another manifest.
	OptionRequirement OptionKind = "requirement"
	// OptionConstraint includes a constraints manifest.
	OptionConstraint OptionKind = "constraint"
)

// TakesValue reports whether the option is followed by an argument.
func (k OptionKind) TakesValue() bool {
	switch k {
	case OptionPre, OptionNoIndex, OptionPreferBinary:
		return false
	default:
		return true
	}
}

// Flag returns the canonical command-line spelling of the option.
func (k OptionKind) Flag() string {
	switch k {
	case OptionRequirement:
		return "-r"
	case OptionConstraint:
		return "-c"
	default:
		return "--" + string(k)
	}
}

// IsInclude reports whether the option pulls in another manifest.
func (k OptionKind) IsInclude() bool {
	return k == OptionRequirement || k == OptionConstraint
}

// Option is a single installer directive.
type Option struct {
	Kind  OptionKind
	Value string
}

// String returns the option in canonical form.
func (o Option) String() string {
	if !o.Kind.TakesValue() {
		return o.Kind.Flag()
	}
	// " #" starts a comment, so such values stay attached to the flag.
	if strings.HasPrefix(o.Value, "#") {
		if o.Kind.IsInclude() {
			return o.Kind.Flag() + o.Value
		}
		return o.Kind.Flag() + "=" + o.Value
	}
	return o.Kind.Flag() + " " + o.Value
}

// IndexConfig summarizes where an installer would look for packages.
type IndexConfig struct {
	URL       string   `json:"url,omitempty" yaml:"url,omitempty"`
	ExtraURLs []string `json:"extra_urls,omitempty" yaml:"extra_urls,omitempty"`
	FindLinks []string `json:"find_links,omitempty" yaml:"find_links,omitempty"`
	Pre       bool     `json:"pre,omitempty" yaml:"pre,omitempty"`
	NoIndex   bool     `json:"no_index,omitempty" yaml:"no_index,omitempty"`
}
