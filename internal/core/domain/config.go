package domain

import "strings"

const (
	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "reqs.yaml"

	// DefaultStatePath is where lock state is kept, relative to the project root.
	DefaultStatePath = ".reqs/state.json"

	// DefaultManifestPattern matches manifests during discovery.
	DefaultManifestPattern = "requirements*.txt"
)

// OutputFormat selects how results are rendered.
type OutputFormat string

const (
	// FormatText renders human-readable text.
	FormatText OutputFormat = "text"
	// FormatJSON renders JSON.
	FormatJSON OutputFormat = "json"
	// FormatYAML renders YAML.
	FormatYAML OutputFormat = "yaml"
)

// ParseOutputFormat converts a name to an OutputFormat. An empty name is text.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", ErrUnknownFormat
	}
}

// LintConfig tunes the manifest checks.
type LintConfig struct {
	// Disable lists rule names that are not run.
	Disable []string
	// Strict promotes warnings to errors.
	Strict bool
}

// Enabled reports whether the rule is not disabled.
func (c LintConfig) Enabled(rule string) bool {
	for _, d := range c.Disable {
		if d == rule {
			return false
		}
	}
	return true
}

// Config is the resolved project configuration.
type Config struct {
	// Root is the directory holding the configuration file, or the
	// working directory when there is none.
	Root string

	// Manifests are the default manifest paths, relative to Root.
	Manifests []string

	// Pattern is the discovery glob for manifest file names.
	Pattern string

	Format      OutputFormat
	Parallelism int

	// StatePath is the absolute path of the lock state file.
	StatePath string

	Lint LintConfig
}
