package domain

import "go.trai.ch/zerr"

var (
	// ErrEmptyRequirement is returned when a requirement specifier has no content.
	ErrEmptyRequirement = zerr.New("empty requirement")

	// ErrInvalidName is returned when a package name does not follow the PEP 508 name grammar.
	ErrInvalidName = zerr.New("invalid package name")

	// ErrInvalidExtras is returned when an extras list is unterminated or holds an invalid extra name.
	ErrInvalidExtras = zerr.New("invalid extras")

	// ErrInvalidSpecifier is returned when a version specifier cannot be parsed.
	ErrInvalidSpecifier = zerr.New("invalid version specifier")

	// ErrInvalidMarker is returned when a ';' is not followed by an environment marker.
	ErrInvalidMarker = zerr.New("invalid environment marker")

	// ErrInvalidURL is returned when a direct reference or index URL is malformed.
	ErrInvalidURL = zerr.New("invalid url")

	// ErrUnknownOption is returned for option flags the manifest format does not support.
	ErrUnknownOption = zerr.New("unknown option")

	// ErrMissingOptionValue is returned when an option that requires a value has none.
	ErrMissingOptionValue = zerr.New("missing option value")

	// ErrUnexpectedOptionValue is returned when a flag option is given a value.
	ErrUnexpectedOptionValue = zerr.New("option does not take a value")

	// ErrInvalidManifest is returned when a manifest contains at least one unparseable line.
	ErrInvalidManifest = zerr.New("invalid manifest")

	// ErrIncludeCycle is returned when manifests include each other in a cycle.
	ErrIncludeCycle = zerr.New("include cycle detected")

	// ErrManifestNotFound is returned when a manifest file does not exist.
	ErrManifestNotFound = zerr.New("manifest not found")

	// ErrNoManifests is returned when no manifest paths were given, configured or discovered.
	ErrNoManifests = zerr.New("no manifests found")

	// ErrUnknownFormat is returned when an output format name is not recognized.
	ErrUnknownFormat = zerr.New("unknown output format")

	// ErrCheckFailed is returned when a check reports at least one error-level diagnostic.
	ErrCheckFailed = zerr.New("check failed")

	// ErrNotFormatted is returned by a format check when a manifest is not in canonical form.
	ErrNotFormatted = zerr.New("manifest is not formatted")

	// ErrStateDrift is returned when a manifest no longer matches its locked state.
	ErrStateDrift = zerr.New("manifest differs from locked state")

	// ErrConfigReadFailed is returned when the configuration file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the configuration file is not valid YAML.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidConfig is returned when a configuration value is out of range.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrStateCorrupt is returned when the lock state file cannot be decoded.
	ErrStateCorrupt = zerr.New("lock state is corrupt")
)
