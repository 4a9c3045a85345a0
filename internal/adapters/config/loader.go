// Package config provides the configuration loader for reqs.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"go.trai.ch/reqs/internal/core/domain"
	"go.trai.ch/reqs/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// SupportedVersion is the configuration schema version this loader reads.
const SupportedVersion = "1"

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

var _ ports.ConfigLoader = (*Loader)(nil)

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load finds reqs.yaml in cwd or one of its parents and resolves it.
// Without a configuration file the defaults rooted at cwd are returned.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	configPath, found := findConfiguration(cwd)
	if !found {
		return Defaults(cwd), nil
	}

	var reqsfile Reqsfile
	if err := readAndUnmarshalYAML(configPath, &reqsfile); err != nil {
		return nil, err
	}

	return l.resolve(configPath, &reqsfile)
}

// Defaults returns the configuration used when no file is present.
func Defaults(root string) *domain.Config {
	root = filepath.Clean(root)
	return &domain.Config{
		Root:        root,
		Pattern:     domain.DefaultManifestPattern,
		Format:      domain.FormatText,
		Parallelism: runtime.NumCPU(),
		StatePath:   filepath.Join(root, filepath.FromSlash(domain.DefaultStatePath)),
	}
}

func findConfiguration(cwd string) (string, bool) {
	currentDir := cwd
	for {
		configPath := filepath.Join(currentDir, domain.ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			return "", false
		}
		currentDir = parentDir
	}
}

func (l *Loader) resolve(configPath string, reqsfile *Reqsfile) (*domain.Config, error) {
	if reqsfile.Version != "" && reqsfile.Version != SupportedVersion {
		l.Logger.Warn(fmt.Sprintf("%s declares version %q, reading it as version %s",
			configPath, reqsfile.Version, SupportedVersion))
	}

	cfg := Defaults(resolveRoot(configPath, reqsfile.Root))

	for _, m := range reqsfile.Manifests {
		if filepath.IsAbs(m) {
			return nil, invalidConfig(configPath, "manifests", m, "manifest paths must be relative to the root")
		}
		if m = filepath.Clean(m); !slices.Contains(cfg.Manifests, m) {
			cfg.Manifests = append(cfg.Manifests, m)
		}
	}

	if reqsfile.Pattern != "" {
		if _, err := filepath.Match(reqsfile.Pattern, ""); err != nil {
			return nil, invalidConfig(configPath, "pattern", reqsfile.Pattern, err.Error())
		}
		cfg.Pattern = reqsfile.Pattern
	}

	format, err := domain.ParseOutputFormat(reqsfile.Format)
	if err != nil {
		return nil, invalidConfig(configPath, "format", reqsfile.Format, err.Error())
	}
	cfg.Format = format

	switch {
	case reqsfile.Parallelism < 0:
		return nil, invalidConfig(configPath, "parallelism", reqsfile.Parallelism, "must not be negative")
	case reqsfile.Parallelism > 0:
		cfg.Parallelism = reqsfile.Parallelism
	}

	if reqsfile.State != "" {
		cfg.StatePath = resolvePath(cfg.Root, reqsfile.State)
	}

	cfg.Lint = domain.LintConfig{
		Disable: reqsfile.Lint.Disable,
		Strict:  reqsfile.Lint.Strict,
	}

	return cfg, nil
}

func invalidConfig(configPath, field string, value any, reason string) error {
	err := zerr.Wrap(domain.ErrInvalidConfig, reason)
	err = zerr.With(err, "field", field)
	err = zerr.With(err, "value", value)
	return zerr.With(err, "config", configPath)
}

// resolveRoot returns the root directory relative to the configuration file.
func resolveRoot(configPath, configuredRoot string) string {
	return resolvePath(filepath.Dir(configPath), configuredRoot)
}

func resolvePath(base, p string) string {
	if p == "" {
		return filepath.Clean(base)
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Clean(filepath.Join(base, p))
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is found by walking up from the working directory
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrConfigReadFailed, err.Error()), "config", configPath)
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, parseErr.Error()), "config", configPath)
	}

	return nil
}
