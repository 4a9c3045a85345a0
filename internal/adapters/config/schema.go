package config

// Reqsfile represents the structure of the reqs.yaml configuration file.
type Reqsfile struct {
	Version     string   `yaml:"version"`
	Root        string   `yaml:"root"`
	Manifests   []string `yaml:"manifests"`
	Pattern     string   `yaml:"pattern"`
	Format      string   `yaml:"format"`
	Parallelism int      `yaml:"parallelism"`
	State       string   `yaml:"state"`
	Lint        LintDTO  `yaml:"lint"`
}

// LintDTO represents the lint section of the configuration.
type LintDTO struct {
	Disable []string `yaml:"disable"`
	Strict  bool     `yaml:"strict"`
}
