// Package config loads mdcombine settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"

	"mdcombine/pkg/combine"
)

// GlobalIgnoreEnv names the environment variable holding a global ignore file.
const GlobalIgnoreEnv = "MDCOMBINE_GLOBAL_IGNORE"

// Candidate file names looked up in the working directory.
var fileNames = []string{".mdcombine.yaml", ".mdcombine.yml"}

// Config holds user settings. Zero fields are filled from Default.
type Config struct {
	Output       string   `yaml:"output,omitempty"`
	Pattern      string   `yaml:"pattern,omitempty"`
	DefaultExt   string   `yaml:"defaultExt,omitempty"`
	Workers      int      `yaml:"workers,omitempty"`
	Ignore       []string `yaml:"ignore,omitempty"`
	GlobalIgnore string   `yaml:"globalIgnore,omitempty"`
	Debug        bool     `yaml:"debug,omitempty"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Output:     "combined.md",
		Pattern:    "*.md",
		DefaultExt: ".md",
		Workers:    combine.DefaultWorkers,
	}
}

// Load reads path, or the first config file found in dir when path is
// empty. A missing file in dir is not an error; a missing explicit path is.
func Load(dir, path string) (Config, error) {
	cfg := Default()

	var data []byte
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		data = b
	} else {
		for _, name := range fileNames {
			b, err := os.ReadFile(filepath.Join(dir, name))
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					continue
				}
				return cfg, fmt.Errorf("read config: %w", err)
			}
			data = b
			break
		}
	}

	if data != nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.applyDefaults()

	if cfg.GlobalIgnore == "" {
		cfg.GlobalIgnore = os.Getenv(GlobalIgnoreEnv)
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.Output == "" {
		c.Output = d.Output
	}
	if c.Pattern == "" {
		c.Pattern = d.Pattern
	}
	if c.DefaultExt == "" {
		c.DefaultExt = d.DefaultExt
	}
	if c.Workers == 0 {
		c.Workers = d.Workers
	}
}

// Validate checks values that cannot be used as given.
func (c Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if _, err := glob.Compile(c.Pattern); err != nil {
		return fmt.Errorf("invalid pattern %q: %w", c.Pattern, err)
	}
	if c.DefaultExt != "" && c.DefaultExt[0] != '.' {
		return fmt.Errorf("defaultExt must start with '.', got %q", c.DefaultExt)
	}
	return nil
}
