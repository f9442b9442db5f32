// Package config loads .codestamp.yaml and its environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"codestamp/internal/ecosystem"
	"codestamp/internal/guard"
	"codestamp/internal/state"
)

// Filename is the workspace configuration file.
const Filename = ".codestamp.yaml"

// Config is the effective configuration.
type Config struct {
	Git      string  `yaml:"git"`
	Python   string  `yaml:"python"`
	Conda    string  `yaml:"conda"`
	Lockfile string  `yaml:"lockfile"`
	Store    string  `yaml:"store,omitempty"`
	Capture  Capture `yaml:"capture"`
	Check    Check   `yaml:"check"`
}

// Capture selects record blocks and artifacts.
type Capture struct {
	User         bool `yaml:"user"`
	Machine      bool `yaml:"machine"`
	Pip          bool `yaml:"pip"`
	Conda        bool `yaml:"conda"`
	Lockfile     bool `yaml:"lockfile"`
	WorkingDiff  bool `yaml:"working_diff"`
	UnpushedDiff bool `yaml:"unpushed_diff"`
}

// Check configures the workspace guard.
type Check struct {
	Modified   bool     `yaml:"modified"`
	Untracked  bool     `yaml:"untracked"`
	Extensions []string `yaml:"extensions"`
}

// Defaults returns the configuration used when no file is present.
func Defaults() Config {
	return Config{
		Git:      "git",
		Python:   "python3",
		Conda:    "conda",
		Lockfile: ecosystem.DefaultLockfile,
		Capture: Capture{
			User:        true,
			Machine:     true,
			Pip:         true,
			Conda:       true,
			Lockfile:    true,
			WorkingDiff: true,
		},
		Check: Check{
			Modified:   true,
			Untracked:  true,
			Extensions: []string{},
		},
	}
}

// Parse overlays YAML content on the defaults. Unknown keys are rejected.
func Parse(content []byte) (Config, error) {
	cfg := Defaults()
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("invalid YAML: %w", err)
	}
	if cfg.Check.Extensions == nil {
		cfg.Check.Extensions = []string{}
	}
	return cfg, nil
}

// ToYAML serializes a Config back to YAML bytes.
func (c Config) ToYAML() ([]byte, error) {
	return yaml.Marshal(&c)
}

// Load reads Filename from dir, applies environment overrides and validates
// the result. A missing file yields the defaults.
func Load(dir string, environ []string) (Config, error) {
	cfg := Defaults()

	content, err := os.ReadFile(filepath.Join(dir, Filename))
	switch {
	case err == nil:
		cfg, err = Parse(content)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", Filename, err)
		}
	case !os.IsNotExist(err):
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.ApplyEnv(environ); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects empty executable names and empty extension entries.
func (c Config) Validate() error {
	for _, f := range []struct {
		key   string
		value string
	}{
		{"git", c.Git},
		{"python", c.Python},
		{"conda", c.Conda},
		{"lockfile", c.Lockfile},
	} {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%s: must not be empty", f.key)
		}
	}
	for i, ext := range c.Check.Extensions {
		if strings.TrimSpace(ext) == "" {
			return fmt.Errorf("check.extensions[%d]: must not be empty", i)
		}
	}
	return nil
}

// StoreDir returns the configured bundle store with a leading "~/" expanded,
// or "" when none is configured.
func (c Config) StoreDir() string {
	if rest, ok := strings.CutPrefix(c.Store, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}
	return c.Store
}

// Options maps the capture section onto composer options.
func (c Config) Options() state.Options {
	return state.Options{
		IncludeUser:       c.Capture.User,
		IncludeMachine:    c.Capture.Machine,
		IncludePrimary:    c.Capture.Pip,
		IncludeIsolated:   c.Capture.Conda,
		IncludeLockfile:   c.Capture.Lockfile,
		WriteWorkingDiff:  c.Capture.WorkingDiff,
		WriteUnpushedDiff: c.Capture.UnpushedDiff,
	}
}

// Policy maps the check section onto a guard policy.
func (c Config) Policy() guard.Policy {
	return guard.Policy{
		Modified:   c.Check.Modified,
		Untracked:  c.Check.Untracked,
		Extensions: c.Check.Extensions,
	}
}

// Tools returns the executables and lock file for the inspectors of dir.
func (c Config) Tools(dir string) ecosystem.Tools {
	return ecosystem.Tools{
		Python:   c.Python,
		Conda:    c.Conda,
		Dir:      dir,
		Lockfile: c.Lockfile,
	}
}
