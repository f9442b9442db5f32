package config

import (
	"fmt"
	"strconv"
	"strings"
)

// EnvPrefix is prepended to every override variable.
const EnvPrefix = "CODESTAMP_"

// PathToEnvVar converts a config path (dot-notation) to its override
// variable, e.g. "capture.unpushed_diff" -> "CODESTAMP_CAPTURE_UNPUSHED_DIFF".
func PathToEnvVar(path string) string {
	if path == "" {
		return ""
	}
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(path, ".", "_"))
}

// override assigns one config path from its string form.
type override struct {
	path string
	set  func(c *Config, value string) error
}

func stringField(path string, field func(c *Config) *string) override {
	return override{path: path, set: func(c *Config, value string) error {
		*field(c) = value
		return nil
	}}
}

func boolField(path string, field func(c *Config) *bool) override {
	return override{path: path, set: func(c *Config, value string) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: '%s' is not a boolean", PathToEnvVar(path), value)
		}
		*field(c) = b
		return nil
	}}
}

var overrides = []override{
	stringField("git", func(c *Config) *string { return &c.Git }),
	stringField("python", func(c *Config) *string { return &c.Python }),
	stringField("conda", func(c *Config) *string { return &c.Conda }),
	stringField("lockfile", func(c *Config) *string { return &c.Lockfile }),
	stringField("store", func(c *Config) *string { return &c.Store }),
	boolField("capture.user", func(c *Config) *bool { return &c.Capture.User }),
	boolField("capture.machine", func(c *Config) *bool { return &c.Capture.Machine }),
	boolField("capture.pip", func(c *Config) *bool { return &c.Capture.Pip }),
	boolField("capture.conda", func(c *Config) *bool { return &c.Capture.Conda }),
	boolField("capture.lockfile", func(c *Config) *bool { return &c.Capture.Lockfile }),
	boolField("capture.working_diff", func(c *Config) *bool { return &c.Capture.WorkingDiff }),
	boolField("capture.unpushed_diff", func(c *Config) *bool { return &c.Capture.UnpushedDiff }),
	boolField("check.modified", func(c *Config) *bool { return &c.Check.Modified }),
	boolField("check.untracked", func(c *Config) *bool { return &c.Check.Untracked }),
	{path: "check.extensions", set: func(c *Config, value string) error {
		c.Check.Extensions = splitList(value)
		return nil
	}},
}

// ApplyEnv applies CODESTAMP_* variables from environ (KEY=VALUE form).
func (c *Config) ApplyEnv(environ []string) error {
	vars := make(map[string]string, len(environ))
	for _, kv := range environ {
		if key, value, ok := strings.Cut(kv, "="); ok {
			vars[key] = value
		}
	}

	for _, o := range overrides {
		value, ok := vars[PathToEnvVar(o.path)]
		if !ok {
			continue
		}
		if err := o.set(c, value); err != nil {
			return err
		}
	}
	return nil
}

// splitList parses a comma-separated list; an empty value is an empty list.
func splitList(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
