package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestParse_OverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
python: /opt/py/bin/python
capture:
  unpushed_diff: true
  conda: false
check:
  extensions: [".py", ".ipynb"]
`))
	require.NoError(t, err)

	assert.Equal(t, "/opt/py/bin/python", cfg.Python)
	assert.Equal(t, "git", cfg.Git, "unset keys keep their default")
	assert.True(t, cfg.Capture.UnpushedDiff)
	assert.False(t, cfg.Capture.Conda)
	assert.True(t, cfg.Capture.Pip)
	assert.Equal(t, []string{".py", ".ipynb"}, cfg.Check.Extensions)
	assert.True(t, cfg.Check.Modified)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown top-level key", "gitt: git\n"},
		{"unknown nested key", "capture:\n  everything: true\n"},
		{"wrong type", "capture:\n  user: maybe\n"},
		{"malformed", "git: [unclosed\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content))
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"empty git", func(c *Config) { c.Git = "" }, "git: must not be empty"},
		{"blank python", func(c *Config) { c.Python = "  " }, "python: must not be empty"},
		{"empty extension", func(c *Config) { c.Check.Extensions = []string{".py", ""} }, "check.extensions[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)

	require.NoError(t, os.WriteFile(filepath.Join(dir, Filename), []byte("git: /usr/local/bin/git\n"), 0644))
	cfg, err = Load(dir, []string{"CODESTAMP_PYTHON=python3.12"})
	require.NoError(t, err)
	assert.Equal(t, "/usr/local/bin/git", cfg.Git)
	assert.Equal(t, "python3.12", cfg.Python)
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, Filename), []byte("bogus: 1\n"), 0644))

	_, err := Load(dir, nil)
	assert.ErrorContains(t, err, Filename)
}

func TestLoad_EmptyOverrideRejected(t *testing.T) {
	_, err := Load(t.TempDir(), []string{"CODESTAMP_GIT="})
	assert.ErrorContains(t, err, "git: must not be empty")
}

func TestMappings(t *testing.T) {
	cfg := Defaults()
	cfg.Capture.UnpushedDiff = true
	cfg.Check.Extensions = []string{".py"}

	opts := cfg.Options()
	assert.True(t, opts.IncludeUser)
	assert.True(t, opts.IncludePrimary)
	assert.True(t, opts.WriteUnpushedDiff)

	policy := cfg.Policy()
	assert.True(t, policy.Modified)
	assert.Equal(t, []string{".py"}, policy.Extensions)

	tools := cfg.Tools("/work")
	assert.Equal(t, "/work", tools.Dir)
	assert.Equal(t, "python3", tools.Python)
}

func TestStoreDir(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg := Defaults()
	assert.Empty(t, cfg.StoreDir())

	cfg.Store = "~/stamps"
	assert.Equal(t, filepath.Join(home, "stamps"), cfg.StoreDir())

	cfg.Store = "/data/stamps"
	assert.Equal(t, "/data/stamps", cfg.StoreDir())
}

// Serializing a config and parsing it back yields the same config.
func TestConfigRoundTrip_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	genExtensions := gen.SliceOf(gen.RegexMatch(`\.[a-z]{1,4}`)).Map(func(exts []string) []string {
		if exts == nil {
			return []string{}
		}
		return exts
	})

	properties.Property("parse(toYAML(c)) == c", prop.ForAll(
		func(git, python string, user, unpushed, untracked bool, exts []string) bool {
			cfg := Defaults()
			cfg.Git = git
			cfg.Python = python
			cfg.Capture.User = user
			cfg.Capture.UnpushedDiff = unpushed
			cfg.Check.Untracked = untracked
			cfg.Check.Extensions = exts

			data, err := cfg.ToYAML()
			if err != nil {
				return false
			}
			back, err := Parse(data)
			if err != nil {
				return false
			}
			return assert.ObjectsAreEqual(cfg, back)
		},
		gen.Identifier(),
		gen.Identifier(),
		gen.Bool(),
		gen.Bool(),
		gen.Bool(),
		genExtensions,
	))

	properties.TestingRun(t)
}
