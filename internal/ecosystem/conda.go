package ecosystem

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"codestamp/internal/logging"
	"codestamp/internal/runner"
)

// condaPrefixVar is set by conda in every activated environment.
const condaPrefixVar = "CONDA_PREFIX"

// pipMarker is the key of the pip sub-list in an exported manifest.
const pipMarker = "pip"

// Conda inspects the active conda environment via `conda env export`.
type Conda struct {
	exec      runner.Executor
	conda     string
	lookupEnv func(string) (string, bool)
	cache
}

// NewConda creates a conda inspector. condaPath defaults to "conda".
func NewConda(exec runner.Executor, condaPath string) *Conda {
	if condaPath == "" {
		condaPath = "conda"
	}
	return &Conda{exec: exec, conda: condaPath, lookupEnv: os.LookupEnv}
}

func (c *Conda) Name() string        { return "conda" }
func (c *Conda) Kind() Kind          { return KindIsolated }
func (c *Conda) RawFilename() string { return "conda_env.yaml" }

// IsActive reports whether a conda environment is activated.
func (c *Conda) IsActive() bool {
	_, ok := c.lookupEnv(condaPrefixVar)
	return ok
}

// Load exports the active environment once. Inactive environments load as
// empty without running conda.
func (c *Conda) Load() error {
	return c.load(func() (Snapshot, error) {
		if !c.IsActive() {
			return Snapshot{}, nil
		}
		out, err := c.exec.Output(c.conda, "env", "export")
		if err != nil {
			return Snapshot{}, fmt.Errorf("%w: %s env export: %w", ErrEnvironmentQueryFailed, c.conda, err)
		}
		env, err := ParseCondaExport(out)
		if err != nil {
			return Snapshot{}, fmt.Errorf("%w: %w", ErrEnvironmentQueryFailed, err)
		}
		logging.New("ecosystem").Debug("loaded conda environment",
			"name", env.Name, "conda", len(env.Dependencies.Conda), "pip", len(env.Dependencies.Pip))
		return Snapshot{Activated: true, Raw: out, Parsed: env}, nil
	})
}

func (c *Conda) Snapshot() (*Snapshot, error) {
	if err := c.Load(); err != nil {
		return nil, err
	}
	return c.snapshot(), nil
}

func (c *Conda) SaveRaw(path string) error {
	if err := c.Load(); err != nil {
		return err
	}
	return os.WriteFile(path, c.snap.Raw, 0644)
}

// exportFile mirrors the YAML written by `conda env export`.
type exportFile struct {
	Name         string      `yaml:"name"`
	Prefix       string      `yaml:"prefix"`
	Channels     []string    `yaml:"channels"`
	Dependencies []yaml.Node `yaml:"dependencies"`
}

// ParseCondaExport parses an exported environment manifest. Plain entries
// are "name=version=build"; a {pip: [...]} entry holds freeze-style lines.
func ParseCondaExport(data []byte) (CondaEnvironment, error) {
	var ef exportFile
	if err := yaml.Unmarshal(data, &ef); err != nil {
		return CondaEnvironment{}, fmt.Errorf("invalid conda manifest: %w", err)
	}

	env := CondaEnvironment{
		Name:     ef.Name,
		Prefix:   ef.Prefix,
		Channels: ef.Channels,
		Dependencies: CondaDependencies{
			Conda: map[string]CondaPackage{},
			Pip:   Packages{},
		},
	}
	if env.Channels == nil {
		env.Channels = []string{}
	}

	for i := range ef.Dependencies {
		node := &ef.Dependencies[i]
		switch node.Kind {
		case yaml.ScalarNode:
			name, pkg := parseCondaSpec(node.Value)
			env.Dependencies.Conda[name] = pkg
		case yaml.MappingNode:
			if err := parsePipSection(node, env.Dependencies.Pip); err != nil {
				return CondaEnvironment{}, err
			}
		default:
			return CondaEnvironment{}, fmt.Errorf("dependency at line %d: unexpected YAML node", node.Line)
		}
	}

	return env, nil
}

// parseCondaSpec splits "name=version=build". Missing parts stay empty.
func parseCondaSpec(spec string) (string, CondaPackage) {
	parts := strings.SplitN(spec, "=", 3)
	var pkg CondaPackage
	if len(parts) > 1 {
		pkg.Version = parts[1]
	}
	if len(parts) > 2 {
		pkg.Build = parts[2]
	}
	return parts[0], pkg
}

func parsePipSection(node *yaml.Node, into Packages) error {
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if key.Value != pipMarker {
			continue
		}
		var lines []string
		if err := value.Decode(&lines); err != nil {
			return fmt.Errorf("pip dependencies at line %d: %w", value.Line, err)
		}
		for _, line := range lines {
			name, version := parseRequirement(strings.TrimSpace(line))
			into[name] = version
		}
	}
	return nil
}
