package ecosystem

import (
	"fmt"
	"os"
	"strings"

	"codestamp/internal/logging"
	"codestamp/internal/runner"
)

// Pip inspects packages installed for a Python interpreter via `pip freeze`.
type Pip struct {
	exec   runner.Executor
	python string
	cache
}

// NewPip creates a pip inspector. python defaults to "python3".
func NewPip(exec runner.Executor, python string) *Pip {
	if python == "" {
		python = "python3"
	}
	return &Pip{exec: exec, python: python}
}

func (p *Pip) Name() string        { return "pip_packages" }
func (p *Pip) Kind() Kind          { return KindPrimary }
func (p *Pip) RawFilename() string { return "pip-packages.txt" }

// IsActive is always true: the primary installer is expected everywhere and
// its absence is reported as a query failure.
func (p *Pip) IsActive() bool { return true }

// Load runs `pip freeze` once.
func (p *Pip) Load() error {
	return p.load(func() (Snapshot, error) {
		out, err := p.exec.Output(p.python, "-m", "pip", "freeze")
		if err != nil {
			return Snapshot{}, fmt.Errorf("%w: %s -m pip freeze: %w", ErrEnvironmentQueryFailed, p.python, err)
		}
		pkgs := ParseFreeze(string(out))
		logging.New("ecosystem").Debug("loaded pip packages", "count", len(pkgs))
		return Snapshot{Activated: true, Raw: out, Parsed: pkgs}, nil
	})
}

func (p *Pip) Snapshot() (*Snapshot, error) {
	if err := p.Load(); err != nil {
		return nil, err
	}
	return p.snapshot(), nil
}

func (p *Pip) SaveRaw(path string) error {
	if err := p.Load(); err != nil {
		return err
	}
	return os.WriteFile(path, p.snap.Raw, 0644)
}

// Version returns the interpreter version, e.g. "Python 3.11.4".
func (p *Pip) Version() (string, error) {
	out, err := p.exec.Output(p.python, "--version")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// ParseFreeze parses freeze-style output. Each line is "name==version" or a
// bare name, which is recorded as unpinned. Blank and comment lines are
// skipped.
func ParseFreeze(listing string) Packages {
	pkgs := Packages{}
	for _, line := range strings.Split(listing, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, version := parseRequirement(line)
		pkgs[name] = version
	}
	return pkgs
}

// parseRequirement splits on the first "==".
func parseRequirement(line string) (string, *string) {
	name, version, found := strings.Cut(line, "==")
	if !found {
		return line, nil
	}
	return name, &version
}
