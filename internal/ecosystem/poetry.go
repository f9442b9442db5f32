package ecosystem

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultLockfile is the poetry lock file, relative to the workspace.
const DefaultLockfile = "poetry.lock"

// Poetry records the presence of a poetry lock file and copies it verbatim.
type Poetry struct {
	path string
	cache
}

// NewPoetry creates a lock-file inspector for dir/lockfile. An absolute
// lockfile is used as is; empty means DefaultLockfile.
func NewPoetry(dir, lockfile string) *Poetry {
	if lockfile == "" {
		lockfile = DefaultLockfile
	}
	if !filepath.IsAbs(lockfile) {
		lockfile = filepath.Join(dir, lockfile)
	}
	return &Poetry{path: lockfile}
}

func (p *Poetry) Name() string        { return "poetry" }
func (p *Poetry) Kind() Kind          { return KindLockfile }
func (p *Poetry) RawFilename() string { return filepath.Base(p.path) }

// IsActive reports whether the lock file exists.
func (p *Poetry) IsActive() bool {
	_, err := os.Stat(p.path)
	return err == nil
}

// Load reads the lock file once.
func (p *Poetry) Load() error {
	return p.load(func() (Snapshot, error) {
		if !p.IsActive() {
			return Snapshot{}, nil
		}
		data, err := os.ReadFile(p.path)
		if err != nil {
			return Snapshot{}, fmt.Errorf("%w: %w", ErrEnvironmentQueryFailed, err)
		}
		return Snapshot{Activated: true, Raw: data, Parsed: LockfilePresence{Present: true}}, nil
	})
}

func (p *Poetry) Snapshot() (*Snapshot, error) {
	if err := p.Load(); err != nil {
		return nil, err
	}
	return p.snapshot(), nil
}

func (p *Poetry) SaveRaw(path string) error {
	if err := p.Load(); err != nil {
		return err
	}
	return os.WriteFile(path, p.snap.Raw, 0644)
}
