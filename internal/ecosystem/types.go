// Package ecosystem captures installed-dependency snapshots from package
// ecosystems: pip, conda environments, and poetry lock files.
package ecosystem

import (
	"errors"
)

// ErrEnvironmentQueryFailed is returned when an ecosystem's listing command
// or lock file cannot be read.
var ErrEnvironmentQueryFailed = errors.New("environment query failed")

// Kind classifies an inspector so callers can include or skip whole groups.
type Kind string

const (
	KindPrimary  Kind = "primary"  // Main package installer
	KindIsolated Kind = "isolated" // Environment-isolation tool
	KindLockfile Kind = "lockfile" // Lock file on disk
)

// Inspector is the contract shared by every ecosystem.
type Inspector interface {
	// Name is the key the snapshot is recorded under.
	Name() string
	Kind() Kind
	// RawFilename is the file name used when persisting the raw dump.
	RawFilename() string
	// IsActive reports whether the ecosystem is usable here. It never runs
	// external processes.
	IsActive() bool
	// Load queries the ecosystem once; later calls are no-ops until
	// Invalidate.
	Load() error
	// Snapshot loads if needed and returns nil when the ecosystem is inactive.
	Snapshot() (*Snapshot, error)
	// SaveRaw loads if needed and writes the raw dump verbatim to path.
	SaveRaw(path string) error
	// Invalidate drops the cached snapshot.
	Invalidate()
}

// Versioned is implemented by inspectors that can report the interpreter
// version backing them.
type Versioned interface {
	Version() (string, error)
}

// Snapshot is a point-in-time capture of one ecosystem.
type Snapshot struct {
	Activated bool
	Raw       []byte // Ecosystem-native dump
	Parsed    any    // Normalized form, persisted as JSON
}

// Packages maps package name to version. A nil version marks an unpinned entry.
type Packages map[string]*string

// CondaEnvironment is the normalized form of `conda env export`.
type CondaEnvironment struct {
	Name         string            `json:"name"`
	Prefix       string            `json:"prefix"`
	Channels     []string          `json:"channels"`
	Dependencies CondaDependencies `json:"dependencies"`
}

// CondaDependencies holds the two disjoint dependency sets of a conda env.
type CondaDependencies struct {
	Conda map[string]CondaPackage `json:"conda"`
	Pip   Packages                `json:"pip"`
}

// CondaPackage is one conda-native dependency.
type CondaPackage struct {
	Version string `json:"version"`
	Build   string `json:"build"`
}

// LockfilePresence records that a lock file was found; its contents are
// persisted raw, not parsed.
type LockfilePresence struct {
	Present bool `json:"present"`
}

// cache is the one-way Unloaded -> Loaded state shared by inspectors.
type cache struct {
	loaded bool
	snap   Snapshot
}

func (c *cache) load(fetch func() (Snapshot, error)) error {
	if c.loaded {
		return nil
	}
	snap, err := fetch()
	if err != nil {
		return err
	}
	c.snap = snap
	c.loaded = true
	return nil
}

func (c *cache) snapshot() *Snapshot {
	if !c.snap.Activated {
		return nil
	}
	snap := c.snap
	return &snap
}

// Invalidate returns the inspector to the unloaded state.
func (c *cache) Invalidate() {
	c.loaded = false
	c.snap = Snapshot{}
}
