package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"codestamp/internal/ecosystem"
	"codestamp/internal/git"
	"codestamp/internal/identity"
	"codestamp/internal/logging"
	"codestamp/internal/patch"
)

// Options selects what a capture records and which artifacts Persist writes.
type Options struct {
	IncludeUser       bool
	IncludeMachine    bool
	IncludePrimary    bool
	IncludeIsolated   bool
	IncludeLockfile   bool
	WriteWorkingDiff  bool
	WriteUnpushedDiff bool
}

// DefaultOptions records everything and writes the working diff but not the
// unpushed diff.
func DefaultOptions() Options {
	return Options{
		IncludeUser:      true,
		IncludeMachine:   true,
		IncludePrimary:   true,
		IncludeIsolated:  true,
		IncludeLockfile:  true,
		WriteWorkingDiff: true,
	}
}

func (o Options) includes(kind ecosystem.Kind) bool {
	switch kind {
	case ecosystem.KindPrimary:
		return o.IncludePrimary
	case ecosystem.KindIsolated:
		return o.IncludeIsolated
	case ecosystem.KindLockfile:
		return o.IncludeLockfile
	}
	return false
}

// Composer builds records from a repository and a set of inspectors.
type Composer struct {
	Repo       *git.Repo
	Inspectors []ecosystem.Inspector

	now      func() time.Time
	describe func() identity.Machine
}

// New creates a Composer over repo and inspectors, queried in the given order.
func New(repo *git.Repo, inspectors ...ecosystem.Inspector) *Composer {
	return &Composer{
		Repo:       repo,
		Inspectors: inspectors,
		now:        time.Now,
		describe:   identity.Describe,
	}
}

// Result is what Persist produced.
type Result struct {
	Record Record
	Files  []string
}

// Capture builds a record. A missing git user fails with
// git.ErrGitUserNotConfigured so the caller can retry without the user.
func (c *Composer) Capture(opts Options) (Record, error) {
	var rec Record
	rec.Date = c.now().Format(DateLayout)

	hash, err := c.Repo.CommitHash()
	if err != nil {
		return Record{}, fmt.Errorf("commit hash: %w", err)
	}
	rec.Git.Hash = hash

	if opts.IncludeUser {
		name, email, err := c.Repo.UserIdentity()
		if err != nil {
			return Record{}, err
		}
		rec.Git.User, rec.Git.Email = name, email
	}

	if opts.IncludeMachine {
		m := c.describe()
		rec.Node = &m
	}

	for _, insp := range c.included(opts) {
		snap, err := insp.Snapshot()
		if err != nil {
			return Record{}, fmt.Errorf("capture %s: %w", insp.Name(), err)
		}
		if snap == nil {
			continue
		}
		data, err := json.Marshal(snap.Parsed)
		if err != nil {
			return Record{}, fmt.Errorf("encode %s: %w", insp.Name(), err)
		}
		rec.Python.Entries = append(rec.Python.Entries, Entry{Name: insp.Name(), Data: data})
	}
	rec.Python.Version = c.interpreterVersion(opts)

	return rec, nil
}

// interpreterVersion asks the first included inspector that knows its
// interpreter version. Failures are logged, not returned.
func (c *Composer) interpreterVersion(opts Options) string {
	for _, insp := range c.included(opts) {
		v, ok := insp.(ecosystem.Versioned)
		if !ok {
			continue
		}
		version, err := v.Version()
		if err != nil {
			logging.New("state").Warn("interpreter version unavailable", "ecosystem", insp.Name(), "error", err)
			return ""
		}
		return version
	}
	return ""
}

func (c *Composer) included(opts Options) []ecosystem.Inspector {
	var out []ecosystem.Inspector
	for _, insp := range c.Inspectors {
		if opts.includes(insp.Kind()) {
			out = append(out, insp)
		}
	}
	return out
}

// Persist captures a record into dir along with the selected artifacts. The
// record is written first; the first failing artifact aborts and leaves what
// was already written in place.
func (c *Composer) Persist(dir string, opts Options) (Result, error) {
	log := logging.New("state")

	if err := os.MkdirAll(dir, 0755); err != nil {
		return Result{}, err
	}

	rec, err := c.Capture(opts)
	if err != nil {
		return Result{}, err
	}
	res := Result{Record: rec}

	path, err := rec.WriteToFile(dir)
	if err != nil {
		return res, err
	}
	res.Files = append(res.Files, path)
	log.Info("wrote record", "path", path, "hash", rec.Git.Hash)

	if opts.WriteWorkingDiff {
		path, err := c.Repo.WriteWorkingDiff(dir, git.DefaultDiffName)
		if err != nil {
			return res, fmt.Errorf("working diff: %w", err)
		}
		res.Files = append(res.Files, path)
		logPatch(path)
	}

	if opts.WriteUnpushedDiff {
		path, err := c.Repo.WriteUnpushedDiff(dir, "")
		if err != nil {
			return res, fmt.Errorf("unpushed diff: %w", err)
		}
		if path != "" {
			res.Files = append(res.Files, path)
			logPatch(path)
		}
	}

	for _, insp := range c.included(opts) {
		if !insp.IsActive() {
			continue
		}
		path := filepath.Join(dir, insp.RawFilename())
		if err := insp.SaveRaw(path); err != nil {
			return res, fmt.Errorf("save %s: %w", insp.Name(), err)
		}
		res.Files = append(res.Files, path)
		log.Info("wrote environment", "ecosystem", insp.Name(), "path", path)
	}

	return res, nil
}

func logPatch(path string) {
	log := logging.New("state")
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("patch unreadable", "path", path, "error", err)
		return
	}
	summary, err := patch.Summarize(data)
	if err != nil {
		log.Warn("patch unparseable", "path", path, "error", err)
		return
	}
	log.Info("wrote patch", "path", path, "files", summary.Files, "added", summary.Added, "removed", summary.Removed)
}
