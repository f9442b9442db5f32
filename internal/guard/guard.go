// Package guard refuses to proceed when the workspace has uncommitted work.
package guard

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDirtyWorkspace is wrapped by every DirtyWorkspaceError.
var ErrDirtyWorkspace = errors.New("workspace is dirty")

// Violation kinds, in the order they are checked.
const (
	KindModified  = "modified"
	KindUntracked = "untracked"
)

// Lister reports the files that make a workspace dirty. *git.Repo satisfies it.
type Lister interface {
	ModifiedFiles() ([]string, error)
	UntrackedFiles(extensions ...string) ([]string, error)
}

// Policy selects the checks. Extensions restricts the untracked check to
// names ending in one of them; empty means every untracked file counts.
type Policy struct {
	Modified   bool     `json:"modified"`
	Untracked  bool     `json:"untracked"`
	Extensions []string `json:"extensions,omitempty"`
}

// DefaultPolicy checks both modified and untracked files.
func DefaultPolicy() Policy {
	return Policy{Modified: true, Untracked: true}
}

// DirtyWorkspaceError carries the offending files of the first failing check.
type DirtyWorkspaceError struct {
	Kind  string
	Files []string
}

func (e *DirtyWorkspaceError) Error() string {
	return fmt.Sprintf("%d %s file(s): %s", len(e.Files), e.Kind, strings.Join(e.Files, ", "))
}

func (e *DirtyWorkspaceError) Unwrap() error { return ErrDirtyWorkspace }

// Enforce runs the enabled checks, modified files first. It returns a
// *DirtyWorkspaceError for the first non-empty list, or the lister's error.
func Enforce(l Lister, p Policy) error {
	if p.Modified {
		files, err := l.ModifiedFiles()
		if err != nil {
			return fmt.Errorf("list modified files: %w", err)
		}
		if len(files) > 0 {
			return &DirtyWorkspaceError{Kind: KindModified, Files: files}
		}
	}

	if p.Untracked {
		files, err := l.UntrackedFiles(p.Extensions...)
		if err != nil {
			return fmt.Errorf("list untracked files: %w", err)
		}
		if len(files) > 0 {
			return &DirtyWorkspaceError{Kind: KindUntracked, Files: files}
		}
	}

	return nil
}
