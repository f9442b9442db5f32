// Package git inspects a git working tree: commit identity, configured user,
// modified and untracked files, diffs, and the unpushed span of history.
// It never mutates the repository.
package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codestamp/internal/runner"
)

// Repo queries a working tree through the git executable.
type Repo struct {
	exec runner.Executor
	git  string
}

// New creates a Repo. gitPath overrides the executable; empty means "git"
// resolved from the system path.
func New(exec runner.Executor, gitPath string) *Repo {
	if gitPath == "" {
		gitPath = "git"
	}
	return &Repo{exec: exec, git: gitPath}
}

// Run invokes git with args and returns its decoded standard output.
func (r *Repo) Run(args ...string) (string, error) {
	out, err := r.exec.Output(r.git, args...)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// RunToFile invokes git with args, redirecting standard output to path.
func (r *Repo) RunToFile(path string, args ...string) error {
	return r.exec.ToFile(path, r.git, args...)
}

// ConfigValue returns a single trimmed config value. An unset key fails with
// runner.ErrCommandFailed.
func (r *Repo) ConfigValue(key string) (string, error) {
	out, err := r.Run("config", "--get", key)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// UserIdentity returns the configured user name and email.
func (r *Repo) UserIdentity() (name, email string, err error) {
	name, err = r.ConfigValue("user.name")
	if err != nil {
		return "", "", userError("user.name", err)
	}
	email, err = r.ConfigValue("user.email")
	if err != nil {
		return "", "", userError("user.email", err)
	}
	return name, email, nil
}

func userError(key string, err error) error {
	if errors.Is(err, runner.ErrCommandFailed) {
		return fmt.Errorf("%w: %s is not set: %w", ErrGitUserNotConfigured, key, err)
	}
	return err
}

// CommitHash returns the short hash of HEAD.
func (r *Repo) CommitHash() (string, error) {
	out, err := r.Run("rev-parse", "--short", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// ModifiedFiles lists tracked files that differ from the last commit, in
// the order git reports them.
func (r *Repo) ModifiedFiles() ([]string, error) {
	out, err := r.Run("ls-files", "-m")
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// UntrackedFiles lists files that are neither tracked nor ignored. When
// extensions are given only names ending in one of them are kept.
func (r *Repo) UntrackedFiles(extensions ...string) ([]string, error) {
	out, err := r.Run("ls-files", "-o", "--exclude-standard")
	if err != nil {
		return nil, err
	}
	return FilterByExtension(splitLines(out), extensions), nil
}

// WorkingDiff returns the diff between the working tree and HEAD.
func (r *Repo) WorkingDiff() (string, error) {
	return r.Run("diff", "HEAD")
}

// WriteWorkingDiff writes the working tree diff to dir/filename, creating dir
// if needed. An empty filename means DefaultDiffName. Returns the written path.
func (r *Repo) WriteWorkingDiff(dir, filename string) (string, error) {
	if filename == "" {
		filename = DefaultDiffName
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, filename)
	if err := r.RunToFile(path, "diff", "HEAD"); err != nil {
		return "", err
	}
	return path, nil
}

// UnpushedRange inspects the full reference log and returns the span of
// commits not yet on any remote.
func (r *Repo) UnpushedRange() (Range, error) {
	out, err := r.Run("reflog", "--all")
	if err != nil {
		return Range{}, err
	}
	return ParseUnpushedRange(out)
}

// UnpushedDiff returns the diff across the unpushed range, or "" when
// nothing is unpushed.
func (r *Repo) UnpushedDiff() (string, error) {
	rng, err := r.UnpushedRange()
	if err != nil {
		return "", err
	}
	if rng.Empty() {
		return "", nil
	}
	return r.Run("diff", rng.Start, rng.End)
}

// WriteUnpushedDiff writes the unpushed diff into dir. An empty filename
// embeds both range hashes. Returns "" without writing when nothing is
// unpushed.
func (r *Repo) WriteUnpushedDiff(dir, filename string) (string, error) {
	rng, err := r.UnpushedRange()
	if err != nil {
		return "", err
	}
	if rng.Empty() {
		return "", nil
	}
	if filename == "" {
		filename = rng.PatchName()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, filename)
	if err := r.RunToFile(path, "diff", rng.Start, rng.End); err != nil {
		return "", err
	}
	return path, nil
}

// ParseUnpushedRange derives the unpushed span from `git reflog --all`
// output, newest entry first.
//
// If the newest entry names a remote-tracking ref nothing is unpushed.
// Otherwise End is the newest entry's hash and Start the hash of the nearest
// older entry naming a remote-tracking ref.
func ParseUnpushedRange(reflog string) (Range, error) {
	lines := splitLines(reflog)
	if len(lines) == 0 {
		return Range{}, fmt.Errorf("%w: reference log is empty", ErrNoSyncedCommit)
	}

	if strings.Contains(lines[0], remoteMarker) {
		return Range{}, nil
	}

	end := entryHash(lines[0])
	for _, line := range lines[1:] {
		if strings.Contains(line, remoteMarker) {
			return Range{Start: entryHash(line), End: end}, nil
		}
	}

	return Range{}, fmt.Errorf("%w: none of %d reference log entries names %s", ErrNoSyncedCommit, len(lines), remoteMarker)
}

// FilterByExtension keeps the names ending in any of extensions, preserving
// order. No extensions means no filtering.
func FilterByExtension(names []string, extensions []string) []string {
	if len(extensions) == 0 {
		return names
	}

	filtered := []string{}
	for _, name := range names {
		for _, ext := range extensions {
			if strings.HasSuffix(name, ext) {
				filtered = append(filtered, name)
				break
			}
		}
	}
	return filtered
}

// entryHash returns the leading hash of a reference log line.
func entryHash(line string) string {
	hash, _, _ := strings.Cut(line, " ")
	return hash
}

// splitLines splits tool output into lines, dropping the trailing newline.
func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return []string{}
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
