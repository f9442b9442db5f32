// Package gittest builds throwaway git repositories for tests.
package gittest

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// Repo is a scratch repository rooted at Dir.
type Repo struct {
	t   testing.TB
	Dir string
}

// Init creates an empty repository in a temp dir, skipping the test when git
// is unavailable. Global and system git config are isolated for the test.
func Init(t testing.TB) *Repo {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	Isolate(t)

	r := &Repo{t: t, Dir: t.TempDir()}
	r.Git("init", "-q")
	return r
}

// Isolate points git at an empty global config and disables system config,
// so host settings (user identity, hooks) cannot leak into a test.
func Isolate(t testing.TB) {
	t.Helper()
	t.Setenv("GIT_CONFIG_GLOBAL", filepath.Join(t.TempDir(), "gitconfig"))
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
}

// Git runs git in the repository and returns trimmed stdout. Any failure
// fails the test.
func (r *Repo) Git(args ...string) string {
	r.t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		r.t.Fatalf("git %s: %v: %s", strings.Join(args, " "), err, stderr.String())
	}
	return strings.TrimSpace(stdout.String())
}

// Write creates or overwrites a file relative to the repository root.
func (r *Repo) Write(name, content string) {
	r.t.Helper()
	path := filepath.Join(r.Dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		r.t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		r.t.Fatal(err)
	}
}

// Commit stages files and commits them with a fixed test identity passed on
// the command line, leaving the repository's own user config untouched.
func (r *Repo) Commit(msg string, files ...string) string {
	r.t.Helper()
	r.Git(append([]string{"add", "--"}, files...)...)
	r.Git("-c", "user.name=Test", "-c", "user.email=test@example.com", "commit", "-q", "-m", msg)
	return r.ShortHash()
}

// ShortHash returns the short hash of HEAD.
func (r *Repo) ShortHash() string {
	r.t.Helper()
	return r.Git("rev-parse", "--short", "HEAD")
}

// Subject returns the commit message subject of rev.
func (r *Repo) Subject(rev string) string {
	r.t.Helper()
	return r.Git("log", "-1", "--pretty=%s", rev)
}

// TwoCommits builds the canonical fixture: commit "c1", commit "c2", and an
// untracked x.txt.
func TwoCommits(t testing.TB) *Repo {
	t.Helper()
	r := Init(t)
	r.Write("a.txt", "one\n")
	r.Commit("c1", "a.txt")
	r.Write("a.txt", "one\ntwo\n")
	r.Commit("c2", "a.txt")
	r.Write("x.txt", "scratch\n")
	return r
}
