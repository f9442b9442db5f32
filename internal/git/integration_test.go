package git

import (
	"errors"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"codestamp/internal/git/gittest"
	"codestamp/internal/runner"
)

func TestRepo_TwoCommitWorkspace(t *testing.T) {
	fixture := gittest.TwoCommits(t)
	repo := New(runner.New(fixture.Dir), "")

	hash, err := repo.CommitHash()
	if err != nil {
		t.Fatalf("CommitHash() error = %v", err)
	}
	if hash != fixture.ShortHash() {
		t.Errorf("CommitHash() = %q, want %q", hash, fixture.ShortHash())
	}
	if msg := fixture.Subject(hash); msg != "c2" {
		t.Errorf("commit %s subject = %q, want c2", hash, msg)
	}

	modified, err := repo.ModifiedFiles()
	if err != nil {
		t.Fatal(err)
	}
	if len(modified) != 0 {
		t.Errorf("ModifiedFiles() = %v, want empty", modified)
	}

	untracked, err := repo.UntrackedFiles()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"x.txt"}, untracked); diff != "" {
		t.Errorf("UntrackedFiles() mismatch (-want +got):\n%s", diff)
	}

	if _, err := repo.UnpushedRange(); !errors.Is(err, ErrNoSyncedCommit) {
		t.Errorf("UnpushedRange() error = %v, want ErrNoSyncedCommit", err)
	}
	if _, err := repo.WriteUnpushedDiff(t.TempDir(), ""); !errors.Is(err, ErrNoSyncedCommit) {
		t.Errorf("WriteUnpushedDiff() error = %v, want ErrNoSyncedCommit", err)
	}
}

func TestRepo_ModifiedFiles(t *testing.T) {
	fixture := gittest.TwoCommits(t)
	fixture.Write("a.txt", "changed\n")

	got, err := New(runner.New(fixture.Dir), "").ModifiedFiles()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a.txt"}, got); diff != "" {
		t.Errorf("ModifiedFiles() mismatch (-want +got):\n%s", diff)
	}
}

func TestRepo_WorkingDiffRoundTrip(t *testing.T) {
	fixture := gittest.TwoCommits(t)
	fixture.Write("a.txt", "one\ntwo\nthree\n")
	repo := New(runner.New(fixture.Dir), "")

	returned, err := repo.WorkingDiff()
	if err != nil {
		t.Fatal(err)
	}
	if returned == "" {
		t.Fatal("WorkingDiff() is empty for a modified tree")
	}

	path, err := repo.WriteWorkingDiff(t.TempDir(), "")
	if err != nil {
		t.Fatal(err)
	}
	written, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(written) != returned {
		t.Errorf("written diff differs from returned diff:\n%s", cmp.Diff(returned, string(written)))
	}
}

func TestRepo_UserIdentity(t *testing.T) {
	fixture := gittest.TwoCommits(t)
	repo := New(runner.New(fixture.Dir), "")

	if _, _, err := repo.UserIdentity(); !errors.Is(err, ErrGitUserNotConfigured) {
		t.Fatalf("UserIdentity() error = %v, want ErrGitUserNotConfigured", err)
	}

	fixture.Git("config", "user.name", "Grace Hopper")
	fixture.Git("config", "user.email", "grace@example.com")

	name, email, err := repo.UserIdentity()
	if err != nil {
		t.Fatalf("UserIdentity() error = %v", err)
	}
	if name != "Grace Hopper" || email != "grace@example.com" {
		t.Errorf("UserIdentity() = (%q, %q)", name, email)
	}
}

func TestRepo_GitNotFound(t *testing.T) {
	repo := New(runner.New(t.TempDir()), "/usr/not/found/git")

	if _, err := repo.CommitHash(); !errors.Is(err, runner.ErrToolNotFound) {
		t.Errorf("CommitHash() error = %v, want ErrToolNotFound", err)
	}
}
