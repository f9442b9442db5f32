package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"codestamp/internal/bundle"
	"codestamp/internal/git"
	"codestamp/internal/guard"
)

type captureFlags struct {
	clean     bool
	unpushed  bool
	noUser    bool
	noMachine bool
}

func newCaptureCmd(a *app) *cobra.Command {
	var flags captureFlags
	cmd := &cobra.Command{
		Use:   "capture [dir]",
		Short: "Write the workspace state into dir, or into a new bundle",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCapture(a, flags, args)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&flags.clean, "clean", false, "Refuse to capture a dirty workspace")
	f.BoolVar(&flags.unpushed, "unpushed", false, "Also write the diff of commits not yet pushed")
	f.BoolVar(&flags.noUser, "no-user", false, "Leave the git user out of the record")
	f.BoolVar(&flags.noMachine, "no-machine", false, "Leave the machine description out of the record")
	return cmd
}

func runCapture(a *app, flags captureFlags, args []string) error {
	cfg, err := a.config()
	if err != nil {
		return err
	}
	repo := a.repo(cfg)

	if flags.clean {
		if err := reportGuard(a, guard.Enforce(repo, cfg.Policy()), false, false); err != nil {
			return err
		}
	}

	opts := cfg.Options()
	if flags.unpushed {
		opts.WriteUnpushedDiff = true
	}
	if flags.noUser {
		opts.IncludeUser = false
	}
	if flags.noMachine {
		opts.IncludeMachine = false
	}

	dir := ""
	if len(args) == 1 {
		dir = args[0]
	} else {
		hash, err := repo.CommitHash()
		if err != nil {
			return fmt.Errorf("commit hash: %w", err)
		}
		dir = a.store(cfg).Path(bundle.NewName(time.Now(), hash))
	}

	res, err := a.composer(cfg).Persist(dir, opts)
	if err != nil {
		switch {
		case errors.Is(err, git.ErrGitUserNotConfigured):
			return fmt.Errorf("%w; set user.name and user.email in git, or pass --no-user", err)
		case errors.Is(err, git.ErrNoSyncedCommit):
			return fmt.Errorf("%w; no commit has been pushed to a remote; drop --unpushed", err)
		}
		return err
	}

	fmt.Fprintf(a.stdout, "Captured %s into %s\n", res.Record.Git.Hash, dir)
	for _, path := range res.Files {
		fmt.Fprintf(a.stdout, "  %s\n", path)
	}
	return nil
}
