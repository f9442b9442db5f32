package main

import (
	"io"

	"github.com/spf13/cobra"

	"codestamp/internal/bundle"
	"codestamp/internal/config"
	"codestamp/internal/ecosystem"
	"codestamp/internal/git"
	"codestamp/internal/logging"
	"codestamp/internal/runner"
	"codestamp/internal/state"
)

// version is set at build time via -ldflags.
var version = "dev"

// app holds the process inputs and global flags shared by subcommands.
type app struct {
	environ []string
	stdout  io.Writer
	stderr  io.Writer

	logLevel  string
	logFormat string
	dir       string
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "codestamp",
		Short: "Capture the code and environment state of a workspace",
		Long: "codestamp records the commit, uncommitted changes, machine and installed\n" +
			"packages of a workspace so experiment results can be traced to their source.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logging.Init(logging.ParseLevel(a.logLevel), a.logFormat, a.stderr)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	f.StringVar(&a.logFormat, "log-format", "auto", "Log format (text, json, auto)")
	f.StringVar(&a.dir, "dir", ".", "Workspace directory")

	root.AddCommand(
		newCaptureCmd(a),
		newCheckCmd(a),
		newShowCmd(a),
		newDriftCmd(a),
		newListCmd(a),
		newPruneCmd(a),
		newConfigCmd(a),
	)
	return root
}

func (a *app) config() (config.Config, error) {
	return config.Load(a.dir, a.environ)
}

func (a *app) repo(cfg config.Config) *git.Repo {
	return git.New(runner.New(a.dir), cfg.Git)
}

func (a *app) composer(cfg config.Config) *state.Composer {
	inspectors := ecosystem.Standard(runner.New(a.dir), cfg.Tools(a.dir))
	return state.New(a.repo(cfg), inspectors...)
}

func (a *app) store(cfg config.Config) *bundle.Store {
	if dir := cfg.StoreDir(); dir != "" {
		return bundle.NewStore(dir)
	}
	return bundle.NewStore(bundle.ResolveDir(a.environ))
}
