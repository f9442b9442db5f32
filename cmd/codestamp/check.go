package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"codestamp/internal/guard"
)

type checkFlags struct {
	ci   bool
	json bool
}

func newCheckCmd(a *app) *cobra.Command {
	var flags checkFlags
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Fail when the workspace has modified or untracked files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			ci := flags.ci || getEnvBool(a.environ, "CI")
			return reportGuard(a, guard.Enforce(a.repo(cfg), cfg.Policy()), ci, flags.json)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&flags.ci, "ci", false, "Print GitHub Actions annotations (default when CI=true)")
	f.BoolVar(&flags.json, "json", false, "Print the report as JSON")
	return cmd
}

// reportGuard prints the outcome of guard.Enforce and converts a dirty
// workspace into exitDirty. Other errors are returned unchanged.
func reportGuard(a *app, enforceErr error, ci, asJSON bool) error {
	report, err := guard.NewReport(enforceErr)
	if err != nil {
		return err
	}

	switch {
	case asJSON:
		out, err := guard.FormatJSON(report)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, out)
	case ci:
		fmt.Fprint(a.stderr, guard.FormatCI(report))
	case report.Clean:
		fmt.Fprint(a.stdout, guard.FormatCLI(report))
	default:
		fmt.Fprint(a.stderr, guard.FormatCLI(report))
	}

	if !report.Clean {
		return &codeError{code: exitDirty, err: enforceErr}
	}
	return nil
}

// getEnvBool reports whether name is set to a true value in environ.
func getEnvBool(environ []string, name string) bool {
	prefix := name + "="
	for _, env := range environ {
		if strings.HasPrefix(env, prefix) {
			val := strings.ToLower(strings.TrimPrefix(env, prefix))
			return val == "true" || val == "1" || val == "yes"
		}
	}
	return false
}
