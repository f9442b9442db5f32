package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"codestamp/internal/drift"
	"codestamp/internal/state"
)

type driftFlags struct {
	json        bool
	failOnDrift bool
}

func newDriftCmd(a *app) *cobra.Command {
	var flags driftFlags
	cmd := &cobra.Command{
		Use:   "drift <base> <current>",
		Short: "Compare the commit and packages of two captures",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			store := a.store(cfg)

			var sides [2]drift.Labeled
			for i, arg := range args {
				dir, err := locate(store, arg)
				if err != nil {
					return err
				}
				rec, err := state.LoadRecord(dir)
				if err != nil {
					return err
				}
				sides[i] = drift.Labeled{Name: arg, Record: rec}
			}

			report, err := drift.Detect(sides[0], sides[1])
			if err != nil {
				return err
			}

			if flags.json {
				out, err := drift.FormatJSON(report)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.stdout, out)
			} else {
				fmt.Fprint(a.stdout, drift.FormatCLI(report))
			}

			if flags.failOnDrift && report.HasDrift {
				return &codeError{code: exitDirty, err: errors.New("drift detected")}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.BoolVar(&flags.json, "json", false, "Print the report as JSON")
	f.BoolVar(&flags.failOnDrift, "fail-on-drift", false, "Exit 1 when the captures differ")
	return cmd
}
