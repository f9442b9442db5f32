package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored bundles, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			summaries, err := a.store(cfg).List()
			if err != nil {
				return err
			}

			if asJSON {
				data, err := json.MarshalIndent(summaries, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(a.stdout, string(data))
				return nil
			}

			if len(summaries) == 0 {
				fmt.Fprintln(a.stdout, "No bundles stored.")
				return nil
			}
			for _, s := range summaries {
				fmt.Fprintf(a.stdout, "%-32s %-10s %s\n", s.Name, s.Hash, s.Captured.Format(time.RFC3339))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the bundles as JSON")
	return cmd
}

func newPruneCmd(a *app) *cobra.Command {
	var olderThan time.Duration
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete bundles captured before a given age",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			deleted, err := a.store(cfg).Prune(olderThan)
			for _, name := range deleted {
				fmt.Fprintf(a.stdout, "Deleted %s\n", name)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Pruned %d bundle(s)\n", len(deleted))
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "Minimum age of bundles to delete, e.g. 720h (required)")
	_ = cmd.MarkFlagRequired("older-than")
	return cmd
}

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			data, err := cfg.ToYAML()
			if err != nil {
				return err
			}
			fmt.Fprint(a.stdout, string(data))
			return nil
		},
	}
}
