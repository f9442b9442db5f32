package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"codestamp/internal/bundle"
	"codestamp/internal/ecosystem"
	"codestamp/internal/patch"
	"codestamp/internal/state"
)

var headingStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("39"))

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <bundle|dir>",
		Short: "Print a captured record and its patch statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			dir, err := locate(a.store(cfg), args[0])
			if err != nil {
				return err
			}
			rec, err := state.LoadRecord(dir)
			if err != nil {
				return err
			}
			return printRecord(a.stdout, dir, rec)
		},
	}
}

// locate resolves a directory holding a record, or a bundle name in store.
func locate(store *bundle.Store, arg string) (string, error) {
	if _, err := os.Stat(filepath.Join(arg, state.RecordFilename)); err == nil {
		return arg, nil
	}
	if store.Exists(arg) {
		return store.Path(arg), nil
	}
	return "", fmt.Errorf("%s: %w", arg, bundle.ErrBundleNotFound)
}

func printRecord(w io.Writer, dir string, rec state.Record) error {
	fmt.Fprintln(w, headingStyle.Render("Commit"))
	fmt.Fprintf(w, "  hash:  %s\n", rec.Git.Hash)
	if rec.Git.User != "" {
		fmt.Fprintf(w, "  user:  %s <%s>\n", rec.Git.User, rec.Git.Email)
	}
	fmt.Fprintf(w, "  date:  %s\n", rec.Date)

	if rec.Node != nil {
		fmt.Fprintln(w, headingStyle.Render("Machine"))
		for _, f := range []struct {
			label string
			value *string
		}{
			{"username", rec.Node.Username},
			{"node", rec.Node.Node},
			{"system", rec.Node.System},
			{"release", rec.Node.Release},
			{"version", rec.Node.Version},
		} {
			if f.value != nil {
				fmt.Fprintf(w, "  %-9s %s\n", f.label+":", *f.value)
			}
		}
	}

	if rec.Python.Version != "" || len(rec.Python.Entries) > 0 {
		fmt.Fprintln(w, headingStyle.Render("Environments"))
		if rec.Python.Version != "" {
			fmt.Fprintf(w, "  interpreter: %s\n", rec.Python.Version)
		}
		for _, entry := range rec.Python.Entries {
			flat, err := ecosystem.Flatten(entry.Name, entry.Data)
			if err != nil {
				return err
			}
			if flat == nil {
				fmt.Fprintf(w, "  %s: present\n", entry.Name)
				continue
			}
			fmt.Fprintf(w, "  %s: %d package(s)\n", entry.Name, len(flat))
		}
	}

	patches, err := filepath.Glob(filepath.Join(dir, "*.patch"))
	if err != nil {
		return err
	}
	sort.Strings(patches)
	if len(patches) > 0 {
		fmt.Fprintln(w, headingStyle.Render("Patches"))
		for _, path := range patches {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			summary, err := patch.Summarize(data)
			if err != nil {
				return fmt.Errorf("%s: %w", filepath.Base(path), err)
			}
			fmt.Fprintf(w, "  %s: %s\n", filepath.Base(path), summary)
		}
	}
	return nil
}
