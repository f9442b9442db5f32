package guard

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Report is the outcome of a check, as rendered by the formatters.
type Report struct {
	Clean bool     `json:"clean"`
	Kind  string   `json:"kind,omitempty"`
	Files []string `json:"files"`
}

// NewReport converts the result of Enforce. Errors other than a dirty
// workspace are returned unchanged.
func NewReport(err error) (Report, error) {
	if err == nil {
		return Report{Clean: true, Files: []string{}}, nil
	}
	var dirty *DirtyWorkspaceError
	if !errors.As(err, &dirty) {
		return Report{}, err
	}
	return Report{Kind: dirty.Kind, Files: dirty.Files}, nil
}

// FormatCLI formats the report for terminal output.
func FormatCLI(r Report) string {
	if r.Clean {
		return "Workspace is clean.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Workspace is dirty: %d %s file(s)\n", len(r.Files), r.Kind))
	for _, f := range r.Files {
		sb.WriteString(fmt.Sprintf("  %s %s\n", marker(r.Kind), f))
	}
	sb.WriteString("\nCommit or stash these changes before capturing.\n")
	return sb.String()
}

// FormatCI formats the report as GitHub Actions error annotations.
func FormatCI(r Report) string {
	if r.Clean {
		return ""
	}

	var sb strings.Builder
	for _, f := range r.Files {
		sb.WriteString(fmt.Sprintf("::error file=%s::%s file in workspace\n", f, r.Kind))
	}
	sb.WriteString(fmt.Sprintf("\nWorkspace is dirty: %d %s file(s)\n", len(r.Files), r.Kind))
	return sb.String()
}

// FormatJSON formats the report as JSON.
func FormatJSON(r Report) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func marker(kind string) string {
	if kind == KindUntracked {
		return "?"
	}
	return "M"
}
