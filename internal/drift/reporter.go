package drift

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FormatCLI formats drift report for terminal output.
func FormatCLI(report DriftReport) string {
	if !report.HasDrift {
		return fmt.Sprintf("No drift between %s and %s.\n", report.BaselineName, report.CurrentName)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Drift detected between %s and %s:\n", report.BaselineName, report.CurrentName))

	if report.CommitChanged {
		sb.WriteString(fmt.Sprintf("  commit: %s → %s\n", report.BaselineCommit, report.CurrentCommit))
	}

	for _, change := range report.Changes {
		name := change.Ecosystem
		if change.Package != "" {
			name += "/" + change.Package
		}
		switch change.Type {
		case DriftAdded:
			sb.WriteString(fmt.Sprintf("  + %s: (new) → %s\n", name, orPresent(change.CurrentVersion)))
		case DriftRemoved:
			sb.WriteString(fmt.Sprintf("  - %s: %s → (removed)\n", name, orPresent(change.BaselineVersion)))
		case DriftChanged:
			sb.WriteString(fmt.Sprintf("  ~ %s: %s → %s\n", name, change.BaselineVersion, change.CurrentVersion))
		}
	}

	return sb.String()
}

// FormatJSON formats drift report as JSON.
func FormatJSON(report DriftReport) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func orPresent(version string) string {
	if version == "" {
		return "present"
	}
	return version
}
