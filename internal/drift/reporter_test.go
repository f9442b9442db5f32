package drift

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestFormatCLI(t *testing.T) {
	clean := DriftReport{BaselineName: "a", CurrentName: "b"}
	if got := FormatCLI(clean); got != "No drift between a and b.\n" {
		t.Errorf("clean = %q", got)
	}

	report := DriftReport{
		HasDrift:       true,
		BaselineName:   "a",
		CurrentName:    "b",
		CommitChanged:  true,
		BaselineCommit: "abc1234",
		CurrentCommit:  "def5678",
		Changes: []PackageDrift{
			{Ecosystem: "pip_packages", Package: "torch", Type: DriftAdded, CurrentVersion: "2.1.0"},
			{Ecosystem: "pip_packages", Package: "old", Type: DriftRemoved, BaselineVersion: "0.1"},
			{Ecosystem: "pip_packages", Package: "pandas", Type: DriftChanged, BaselineVersion: "2.1.0", CurrentVersion: "2.2.0"},
			{Ecosystem: "poetry", Type: DriftAdded},
		},
	}
	out := FormatCLI(report)
	for _, want := range []string{
		"commit: abc1234 → def5678",
		"+ pip_packages/torch: (new) → 2.1.0",
		"- pip_packages/old: 0.1 → (removed)",
		"~ pip_packages/pandas: 2.1.0 → 2.2.0",
		"+ poetry: (new) → present",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatJSON(t *testing.T) {
	report := DriftReport{
		HasDrift: true,
		Changes:  []PackageDrift{{Ecosystem: "conda", Package: "numpy", Type: DriftChanged, BaselineVersion: "1", CurrentVersion: "2"}},
	}
	out, err := FormatJSON(report)
	if err != nil {
		t.Fatal(err)
	}

	var back DriftReport
	if err := json.Unmarshal([]byte(out), &back); err != nil {
		t.Fatal(err)
	}
	if !back.HasDrift || len(back.Changes) != 1 || back.Changes[0].CurrentVersion != "2" {
		t.Errorf("round trip = %+v", back)
	}
}
