package guard

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestNewReport(t *testing.T) {
	clean, err := NewReport(nil)
	if err != nil || !clean.Clean {
		t.Fatalf("NewReport(nil) = %+v, %v", clean, err)
	}

	dirty, err := NewReport(&DirtyWorkspaceError{Kind: KindModified, Files: []string{"a.go"}})
	if err != nil {
		t.Fatal(err)
	}
	if dirty.Clean || dirty.Kind != KindModified || dirty.Files[0] != "a.go" {
		t.Errorf("NewReport() = %+v", dirty)
	}

	boom := errors.New("boom")
	if _, err := NewReport(boom); err != boom {
		t.Errorf("NewReport() error = %v, want passthrough", err)
	}
}

func TestFormatCLI(t *testing.T) {
	if got := FormatCLI(Report{Clean: true}); got != "Workspace is clean.\n" {
		t.Errorf("clean = %q", got)
	}

	out := FormatCLI(Report{Kind: KindUntracked, Files: []string{"x.txt"}})
	for _, want := range []string{"1 untracked file(s)", "  ? x.txt\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatCI(t *testing.T) {
	if got := FormatCI(Report{Clean: true}); got != "" {
		t.Errorf("clean = %q, want empty", got)
	}

	out := FormatCI(Report{Kind: KindModified, Files: []string{"a.go", "b.go"}})
	if !strings.Contains(out, "::error file=a.go::modified file in workspace\n") {
		t.Errorf("missing annotation:\n%s", out)
	}
	if strings.Count(out, "::error") != 2 {
		t.Errorf("want one annotation per file:\n%s", out)
	}
}

func TestFormatJSON(t *testing.T) {
	out, err := FormatJSON(Report{Kind: KindModified, Files: []string{"a.go"}})
	if err != nil {
		t.Fatal(err)
	}
	var back Report
	if err := json.Unmarshal([]byte(out), &back); err != nil {
		t.Fatal(err)
	}
	if back.Clean || back.Kind != KindModified || len(back.Files) != 1 {
		t.Errorf("round trip = %+v", back)
	}
}
