package identity

import (
	"errors"
	"runtime"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestDescribe(t *testing.T) {
	m := Describe()

	if m.System == nil || *m.System == "" {
		t.Fatal("System should always be set")
	}
	if runtime.GOOS == "linux" && *m.System != "Linux" {
		t.Errorf("System = %q, want Linux", *m.System)
	}
	if m.Node != nil && *m.Node == "" {
		t.Error("Node should be nil rather than empty")
	}
}

func TestLookupUsername(t *testing.T) {
	failing := func() (string, error) { return "", errors.New("no passwd entry") }
	env := func(vars map[string]string) func(string) (string, bool) {
		return func(key string) (string, bool) {
			v, ok := vars[key]
			return v, ok
		}
	}

	tests := []struct {
		name    string
		current func() (string, error)
		vars    map[string]string
		want    string
	}{
		{
			name:    "account database wins",
			current: func() (string, error) { return "alice", nil },
			vars:    map[string]string{"USER": "bob"},
			want:    "alice",
		},
		{
			name:    "USER after lookup failure",
			current: failing,
			vars:    map[string]string{"USER": "bob", "LOGNAME": "carol"},
			want:    "bob",
		},
		{
			name:    "empty USER skipped",
			current: failing,
			vars:    map[string]string{"USER": "", "LOGNAME": "carol"},
			want:    "carol",
		},
		{
			name:    "USERNAME last",
			current: failing,
			vars:    map[string]string{"USERNAME": "dave"},
			want:    "dave",
		},
		{
			name:    "nothing available",
			current: failing,
			vars:    map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lookupUsername(tt.current, env(tt.vars))
			if tt.want == "" {
				if got != nil {
					t.Errorf("lookupUsername() = %q, want nil", *got)
				}
				return
			}
			if got == nil || *got != tt.want {
				t.Errorf("lookupUsername() = %v, want %q", got, tt.want)
			}
		})
	}
}

// firstNonEmpty returns nil only when every candidate is blank.
func TestFirstNonEmpty_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("nil iff all blank", prop.ForAll(
		func(values []string) bool {
			got := firstNonEmpty(values...)
			allBlank := true
			for _, v := range values {
				if v != "" {
					allBlank = false
				}
			}
			return (got == nil) == allBlank
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}
