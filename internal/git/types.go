package git

import "errors"

// ErrGitUserNotConfigured is returned when user.name or user.email is unset.
// Callers can retry a capture without user identity.
var ErrGitUserNotConfigured = errors.New("git user not configured")

// ErrNoSyncedCommit is returned when no reference log entry maps to a
// remote-tracking reference, so the unpushed span cannot be bounded.
var ErrNoSyncedCommit = errors.New("no commit in history is in sync with a remote")

// DefaultDiffName is the file name of the working tree diff.
const DefaultDiffName = "mod.patch"

// remoteMarker identifies reference log entries that name a remote-tracking ref.
const remoteMarker = "refs/remotes/"

// Range is the span of local commits absent from every remote-tracking ref.
// Start is the newest synced commit, End the newest local commit.
// Both are empty when nothing is unpushed.
type Range struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// Empty reports whether the range signals "nothing unpushed".
func (r Range) Empty() bool {
	return r.Start == "" && r.End == ""
}

// PatchName returns the default file name for the range's diff.
func (r Range) PatchName() string {
	return "unpushed" + r.Start + "-" + r.End + ".patch"
}
