// codestamp records the code and environment state of a workspace so results
// can be traced back to what produced them.
//
// Usage:
//
//	codestamp capture [dir] [--clean] [--unpushed] [--no-user] [--no-machine]
//	codestamp check [--ci] [--json]
//	codestamp show <bundle|dir>
//	codestamp drift <base> <current> [--json] [--fail-on-drift]
//	codestamp list [--json]
//	codestamp prune --older-than=<duration>
//	codestamp config
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Exit codes.
const (
	exitOK    = 0
	exitDirty = 1 // dirty workspace, or drift with --fail-on-drift
	exitError = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Environ(), os.Stdout, os.Stderr))
}

// codeError carries a non-zero exit code for an outcome already reported to
// the user.
type codeError struct {
	code int
	err  error
}

func (e *codeError) Error() string { return e.err.Error() }
func (e *codeError) Unwrap() error { return e.err }

// run executes the CLI and returns the process exit code.
// It is separated from main() to enable testing.
func run(args []string, environ []string, stdout, stderr io.Writer) int {
	root := newRootCmd(&app{environ: environ, stdout: stdout, stderr: stderr})
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return exitOK
	}

	var ce *codeError
	if errors.As(err, &ce) {
		return ce.code
	}
	fmt.Fprintln(stderr, "Error:", err)
	return exitError
}
