// Package runner invokes external tools (git, pip, conda) and classifies
// their failures.
package runner

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"strings"

	"codestamp/internal/logging"
)

// ErrToolNotFound is returned when the executable itself cannot be located.
var ErrToolNotFound = errors.New("tool not found")

// ErrCommandFailed is returned when the tool ran but exited non-zero.
var ErrCommandFailed = errors.New("command failed")

// Executor runs external commands. Runner is the process-backed
// implementation; tests substitute doubles.
type Executor interface {
	// Output runs name with args and returns its standard output.
	Output(name string, args ...string) ([]byte, error)
	// ToFile runs name with args and writes standard output to path.
	ToFile(path string, name string, args ...string) error
}

// CommandError describes a tool that started but reported failure.
type CommandError struct {
	Tool     string
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s %s: exit status %d", e.Tool, strings.Join(e.Args, " "), e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *CommandError) Unwrap() []error {
	return []error{ErrCommandFailed, e.Err}
}

// Runner executes commands as child processes.
type Runner struct {
	Dir string   // Working directory; empty means the current directory
	Env []string // Process environment; nil inherits the parent's
}

// New creates a runner rooted at dir.
func New(dir string) *Runner {
	return &Runner{Dir: dir}
}

// Output runs the command and returns its raw standard output.
func (r *Runner) Output(name string, args ...string) ([]byte, error) {
	var stdout bytes.Buffer
	if err := r.run(&stdout, name, args); err != nil {
		return nil, err
	}
	return stdout.Bytes(), nil
}

// ToFile runs the command with standard output redirected to path.
// The file is created before the process starts, so a bad output path is
// reported as the filesystem error for that path and never as ErrToolNotFound.
func (r *Runner) ToFile(path string, name string, args ...string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	runErr := r.run(f, name, args)
	closeErr := f.Close()
	if runErr != nil {
		return runErr
	}
	return closeErr
}

func (r *Runner) run(stdout io.Writer, name string, args []string) error {
	// A missing working directory fails process start with ENOENT, which
	// would otherwise look exactly like a missing executable.
	if r.Dir != "" {
		if _, err := os.Stat(r.Dir); err != nil {
			return err
		}
	}

	cmd := exec.Command(name, args...)
	cmd.Dir = r.Dir
	cmd.Env = r.Env
	cmd.Stdout = stdout

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	logging.New("runner").Debug("exec", "tool", name, "args", args, "dir", r.Dir)

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &CommandError{
			Tool:     name,
			Args:     args,
			ExitCode: exitErr.ExitCode(),
			Stderr:   stderr.String(),
			Err:      err,
		}
	}

	if IsNotFound(err) {
		return fmt.Errorf("%w: could not find executable %q in the system path; configure an explicit path to it", ErrToolNotFound, name)
	}

	return fmt.Errorf("%s: %w", name, err)
}

// IsNotFound checks if a process start error means the executable is missing.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}
