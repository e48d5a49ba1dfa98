package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
)

// Ensure the interface is satisfied.
var _ Runner = (*ExecRunner)(nil)

// ExecRunner is the concrete Runner built on os/exec. Child processes inherit
// the working directory and environment of the current process.
type ExecRunner struct {
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

// NewExecRunner creates an ExecRunner streaming child output to stdout and stderr.
func NewExecRunner(stdout, stderr io.Writer, logger *slog.Logger) *ExecRunner {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &ExecRunner{stdout: stdout, stderr: stderr, logger: logger}
}

// Run launches cmd and blocks until it exits.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	r.logger.Debug("running command", "cmd", cmd.String())

	//nolint:gosec // the program and arguments come from configuration and the command line
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdin = os.Stdin
	c.Stderr = r.stderr

	var out bytes.Buffer
	if cmd.CaptureOutput {
		c.Stdout = &out
	} else {
		c.Stdout = r.stdout
	}

	err := c.Run()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return Result{Output: out.Bytes()}, nil
	case errors.As(err, &exitErr):
		r.logger.Debug("command exited with non-zero status", "cmd", cmd.Name, "status", exitErr.ExitCode())
		return Result{ExitCode: exitErr.ExitCode(), Output: out.Bytes()}, nil
	default:
		return Result{ExitCode: -1}, &LaunchError{Command: cmd, Wrapped: err}
	}
}
