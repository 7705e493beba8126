// Package toolexec runs the external tools cocoskel orchestrates.
//
// Commands are executed directly from their argument list via os/exec,
// never through a shell, so project names and paths reach the child
// process exactly as given. Failures are wrapped in model.CLIError:
// a non-zero exit propagates the child's exit status as the CLI's own,
// and a failure to start maps to model.ExitToolError.
package toolexec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/shinji-kodama/cocoskel/internal/model"
)

// Runner executes external commands synchronously.
type Runner interface {
	// Output runs the command and returns its standard output.
	Output(ctx context.Context, cmd model.Command) (string, error)

	// Run runs the command with the standard streams attached to the
	// runner's streams (the process's own by default).
	Run(ctx context.Context, cmd model.Command) error
}

// ExecRunner is the os/exec backed Runner.
type ExecRunner struct {
	// Stdin, Stdout and Stderr are handed to children started by Run.
	// Nil means the corresponding os.Std* stream.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Log receives one debug entry per started command. Nil disables it.
	Log logrus.FieldLogger
}

// NewExecRunner creates an ExecRunner inheriting the process's streams.
func NewExecRunner(log logrus.FieldLogger) *ExecRunner {
	return &ExecRunner{Log: log}
}

// Output executes cmd and captures stdout and stderr separately so that
// stderr can be included in the error while stdout is returned on success.
func (r *ExecRunner) Output(ctx context.Context, cmd model.Command) (string, error) {
	c := r.command(ctx, cmd)

	var stdout, stderr strings.Builder
	c.Stdout = &stdout
	c.Stderr = &stderr

	if err := c.Run(); err != nil {
		return "", wrapError(cmd, strings.TrimSpace(stderr.String()), err)
	}
	return stdout.String(), nil
}

// Run executes cmd in the foreground and waits for it to exit.
func (r *ExecRunner) Run(ctx context.Context, cmd model.Command) error {
	c := r.command(ctx, cmd)
	c.Stdin = orReader(r.Stdin, os.Stdin)
	c.Stdout = orWriter(r.Stdout, os.Stdout)
	c.Stderr = orWriter(r.Stderr, os.Stderr)

	if err := c.Run(); err != nil {
		return wrapError(cmd, "", err)
	}
	return nil
}

func (r *ExecRunner) command(ctx context.Context, cmd model.Command) *exec.Cmd {
	if r.Log != nil {
		r.Log.WithField("dir", cmd.Dir).Debugf("exec: %s", cmd)
	}
	// #nosec G204 -- arguments are passed as a list, no shell is involved
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	return c
}

// wrapError converts an os/exec error into a CLIError. An *exec.ExitError
// with a real exit status keeps that status as the exit code.
func wrapError(cmd model.Command, stderr string, err error) error {
	message := fmt.Sprintf("%s failed", cmd.Name)
	if stderr != "" {
		message = fmt.Sprintf("%s: %s", message, stderr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code > 0 {
			return model.WrapCLIError(model.ExitCode(code), message, err)
		}
	}
	return model.WrapCLIError(model.ExitToolError, message, err)
}

func orReader(r io.Reader, def io.Reader) io.Reader {
	if r != nil {
		return r
	}
	return def
}

func orWriter(w io.Writer, def io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return def
}
