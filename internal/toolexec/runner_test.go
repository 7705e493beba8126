package toolexec

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/cocoskel/internal/model"
)

// These tests run small POSIX shell commands as stand-ins for the real
// Android, cocos and comparison tools.

func TestOutput_ReturnsStdout(t *testing.T) {
	r := NewExecRunner(nil)

	out, err := r.Output(context.Background(), model.Command{
		Name: "sh",
		Args: []string{"-c", "echo '  API level: 29'; echo ignored >&2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "  API level: 29\n", out)
}

func TestOutput_PropagatesExitStatus(t *testing.T) {
	r := NewExecRunner(nil)

	_, err := r.Output(context.Background(), model.Command{
		Name: "sh",
		Args: []string{"-c", "echo 'no sdk' >&2; exit 7"},
	})
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitCode(7), cliErr.Code)
	assert.Contains(t, cliErr.Message, "sh failed")
	assert.Contains(t, cliErr.Message, "no sdk", "stderr should be part of the message")
}

func TestRun_MissingExecutable(t *testing.T) {
	r := NewExecRunner(nil)

	err := r.Run(context.Background(), model.Command{
		Name: filepath.Join(t.TempDir(), "does-not-exist"),
	})
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitToolError, cliErr.Code)
}

func TestRun_UsesStreamsAndDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "MyGame"), 0o755))

	var stdout bytes.Buffer
	r := &ExecRunner{Stdout: &stdout, Stderr: &bytes.Buffer{}}

	err := r.Run(context.Background(), model.Command{
		Name: "sh",
		Args: []string{"-c", "test -d ./MyGame && echo ok"},
		Dir:  dir,
	})
	require.NoError(t, err)
	assert.Equal(t, "ok\n", stdout.String())
}

func TestRun_PropagatesExitStatus(t *testing.T) {
	r := &ExecRunner{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}

	err := r.Run(context.Background(), model.Command{Name: "sh", Args: []string{"-c", "exit 42"}})

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitCode(42), cliErr.Code)
}
