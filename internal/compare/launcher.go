// Package compare opens the visual diff between a freshly generated
// project and the existing copy in the target directory.
package compare

import (
	"context"
	"path/filepath"

	"github.com/shinji-kodama/cocoskel/internal/model"
	"github.com/shinji-kodama/cocoskel/internal/toolexec"
)

// DefaultTool is the Beyond Compare launcher.
const DefaultTool = "BCompare"

// NewCommand builds `BCompare ./<name> <dir>/<name>`. The left side is
// relative, so the returned command runs in workdir.
func NewCommand(tool, name, dir, workdir string) model.Command {
	if tool == "" {
		tool = DefaultTool
	}
	return model.Command{
		Name: tool,
		Args: []string{"./" + name, filepath.Join(dir, name)},
		Dir:  workdir,
	}
}

// Launcher runs the comparison tool.
type Launcher struct {
	runner toolexec.Runner
	tool   string
}

// NewLauncher creates a Launcher running tool through runner.
func NewLauncher(runner toolexec.Runner, tool string) *Launcher {
	return &Launcher{runner: runner, tool: tool}
}

// Command returns the comparison command for the invocation.
func (l *Launcher) Command(inv *model.Invocation) model.Command {
	return NewCommand(l.tool, inv.ProjectName, inv.TargetDir, inv.Workdir)
}

// Launch opens the comparison and blocks until the tool exits.
func (l *Launcher) Launch(ctx context.Context, inv *model.Invocation) error {
	return l.runner.Run(ctx, l.Command(inv))
}
