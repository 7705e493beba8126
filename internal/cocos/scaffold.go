// Package cocos invokes the cocos2d-x console to generate new projects.
//
// Generation is delegated entirely to `cocos new`; this package only
// builds its argument list and runs it in the foreground so the console's
// own progress output reaches the user.
package cocos

import (
	"context"
	"strconv"

	"github.com/shinji-kodama/cocoskel/internal/model"
	"github.com/shinji-kodama/cocoskel/internal/toolexec"
)

// DefaultTool is the cocos console command.
const DefaultTool = "cocos"

// TemplateCpp selects the native C++ project template (`-l cpp`).
const TemplateCpp = "cpp"

// NewCommand builds `cocos new <name> -p <apiLevel> -l cpp -d <dir>`.
func NewCommand(tool, name string, apiLevel int, dir string) model.Command {
	if tool == "" {
		tool = DefaultTool
	}
	return model.Command{
		Name: tool,
		Args: []string{
			"new", name,
			"-p", strconv.Itoa(apiLevel),
			"-l", TemplateCpp,
			"-d", dir,
		},
	}
}

// Scaffolder runs the project generator.
type Scaffolder struct {
	runner toolexec.Runner
	tool   string
}

// NewScaffolder creates a Scaffolder running tool through runner.
func NewScaffolder(runner toolexec.Runner, tool string) *Scaffolder {
	return &Scaffolder{runner: runner, tool: tool}
}

// Command returns the generator command for the invocation.
func (s *Scaffolder) Command(inv *model.Invocation, apiLevel int) model.Command {
	return NewCommand(s.tool, inv.ProjectName, apiLevel, inv.TargetDir)
}

// Create generates the project and waits for the generator to exit.
// A non-zero exit is returned as the runner reported it.
func (s *Scaffolder) Create(ctx context.Context, inv *model.Invocation, apiLevel int) error {
	return s.runner.Run(ctx, s.Command(inv, apiLevel))
}
