// Package project validates the cocoskel invocation arguments and reads
// cocos project metadata.
//
// Known project names are the subdirectories of the working directory,
// listed at the moment of the run. The working directory is always an
// explicit parameter so tests never depend on the process's cwd.
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/shinji-kodama/cocoskel/internal/model"
)

// Usage is the one-line usage string reported for a wrong argument count.
const Usage = "usage: cocoskel <project_name> <target_directory>"

// ListProjects returns the names of the entries of workdir that are
// directories, in the order os.ReadDir reports them. Symlinks that
// resolve to directories count as directories.
func ListProjects(workdir string) ([]string, error) {
	entries, err := os.ReadDir(workdir)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects in %s: %w", workdir, err)
	}

	projects := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			projects = append(projects, e.Name())
			continue
		}
		if e.Type()&os.ModeSymlink != 0 {
			// os.Stat follows the link; a dangling link is simply skipped.
			if info, err := os.Stat(filepath.Join(workdir, e.Name())); err == nil && info.IsDir() {
				projects = append(projects, e.Name())
			}
		}
	}
	return projects, nil
}

// Validate checks the positional arguments against workdir and returns
// the validated invocation. Checks run in a fixed order and each failure
// carries its own exit code:
//
//  1. fewer than two arguments        -> model.ExitUsage
//  2. unknown project name            -> model.ExitInvalidProject
//  3. target directory does not exist -> model.ExitMissingDirectory
//
// Arguments past the second are ignored. The returned TargetDir is
// absolute, resolved against the process's working directory.
func Validate(workdir string, args []string) (*model.Invocation, error) {
	if len(args) < 2 {
		return nil, model.NewValidationError(model.ExitUsage, Usage)
	}

	name := args[0]
	projects, err := ListProjects(workdir)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitUsage, "cannot read working directory", err)
	}
	if !slices.Contains(projects, name) {
		return nil, &model.CLIError{
			Code:       model.ExitInvalidProject,
			Message:    fmt.Sprintf("%s is not a valid project, projects are listed below:", name),
			Projects:   projects,
			Validation: true,
		}
	}

	dir := args[1]
	if _, err := os.Stat(dir); err != nil {
		return nil, model.NewValidationError(model.ExitMissingDirectory, fmt.Sprintf("%s doesn't exist", dir))
	}
	// The compare step runs inside workdir, so a relative target would
	// resolve differently there than it did here.
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitUsage, "cannot resolve target directory", err)
	}

	return &model.Invocation{
		ProjectName: name,
		TargetDir:   abs,
		Workdir:     workdir,
	}, nil
}
