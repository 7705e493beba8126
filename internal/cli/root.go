// Package cli implements the cobra-based command line of cocoskel.
//
// The root command is the whole tool: it validates the two positional
// arguments, then hands the invocation to the pipeline package.
// Project names are arbitrary directory names, so the command has no
// subcommands a name could collide with; auxiliary actions
// (--list, --show-config) are flags.
package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/cocoskel/internal/config"
	"github.com/shinji-kodama/cocoskel/internal/model"
	"github.com/shinji-kodama/cocoskel/internal/pipeline"
	"github.com/shinji-kodama/cocoskel/internal/project"
	"github.com/shinji-kodama/cocoskel/internal/toolexec"
)

// Version, Commit and Date are set at build time via ldflags on the main
// package, which copies them here for --version.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// rootFlags holds the flag values of the root command.
type rootFlags struct {
	workdir    string // --workdir: where project names are listed from
	configPath string // --config: explicit config file
	dryRun     bool   // --dry-run: print commands instead of running them
	list       bool   // --list: print known projects and exit
	showConfig bool   // --show-config: print effective config and exit
	jsonOutput bool   // --json: machine-readable output
	verbose    bool   // --verbose: debug logging on stderr
}

// runnerFactory builds the toolexec.Runner the pipeline uses.
// Tests replace it with a recording fake.
type runnerFactory func(log logrus.FieldLogger) toolexec.Runner

func defaultRunnerFactory(log logrus.FieldLogger) toolexec.Runner {
	return toolexec.NewExecRunner(log)
}

// NewRootCommand creates and configures the root cobra command.
func NewRootCommand() *cobra.Command {
	return newRootCommand(defaultRunnerFactory)
}

func newRootCommand(newRunner runnerFactory) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "cocoskel [flags] <project_name> <target_directory>",
		Short: "Generate a cocos2d-x C++ project and compare it with an existing one",
		Long: `cocoskel generates a fresh cocos2d-x C++ project skeleton for the newest
installed Android platform and opens Beyond Compare between the new
skeleton and an existing project of the same name.

<project_name> must be a subdirectory of the working directory.
<target_directory> must exist; the project is generated into it and
./<project_name> is compared with <target_directory>/<project_name>.

Exit codes:
  1  wrong number of arguments
  2  unknown project name
  3  target directory does not exist
  5  no API level in the Android SDK target listing
  n  an external tool failed with exit status n (4 if it could not start)

Examples:
  cocoskel AirHockey ~/games
  cocoskel --dry-run AirHockey ~/games
  cocoskel --list`,

		// SilenceUsage prevents cobra from printing usage on every error.
		// Errors are formatted by Execute.
		SilenceUsage:  true,
		SilenceErrors: true,

		// Positional arguments are validated by project.Validate so that
		// each failure carries its own exit code.
		Args: cobra.ArbitraryArgs,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, args, flags, newRunner)
		},
	}

	cmd.Flags().StringVar(&flags.workdir, "workdir", "", "Directory holding the projects (default: current directory)")
	cmd.Flags().StringVar(&flags.configPath, "config", "", "Config file (default: <workdir>/"+config.FileName+")")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Resolve the API level and print the commands without running them")
	cmd.Flags().BoolVar(&flags.list, "list", false, "List the known project names and exit")
	cmd.Flags().BoolVar(&flags.showConfig, "show-config", false, "Print the effective configuration as YAML and exit")
	cmd.Flags().BoolVar(&flags.jsonOutput, "json", false, "Output in JSON format")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose output")

	return cmd
}

// runRoot is the main logic of the root command.
func runRoot(cmd *cobra.Command, args []string, flags *rootFlags, newRunner runnerFactory) error {
	log := newLogger(cmd.ErrOrStderr(), flags.verbose)

	workdir, err := resolveWorkdir(flags.workdir)
	if err != nil {
		return err
	}

	// Arguments are checked before anything else is read, so a broken
	// config file never masks a usage error.
	var inv *model.Invocation
	if !flags.list && !flags.showConfig {
		if inv, err = project.Validate(workdir, args); err != nil {
			return err
		}
		if len(args) > 2 {
			log.Debugf("ignoring extra arguments: %v", args[2:])
		}
	}

	cfg, err := config.Load(flags.configPath, workdir)
	if err != nil {
		return model.WrapCLIError(model.ExitUsage, "invalid configuration", err)
	}

	if flags.showConfig {
		return config.WriteYAML(cmd.OutOrStdout(), cfg)
	}
	if flags.list {
		return runList(cmd.OutOrStdout(), workdir, flags, log)
	}

	tools := cfg.Tools
	tools.Android = androidTool(tools.Android)

	p := pipeline.New(newRunner(log), tools, log)

	var res *pipeline.Result
	if flags.dryRun {
		res, err = p.Plan(cmd.Context(), inv)
	} else {
		res, err = p.Run(cmd.Context(), inv)
	}
	if err != nil {
		return err
	}

	printResult(cmd.OutOrStdout(), res, flags.jsonOutput)
	return nil
}

// resolveWorkdir returns the --workdir value, or the process's current
// directory when it is empty.
func resolveWorkdir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", model.WrapCLIError(model.ExitUsage, "cannot determine working directory", err)
	}
	return wd, nil
}
