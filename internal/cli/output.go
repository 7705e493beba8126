package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/cocoskel/internal/android"
	"github.com/shinji-kodama/cocoskel/internal/model"
	"github.com/shinji-kodama/cocoskel/internal/pipeline"
	"github.com/shinji-kodama/cocoskel/internal/project"
)

// Execute runs the root command and exits the process with the code
// matching the returned error.
func Execute(rootCmd *cobra.Command) {
	err := rootCmd.Execute()
	jsonOutput, _ := rootCmd.Flags().GetBool("json")
	os.Exit(reportError(err, os.Stdout, os.Stderr, jsonOutput))
}

// reportError prints err and returns the process exit code for it.
//
// CLIErrors carry their own exit code; any other error exits with
// model.ExitUsage. Command line validation reports are printed on
// stdout, everything else on stderr.
func reportError(err error, stdout, stderr io.Writer, jsonOutput bool) int {
	if err == nil {
		return int(model.ExitSuccess)
	}

	var cliErr *model.CLIError
	if !errors.As(err, &cliErr) {
		cliErr = model.WrapCLIError(model.ExitUsage, err.Error(), nil)
	}

	w := stderr
	if cliErr.Validation {
		w = stdout
	}
	printError(w, cliErr, jsonOutput)
	return int(cliErr.Code)
}

// printError outputs a CLIError in text or JSON format.
func printError(w io.Writer, cliErr *model.CLIError, jsonOutput bool) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"message": cliErr.Message,
			"code":    int(cliErr.Code),
		}
		if cliErr.Err != nil {
			errObj["detail"] = cliErr.Err.Error()
		}
		if cliErr.Projects != nil {
			errObj["projects"] = cliErr.Projects
		}
		data, _ := json.MarshalIndent(map[string]interface{}{"error": errObj}, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}

	// Validation reports keep the plain form so scripts can parse them.
	if cliErr.Validation {
		fmt.Fprintln(w, cliErr.Error())
		for _, p := range cliErr.Projects {
			fmt.Fprintln(w, p)
		}
		return
	}

	prefix := color.New(color.FgRed, color.Bold).Sprint("Error:")
	if cliErr.Err != nil {
		fmt.Fprintf(w, "%s %s: %v\n", prefix, cliErr.Message, cliErr.Err)
	} else {
		fmt.Fprintf(w, "%s %s\n", prefix, cliErr.Message)
	}
}

// printResult outputs the pipeline result in text or JSON format.
func printResult(w io.Writer, res *pipeline.Result, jsonOutput bool) {
	if jsonOutput {
		data, _ := json.MarshalIndent(res, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}

	if res.DryRun {
		fmt.Fprintf(w, "Android API level: %d\n", res.APILevel)
		fmt.Fprintln(w, res.Scaffold.String())
		fmt.Fprintln(w, res.Compare.String())
		return
	}
	fmt.Fprintf(w, "Generated %s for Android API level %d in %s\n",
		res.Project, res.APILevel, filepath.Join(res.TargetDir, res.Project))
}

// listEntryJSON is one project in the --list --json output.
type listEntryJSON struct {
	Name        string `json:"name"`
	ProjectType string `json:"projectType,omitempty"`
}

// runList prints the known project names, one per line. With --verbose
// or --json each cocos project is annotated with its project type.
func runList(w io.Writer, workdir string, flags *rootFlags, log logrus.FieldLogger) error {
	projects, err := project.ListProjects(workdir)
	if err != nil {
		return model.WrapCLIError(model.ExitUsage, "cannot list projects", err)
	}

	entries := make([]listEntryJSON, 0, len(projects))
	for _, name := range projects {
		entry := listEntryJSON{Name: name}
		if flags.verbose || flags.jsonOutput {
			meta, err := project.ReadMeta(filepath.Join(workdir, name))
			switch {
			case err == nil:
				entry.ProjectType = meta.ProjectType
			case !errors.Is(err, project.ErrNoMeta):
				log.WithError(err).Warnf("skipping metadata of %s", name)
			}
		}
		entries = append(entries, entry)
	}

	if flags.jsonOutput {
		data, _ := json.MarshalIndent(map[string]interface{}{"projects": entries}, "", "  ")
		fmt.Fprintln(w, string(data))
		return nil
	}

	for _, e := range entries {
		if e.ProjectType != "" {
			fmt.Fprintf(w, "%s\t%s\n", e.Name, e.ProjectType)
		} else {
			fmt.Fprintln(w, e.Name)
		}
	}
	return nil
}

// newLogger builds the run's logger. Only warnings are shown unless
// verbose is set.
func newLogger(w io.Writer, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.SetLevel(logrus.WarnLevel)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// androidTool resolves the configured SDK command against the
// ANDROID_HOME / ANDROID_SDK_ROOT layout.
func androidTool(name string) string {
	return android.LocateTool(name, os.Getenv)
}
