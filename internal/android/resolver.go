// Package android resolves the Android API level that new projects
// are generated for.
//
// The level comes from the SDK's `android list targets` output. Only the
// lines mentioning "API level" matter; for each of them the third
// whitespace-delimited field is kept, and the first run of digits in the
// kept text is the level. For a listing such as
//
//	id: 1 or "android-23"
//	     Name: Android 6.0
//	     Type: Platform
//	     API level: 23
//
// the kept text is "23" and the resolved level is 23. A listing without
// such a field is an error, never a silent default.
package android

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/shinji-kodama/cocoskel/internal/model"
	"github.com/shinji-kodama/cocoskel/internal/toolexec"
)

// DefaultTool is the SDK command used when no explicit path is configured.
const DefaultTool = "android"

// apiLevelMarker selects the lines of the listing that carry a level.
const apiLevelMarker = "API level"

// ErrNoAPILevel is returned when the listing holds no digits where an
// API level is expected, typically because the SDK changed its format.
var ErrNoAPILevel = errors.New("no API level found in target listing")

var digitsRegex = regexp.MustCompile(`\d+`)

// Resolver runs the SDK listing command and extracts the API level.
type Resolver struct {
	runner toolexec.Runner
	tool   string
	log    logrus.FieldLogger
}

// NewResolver creates a Resolver that runs tool through runner.
// An empty tool means DefaultTool.
func NewResolver(runner toolexec.Runner, tool string, log logrus.FieldLogger) *Resolver {
	if tool == "" {
		tool = DefaultTool
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Resolver{runner: runner, tool: tool, log: log}
}

// Command returns the listing command the resolver runs.
func (r *Resolver) Command() model.Command {
	return model.Command{Name: r.tool, Args: []string{"list", "targets"}}
}

// Resolve runs the listing command and returns the first API level in it.
// A failing listing command is returned unchanged so its exit status
// propagates; a listing without a level yields a model.ExitParseError.
func (r *Resolver) Resolve(ctx context.Context) (int, error) {
	out, err := r.runner.Output(ctx, r.Command())
	if err != nil {
		return 0, err
	}

	filtered := FilterAPILevels(out)
	r.log.WithField("levels", strings.Fields(filtered)).Debug("android targets listed")

	level, err := ParseAPILevel(filtered)
	if err != nil {
		return 0, model.WrapCLIError(model.ExitParseError,
			fmt.Sprintf("cannot determine Android API level from `%s`", r.Command()), err)
	}
	return level, nil
}

// FilterAPILevels keeps, for each line containing "API level", its third
// whitespace-delimited field, one per output line. A matching line with
// fewer than three fields contributes an empty line.
func FilterAPILevels(listing string) string {
	var b strings.Builder
	for _, line := range strings.Split(listing, "\n") {
		if !strings.Contains(line, apiLevelMarker) {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) >= 3 {
			b.WriteString(fields[2])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// ParseAPILevel returns the first maximal run of decimal digits in text.
func ParseAPILevel(text string) (int, error) {
	m := digitsRegex.FindString(text)
	if m == "" {
		return 0, ErrNoAPILevel
	}
	level, err := strconv.Atoi(m)
	if err != nil {
		// Only reachable for digit runs that overflow int.
		return 0, fmt.Errorf("%w: %q: %v", ErrNoAPILevel, m, err)
	}
	return level, nil
}

// LocateTool returns the executable to run for the SDK listing command.
// A configured path or a name found on PATH is used as is. The bare
// default name falls back to the SDK's tools directory under
// $ANDROID_HOME, then $ANDROID_SDK_ROOT, when it is not on PATH.
func LocateTool(name string, getenv func(string) string) string {
	if name == "" {
		name = DefaultTool
	}
	if name != DefaultTool {
		return name
	}
	if _, err := exec.LookPath(name); err == nil {
		return name
	}

	for _, env := range []string{"ANDROID_HOME", "ANDROID_SDK_ROOT"} {
		root := getenv(env)
		if root == "" {
			continue
		}
		candidate := filepath.Join(root, "tools", name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return name
}
