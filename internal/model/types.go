package model

import (
	"fmt"
	"strings"
)

// Invocation holds the two validated positional arguments of a run.
// It is created once by the argument validator and read-only thereafter.
type Invocation struct {
	// ProjectName is the name of an existing subdirectory of Workdir.
	// It names both the generated project and the comparison directories.
	ProjectName string `json:"project"`

	// TargetDir is the caller-supplied directory that receives the
	// generated project and holds the same-named comparison subdirectory.
	TargetDir string `json:"targetDir"`

	// Workdir is the directory the project names were listed from.
	// The comparison's local side ("./<ProjectName>") is resolved against it.
	Workdir string `json:"workdir"`
}

// Command is one external tool invocation, kept as an explicit argument
// list so that no shell ever re-parses project names or paths.
type Command struct {
	// Name is the executable, either a bare name looked up on PATH
	// or a path to the binary.
	Name string `json:"name"`

	// Args are the arguments passed to the executable, in order.
	Args []string `json:"args"`

	// Dir is the working directory of the child process.
	// Empty means the current process's working directory.
	Dir string `json:"dir,omitempty"`
}

// Argv returns the full argument vector, executable first.
func (c Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

// String renders the command as a single shell-quoted line.
// It is only used for display (logs, --dry-run); commands are never
// executed through a shell.
func (c Command) String() string {
	argv := c.Argv()
	quoted := make([]string, 0, len(argv))
	for _, a := range argv {
		quoted = append(quoted, shellQuote(a))
	}
	return strings.Join(quoted, " ")
}

// shellQuote wraps s in single quotes when it contains anything other
// than characters that are safe unquoted in a POSIX shell.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	safe := true
	for _, r := range s {
		if !isShellSafe(r) {
			safe = false
			break
		}
	}
	if safe {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func isShellSafe(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return strings.ContainsRune("-_./:=@%+,", r)
}

// ExitCode defines the CLI's process exit codes.
// Codes 1-3 are stable so calling scripts can tell validation failures
// apart; a failing external tool propagates its own exit status instead.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitUsage indicates the wrong number of positional arguments.
	// General errors that have no dedicated code (unreadable config,
	// unexpected I/O failures) share this code.
	ExitUsage ExitCode = 1

	// ExitInvalidProject indicates the project name is not a
	// subdirectory of the working directory.
	ExitInvalidProject ExitCode = 2

	// ExitMissingDirectory indicates the target directory does not exist.
	ExitMissingDirectory ExitCode = 3

	// ExitToolError indicates an external tool could not be started
	// or terminated without an exit status (e.g., killed by a signal).
	ExitToolError ExitCode = 4

	// ExitParseError indicates no API level could be extracted from the
	// Android target listing.
	ExitParseError ExitCode = 5
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error

	// Projects lists the valid project names. Only set for
	// ExitInvalidProject, where the listing is part of the report.
	Projects []string

	// Validation marks a report about the command line itself (usage,
	// unknown project, missing target). Such reports are printed on
	// stdout in plain form; the exit code alone does not decide it, since
	// a failing tool may exit with the same status.
	Validation bool
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// NewValidationError creates a CLIError reporting a rejected command line.
func NewValidationError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message, Validation: true}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
