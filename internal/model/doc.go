// Package model defines the domain types and value objects for the
// cocoskel CLI.
//
// Every value here lives for a single run: the validated invocation and
// the external command lines built from it are discarded at exit, and
// nothing is persisted. The package also defines the exit codes
// (ExitCode) and the error type (CLIError) that carries one back to the
// CLI layer.
package model
