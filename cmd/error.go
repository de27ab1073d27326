package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Warning prints a non-fatal warning message to standard error, used for
// conditions (like --dry-run) that the caller should notice but that don't
// change the command's exit code.
func Warning(message string) {
	fmt.Fprintln(color.Error, color.YellowString("Warning:"), message)
}

// Error prints an error message to standard error without otherwise acting
// on it, letting the caller decide the exit code (see run's mapping of
// engine.Kind to exit status in cmd/backup/main.go).
func Error(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
}

// Fatal prints an error message to standard error and terminates the
// process with a generic failure exit code; used for errors that don't fall
// into one of the engine's more specific exit-code mappings.
func Fatal(err error) {
	Error(err)
	os.Exit(1)
}
