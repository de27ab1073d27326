package cmd

import (
	"errors"

	"github.com/spf13/cobra"
)

// DisallowArguments is a Cobra arguments validator for a command (like
// backup) that takes all of its input as flags and accepts no positional
// arguments. It exists because cobra.NoArgs treats a stray positional
// argument as an attempted subcommand name and reports a confusing error
// for it.
func DisallowArguments(_ *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errors.New("command does not accept arguments")
	}
	return nil
}
