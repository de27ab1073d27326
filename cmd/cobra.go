package cmd

import (
	"github.com/spf13/cobra"
)

// Mainify adapts an error-returning command entry point (convenient because
// it lets the entry point rely on defer-based cleanup rather than calling
// os.Exit directly) to the signature Cobra's Command.Run requires, routing
// any returned error through Fatal.
func Mainify(entry func(*cobra.Command, []string) error) func(*cobra.Command, []string) {
	return func(command *cobra.Command, arguments []string) {
		if err := entry(command, arguments); err != nil {
			Fatal(err)
		}
	}
}
