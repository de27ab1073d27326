package cmd

import (
	"os"
	"os/exec"

	"github.com/pkg/errors"

	isatty "github.com/mattn/go-isatty"
)

// HandleTerminalCompatibility re-launches the current process under winpty
// when it detects a mintty-based console (e.g. Git Bash/MSYS), since mintty
// doesn't provide the Win32 console APIs this command's status-line
// repainting and prompting depend on.
func HandleTerminalCompatibility() {
	if !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return
	}

	winpty, err := exec.LookPath("winpty")
	if err != nil {
		Fatal(errors.New("running inside mintty terminal and unable to locate winpty"))
	}

	executable, err := os.Executable()
	if err != nil {
		Fatal(errors.Wrap(err, "running inside mintty terminal and unable to locate current executable"))
	}

	arguments := make([]string, 0, len(os.Args))
	arguments = append(arguments, executable)
	arguments = append(arguments, os.Args[1:]...)

	command := exec.Command(winpty, arguments...)
	command.Stdin = os.Stdin
	command.Stdout = os.Stdout
	command.Stderr = os.Stderr

	command.Run()
	os.Exit(command.ProcessState.ExitCode())
}
