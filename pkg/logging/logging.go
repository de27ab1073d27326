package logging

import (
	"log"
	"os"
)

func init() {
	// Route the stdlib logger (and therefore every Logger.output call, which
	// goes through log.Output) to standard output instead of its stderr
	// default.
	log.SetOutput(os.Stdout)
}
