package cmd

import (
	"os"
	"syscall"
)

// TerminationSignals are the signals that cmd/backup treats as a request to
// cancel an in-progress run gracefully (see main's signal.Notify and the
// cancellation it triggers). Other signals that also request termination,
// such as SIGABRT, are deliberately left unhandled here because the Go
// runtime already gives them special behavior (e.g. dumping a stack trace).
// Both SIGINT and SIGTERM are emulated on Windows (SIGINT on Ctrl-C and
// Ctrl-Break, SIGTERM on CTRL_CLOSE_EVENT, CTRL_LOGOFF_EVENT, and
// CTRL_SHUTDOWN_EVENT).
var TerminationSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
}
