// Package must provides small helpers for best-effort cleanup operations
// whose errors are worth a warning but never worth aborting the caller over
// (e.g. closing a file handle after its content has already been read).
package must

import (
	"io"
	"os"

	"github.com/nalanj/treebackup/pkg/logging"
)

// Close closes c, logging a warning (rather than returning an error) if it
// fails. Used for deferred closes where the operation that mattered has
// already completed and a close failure shouldn't change the outcome.
func Close(c io.Closer, logger *logging.Logger) {
	if err := c.Close(); err != nil {
		logger.Warnf("unable to close: %s", err.Error())
	}
}

// OSRemove removes name, logging a warning if it fails. Used to clean up
// temporary files, such as fsops' case-sensitivity probe file.
func OSRemove(name string, logger *logging.Logger) {
	if err := os.Remove(name); err != nil && !os.IsNotExist(err) {
		logger.Warnf("unable to remove '%s': %s", name, err.Error())
	}
}
