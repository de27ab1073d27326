// Package stream provides small io.Writer decorators used by the overwrite
// detector and executor when streaming file content.
package stream

import (
	"context"
	"errors"
	"io"
)

// ErrWritePreempted indicates that a write operation was preempted by context
// cancellation.
var ErrWritePreempted = errors.New("write preempted")

// preemptableWriter is an io.Writer implementation that checks for
// cancellation every N writes.
type preemptableWriter struct {
	// writer is the underlying writer.
	writer io.Writer
	// ctx is checked for cancellation.
	ctx context.Context
	// checkInterval is the number of writes to allow between cancellation
	// checks.
	checkInterval uint
	// writeCount is the number of writes since the last cancellation check.
	writeCount uint
}

// NewPreemptableWriter wraps an io.Writer and provides cancellation
// checkpoints for long copy or hash operations. It takes an underlying
// writer, a context checked for cancellation, and an interval specifying the
// maximum number of Write calls processed between cancellation checks. If
// interval is 0, a check is performed before every write.
func NewPreemptableWriter(writer io.Writer, ctx context.Context, interval uint) io.Writer {
	return &preemptableWriter{
		writer:        writer,
		ctx:           ctx,
		checkInterval: interval,
	}
}

// Write implements io.Writer.Write.
func (w *preemptableWriter) Write(data []byte) (int, error) {
	if w.writeCount == w.checkInterval {
		select {
		case <-w.ctx.Done():
			return 0, ErrWritePreempted
		default:
		}
		w.writeCount = 0
	} else {
		w.writeCount++
	}

	return w.writer.Write(data)
}
