// Package logging provides the leveled logger used throughout the backup
// engine and its reference CLI.
package logging

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"log"

	"github.com/fatih/color"
)

// CurrentLevel gates which of a Logger's methods actually produce output.
// It is a package variable (rather than an argument threaded through every
// call) so that it can be set once, early in process startup, from a
// --log-level flag (see NameToLevel and cmd/backup's wiring of it) and then
// apply uniformly to every Logger and sublogger for the rest of the run.
var CurrentLevel = LevelInfo

// writer is an io.Writer that splits its input stream into lines and writes
// those lines to an underlying logger.
type writer struct {
	// callback is the logging callback.
	callback func(string)
	// buffer is any incomplete line fragment left over from a previous write.
	buffer []byte
}

// trimCarriageReturn trims any single trailing carriage return from the end of
// a byte slice.
func trimCarriageReturn(buffer []byte) []byte {
	if len(buffer) > 0 && buffer[len(buffer)-1] == '\r' {
		return buffer[:len(buffer)-1]
	}
	return buffer
}

// Write implements io.Writer.Write.
func (w *writer) Write(buffer []byte) (int, error) {
	w.buffer = append(w.buffer, buffer...)

	var processed int
	remaining := w.buffer
	for {
		index := bytes.IndexByte(remaining, '\n')
		if index == -1 {
			break
		}
		w.callback(string(trimCarriageReturn(remaining[:index])))
		processed += index + 1
		remaining = remaining[index+1:]
	}

	if processed > 0 {
		leftover := len(w.buffer) - processed
		if leftover > 0 {
			copy(w.buffer[:leftover], w.buffer[processed:])
		}
		w.buffer = w.buffer[:leftover]
	}

	return len(buffer), nil
}

// Logger is the main logger type. It has the novel property that it still
// functions if nil, but it doesn't log anything, which lets call sites accept
// an optional logger without a nil check at every call site. It is designed to
// use the standard logger provided by the log package, so it respects any
// flags set for that logger. It is safe for concurrent use.
type Logger struct {
	// prefix is any prefix specified for the logger, built up as a
	// dot-separated chain of sublogger names (e.g. "orchestrator.executor").
	prefix string
}

// RootLogger is the root logger from which all other loggers derive.
var RootLogger = &Logger{}

// Sublogger creates a new sublogger with the specified name.
func (l *Logger) Sublogger(name string) *Logger {
	if l == nil {
		return nil
	}

	prefix := name
	if l.prefix != "" {
		prefix = l.prefix + "." + name
	}

	return &Logger{prefix: prefix}
}

// WithRun returns a sublogger tagged with a run identifier, so that log lines
// from concurrent phase workers belonging to the same backup run can be
// correlated in output interleaved with other runs.
func (l *Logger) WithRun(runID string) *Logger {
	return l.Sublogger("run=" + runID)
}

// output is the internal logging method.
func (l *Logger) output(calldepth int, line string) {
	if l.prefix != "" {
		line = fmt.Sprintf("[%s] %s", l.prefix, line)
	}
	log.Output(calldepth, line)
}

// Print logs information with semantics equivalent to fmt.Print, gated at
// LevelInfo.
func (l *Logger) Print(v ...interface{}) {
	if l != nil && CurrentLevel >= LevelInfo {
		l.output(3, fmt.Sprint(v...))
	}
}

// Printf logs information with semantics equivalent to fmt.Printf, gated at
// LevelInfo.
func (l *Logger) Printf(format string, v ...interface{}) {
	if l != nil && CurrentLevel >= LevelInfo {
		l.output(3, fmt.Sprintf(format, v...))
	}
}

// Println logs information with semantics equivalent to fmt.Println, gated
// at LevelInfo.
func (l *Logger) Println(v ...interface{}) {
	if l != nil && CurrentLevel >= LevelInfo {
		l.output(3, fmt.Sprintln(v...))
	}
}

// Writer returns an io.Writer that writes lines using Println.
func (l *Logger) Writer() io.Writer {
	if l == nil {
		return ioutil.Discard
	}
	return &writer{callback: func(s string) { l.Println(s) }}
}

// Debug logs information with semantics equivalent to fmt.Print, but only at
// LevelDebug or above.
func (l *Logger) Debug(v ...interface{}) {
	if l != nil && CurrentLevel >= LevelDebug {
		l.output(3, fmt.Sprint(v...))
	}
}

// Debugf logs information with semantics equivalent to fmt.Printf, but only
// at LevelDebug or above.
func (l *Logger) Debugf(format string, v ...interface{}) {
	if l != nil && CurrentLevel >= LevelDebug {
		l.output(3, fmt.Sprintf(format, v...))
	}
}

// Debugln logs information with semantics equivalent to fmt.Println, but
// only at LevelDebug or above.
func (l *Logger) Debugln(v ...interface{}) {
	if l != nil && CurrentLevel >= LevelDebug {
		l.output(3, fmt.Sprintln(v...))
	}
}

// DebugWriter returns an io.Writer that writes lines using Debugln.
func (l *Logger) DebugWriter() io.Writer {
	if l == nil {
		return ioutil.Discard
	}
	return &writer{callback: func(s string) { l.Debugln(s) }}
}

// Warn logs non-fatal error information with a warning prefix and yellow
// color, gated at LevelWarn or above.
func (l *Logger) Warn(err error) {
	if l != nil && CurrentLevel >= LevelWarn {
		l.output(3, color.YellowString("Warning: %v", err))
	}
}

// Warnf logs a formatted warning message, gated at LevelWarn or above.
func (l *Logger) Warnf(format string, v ...interface{}) {
	if l != nil && CurrentLevel >= LevelWarn {
		l.output(3, color.YellowString("Warning: "+format, v...))
	}
}

// Error logs error information with an error prefix and red color, gated at
// LevelError or above (i.e. suppressed only when logging is fully
// disabled).
func (l *Logger) Error(err error) {
	if l != nil && CurrentLevel >= LevelError {
		l.output(3, color.RedString("Error: %v", err))
	}
}
