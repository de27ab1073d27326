package engine

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Kind identifies which of the five error categories an engine error belongs
// to. All five share one unexported error type; callers read the category
// with KindOf (which uses errors.As, so wrapped engine errors are found too),
// or test for cancellation with IsCancelled, and can switch on the Kind (as
// the CLI does for exit-code mapping).
type Kind uint8

const (
	// KindInvalidArgument covers empty/whitespace paths and unrecognized
	// modes.
	KindInvalidArgument Kind = iota
	// KindPathOverlap covers a source contained in a destination, or vice
	// versa.
	KindPathOverlap
	// KindSourceNotFound covers a missing source directory at the start of a
	// run.
	KindSourceNotFound
	// KindCancelled covers observed cancellation.
	KindCancelled
	// KindIOFailure covers any underlying filesystem or hashing error.
	KindIOFailure
)

// taggedError is the common representation for all five error kinds. It
// wraps an underlying cause (via github.com/pkg/errors, for call-site
// context) without changing the exported Kind -- per the
// spec, errors propagate out of the orchestrator without being promoted to
// new enriched types, only annotated with context on the existing kind.
type taggedError struct {
	kind    Kind
	message string
	cause   error
}

func (e *taggedError) Error() string {
	if e.cause != nil {
		// cause is already context-prefixed by pkgerrors.WithMessage in
		// wrapError, so rendering e.message here too would print the context
		// twice.
		return e.cause.Error()
	}
	return e.message
}

func (e *taggedError) Unwrap() error {
	return e.cause
}

// Kind returns the error's taxonomy kind.
func (e *taggedError) Kind() Kind {
	return e.kind
}

func newError(kind Kind, format string, args ...any) *taggedError {
	return &taggedError{kind: kind, message: fmt.Sprintf(format, args...)}
}

func wrapError(kind Kind, cause error, context string) *taggedError {
	return &taggedError{kind: kind, message: context, cause: pkgerrors.WithMessage(cause, context)}
}

func newInvalidArgument(format string, args ...any) error {
	return newError(KindInvalidArgument, format, args...)
}

func newPathOverlap(format string, args ...any) error {
	return newError(KindPathOverlap, format, args...)
}

func newSourceNotFound(format string, args ...any) error {
	return newError(KindSourceNotFound, format, args...)
}

// ErrCancelled is returned whenever cooperative cancellation is observed,
// whether during snapshot enumeration, overwrite detection, or execution.
// It carries no additional context because every call site already knows
// "the caller asked us to stop."
var ErrCancelled = &taggedError{kind: KindCancelled, message: "operation cancelled"}

func wrapIOFailure(cause error, context string, args ...any) error {
	return wrapError(KindIOFailure, cause, fmt.Sprintf(context, args...))
}

// KindOf extracts the Kind from err if it (or something it wraps) is an
// engine error, and reports whether the extraction succeeded.
func KindOf(err error) (Kind, bool) {
	var tagged *taggedError
	if errors.As(err, &tagged) {
		return tagged.kind, true
	}
	return 0, false
}

// IsCancelled reports whether err is, or wraps, ErrCancelled.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}
