// SPDX-License-Identifier: MPL-2.0

package container

import (
	"errors"
	"fmt"
)

var (
	// ErrNotSupported is returned when an engine variant cannot perform an
	// operation. It is raised before any process is started.
	ErrNotSupported = errors.New("operation not supported")

	// ErrCancelled is returned when a stream is cancelled by its context.
	ErrCancelled = errors.New("operation cancelled")

	// ErrParse is returned when engine output cannot be parsed or validated.
	ErrParse = errors.New("invalid engine output")

	// ErrInvalidImageName is returned when an image reference does not match
	// the image name grammar.
	ErrInvalidImageName = errors.New("invalid image name")
)

type (
	// NotSupportedError names the operation and engine that lack a capability.
	NotSupportedError struct {
		Operation string
		Engine    string
		Reason    string
	}

	// CancellationError is returned from a Stream whose context was done.
	CancellationError struct {
		Cause error
	}

	// ParseError describes a record that failed to decode or validate.
	ParseError struct {
		Operation string
		// Line is the 1-based line number within the output, or 0 when the
		// whole output was parsed as a single document.
		Line   int
		Record string
		Err    error
	}

	// ImageNameError is returned for image references that violate the image
	// name grammar.
	ImageNameError struct {
		Name string
	}
)

func (e *NotSupportedError) Error() string {
	msg := fmt.Sprintf("%s is not supported by %s", e.Operation, e.Engine)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// Unwrap returns ErrNotSupported for errors.Is compatibility.
func (e *NotSupportedError) Unwrap() error { return ErrNotSupported }

func (e *CancellationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", ErrCancelled, e.Cause)
	}
	return ErrCancelled.Error()
}

// Unwrap exposes both ErrCancelled and the context cause, so errors.Is
// matches ErrCancelled as well as context.Canceled or DeadlineExceeded.
func (e *CancellationError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrCancelled}
	}
	return []error{ErrCancelled, e.Cause}
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d: %v", e.Operation, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Operation, e.Err)
}

// Unwrap exposes both ErrParse and the underlying decode error.
func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrParse}
	}
	return []error{ErrParse, e.Err}
}

func (e *ImageNameError) Error() string {
	return fmt.Sprintf("%s: %q", ErrInvalidImageName, e.Name)
}

// Unwrap returns ErrInvalidImageName for errors.Is compatibility.
func (e *ImageNameError) Unwrap() error { return ErrInvalidImageName }

func notSupported(op, engine string) error {
	return &NotSupportedError{Operation: op, Engine: engine}
}
