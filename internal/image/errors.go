package image

import (
	"errors"
	"fmt"

	"github.com/containerd/errdefs"
)

// Returned when a boundary value (build id, date, build type, version) is
// malformed.
type ValidationError struct {
	Field  string // Name of the rejected input.
	Value  string // Offending value, verbatim.
	Reason string // What was expected instead.
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// Classifies the error as an invalid argument.
func (e *ValidationError) Unwrap() error {
	return errdefs.ErrInvalidArgument
}

// Raised by panic when a resolver operation is called out of order.
//
// This is a programmer error and is never returned as a value.
type SequenceError struct {
	Op    string // Operation that was called.
	State State  // State the resolver was in at the time.
}

func (e *SequenceError) Error() string {
	return fmt.Sprintf("resolver: %s called in state %s", e.Op, e.State)
}

// Classifies the error as a failed precondition.
func (e *SequenceError) Unwrap() error {
	return errdefs.ErrFailedPrecondition
}

// Returned when removing a class that is not in the set.
type NotFoundError struct {
	Tag string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("class %s not found", e.Tag)
}

// Classifies the error as not found.
func (e *NotFoundError) Unwrap() error {
	return errdefs.ErrNotFound
}

var (
	ErrUnknownPlaceholder = errors.New("unknown placeholder")
	ErrMissingValue       = errors.New("placeholder has no value")
)
