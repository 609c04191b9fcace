package peeps

import (
	"errors"
	"fmt"
)

// Domain errors raised by the animation kernels.
var (
	// ErrInvalidParameter indicates a geometric or physical parameter outside its valid range.
	ErrInvalidParameter = errors.New("peeps: invalid parameter")

	// ErrDegenerateVector indicates a zero-length or antiparallel vector where a direction is required.
	ErrDegenerateVector = errors.New("peeps: degenerate vector")

	// ErrMissingCollaborator indicates a required collaborator (frame, mass, charge) was not supplied.
	ErrMissingCollaborator = errors.New("peeps: missing collaborator")

	// ErrEmptySequence indicates a pop from an exhausted tick sequence.
	ErrEmptySequence = errors.New("peeps: pop from empty sequence")

	// ErrSession indicates a capture session started twice or stopped without starting.
	ErrSession = errors.New("peeps: capture session misuse")

	// ErrEncode indicates the encoder failed to assemble captured frames.
	ErrEncode = errors.New("peeps: encode failed")
)

// Error tags a domain error with the operation that raised it. Cause, when
// set, is the underlying failure and stays reachable through errors.Is.
type Error struct {
	Op      string
	Detail  string
	Wrapped error
	Cause   error
}

// Errorf builds an *Error for op wrapping kind, with a formatted detail.
func Errorf(op string, kind error, format string, args ...any) *Error {
	return &Error{Op: op, Detail: fmt.Sprintf(format, args...), Wrapped: kind}
}

// Wrap builds an *Error for op of the given kind caused by cause.
func Wrap(op string, kind, cause error) *Error {
	return &Error{Op: op, Wrapped: kind, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Wrapped, e.Cause)
	}
	if e.Detail == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Wrapped)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Wrapped, e.Detail)
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Wrapped}
	}
	return []error{e.Wrapped, e.Cause}
}
