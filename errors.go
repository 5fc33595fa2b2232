package binrec

import (
	"errors"
	"fmt"
	"strings"
)

// Structural errors raised by the codec core. Compile-time errors abort
// record construction; pack/unpack errors propagate to the caller, except
// inside a union trial where they disqualify the member under test.
var (
	// Compile-time.
	ErrMissingLength  = errors.New("length annotation required")
	ErrOutletMismatch = errors.New("outlet has no matching computed provider")
	ErrUnknownKind    = errors.New("unknown field kind")
	ErrDiscriminator  = errors.New("discriminator field missing from union member")

	// Pack/unpack time.
	ErrIntegerRange   = errors.New("integer out of range for field width")
	ErrCharEncoding   = errors.New("character does not encode to one byte")
	ErrStringDecode   = errors.New("string bytes invalid in declared encoding")
	ErrBytesOverflow  = errors.New("byte value longer than reservation")
	ErrArrayOverflow  = errors.New("array value longer than declared count")
	ErrArrayUnderflow = errors.New("array value shorter than declared count")
	ErrLengthMismatch = errors.New("byte string length does not match record width")
	ErrUnionNoMatch   = errors.New("no union member matches")
)

// FieldError wraps a structural error with the field where it occurred.
type FieldError struct {
	Field string
	Err   error
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s: %v", e.Field, e.Err)
}

// Unwrap provides compatibility with errors.Is and errors.As.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// fieldErr attaches a field name to err, nesting paths as "outer.inner".
func fieldErr(name string, err error) error {
	if err == nil {
		return nil
	}
	var fe *FieldError
	if errors.As(err, &fe) && err == error(fe) {
		return &FieldError{Field: name + "." + fe.Field, Err: fe.Err}
	}
	return &FieldError{Field: name, Err: err}
}

// NoMatchError reports that every member of a union was disqualified during
// discrimination. Causes holds one error per member, in declaration order.
type NoMatchError struct {
	Union  string
	Causes []error
}

// Error implements the error interface.
func (e *NoMatchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "union %s: %v", e.Union, ErrUnionNoMatch)
	for i, cause := range e.Causes {
		fmt.Fprintf(&b, "; member %d: %v", i, cause)
	}
	return b.String()
}

// Unwrap exposes the per-member causes plus the ErrUnionNoMatch sentinel.
func (e *NoMatchError) Unwrap() []error {
	return append([]error{ErrUnionNoMatch}, e.Causes...)
}
