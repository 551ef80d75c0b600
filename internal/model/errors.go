package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidFormat is returned for malformed containers: XML syntax errors, data elements without a name,
	// malformed file reference strings
	ErrInvalidFormat = errors.New("invalid resx format")
	// ErrInvalidOperation is returned when reader configuration is changed after the reader has started
	// consuming it
	ErrInvalidOperation = errors.New("invalid operation")
)

var (
	ErrEntryNotFound *ErrNotFound
)

type ErrNotFound struct {
	Subject string
}

func (e *ErrNotFound) Error() string {
	return strings.TrimSpace(fmt.Sprintf("%s not found", e.Subject))
}

func (e *ErrNotFound) Code() string {
	return e.Subject
}

func NewErrNotFound(subject string) *ErrNotFound {
	return &ErrNotFound{Subject: subject}
}

func init() {
	ErrEntryNotFound = NewErrNotFound("entry")
}

// TypeResolutionError is returned when a type name could not be resolved through any of the lookup steps
type TypeResolutionError struct {
	TypeName string
	Position Position
}

func (e *TypeResolutionError) Error() string {
	if e.Position.IsZero() {
		return fmt.Sprintf("type %q could not be resolved", e.TypeName)
	}
	return fmt.Sprintf("type %q could not be resolved at %v", e.TypeName, e.Position)
}

// Is makes errors.Is(err, &TypeResolutionError{}) match any type resolution failure
func (e *TypeResolutionError) Is(target error) bool {
	_, ok := target.(*TypeResolutionError)
	return ok
}

// WithPosition returns a copy of the error located at pos, unless the error already carries a position
func (e *TypeResolutionError) WithPosition(pos Position) *TypeResolutionError {
	if !e.Position.IsZero() {
		return e
	}
	return &TypeResolutionError{TypeName: e.TypeName, Position: pos}
}

// ConversionError is returned when the converter of a resolved type rejects a payload, or when an
// opaque object payload cannot be deserialized
type ConversionError struct {
	TypeName string
	Position Position
	Err      error
}

func (e *ConversionError) Error() string {
	var b strings.Builder
	b.WriteString("cannot convert value")
	if e.TypeName != "" {
		b.WriteString(" of type ")
		b.WriteString(fmt.Sprintf("%q", e.TypeName))
	}
	if !e.Position.IsZero() {
		b.WriteString(" at ")
		b.WriteString(e.Position.String())
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, &ConversionError{}) match any conversion failure
func (e *ConversionError) Is(target error) bool {
	_, ok := target.(*ConversionError)
	return ok
}

// NewInvalidFormatError returns an error wrapping ErrInvalidFormat with the formatted message and the position, if known.
// The format may contain %w verbs to wrap further causes.
func NewInvalidFormatError(pos Position, format string, args ...any) error {
	args = append([]any{ErrInvalidFormat}, args...)
	if pos.IsZero() {
		return fmt.Errorf("%w: "+format, args...)
	}
	return fmt.Errorf("%w: "+format+" at "+pos.String(), args...)
}
