package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// Common sentinel errors for quick checks
var (
	// ErrBindingUnresolved is returned when no candidate shape for a platform
	// operation succeeded.
	ErrBindingUnresolved = errors.New("no candidate call shape could be bound")

	// ErrUnrecognizedIdentifier is returned when a value cannot be normalized
	// into a canonical identifier.
	ErrUnrecognizedIdentifier = errors.New("unrecognized identifier shape")

	// ErrOperationFailed is returned when a platform call executed but
	// reported failure.
	ErrOperationFailed = errors.New("platform operation failed")

	// ErrNotReady is returned when required prior state is missing.
	ErrNotReady = errors.New("not ready")

	// ErrInvalidState is returned when a lifecycle transition is not permitted
	// from the current state.
	ErrInvalidState = errors.New("invalid session state")
)

// As is a re-export of the standard library errors.As so callers of this
// package do not need a second errors import.
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Is is a re-export of the standard library errors.Is.
func Is(err, target error) bool { return errors.Is(err, target) }

// Error is the base interface for all typed errors in the system.
// It extends the standard error interface with a stable code.
type Error interface {
	error
	// Code returns the error code
	Code() string
	// Message returns the human-readable error message
	Message() string
	// Unwrap returns the underlying cause
	Unwrap() error
}

// BaseError provides a foundation for all typed errors.
type BaseError struct {
	code    string
	message string
	cause   error
	stack   []uintptr
}

// Error implements the error interface.
func (e *BaseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Code returns the error code.
func (e *BaseError) Code() string {
	return e.code
}

// Message returns the error message.
func (e *BaseError) Message() string {
	return e.message
}

// Unwrap returns the underlying cause.
func (e *BaseError) Unwrap() error {
	return e.cause
}

// captureStack captures the current stack trace.
func captureStack(skip int) []uintptr {
	const maxDepth = 32
	stack := make([]uintptr, maxDepth)
	n := runtime.Callers(skip+2, stack)
	return stack[:n]
}

// StackTrace returns a formatted stack trace string.
func (e *BaseError) StackTrace() string {
	if len(e.stack) == 0 {
		return ""
	}

	var buf strings.Builder
	frames := runtime.CallersFrames(e.stack)
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			fmt.Fprintf(&buf, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		}
		if !more {
			break
		}
	}
	return buf.String()
}

// BindingError reports that an operation could not be bound to any candidate
// call shape on the native module.
type BindingError struct {
	*BaseError
	Operation string
	Probed    int
}

// NewBindingError creates a binding resolution error for the named operation.
// probed is the number of candidate shapes that were tried.
func NewBindingError(operation string, probed int, cause error) *BindingError {
	return &BindingError{
		BaseError: &BaseError{
			code:    CodeBindingUnresolved,
			message: fmt.Sprintf("operation %q: no working call shape among %d candidates", operation, probed),
			cause:   cause,
			stack:   captureStack(1),
		},
		Operation: operation,
		Probed:    probed,
	}
}

// IdentifierError reports a value whose representation could not be
// normalized into a canonical 64-bit identifier.
type IdentifierError struct {
	*BaseError
	Value interface{}
}

// NewIdentifierError creates an identifier normalization error.
func NewIdentifierError(value interface{}) *IdentifierError {
	return &IdentifierError{
		BaseError: &BaseError{
			code:    CodeUnrecognizedIdentifier,
			message: fmt.Sprintf("cannot normalize identifier from %T", value),
			cause:   ErrUnrecognizedIdentifier,
			stack:   captureStack(1),
		},
		Value: value,
	}
}

// OperationError reports a platform call that executed but signalled failure.
type OperationError struct {
	*BaseError
	Operation string
}

// NewOperationError creates an operation failure error.
func NewOperationError(operation string, cause error) *OperationError {
	return &OperationError{
		BaseError: &BaseError{
			code:    CodeOperationFailed,
			message: fmt.Sprintf("operation %q failed", operation),
			cause:   cause,
			stack:   captureStack(1),
		},
		Operation: operation,
	}
}

// NotReadyError reports an operation invoked before its prerequisites exist.
type NotReadyError struct {
	*BaseError
	Missing string
}

// NewNotReadyError creates a not-ready error naming the missing prerequisite.
func NewNotReadyError(missing string) *NotReadyError {
	return &NotReadyError{
		BaseError: &BaseError{
			code:    CodeNotReady,
			message: fmt.Sprintf("not ready: %s", missing),
			cause:   ErrNotReady,
			stack:   captureStack(1),
		},
		Missing: missing,
	}
}

// StateError reports a lifecycle transition requested from a state that does
// not permit it.
type StateError struct {
	*BaseError
	Current   string
	Requested string
}

// NewStateError creates an invalid-transition error.
func NewStateError(current, requested string) *StateError {
	return &StateError{
		BaseError: &BaseError{
			code:    CodeInvalidState,
			message: fmt.Sprintf("cannot %s while %s", requested, current),
			cause:   ErrInvalidState,
			stack:   captureStack(1),
		},
		Current:   current,
		Requested: requested,
	}
}

// ValidationError represents a configuration or input validation error.
type ValidationError struct {
	*BaseError
	Field string
	Value interface{}
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		BaseError: &BaseError{
			code:    CodeValidation,
			message: message,
			stack:   captureStack(1),
		},
		Field: field,
		Value: value,
	}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.message)
	}
	return fmt.Sprintf("validation error: %s", e.message)
}
