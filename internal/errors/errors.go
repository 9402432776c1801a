// Package errors provides the error taxonomy shared by every Daymark layer.
// It defines four kinds: ValidationError (malformed request), NotFoundError
// (absent entity), ConflictError (uniqueness violation) and SystemError
// (unexpected internal failure, never shown verbatim to callers).
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// Standard sentinel errors for common conditions.
var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrEndBeforeStart   = errors.New("end date must not be before start date")
	ErrRangeTooLarge    = errors.New("date range too large")
	ErrInvalidFieldType = errors.New("invalid field type")
	ErrInvalidFieldKey  = errors.New("invalid field key")
	ErrInvalidValue     = errors.New("invalid field value")
	ErrAmountRange      = errors.New("amount out of range")
	ErrTaskDepth        = errors.New("sub-tasks cannot have sub-tasks")
	ErrTrackerLocked    = errors.New("tracker is locked")
	ErrUnknownTable     = errors.New("unknown table")
	ErrTemplateNotFound = errors.New("template not found")
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrTrackerNotFound  = errors.New("tracker not found")
	ErrTaskNotFound     = errors.New("task not found")
	ErrEntryNotFound    = errors.New("entry not found")
	ErrCounterNotFound  = errors.New("counter not found")
	ErrDuplicateKey     = errors.New("duplicate key")
)

// ValidationError represents a request the caller can fix.
type ValidationError struct {
	Field   string // The input that failed validation
	Value   string // The offending value (optional)
	Message string // What is wrong with it
	Cause   error  // Sentinel for errors.Is matching (optional)
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: %s: '%s'", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NewValidationErrorWithValue creates a ValidationError carrying the rejected value.
func NewValidationErrorWithValue(field, value, message string, cause error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
		Cause:   cause,
	}
}

// NotFoundError represents a missing entity.
type NotFoundError struct {
	Kind  string // e.g. "template", "snapshot"
	ID    string
	Cause error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return e.Cause
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(kind, id string, cause error) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id, Cause: cause}
}

// ConflictError represents a uniqueness violation.
type ConflictError struct {
	Kind string
	ID   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already exists: %s", e.Kind, e.ID)
}

func (e *ConflictError) Unwrap() error {
	return ErrDuplicateKey
}

// NewConflictError creates a new ConflictError.
func NewConflictError(kind, id string) *ConflictError {
	return &ConflictError{Kind: kind, ID: id}
}

// SystemError represents an unexpected internal failure.
type SystemError struct {
	Message string   // What happened
	Cause   error    // The underlying error
	Op      string   // The operation that failed (optional)
	Stack   []string // Call sites captured at construction
}

func (e *SystemError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s during %s", e.Message, e.Op)
	}
	return e.Message
}

func (e *SystemError) Unwrap() error {
	return e.Cause
}

// NewSystemError creates a new SystemError.
func NewSystemError(message string, cause error) *SystemError {
	return &SystemError{
		Message: message,
		Cause:   cause,
		Stack:   captureStack(2),
	}
}

// NewSystemErrorWithOp creates a new SystemError with operation context.
func NewSystemErrorWithOp(op, message string, cause error) *SystemError {
	return &SystemError{
		Message: message,
		Cause:   cause,
		Op:      op,
		Stack:   captureStack(2),
	}
}

// Detail returns the full diagnostic text for server-side logs.
func (e *SystemError) Detail() string {
	var sb strings.Builder
	sb.WriteString(e.Error())
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	for _, frame := range e.Stack {
		sb.WriteString("\n\t")
		sb.WriteString(frame)
	}
	return sb.String()
}

func captureStack(skip int) []string {
	const maxDepth = 16
	var pcs [maxDepth]uintptr
	n := runtime.Callers(skip+1, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var stack []string
	for {
		frame, more := frames.Next()
		if !strings.HasPrefix(frame.Function, "runtime.") && !strings.HasPrefix(frame.Function, "testing.") {
			stack = append(stack, fmt.Sprintf("%s %s:%d", frame.Function, frame.File, frame.Line))
		}
		if !more {
			break
		}
	}
	return stack
}

// IsValidationError checks if an error is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFoundError checks if an error is a NotFoundError.
func IsNotFoundError(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne)
}

// IsConflictError checks if an error is a ConflictError.
func IsConflictError(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsSystemError checks if an error is a SystemError.
func IsSystemError(err error) bool {
	var se *SystemError
	return errors.As(err, &se)
}

// AsValidationError extracts a ValidationError from an error chain.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

// AsSystemError extracts a SystemError from an error chain.
func AsSystemError(err error) (*SystemError, bool) {
	var se *SystemError
	ok := errors.As(err, &se)
	return se, ok
}

// Is is re-exported from the standard errors package for convenience.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted additional context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
