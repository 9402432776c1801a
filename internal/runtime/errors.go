package runtime

import (
	"errors"
	"fmt"
	"strings"
	"syscall"

	derrors "github.com/manav03panchal/daymark/internal/errors"
	"github.com/manav03panchal/daymark/internal/parser"
)

// ErrDiskFull reports that the database could not be written for lack of space.
var ErrDiskFull = errors.New("disk full: unable to write to database")

const diskFullSuggestion = "Free up disk space and try again. Nothing was written."

// FormatError renders err for the terminal with a suggestion when one is known.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	if IsDiskFullError(err) {
		return err.Error() + "\n\nTry: " + diskFullSuggestion
	}
	var pe *parser.DateParseError
	if errors.As(err, &pe) {
		return pe.FormatWithExamples()
	}
	return derrors.FormatWithSuggestion(err)
}

// Classifiable converts errors that carry no category into their classified
// form, so JSON output and exit handling see a validation error.
func Classifiable(err error) error {
	var pe *parser.DateParseError
	if errors.As(err, &pe) {
		return pe.ToValidationError()
	}
	return err
}

// DiskFullError represents a disk full condition with additional context.
type DiskFullError struct {
	Op      string // operation that failed, e.g. "open" or "backup"
	Path    string
	wrapped error
}

func (e *DiskFullError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("disk full during %s on %s: %v", e.Op, e.Path, e.wrapped)
	}
	return fmt.Sprintf("disk full during %s: %v", e.Op, e.wrapped)
}

func (e *DiskFullError) Unwrap() error {
	return ErrDiskFull
}

// NewDiskFullError creates a new DiskFullError.
func NewDiskFullError(op, path string, err error) *DiskFullError {
	return &DiskFullError{Op: op, Path: path, wrapped: err}
}

var diskFullPatterns = []string{
	"no space left on device",
	"disk full",
	"enospc",
	"not enough space",
	"insufficient disk space",
	"out of disk space",
}

// IsDiskFullError checks for ENOSPC and the messages badger surfaces for it.
func IsDiskFullError(err error) bool {
	if err == nil {
		return false
	}

	var diskFullErr *DiskFullError
	if errors.As(err, &diskFullErr) || errors.Is(err, ErrDiskFull) {
		return true
	}

	var errno syscall.Errno
	if errors.As(err, &errno) && errno == syscall.ENOSPC {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range diskFullPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// WrapDiskFullError wraps err as a DiskFullError if it indicates disk full,
// and returns it unchanged otherwise.
func WrapDiskFullError(err error, op, path string) error {
	if err == nil {
		return nil
	}
	if IsDiskFullError(err) {
		return NewDiskFullError(op, path, err)
	}
	return err
}
