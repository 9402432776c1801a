package parser

import (
	"fmt"
	"strings"

	"github.com/manav03panchal/daymark/internal/errors"
)

// DateParseError represents a date parsing error with helpful examples.
type DateParseError struct {
	Input      string
	Field      string
	Message    string
	Examples   []string
	Suggestion string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("invalid %s '%s': %s", e.Field, e.Input, e.Message)
}

// FormatWithExamples returns the error message with example suggestions.
func (e *DateParseError) FormatWithExamples() string {
	var sb strings.Builder
	sb.WriteString(e.Error())

	if len(e.Examples) > 0 {
		sb.WriteString("\n\nValid examples:\n")
		for _, ex := range e.Examples {
			sb.WriteString("  - ")
			sb.WriteString(ex)
			sb.WriteString("\n")
		}
	}

	if e.Suggestion != "" {
		sb.WriteString("\n")
		sb.WriteString(e.Suggestion)
	}

	return sb.String()
}

// DateExamples provides example date formats.
var DateExamples = []string{
	"today",
	"yesterday",
	"2024-01-05",
	"last monday",
	"3 days ago",
}

// TimeExamples provides example instant formats.
var TimeExamples = []string{
	"now",
	"yesterday at 9pm",
	"2 hours ago",
	"2024-01-05 08:30",
}

// RangeExamples provides example date range formats.
var RangeExamples = []string{
	"today",
	"this week",
	"last month",
	"this year",
	"last 30 days",
}

// NewDateError creates a date parse error with standard examples.
func NewDateError(field, input string) *DateParseError {
	return &DateParseError{
		Input:      input,
		Field:      field,
		Message:    "could not parse date",
		Examples:   DateExamples,
		Suggestion: "Use YYYY-MM-DD or natural language like 'yesterday'.",
	}
}

// NewTimeError creates an instant parse error with standard examples.
func NewTimeError(field, input string) *DateParseError {
	return &DateParseError{
		Input:      input,
		Field:      field,
		Message:    "could not parse time",
		Examples:   TimeExamples,
		Suggestion: "Try natural language like '2 hours ago' or an RFC 3339 timestamp.",
	}
}

// NewRangeError creates a date range parse error with standard examples.
func NewRangeError(input string) *DateParseError {
	return &DateParseError{
		Input:      input,
		Field:      "period",
		Message:    "could not parse date range",
		Examples:   RangeExamples,
		Suggestion: "Use period names like 'this week', 'last month' or 'last 30 days'.",
	}
}

// ToValidationError converts the parse error for consistent handling by
// callers that classify errors.
func (e *DateParseError) ToValidationError() *errors.ValidationError {
	return errors.NewValidationErrorWithValue(e.Field, e.Input, e.Message+" (try: "+
		strings.Join(e.Examples[:min(3, len(e.Examples))], ", ")+")", errors.ErrInvalidDate)
}
