package errors

import "net/http"

// Category represents the type of error for display and handling purposes.
type Category int

const (
	// CategoryInternal is the default: an unexpected failure or bug.
	CategoryInternal Category = iota
	// CategoryValidation indicates a malformed request.
	CategoryValidation
	// CategoryNotFound indicates an absent entity.
	CategoryNotFound
	// CategoryConflict indicates a uniqueness violation.
	CategoryConflict
)

// String returns the string representation of the category.
func (c Category) String() string {
	switch c {
	case CategoryValidation:
		return "validation"
	case CategoryNotFound:
		return "not_found"
	case CategoryConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// HTTPStatus maps the category to a response status code.
func (c Category) HTTPStatus() int {
	switch c {
	case CategoryValidation:
		return http.StatusBadRequest
	case CategoryNotFound:
		return http.StatusNotFound
	case CategoryConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Classify determines the category of an error.
func Classify(err error) Category {
	switch {
	case err == nil:
		return CategoryInternal
	case IsValidationError(err):
		return CategoryValidation
	case IsNotFoundError(err):
		return CategoryNotFound
	case IsConflictError(err):
		return CategoryConflict
	default:
		return CategoryInternal
	}
}

// PublicMessage returns the text safe to show a caller. Internal failures
// collapse to a generic message; their detail belongs in server logs.
func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	if Classify(err) == CategoryInternal {
		return "internal error"
	}
	return err.Error()
}
