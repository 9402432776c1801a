package output

import (
	"github.com/manav03panchal/daymark/internal/errors"
)

// JSONFormatter provides JSON-specific formatting.
type JSONFormatter struct {
	*Formatter
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(f *Formatter) *JSONFormatter {
	return &JSONFormatter{Formatter: f}
}

// Response wraps a successful command result.
type Response struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
}

// ErrorResponse represents an error in JSON.
type ErrorResponse struct {
	Status   string `json:"status"`
	Category string `json:"category"`
	Error    string `json:"error"`
	Field    string `json:"field,omitempty"`
}

// PrintData writes data in the success envelope.
func (j *JSONFormatter) PrintData(data any) error {
	return j.JSON(Response{Status: "ok", Data: data})
}

// PrintError writes err in the error envelope. Internal failures are not
// detailed.
func (j *JSONFormatter) PrintError(err error) error {
	return j.JSON(NewErrorResponse(err))
}

// NewErrorResponse classifies err into an ErrorResponse.
func NewErrorResponse(err error) ErrorResponse {
	resp := ErrorResponse{
		Status:   "error",
		Category: errors.Classify(err).String(),
		Error:    errors.PublicMessage(err),
	}
	if ve, ok := errors.AsValidationError(err); ok {
		resp.Field = ve.Field
	}
	return resp
}
