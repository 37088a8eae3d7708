// Package response holds the JSON error bodies shared by the HTTP handlers
// and middlewares.
package response

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

const StatusError = "error"

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Error struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Error   string       `json:"error,omitempty"`
	Details string       `json:"details,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// WithDetails returns a copy of e carrying err's text as the error details.
func (e Error) WithDetails(err error) Error {
	if err != nil {
		e.Details = err.Error()
	}
	return e
}

var (
	EmptyRequestBody = Error{
		Status:  StatusError,
		Message: "URL is required",
		Error:   "empty request body",
	}

	InvalidRequestBody = Error{
		Status:  StatusError,
		Message: "Invalid request body",
		Error:   "invalid request body",
	}

	InvalidURL = Error{
		Status:  StatusError,
		Message: "Invalid URL format",
		Error:   "invalid url",
	}

	InvalidCustomCode = Error{
		Status:  StatusError,
		Message: "Custom code must be 3-20 characters of letters, digits, '-' or '_'",
		Error:   "invalid custom code",
	}

	URLUnreachable = Error{
		Status:  StatusError,
		Message: "URL is not reachable",
		Error:   "url unreachable",
	}

	ShortCodeExists = Error{
		Status:  StatusError,
		Message: "Custom code already in use",
		Error:   "short code exists",
	}

	ShortCodeRequired = Error{
		Status:  StatusError,
		Message: "Short code is required",
		Error:   "missing short code",
	}

	URLNotFound = Error{
		Status:  StatusError,
		Message: "URL not found",
		Error:   "url not found",
	}

	InvalidTimeRange = Error{
		Status:  StatusError,
		Message: "start_time and end_time must be integer epoch milliseconds",
		Error:   "invalid time range",
	}

	ServerError = Error{
		Status:  StatusError,
		Message: "Internal server error",
		Error:   "server error",
	}
)

func messageForTag(tag string) string {
	switch tag {
	case "required":
		return "this field is required"
	case "url":
		return "invalid url"
	default:
		return "invalid value"
	}
}

// FieldErrors flattens validator errors into per-field messages.
// It returns nil for any other error.
func FieldErrors(err error) []FieldError {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return nil
	}

	fieldErrs := make([]FieldError, 0, len(errs))
	for _, e := range errs {
		fieldErrs = append(fieldErrs, FieldError{
			Field:   e.Field(),
			Message: messageForTag(e.Tag()),
		})
	}

	return fieldErrs
}

// ValidationError builds a 400 body whose message lists every failed field.
func ValidationError(err error) Error {
	fieldErrs := FieldErrors(err)

	msg := "validation error"
	if len(fieldErrs) > 0 {
		parts := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			parts = append(parts, fe.Field+": "+fe.Message)
		}
		msg = strings.Join(parts, "; ")
	}

	return Error{
		Status:  StatusError,
		Message: msg,
		Error:   "invalid request body",
		Errors:  fieldErrs,
	}
}
