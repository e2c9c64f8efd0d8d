package controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/nimburion/hrportal/pkg/listquery"
	"github.com/nimburion/hrportal/pkg/middleware/requestid"
	"github.com/nimburion/hrportal/pkg/repository"
)

// AppError carries a stable code, a message, optional details and the HTTP status to answer with.
type AppError struct {
	Code       string
	Message    string
	Details    map[string]any
	HTTPStatus int
	Cause      error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	label := e.Code
	if e.Message != "" {
		label = e.Message
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", label, e.Cause)
	}
	return label
}

// Unwrap exposes the wrapped cause for errors.Is / errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// ErrorResponse represents the consistent error response format.
type ErrorResponse struct {
	Error     string         `json:"error"`
	Code      string         `json:"code,omitempty"`
	Message   string         `json:"message,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

// MapError maps errors to HTTP responses. Pipeline validation errors become 400, missing
// entities 404 and anything unrecognized 500 without leaking the cause.
func MapError(ctx context.Context, err error) (int, ErrorResponse) {
	requestID := requestid.GetRequestID(ctx)

	var appErr *AppError
	switch {
	case errors.As(err, &appErr):
	case errors.Is(err, listquery.ErrInvalidArgument):
		appErr = NewValidationError(err)
	case errors.Is(err, repository.ErrNotFound):
		appErr = NewNotFoundError(err.Error())
	default:
		return http.StatusInternalServerError, ErrorResponse{
			Error:     "internal_server_error",
			Message:   "an unexpected error occurred",
			RequestID: requestID,
		}
	}

	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	message := appErr.Message
	if message == "" {
		message = "an unexpected error occurred"
	}
	return status, ErrorResponse{
		Error:     errorCategory(status),
		Code:      appErr.Code,
		Message:   message,
		RequestID: requestID,
		Details:   appErr.Details,
	}
}

// NewValidationError converts a pipeline error into a 400 AppError. The offending
// parameter, field and reason are exposed as details when err carries them.
func NewValidationError(err error) *AppError {
	appErr := &AppError{
		Code:       "validation.invalid_argument",
		Message:    err.Error(),
		HTTPStatus: http.StatusBadRequest,
		Cause:      err,
	}
	var invalid *listquery.InvalidArgumentError
	if errors.As(err, &invalid) {
		details := map[string]any{"param": invalid.Param, "reason": invalid.Reason}
		if invalid.Field != "" {
			details["field"] = invalid.Field
		}
		appErr.Details = details
	}
	return appErr
}

// NewNotFoundError creates a new not found error.
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Code:       "resource.not_found",
		Message:    message,
		HTTPStatus: http.StatusNotFound,
	}
}

func errorCategory(status int) string {
	switch {
	case status == http.StatusBadRequest:
		return "validation_error"
	case status == http.StatusNotFound:
		return "not_found"
	case status >= 500:
		return "internal_server_error"
	default:
		return "application_error"
	}
}
