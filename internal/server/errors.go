package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/khrees2412/jobscout/internal/app"
	"github.com/khrees2412/jobscout/internal/resume"
)

// AppError is an error with the HTTP status it should be reported with.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, nil)
}

func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, message, nil)
}

func Internal(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", err)
}

// toAppError maps domain errors onto HTTP statuses. Anything unknown is a 500
// with a generic message.
func toAppError(err error) *AppError {
	var appErr *AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, app.ErrInvalidArgument), errors.Is(err, resume.ErrBinaryContent):
		return NewAppError(http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, app.ErrNotFound):
		return NewAppError(http.StatusNotFound, err.Error(), err)
	case errors.Is(err, app.ErrDuplicateURL):
		return NewAppError(http.StatusConflict, err.Error(), err)
	case errors.Is(err, context.DeadlineExceeded):
		return NewAppError(http.StatusGatewayTimeout, "request timed out", err)
	default:
		return Internal(err)
	}
}
