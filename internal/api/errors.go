package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/npezzotti/homeease/internal/booking"
	"github.com/npezzotti/homeease/internal/types"
)

// retryAfterSeconds is advertised with 503 responses caused by the store.
const retryAfterSeconds = "5"

type ApiError struct {
	StatusCode    int          `json:"status_code"`
	Message       string       `json:"message"`
	CurrentStatus types.Status `json:"current_status,omitempty"`
	Err           error        `json:"-"`
}

func (e *ApiError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Err.Error())
	}

	return e.Message
}

func (e *ApiError) Unwrap() error {
	return e.Err
}

func lower(s string) string {
	return strings.ToLower(s)
}

func newApiError(statusCode int, err error) *ApiError {
	return &ApiError{
		StatusCode: statusCode,
		Message:    lower(http.StatusText(statusCode)),
		Err:        err,
	}
}

func NewBadRequestError() *ApiError {
	return newApiError(http.StatusBadRequest, nil)
}

// NewValidationError reports a rejected field back to the caller.
func NewValidationError(err error) *ApiError {
	return &ApiError{
		StatusCode: http.StatusBadRequest,
		Message:    err.Error(),
		Err:        err,
	}
}

func NewNotFoundError() *ApiError {
	return newApiError(http.StatusNotFound, nil)
}

func NewConflictError(err error) *ApiError {
	return &ApiError{
		StatusCode: http.StatusConflict,
		Message:    err.Error(),
		Err:        err,
	}
}

func NewInternalServerError(err error) *ApiError {
	return newApiError(http.StatusInternalServerError, err)
}

func NewServiceUnavailableError(err error) *ApiError {
	return newApiError(http.StatusServiceUnavailable, err)
}

func NewUnauthorizedError() *ApiError {
	return newApiError(http.StatusUnauthorized, nil)
}

func NewForbiddenError() *ApiError {
	return newApiError(http.StatusForbidden, nil)
}

// bookingError translates an error from the booking manager into the HTTP
// error returned to the client.
func bookingError(err error) *ApiError {
	switch {
	case errors.Is(err, booking.ErrValidation):
		return NewValidationError(err)
	case errors.Is(err, booking.ErrNotFound):
		return NewNotFoundError()
	case errors.Is(err, booking.ErrInvalidTransition):
		apiErr := NewConflictError(err)
		apiErr.CurrentStatus, _ = booking.CurrentStatus(err)
		return apiErr
	case errors.Is(err, booking.ErrDuplicateReview):
		return NewConflictError(err)
	case errors.Is(err, booking.ErrForbidden):
		return NewForbiddenError()
	case errors.Is(err, booking.ErrUnavailable):
		return NewServiceUnavailableError(err)
	default:
		return NewInternalServerError(err)
	}
}
