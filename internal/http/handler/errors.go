package handler

import (
	"errors"
	"net/http"
	"strings"

	apperrors "drinks-service/pkg/errors"

	"github.com/labstack/echo/v4"
)

var publicMessages = map[int]string{
	http.StatusBadRequest:          MsgBadRequest,
	http.StatusUnauthorized:        MsgUnauthorized,
	http.StatusForbidden:           MsgForbidden,
	http.StatusNotFound:            MsgNotFound,
	http.StatusMethodNotAllowed:    MsgMethodNotAllowed,
	http.StatusConflict:            MsgConflict,
	http.StatusUnprocessableEntity: MsgUnprocessable,
	http.StatusTooManyRequests:     MsgRateLimitExceeded,
	http.StatusInternalServerError: MsgServerError,
	http.StatusServiceUnavailable:  MsgServiceUnavailable,
}

// MapToPublicError maps internal errors to public-facing HTTP status codes and messages.
// Messages depend only on the status so internal details never reach the client.
func MapToPublicError(err error) (int, string) {
	status := statusFor(err)
	return status, PublicMessage(status)
}

func PublicMessage(status int) string {
	if msg, ok := publicMessages[status]; ok {
		return msg
	}
	return strings.ToLower(http.StatusText(status))
}

func statusFor(err error) int {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrUnprocessable),
		errors.Is(err, apperrors.ErrConflict):
		// Duplicate titles and bad bodies both surface as unprocessable.
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
