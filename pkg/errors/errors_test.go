package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	err := NotFound("drink not found")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "drink not found: resource not found", err.Error())
	assert.Equal(t, "NOT_FOUND", err.Code)

	assert.ErrorIs(t, Conflict("dup"), ErrConflict)
	assert.ErrorIs(t, Unprocessable("bad"), ErrUnprocessable)

	var appErr *AppError
	assert.True(t, errors.As(error(Unprocessable("bad")), &appErr))
	assert.Equal(t, "bad", appErr.Message)
}

func TestUnavailable_KeepsCause(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.5:5432: connect: connection refused")
	err := Unavailable("database unavailable", cause)

	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestAppError_WithoutCause(t *testing.T) {
	err := &AppError{Code: "X", Message: "plain"}
	assert.Equal(t, "plain", err.Error())
	assert.Nil(t, err.Unwrap())
}
