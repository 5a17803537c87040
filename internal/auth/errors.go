package auth

import (
	"errors"
	"fmt"
	"net/http"
)

// AuthError is a classified authorization failure. Code and Description form the
// response body; Status is the HTTP status the caller should answer with.
type AuthError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Status      int    `json:"-"`
	Err         error  `json:"-"`
}

func (e *AuthError) Error() string {
	msg := fmt.Sprintf(errAuthErrorFmt, e.Code, e.Description)
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// AsAuthError reports whether err carries an AuthError and returns it.
func AsAuthError(err error) (*AuthError, bool) {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr, true
	}
	return nil, false
}

func newAuthError(code, description string, status int, cause error) *AuthError {
	return &AuthError{
		Code:        code,
		Description: description,
		Status:      status,
		Err:         cause,
	}
}

func errHeaderMissing() *AuthError {
	return newAuthError(CodeAuthorizationHeaderMissing, msgAuthorizationHeaderExpected, http.StatusUnauthorized, nil)
}

func errInvalidHeader(description string, status int, cause error) *AuthError {
	return newAuthError(CodeInvalidHeader, description, status, cause)
}

func errTokenExpired(cause error) *AuthError {
	return newAuthError(CodeTokenExpired, msgTokenExpired, http.StatusUnauthorized, cause)
}

func errIncorrectClaims(cause error) *AuthError {
	return newAuthError(CodeInvalidClaims, msgIncorrectClaims, http.StatusUnauthorized, cause)
}

func errPermissionsMissing() *AuthError {
	return newAuthError(CodeInvalidClaims, msgPermissionsNotIncluded, http.StatusBadRequest, nil)
}

func errPermissionNotFound() *AuthError {
	return newAuthError(CodeUnauthorized, msgPermissionNotFound, http.StatusUnauthorized, nil)
}

func errKeyProviderUnavailable(cause error) *AuthError {
	return newAuthError(CodeKeyProviderUnavailable, msgKeyProviderUnavailable, http.StatusServiceUnavailable, cause)
}
