package auth

import (
	"net/http"
	"strings"
)

// ExtractToken returns the credential of a "Bearer <token>" Authorization header.
func ExtractToken(header http.Header) (string, error) {
	authHeader := header.Get(headerAuthorization)
	if authHeader == "" {
		return "", errHeaderMissing()
	}

	parts := strings.Fields(authHeader)
	if len(parts) == 0 || strings.ToLower(parts[0]) != bearerScheme {
		return "", errInvalidHeader(msgHeaderMustStartWithBearer, http.StatusUnauthorized, nil)
	}

	if len(parts) == 1 {
		return "", errInvalidHeader(msgTokenNotFound, http.StatusUnauthorized, nil)
	}

	if len(parts) > authHeaderParts {
		return "", errInvalidHeader(msgHeaderMustBeBearerToken, http.StatusUnauthorized, nil)
	}

	return parts[1], nil
}
