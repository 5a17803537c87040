package auth

const (
	ContextKeyClaims  = "auth_claims"
	ContextKeySubject = "auth_subject"

	headerAuthorization = "Authorization"
	headerAccept        = "Accept"

	bearerScheme    = "bearer"
	authHeaderParts = 2

	headerKeyID     = "kid"
	contentTypeJSON = "application/json"

	keySetFlightKey = "jwks"
)

// Codes carried by AuthError.
const (
	CodeAuthorizationHeaderMissing = "authorization_header_missing"
	CodeInvalidHeader              = "invalid_header"
	CodeInvalidClaims              = "invalid_claims"
	CodeTokenExpired               = "token_expired"
	CodeUnauthorized               = "unauthorized"
	CodeKeyProviderUnavailable     = "key_provider_unavailable"
)

const (
	msgAuthorizationHeaderExpected = "Authorization header is expected."
	msgHeaderMustStartWithBearer   = `Authorization header must start with "Bearer".`
	msgTokenNotFound               = "Token not found."
	msgHeaderMustBeBearerToken     = "Authorization header must be bearer token."
	msgAuthorizationMalformed      = "Authorization malformed."
	msgUnableToFindKey             = "Unable to find the appropriate key."
	msgUnableToParseToken          = "Unable to parse authentication token."
	msgTokenExpired                = "Token expired."
	msgIncorrectClaims             = "Incorrect claims. Please, check the audience and issuer."
	msgPermissionsNotIncluded      = "Permissions not included in JWT."
	msgPermissionNotFound          = "Permission not found."
	msgKeyProviderUnavailable      = "Unable to fetch signing keys."
)

const (
	errFetchDocumentFmt    = "failed to fetch key set from %s: %w"
	errUnexpectedStatusFmt = "unexpected status %d fetching key set from %s"
	errReadDocumentFmt     = "failed to read key set document: %w"
	errDocumentTooLargeFmt = "key set document exceeds %d bytes"
	errParseKeySetFmt      = "failed to parse key set: %w"
	errRefreshKeySetFmt    = "failed to refresh key set: %w"
	errAuthErrorFmt        = "%s: %s"

	resultOK    = "ok"
	resultError = "error"
	resultStale = "stale"
	resultHit   = "hit"
	resultMiss  = "miss"
)
