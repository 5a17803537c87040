package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"drinks-service/pkg/metrics"

	"github.com/golang-jwt/jwt/v5"
)

// AuthorizerConfig describes which tokens are acceptable.
type AuthorizerConfig struct {
	Audience   string
	Issuer     string
	Algorithms []string
	Leeway     time.Duration
}

// Authorizer turns request credentials into verified claims or an AuthError.
// It holds no per-request state and is safe for concurrent use.
type Authorizer struct {
	cfg     AuthorizerConfig
	keys    KeyProvider
	now     func() time.Time
	metrics *metrics.Metrics
	parser  *jwt.Parser
}

type AuthorizerOption func(*Authorizer)

func WithClock(now func() time.Time) AuthorizerOption {
	return func(a *Authorizer) {
		a.now = now
	}
}

func WithMetrics(m *metrics.Metrics) AuthorizerOption {
	return func(a *Authorizer) {
		a.metrics = m
	}
}

func NewAuthorizer(cfg AuthorizerConfig, keys KeyProvider, opts ...AuthorizerOption) *Authorizer {
	a := &Authorizer{
		cfg:  cfg,
		keys: keys,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}

	a.parser = jwt.NewParser(
		jwt.WithValidMethods(cfg.Algorithms),
		jwt.WithAudience(cfg.Audience),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(cfg.Leeway),
		jwt.WithTimeFunc(a.now),
	)

	return a
}

// Authorize extracts the bearer token from header, verifies it and checks that it
// grants permission. The first failing step decides the returned AuthError.
func (a *Authorizer) Authorize(ctx context.Context, permission string, header http.Header) (*Claims, error) {
	claims, err := a.authorize(ctx, permission, header)
	if err != nil {
		if authErr, ok := AsAuthError(err); ok {
			a.metrics.ObserveAuthorization(authErr.Code)
		} else {
			a.metrics.ObserveAuthorization(resultError)
		}
		return nil, err
	}

	a.metrics.ObserveAuthorization(resultOK)
	return claims, nil
}

func (a *Authorizer) authorize(ctx context.Context, permission string, header http.Header) (*Claims, error) {
	token, err := ExtractToken(header)
	if err != nil {
		return nil, err
	}

	claims, err := a.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	if err := CheckPermission(permission, claims); err != nil {
		return nil, err
	}

	return claims, nil
}

// Verify checks the token signature against the provider's key set and validates
// expiry, audience and issuer.
func (a *Authorizer) Verify(ctx context.Context, token string) (*Claims, error) {
	kid, err := unverifiedKeyID(token)
	if err != nil {
		return nil, err
	}

	keys, err := a.keys.KeySet(ctx)
	if err != nil {
		return nil, errKeyProviderUnavailable(err)
	}

	key, ok := keys.Find(kid)
	if !ok {
		return nil, errInvalidHeader(msgUnableToFindKey, http.StatusBadRequest, nil)
	}

	claims := &Claims{}
	if _, err := a.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return key.PublicKey, nil
	}); err != nil {
		return nil, classifyParseError(err)
	}

	return claims, nil
}

// CheckPermission reports whether claims grant permission.
func CheckPermission(permission string, claims *Claims) error {
	if !claims.HasPermissionsClaim() {
		return errPermissionsMissing()
	}

	if !claims.HasPermission(permission) {
		return errPermissionNotFound()
	}

	return nil
}

// unverifiedKeyID reads kid from the token header only. A payload that fails to
// decode is left for signature verification to reject.
func unverifiedKeyID(token string) (string, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if parsed == nil || parsed.Header == nil {
		return "", errInvalidHeader(msgUnableToParseToken, http.StatusBadRequest, err)
	}

	kid, _ := parsed.Header[headerKeyID].(string)
	if kid == "" {
		return "", errInvalidHeader(msgAuthorizationMalformed, http.StatusUnauthorized, err)
	}

	return kid, nil
}

func classifyParseError(err error) *AuthError {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return errTokenExpired(err)
	case errors.Is(err, jwt.ErrTokenInvalidAudience),
		errors.Is(err, jwt.ErrTokenInvalidIssuer),
		errors.Is(err, jwt.ErrTokenRequiredClaimMissing),
		errors.Is(err, jwt.ErrTokenNotValidYet),
		errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return errIncorrectClaims(err)
	default:
		return errInvalidHeader(msgUnableToParseToken, http.StatusBadRequest, err)
	}
}
