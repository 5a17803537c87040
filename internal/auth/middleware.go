package auth

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// PermissionAuthorizer is the part of Authorizer the middleware depends on.
type PermissionAuthorizer interface {
	Authorize(ctx context.Context, permission string, header http.Header) (*Claims, error)
}

type Middleware struct {
	authorizer PermissionAuthorizer
}

func NewMiddleware(authorizer PermissionAuthorizer) *Middleware {
	return &Middleware{authorizer: authorizer}
}

// RequirePermission rejects the request unless its bearer token grants permission.
// Failures are returned as *AuthError for the server's error handler to render.
func (m *Middleware) RequirePermission(permission string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			claims, err := m.authorizer.Authorize(req.Context(), permission, req.Header)
			if err != nil {
				return err
			}

			c.Set(ContextKeyClaims, claims)
			c.Set(ContextKeySubject, claims.Subject)

			return next(c)
		}
	}
}

func GetClaims(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get(ContextKeyClaims).(*Claims)
	return claims, ok && claims != nil
}

func GetSubject(c echo.Context) string {
	subject, _ := c.Get(ContextKeySubject).(string)
	return subject
}
