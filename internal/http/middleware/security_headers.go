package middleware

import (
	"github.com/labstack/echo/v4"
)

const (
	// The API only ever serves JSON, so nothing may be loaded or framed.
	apiContentSecurityPolicy = "default-src 'none'; frame-ancestors 'none'"
	hstsValue                = "max-age=31536000; includeSubDomains"
)

// SecurityHeaders adds security headers to all responses
func SecurityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()

			h.Set(echo.HeaderContentSecurityPolicy, apiContentSecurityPolicy)
			h.Set(echo.HeaderStrictTransportSecurity, hstsValue)
			h.Set(echo.HeaderXContentTypeOptions, "nosniff")
			h.Set(echo.HeaderXFrameOptions, "DENY")
			h.Set(echo.HeaderReferrerPolicy, "no-referrer")
			h.Set("Cache-Control", "no-store")

			// Remove server identification header
			h.Del("Server")
			h.Del("X-Powered-By")

			return next(c)
		}
	}
}
