package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// RequireNumericParam answers 404 unless the named path parameter is a positive
// integer, so malformed ids never reach authorization or the handler.
func RequireNumericParam(name string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := strconv.ParseInt(c.Param(name), 10, 64)
			if err != nil || id <= 0 {
				return echo.ErrNotFound
			}
			return next(c)
		}
	}
}
