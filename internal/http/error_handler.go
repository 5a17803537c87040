package http

import (
	"net/http"

	"drinks-service/internal/auth"
	"drinks-service/internal/http/handler"
	"drinks-service/internal/http/middleware"
	"drinks-service/pkg/logger"

	"github.com/labstack/echo/v4"
)

const unknownRequestID = "unknown"

// CustomHTTPErrorHandler handles all errors returned by handlers and middleware.
// Authorization failures are rendered as {code, description} with their own status;
// everything else gets the {success, error, message} envelope with a generic message.
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	requestID := middleware.GetRequestID(c)
	if requestID == "" {
		requestID = unknownRequestID
	}

	if authErr, ok := auth.AsAuthError(err); ok {
		logError(c, authErr.Status, requestID, err)
		if err := c.JSON(authErr.Status, authErr); err != nil {
			c.Logger().Error(err)
		}
		return
	}

	code, message := handler.MapToPublicError(err)
	logError(c, code, requestID, err)

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, handler.ErrorResponse{
			Success: false,
			Error:   code,
			Message: message,
		})
	}
	if err != nil {
		c.Logger().Error(err)
	}
}

func logError(c echo.Context, code int, requestID string, err error) {
	if code >= http.StatusInternalServerError {
		c.Logger().Errorj(map[string]any{
			"msg":        "internal_server_error",
			"request_id": requestID,
			"status":     code,
			"error":      logger.SanitizeLogMessage(err.Error()),
		})
		return
	}
	c.Logger().Warnj(map[string]any{
		"msg":        "client_error",
		"request_id": requestID,
		"status":     code,
		"error":      logger.SanitizeLogMessage(err.Error()),
	})
}
