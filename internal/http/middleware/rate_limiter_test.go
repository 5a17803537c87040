package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"drinks-service/internal/auth"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(2, 2) // 2 req/sec, burst of 2

	// First two requests should succeed
	assert.True(t, rl.Allow("test-key"))
	assert.True(t, rl.Allow("test-key"))

	// Third request should be rate limited
	assert.False(t, rl.Allow("test-key"))
}

func TestRateLimiter_Middleware(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiter(2, 2)

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}

	middleware := rl.Middleware()

	serve := func() (*httptest.ResponseRecorder, error) {
		req := httptest.NewRequest(http.MethodGet, "/drinks", nil)
		req.RemoteAddr = "203.0.113.7:4242"
		rec := httptest.NewRecorder()
		return rec, middleware(handler)(e.NewContext(req, rec))
	}

	// First two requests should succeed
	for i := 0; i < 2; i++ {
		rec, err := serve()
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2", rec.Header().Get(headerRateLimitLimit))
		assert.NotEmpty(t, rec.Header().Get(headerRateLimitRemaining))
	}

	// Third request should be rate limited
	rec, err := serve()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusTooManyRequests, he.Code)
	assert.Equal(t, "0", rec.Header().Get(headerRateLimitRemaining))
	assert.Equal(t, "1", rec.Header().Get(headerRetryAfter))
}

func TestRateLimiter_KeysBySubject(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiter(1, 1)

	handler := func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}

	serve := func(subject string) error {
		req := httptest.NewRequest(http.MethodPost, "/drinks", nil)
		req.RemoteAddr = "203.0.113.7:4242"
		c := e.NewContext(req, httptest.NewRecorder())
		if subject != "" {
			c.Set(auth.ContextKeySubject, subject)
		}
		return rl.Middleware()(handler)(c)
	}

	// Same IP, different subjects get separate buckets
	assert.NoError(t, serve("auth0|barista"))
	assert.NoError(t, serve("auth0|manager"))
	assert.NoError(t, serve(""))

	assert.Error(t, serve("auth0|barista"))
	assert.Error(t, serve(""))
}

func TestRateLimiter_DifferentKeys(t *testing.T) {
	rl := NewRateLimiter(1, 1)

	// Different keys should have independent rate limits
	assert.True(t, rl.Allow("key1"))
	assert.True(t, rl.Allow("key2"))

	// Both keys should now be rate limited
	assert.False(t, rl.Allow("key1"))
	assert.False(t, rl.Allow("key2"))
}
