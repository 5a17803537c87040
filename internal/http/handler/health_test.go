package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	healthy := pingFunc(func(context.Context) error { return nil })
	failing := pingFunc(func(context.Context) error { return errors.New("dial tcp: refused") })

	t.Run("all healthy", func(t *testing.T) {
		h := NewHealthHandler(map[string]HealthChecker{"database": healthy, "redis": nil})
		c, rec := newRequest(http.MethodGet, "/health", "")

		require.NoError(t, h.Health(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok","database":"ok"}`, rec.Body.String())
	})

	t.Run("dependency down", func(t *testing.T) {
		h := NewHealthHandler(map[string]HealthChecker{"database": healthy, "redis": failing})
		c, rec := newRequest(http.MethodGet, "/health", "")

		require.NoError(t, h.Health(c))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.JSONEq(t, `{"status":"unavailable","database":"ok","redis":"unavailable"}`, rec.Body.String())
	})
}
