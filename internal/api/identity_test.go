package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nusachat/backend/internal/api"
)

func TestIdentity(t *testing.T) {
	var captured *string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = api.CallerID(r.Context())
	})

	t.Run("Forwarded identity reaches the context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-User-ID", "user123")

		api.Identity(next).ServeHTTP(httptest.NewRecorder(), req)

		require.NotNil(t, captured)
		assert.Equal(t, "user123", *captured)
	})

	t.Run("Absent header means guest", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		api.Identity(next).ServeHTTP(httptest.NewRecorder(), req)

		assert.Nil(t, captured)
	})

	t.Run("Empty header means guest", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-User-ID", "")

		api.Identity(next).ServeHTTP(httptest.NewRecorder(), req)

		assert.Nil(t, captured)
	})
}
