package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app_errors "nusachat/backend/internal/errors"
	"nusachat/backend/internal/service"
)

func newTestPolicy() *service.AccessPolicy {
	return service.NewAccessPolicy([]string{"gpt-3.5-turbo"}, "gpt-3.5-turbo", "gpt-4o")
}

func TestAccessPolicy_Authorize(t *testing.T) {
	userID := "user123"

	t.Run("Guest defaults to the free model", func(t *testing.T) {
		model, err := newTestPolicy().Authorize(nil, "")
		require.NoError(t, err)
		assert.Equal(t, "gpt-3.5-turbo", model)
	})

	t.Run("Authenticated caller defaults to the premium model", func(t *testing.T) {
		model, err := newTestPolicy().Authorize(&userID, "")
		require.NoError(t, err)
		assert.Equal(t, "gpt-4o", model)
	})

	t.Run("Guest may use a free model explicitly", func(t *testing.T) {
		model, err := newTestPolicy().Authorize(nil, "gpt-3.5-turbo")
		require.NoError(t, err)
		assert.Equal(t, "gpt-3.5-turbo", model)
	})

	t.Run("Guest is denied a premium model", func(t *testing.T) {
		_, err := newTestPolicy().Authorize(nil, "gpt-4o")
		require.Error(t, err)
		assert.ErrorIs(t, err, app_errors.ErrPermission)
		assert.ErrorContains(t, err, "signed in")
	})

	t.Run("Authenticated caller may use any model", func(t *testing.T) {
		model, err := newTestPolicy().Authorize(&userID, "claude-sonnet-4")
		require.NoError(t, err)
		assert.Equal(t, "claude-sonnet-4", model)
	})

	t.Run("Authenticated caller may also use a free model", func(t *testing.T) {
		model, err := newTestPolicy().Authorize(&userID, "gpt-3.5-turbo")
		require.NoError(t, err)
		assert.Equal(t, "gpt-3.5-turbo", model)
	})
}
