package apperror_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bloglist/internal/apperror"
)

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("loading blog: %w", apperror.NotFound("blog not found"))
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(wrapped))
	assert.True(t, errors.Is(wrapped, apperror.NotFound("")))
	assert.False(t, errors.Is(wrapped, apperror.Conflict("")))
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(errors.New("boom")))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := apperror.Conflict("username must be unique").Wrap(cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	assert.Contains(t, err.Error(), "disk full")
}

func TestHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: apperror.Handler(zap.NewNop())})
	app.Get("/validation", func(c *fiber.Ctx) error { return apperror.Validation("`title` is required") })
	app.Get("/conflict", func(c *fiber.Ctx) error { return apperror.Conflict("username must be unique") })
	app.Get("/unauthorized", func(c *fiber.Ctx) error { return apperror.Unauthorized("token missing") })
	app.Get("/internal", func(c *fiber.Ctx) error {
		return apperror.Internal("saving blog", errors.New("connection reset by peer"))
	})
	app.Get("/plain", func(c *fiber.Ctx) error { return errors.New("secret detail") })
	app.Get("/wrapped-fiber", func(c *fiber.Ctx) error {
		return apperror.Validation("malformed request body").Wrap(fiber.ErrUnprocessableEntity)
	})
	app.Get("/fiber", func(c *fiber.Ctx) error { return fiber.ErrUnprocessableEntity })

	tests := []struct {
		path    string
		status  int
		message string
	}{
		{"/validation", http.StatusBadRequest, "`title` is required"},
		{"/conflict", http.StatusBadRequest, "username must be unique"},
		{"/unauthorized", http.StatusUnauthorized, "token missing"},
		{"/internal", http.StatusInternalServerError, "internal server error"},
		{"/plain", http.StatusInternalServerError, "internal server error"},
		{"/missing", http.StatusNotFound, "Cannot GET /missing"},
		{"/wrapped-fiber", http.StatusBadRequest, "malformed request body"},
		{"/fiber", http.StatusUnprocessableEntity, "Unprocessable Entity"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.message, body["error"])
		})
	}
}

func TestIsMatchesMessageWhenGiven(t *testing.T) {
	expired := apperror.Unauthorized("token expired")
	err := fmt.Errorf("auth: %w", expired.Wrap(errors.New("exp in past")))

	assert.ErrorIs(t, err, expired)
	assert.ErrorIs(t, err, apperror.Unauthorized(""))
	assert.NotErrorIs(t, err, apperror.Unauthorized("token missing"))
}
