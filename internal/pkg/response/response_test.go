package response

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"propertyflow-backend/internal/pkg/apperrors"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func errApp(err error) *fiber.App {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return AppError(c, err)
	})
	return app
}

func errResponse(t *testing.T, app *fiber.App) (int, ErrorBody) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	var body ErrorBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestAppError_NotFound(t *testing.T) {
	status, body := errResponse(t, errApp(apperrors.ErrNotFound))
	assert.Equal(t, 404, status)
	assert.Equal(t, "Not found", body.Error.Message)
}

func TestAppError_MasksInternalErrors(t *testing.T) {
	status, body := errResponse(t, errApp(errors.New("pq: connection refused to 10.0.0.5")))
	assert.Equal(t, 500, status)
	assert.Equal(t, "Internal Server Error", body.Error.Message)
}

func TestAppError_MasksUpstreamResponseBody(t *testing.T) {
	upstream := &apperrors.UpstreamError{
		Op:  "image delete",
		Err: errors.New(`cloudflare delete error: status 500 body: {"errors":[{"code":10000,"message":"Authentication error"}]}`),
	}
	status, body := errResponse(t, errApp(upstream))
	assert.Equal(t, 502, status)
	assert.Equal(t, "image delete failed", body.Error.Message)
	assert.NotContains(t, body.Error.Message, "cloudflare")
	assert.NotContains(t, body.Error.Message, "Authentication error")
}
