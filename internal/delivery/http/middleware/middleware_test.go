package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobmatch/internal/pkg/jwt"
	"jobmatch/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(svc jwt.Service) *fiber.App {
	app := fiber.New()
	app.Use(NewErrorMiddleware(nil).Middleware())

	auth := NewAuthMiddleware(svc)
	whoami := func(c fiber.Ctx) error {
		u, _ := CurrentUser(c)
		return response.Success(c, fiber.StatusOK, "", u.ID.String())
	}
	app.Get("/me", auth.Middleware(), whoami)
	app.Get("/ws", auth.QueryMiddleware(), whoami)
	app.Get("/admin", auth.Middleware(), RequireRole(jwt.RoleAdmin), whoami)
	app.Get("/boom", func(c fiber.Ctx) error { panic("boom") })
	app.Get("/internal", func(c fiber.Ctx) error {
		return NewAppError(fiber.StatusInternalServerError, "db password leaked", nil, errors.New("x"))
	})
	app.Get("/unavailable", func(c fiber.Ctx) error {
		return NewAppError(fiber.StatusServiceUnavailable, "pool exhausted on db-3", "detail", errors.New("x"))
	})
	return app
}

func decode(t *testing.T, resp *http.Response) response.SemanticResponse {
	t.Helper()
	var body response.SemanticResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestAuthMiddleware(t *testing.T) {
	svc := jwt.NewHMACService("secret")
	app := newTestApp(svc)
	user := uuid.New()
	company, err := svc.GenerateAccessToken(user, jwt.RoleCompany, time.Minute)
	require.NoError(t, err)

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+company)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, user.String(), decode(t, resp).Data)
	})

	t.Run("missing token", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/me", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("query token only where allowed", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/me?access_token="+company, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/ws?access_token="+company, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("role gate", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+company)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestErrorMiddleware(t *testing.T) {
	app := newTestApp(jwt.NewHMACService("secret"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/internal", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, response.MessageInternalServerError, decode(t, resp).Message)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/unavailable", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, response.MessageServiceUnavailable, body.Message)
	assert.Nil(t, body.Data)
}
