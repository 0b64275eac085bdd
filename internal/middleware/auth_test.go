package middleware

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"counsel/internal/models"
	"counsel/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type versions map[string]int

func (v versions) GetTokenVersion(_ context.Context, userID string) (int, error) {
	n, ok := v[userID]
	if !ok {
		return 0, errors.New("user not found")
	}
	return n, nil
}

func tokenFor(t *testing.T, id, role string, version int) string {
	t.Helper()
	access, _, err := utils.GenerateTokens(utils.ClaimsForProfile(&models.Profile{
		ID: id, Email: id + "@example.com", Role: role, TokenVersion: version,
	}))
	require.NoError(t, err)
	return access
}

func newApp(m *AuthMiddleware) *fiber.App {
	app := fiber.New()
	app.Get("/me", m.Handler, func(c *fiber.Ctx) error {
		return c.SendString(utils.OptionalUserClaims(c).UserID)
	})
	app.Get("/maybe", m.Optional, func(c *fiber.Ctx) error {
		if claims := utils.OptionalUserClaims(c); claims != nil {
			return c.SendString(claims.UserID)
		}
		return c.SendString("anonymous")
	})
	app.Get("/admin", m.Handler, AdminAuthMiddleware, func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/services", m.Handler, HasPermission(models.PermissionServicesManage), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	app := newApp(NewAuthMiddleware(versions{"u1": 1, "a1": 2}))

	current := tokenFor(t, "u1", models.RoleUser, 1)
	stale := tokenFor(t, "u1", models.RoleUser, 0)
	admin := tokenFor(t, "a1", models.RoleAdmin, 2)
	unknown := tokenFor(t, "ghost", models.RoleUser, 1)

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"missing header", "/me", "", fiber.StatusUnauthorized, "missing authorization header"},
		{"wrong scheme", "/me", "Basic abc", fiber.StatusUnauthorized, "invalid authorization format"},
		{"garbage token", "/me", "Bearer nope", fiber.StatusUnauthorized, "invalid token"},
		{"stale version", "/me", "Bearer " + stale, fiber.StatusUnauthorized, "session expired"},
		{"unknown account", "/me", "Bearer " + unknown, fiber.StatusUnauthorized, "invalid token"},
		{"valid", "/me", "Bearer " + current, fiber.StatusOK, "u1"},
		{"optional anonymous", "/maybe", "", fiber.StatusOK, "anonymous"},
		{"optional bad token", "/maybe", "Bearer nope", fiber.StatusOK, "anonymous"},
		{"optional valid", "/maybe", "Bearer " + current, fiber.StatusOK, "u1"},
		{"admin denied", "/admin", "Bearer " + current, fiber.StatusForbidden, "Insufficient permissions"},
		{"admin allowed", "/admin", "Bearer " + admin, fiber.StatusOK, "ok"},
		{"permission denied", "/services", "Bearer " + current, fiber.StatusForbidden, "Insufficient permissions"},
		{"permission allowed", "/services", "Bearer " + admin, fiber.StatusOK, "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			body, _ := io.ReadAll(resp.Body)
			assert.Contains(t, string(body), tt.wantBody)
		})
	}
}

func TestAuthMiddleware_CookieToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	app := newApp(NewAuthMiddleware(versions{"u1": 1}))

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Cookie", "access_token="+tokenFor(t, "u1", models.RoleUser, 1))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestVisitor(t *testing.T) {
	app := fiber.New()
	app.Get("/", Visitor(), func(c *fiber.Ctx) error {
		return c.SendString(utils.VisitorID(c))
	})

	t.Run("issues a new id", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		_, err = uuid.Parse(string(body))
		assert.NoError(t, err)

		cookies := resp.Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, VisitorCookie, cookies[0].Name)
		assert.Equal(t, string(body), cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("keeps an existing id", func(t *testing.T) {
		id := uuid.New().String()
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Cookie", VisitorCookie+"="+id)
		resp, err := app.Test(req)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, id, string(body))
		assert.Empty(t, resp.Cookies())
	})

	t.Run("replaces a malformed id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Cookie", VisitorCookie+"=not-a-uuid")
		resp, err := app.Test(req)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		assert.NotEqual(t, "not-a-uuid", string(body))
		assert.Len(t, resp.Cookies(), 1)
	})
}
