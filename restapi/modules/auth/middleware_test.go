package auth

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thegr8lewis/health-backend/internal/store/memory"
	"github.com/thegr8lewis/health-backend/model"
)

func TestRequire_PolicyEnforcement(t *testing.T) {
	st := memory.New()
	staff := seedUser(t, st, "staff@example.com", "password123", model.RoleStaff)
	admin := seedUser(t, st, "admin@example.com", "password123", model.RoleAdmin)

	app := fiber.New()
	app.Get("/open", Require(st.Users, PolicyPublic), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/staff", Require(st.Users, PolicyStaff), func(c *fiber.Ctx) error {
		id, ok := CallerIdentity(c)
		require.True(t, ok)
		return c.JSON(fiber.Map{"email": id.Email})
	})
	app.Get("/admin", Require(st.Users, PolicyAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	staffPair, err := GenerateTokenPair(staff)
	require.NoError(t, err)
	adminPair, err := GenerateTokenPair(admin)
	require.NoError(t, err)

	cases := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{"public needs nothing", "/open", "", fiber.StatusOK},
		{"staff route without token", "/staff", "", fiber.StatusUnauthorized},
		{"staff route with garbage token", "/staff", "garbage", fiber.StatusUnauthorized},
		{"staff route with staff token", "/staff", staffPair.AccessToken, fiber.StatusOK},
		{"admin route with staff token", "/admin", staffPair.AccessToken, fiber.StatusForbidden},
		{"admin route with admin token", "/admin", adminPair.AccessToken, fiber.StatusOK},
		{"refresh token rejected as access token", "/staff", staffPair.RefreshToken, fiber.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, tc.path, nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestRequire_DeactivatedAccount(t *testing.T) {
	st := memory.New()
	staff := seedUser(t, st, "staff@example.com", "password123", model.RoleStaff)

	app := fiber.New()
	app.Get("/staff", Require(st.Users, PolicyStaff), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	pair, err := GenerateTokenPair(staff)
	require.NoError(t, err)

	staff.IsActive = false
	require.NoError(t, st.Users.Update(context.Background(), staff))

	req := httptest.NewRequest(fiber.MethodGet, "/staff", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequire_CookieFallback(t *testing.T) {
	st := memory.New()
	staff := seedUser(t, st, "staff@example.com", "password123", model.RoleStaff)

	app := fiber.New()
	app.Get("/staff", Require(st.Users, PolicyStaff), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	pair, err := GenerateTokenPair(staff)
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodGet, "/staff", nil)
	req.Header.Set("Cookie", "auth_token="+pair.AccessToken)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
