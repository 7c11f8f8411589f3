package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thegr8lewis/health-backend/internal/store"
	"github.com/thegr8lewis/health-backend/internal/store/memory"
	"github.com/thegr8lewis/health-backend/model"
)

func newAuthApp(t *testing.T) (*fiber.App, store.Store) {
	t.Helper()
	st := memory.New()

	app := fiber.New()
	app.Post("/auth/login", Login(st.Users))
	app.Post("/auth/refresh", RefreshToken(st.Users))
	app.Get("/auth/superuser/update", Require(st.Users, PolicyAdmin), GetProfile(st.Users))
	app.Put("/auth/superuser/update", Require(st.Users, PolicyAdmin), UpdateProfile(st.Users))
	app.Post("/auth/admin/create", Require(st.Users, PolicyAdmin), CreateAdmin(st.Users, st.Audit))
	app.Get("/auth/admin/creation-logs", Require(st.Users, PolicyAdmin), ListAdminCreationLogs(st.Audit))

	return app, st
}

func seedUser(t *testing.T, st store.Store, email, password string, role model.Role) *model.User {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	user := model.NewUser("user-"+email, email, role)
	user.PasswordHash = hash
	user, err = st.Users.Create(context.Background(), user)
	require.NoError(t, err)
	return user
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func loginToken(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()
	resp, body := doJSON(t, app, fiber.MethodPost, "/auth/login", "", LoginRequest{Email: email, Password: password})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	tokens := body["tokens"].(map[string]interface{})
	return tokens["access_token"].(string)
}

func TestLogin_Success(t *testing.T) {
	app, st := newAuthApp(t)
	seedUser(t, st, "alice@example.com", "password123", model.RoleStaff)

	resp, body := doJSON(t, app, fiber.MethodPost, "/auth/login", "", LoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	tokens := body["tokens"].(map[string]interface{})
	assert.NotEmpty(t, tokens["access_token"])
	assert.NotEmpty(t, tokens["refresh_token"])

	user := body["user"].(map[string]interface{})
	assert.Equal(t, "alice@example.com", user["email"])
	_, hasHash := user["password_hash"]
	assert.False(t, hasHash)
}

func TestLogin_UniformFailureResponse(t *testing.T) {
	app, st := newAuthApp(t)
	seedUser(t, st, "alice@example.com", "password123", model.RoleStaff)

	deactivated := seedUser(t, st, "gone@example.com", "password123", model.RoleStaff)
	deactivated.IsActive = false
	require.NoError(t, st.Users.Update(context.Background(), deactivated))

	cases := []LoginRequest{
		{Email: "unknown@example.com", Password: "password123"},
		{Email: "alice@example.com", Password: "wrongpassword"},
		{Email: "gone@example.com", Password: "password123"},
	}
	for _, c := range cases {
		resp, body := doJSON(t, app, fiber.MethodPost, "/auth/login", "", c)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Invalid credentials", body["error"])
	}
}

func TestRefreshToken(t *testing.T) {
	app, st := newAuthApp(t)
	user := seedUser(t, st, "alice@example.com", "password123", model.RoleStaff)

	pair, err := GenerateTokenPair(user)
	require.NoError(t, err)

	resp, body := doJSON(t, app, fiber.MethodPost, "/auth/refresh", "", RefreshRequest{RefreshToken: pair.RefreshToken})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	tokens := body["tokens"].(map[string]interface{})
	assert.NotEmpty(t, tokens["access_token"])

	// An access token is not accepted in place of a refresh token.
	resp, _ = doJSON(t, app, fiber.MethodPost, "/auth/refresh", "", RefreshRequest{RefreshToken: pair.AccessToken})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRefreshToken_DeactivatedUser(t *testing.T) {
	app, st := newAuthApp(t)
	user := seedUser(t, st, "alice@example.com", "password123", model.RoleStaff)

	pair, err := GenerateTokenPair(user)
	require.NoError(t, err)

	user.IsActive = false
	require.NoError(t, st.Users.Update(context.Background(), user))

	resp, _ := doJSON(t, app, fiber.MethodPost, "/auth/refresh", "", RefreshRequest{RefreshToken: pair.RefreshToken})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestCreateAdmin_Authorization(t *testing.T) {
	app, st := newAuthApp(t)
	seedUser(t, st, "admin@example.com", "password123", model.RoleAdmin)
	seedUser(t, st, "staff@example.com", "password123", model.RoleStaff)

	payload := CreateAdminRequest{
		Username:        "newadmin",
		Email:           "newadmin@example.com",
		Password:        "password123",
		ConfirmPassword: "password123",
	}

	// No token
	resp, _ := doJSON(t, app, fiber.MethodPost, "/auth/admin/create", "", payload)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// Staff token
	staffToken := loginToken(t, app, "staff@example.com", "password123")
	resp, _ = doJSON(t, app, fiber.MethodPost, "/auth/admin/create", staffToken, payload)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Nothing was created and nothing was logged.
	_, err := st.Users.GetByEmail(context.Background(), "newadmin@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
	logs, err := st.Audit.ListAdminCreations(context.Background())
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestCreateAdmin_ValidationFailuresCreateNothing(t *testing.T) {
	app, st := newAuthApp(t)
	seedUser(t, st, "admin@example.com", "password123", model.RoleAdmin)
	token := loginToken(t, app, "admin@example.com", "password123")

	cases := []CreateAdminRequest{
		{Username: "x", Email: "x@example.com", Password: "password123", ConfirmPassword: "different123"},
		{Username: "x", Email: "x@example.com", Password: "short", ConfirmPassword: "short"},
		{Username: "", Email: "x@example.com", Password: "password123", ConfirmPassword: "password123"},
		{Username: "x", Email: "admin@example.com", Password: "password123", ConfirmPassword: "password123"},
	}
	for _, c := range cases {
		resp, _ := doJSON(t, app, fiber.MethodPost, "/auth/admin/create", token, c)
		assert.GreaterOrEqual(t, resp.StatusCode, 400)
	}

	logs, err := st.Audit.ListAdminCreations(context.Background())
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestCreateAdmin_SuccessWritesAuditLog(t *testing.T) {
	app, st := newAuthApp(t)
	creator := seedUser(t, st, "admin@example.com", "password123", model.RoleAdmin)
	token := loginToken(t, app, "admin@example.com", "password123")

	resp, body := doJSON(t, app, fiber.MethodPost, "/auth/admin/create", token, CreateAdminRequest{
		Username:        "newadmin",
		Email:           "newadmin@example.com",
		Password:        "password123",
		ConfirmPassword: "password123",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	created := body["user"].(map[string]interface{})
	assert.Equal(t, string(model.RoleAdmin), created["role"])

	logs, err := st.Audit.ListAdminCreations(context.Background())
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, creator.Email, logs[0].Creator)
	assert.Equal(t, "newadmin@example.com", logs[0].NewAdmin)
	assert.Equal(t, creator.Key, logs[0].CreatorKey)

	// The new admin can sign in right away.
	newToken := loginToken(t, app, "newadmin@example.com", "password123")
	assert.NotEmpty(t, newToken)
}

func TestListAdminCreationLogs_NewestFirst(t *testing.T) {
	app, st := newAuthApp(t)
	seedUser(t, st, "admin@example.com", "password123", model.RoleAdmin)
	token := loginToken(t, app, "admin@example.com", "password123")

	for _, email := range []string{"first@example.com", "second@example.com"} {
		resp, _ := doJSON(t, app, fiber.MethodPost, "/auth/admin/create", token, CreateAdminRequest{
			Username:        email,
			Email:           email,
			Password:        "password123",
			ConfirmPassword: "password123",
		})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	resp, body := doJSON(t, app, fiber.MethodGet, "/auth/admin/creation-logs", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["count"])

	entries := body["logs"].([]interface{})
	newest := entries[0].(map[string]interface{})
	assert.Equal(t, "second@example.com", newest["new_admin"])
}

func TestUpdateProfile(t *testing.T) {
	app, st := newAuthApp(t)
	seedUser(t, st, "alice@example.com", "password123", model.RoleAdmin)
	token := loginToken(t, app, "alice@example.com", "password123")

	newName := "renamed"
	resp, body := doJSON(t, app, fiber.MethodPut, "/auth/superuser/update", token, UpdateProfileRequest{Username: &newName})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "renamed", user["username"])

	// Password change takes effect for the next login.
	newPass := "newpassword"
	resp, _ = doJSON(t, app, fiber.MethodPut, "/auth/superuser/update", token, UpdateProfileRequest{Password: &newPass})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, fiber.MethodPost, "/auth/login", "", LoginRequest{Email: "alice@example.com", Password: "password123"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	loginToken(t, app, "alice@example.com", "newpassword")
}
