package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/thegr8lewis/health-backend/database"
	"github.com/thegr8lewis/health-backend/internal/store"
	"github.com/thegr8lewis/health-backend/model"
)

var logger = database.Logger()

// ============================================================================
// SESSION HANDLERS
// ============================================================================

// Login verifies credentials and returns an access/refresh token pair.
// Unknown email, wrong password and deactivated account all produce the same
// response so callers cannot probe which accounts exist.
func Login(users store.Users) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		if req.Email == "" || req.Password == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email and password are required"})
		}

		user, err := users.GetByEmail(c.Context(), strings.TrimSpace(req.Email))
		if err != nil {
			// Burn a hash comparison anyway so the timing matches the
			// wrong-password path.
			CheckPasswordHash(req.Password, "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")
			return invalidCredentials(c)
		}

		if !CheckPasswordHash(req.Password, user.PasswordHash) || !user.IsActive {
			return invalidCredentials(c)
		}

		tokens, err := GenerateTokenPair(user)
		if err != nil {
			logger.Error("Failed to generate token pair", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create session"})
		}

		// Cookie for browser clients; API clients use the Authorization header.
		c.Cookie(&fiber.Cookie{
			Name:     "auth_token",
			Value:    tokens.AccessToken,
			Expires:  time.Now().Add(AccessTokenValidity),
			HTTPOnly: true,
			SameSite: "Lax",
			Path:     "/",
		})

		return c.JSON(LoginResponse{Success: true, Tokens: tokens, User: user.Summary()})
	}
}

func invalidCredentials(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
}

// RefreshToken exchanges a valid refresh token for a fresh token pair. The
// user record is re-read so a deactivated account cannot refresh its way back in.
func RefreshToken(users store.Users) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req RefreshRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if req.RefreshToken == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Refresh token is required"})
		}

		claims, err := ValidateRefreshToken(req.RefreshToken)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired refresh token"})
		}

		user, err := users.GetByKey(c.Context(), claims.Subject)
		if err != nil || !user.IsActive {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired refresh token"})
		}

		tokens, err := GenerateTokenPair(user)
		if err != nil {
			logger.Error("Failed to generate token pair", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create session"})
		}

		return c.JSON(LoginResponse{Success: true, Tokens: tokens, User: user.Summary()})
	}
}

// ============================================================================
// PROFILE HANDLERS
// ============================================================================

// GetProfile returns the caller's own account.
func GetProfile(users store.Users) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := CallerIdentity(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication required"})
		}

		user, err := users.GetByKey(c.Context(), id.UserKey)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}

		return c.JSON(user.Summary())
	}
}

// UpdateProfile lets the caller change their own username, email or password.
// Accepts partial payloads; omitted fields keep their current value.
func UpdateProfile(users store.Users) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := CallerIdentity(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication required"})
		}

		var req UpdateProfileRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		user, err := users.GetByKey(c.Context(), id.UserKey)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}

		if req.Username != nil {
			if strings.TrimSpace(*req.Username) == "" {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Username cannot be empty"})
			}
			user.Username = strings.TrimSpace(*req.Username)
		}

		if req.Email != nil {
			email := strings.TrimSpace(*req.Email)
			if email == "" {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email cannot be empty"})
			}
			if !strings.EqualFold(email, user.Email) {
				if _, err := users.GetByEmail(c.Context(), email); err == nil {
					return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email is already in use"})
				}
				user.Email = email
			}
		}

		if req.Password != nil {
			if err := ValidatePasswordStrength(*req.Password); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			}
			hash, err := HashPassword(*req.Password)
			if err != nil {
				logger.Error("Failed to hash password", zap.Error(err))
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
			}
			user.PasswordHash = hash
		}

		user.UpdatedAt = time.Now()
		if err := users.Update(c.Context(), user); err != nil {
			logger.Error("Failed to update user", zap.String("user", user.Key), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
		}

		return c.JSON(fiber.Map{"success": true, "user": user.Summary()})
	}
}

// ============================================================================
// ADMIN PROVISIONING
// ============================================================================

// CreateAdmin provisions a new admin account and appends an immutable audit
// record naming the creator. Only reachable behind PolicyAdmin.
func CreateAdmin(users store.Users, audit store.Audit) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := CallerIdentity(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication required"})
		}

		var req CreateAdminRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		req.Username = strings.TrimSpace(req.Username)
		req.Email = strings.TrimSpace(req.Email)

		if req.Username == "" || req.Email == "" || req.Password == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Username, email and password are required"})
		}
		if req.Password != req.ConfirmPassword {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Passwords do not match"})
		}
		if err := ValidatePasswordStrength(req.Password); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		if _, err := users.GetByEmail(c.Context(), req.Email); err == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email is already in use"})
		}

		hash, err := HashPassword(req.Password)
		if err != nil {
			logger.Error("Failed to hash password", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create admin"})
		}

		admin := model.NewUser(req.Username, req.Email, model.RoleAdmin)
		admin.PasswordHash = hash

		admin, err = users.Create(c.Context(), admin)
		if err != nil {
			if errors.Is(err, store.ErrDuplicateEmail) {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email is already in use"})
			}
			logger.Error("Failed to create admin", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create admin"})
		}

		entry := &model.AdminCreationLog{
			CreatorKey:  id.UserKey,
			Creator:     id.Email,
			NewAdminKey: admin.Key,
			NewAdmin:    admin.Email,
			CreatedAt:   time.Now(),
		}
		if err := audit.AppendAdminCreation(c.Context(), entry); err != nil {
			// The account exists but the trail is incomplete. Surface the
			// failure rather than pretend the provisioning was clean.
			logger.Error("Failed to append admin creation log",
				zap.String("creator", id.Email),
				zap.String("new_admin", admin.Email),
				zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Admin created but audit logging failed",
			})
		}

		logger.Info("Admin account provisioned",
			zap.String("creator", id.Email),
			zap.String("new_admin", admin.Email))

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"user":    admin.Summary(),
		})
	}
}

// ListAdminCreationLogs returns the admin provisioning audit trail, newest first.
func ListAdminCreationLogs(audit store.Audit) fiber.Handler {
	return func(c *fiber.Ctx) error {
		logs, err := audit.ListAdminCreations(c.Context())
		if err != nil {
			logger.Error("Failed to list admin creation logs", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch logs"})
		}

		entries := make([]AdminCreationLogEntry, 0, len(logs))
		for _, l := range logs {
			entries = append(entries, AdminCreationLogEntry{
				Key:       l.Key,
				Creator:   l.Creator,
				NewAdmin:  l.NewAdmin,
				CreatedAt: l.CreatedAt.UTC().Format(time.RFC3339),
			})
		}

		return c.JSON(fiber.Map{"logs": entries, "count": len(entries)})
	}
}
