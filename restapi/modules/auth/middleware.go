package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/thegr8lewis/health-backend/internal/store"
	"github.com/thegr8lewis/health-backend/model"
)

// Policy declares what a route demands from the caller. Routes state their
// requirements up front instead of stacking ad-hoc checks inside handlers.
type Policy struct {
	// Authenticated requires a valid access token.
	Authenticated bool
	// Privileged additionally requires the admin role. Implies Authenticated.
	Privileged bool
}

var (
	// PolicyPublic lets anyone through.
	PolicyPublic = Policy{}
	// PolicyStaff requires any signed-in, active user.
	PolicyStaff = Policy{Authenticated: true}
	// PolicyAdmin requires a signed-in, active admin.
	PolicyAdmin = Policy{Authenticated: true, Privileged: true}
)

// Identity is the authenticated caller, stored in c.Locals by Require.
type Identity struct {
	UserKey string
	Email   string
	Role    model.Role
}

const identityKey = "identity"

// CallerIdentity returns the identity placed in the context by Require.
// The second return is false on routes that never passed through the gate.
func CallerIdentity(c *fiber.Ctx) (Identity, bool) {
	id, ok := c.Locals(identityKey).(Identity)
	return id, ok
}

// Require builds the middleware enforcing the given policy. The token is read
// from the Authorization header (Bearer scheme) or, as a fallback for browser
// clients, from the auth_token cookie. The user record is re-read on every
// request so deactivated accounts lose access immediately, not at token expiry.
func Require(users store.Users, policy Policy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !policy.Authenticated && !policy.Privileged {
			return c.Next()
		}

		token := bearerToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		claims, err := ValidateAccessToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired session",
			})
		}

		user, err := users.GetByKey(c.Context(), claims.Subject)
		if err != nil || !user.IsActive {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired session",
			})
		}

		if policy.Privileged && !user.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Insufficient permissions",
			})
		}

		c.Locals(identityKey, Identity{
			UserKey: user.Key,
			Email:   user.Email,
			Role:    user.Role,
		})

		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Cookies("auth_token")
}
