package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ============================================================================
// PASSWORD RESET HANDLERS
// ============================================================================

// RequestReset handles POST /auth/password-reset/request/. The response is the
// same whether or not the email maps to an account.
func RequestReset(flow *ResetFlow) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req RequestResetRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		req.Email = strings.TrimSpace(req.Email)
		if req.Email == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email is required"})
		}

		if err := flow.Request(c.Context(), req.Email); err != nil {
			logger.Error("Password reset request failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process request"})
		}

		return c.JSON(fiber.Map{
			"success": true,
			"message": "If the email exists, a reset code has been sent",
		})
	}
}

// VerifyResetCode handles POST /auth/password-reset/verify/ and exchanges a
// valid code for the reset token used in the final step.
func VerifyResetCode(flow *ResetFlow) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req VerifyCodeRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		req.Email = strings.TrimSpace(req.Email)
		req.Code = strings.TrimSpace(req.Code)
		if req.Email == "" || req.Code == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email and code are required"})
		}

		token, err := flow.Verify(c.Context(), req.Email, req.Code)
		if err != nil {
			switch {
			case errors.Is(err, ErrCodeInvalid):
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid code"})
			case errors.Is(err, ErrCodeExpired):
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Code has expired"})
			default:
				logger.Error("Reset code verification failed", zap.Error(err))
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to verify code"})
			}
		}

		return c.JSON(fiber.Map{"success": true, "token": token})
	}
}

// ResetPassword handles POST /auth/password-reset/confirm/ and completes the flow.
func ResetPassword(flow *ResetFlow) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req ResetPasswordRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		if req.Token == "" || req.NewPassword == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Token and new password are required"})
		}
		if req.NewPassword != req.ConfirmPassword {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Passwords do not match"})
		}
		if err := ValidatePasswordStrength(req.NewPassword); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		if err := flow.Reset(c.Context(), req.Token, req.NewPassword); err != nil {
			switch {
			case errors.Is(err, ErrTokenInvalid):
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid reset token"})
			case errors.Is(err, ErrTokenExpired):
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Reset token has expired"})
			default:
				logger.Error("Password reset failed", zap.Error(err))
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to reset password"})
			}
		}

		return c.JSON(fiber.Map{"success": true, "message": "Password has been reset"})
	}
}
