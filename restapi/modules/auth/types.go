package auth

import "github.com/thegr8lewis/health-backend/model"

// ============================================================================
// REQUEST TYPES
// ============================================================================

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest carries the refresh token used to mint a new access token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// CreateAdminRequest is the payload for provisioning a new admin account.
type CreateAdminRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// UpdateProfileRequest is the payload for updating the caller's own account.
// Pointer fields distinguish "not sent" from "clear".
type UpdateProfileRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// RequestResetRequest starts the password reset flow.
type RequestResetRequest struct {
	Email string `json:"email"`
}

// VerifyCodeRequest exchanges an emailed code for a reset token.
type VerifyCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// ResetPasswordRequest completes the reset flow.
type ResetPasswordRequest struct {
	Token           string `json:"token"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ============================================================================
// RESPONSE TYPES
// ============================================================================

// LoginResponse is returned on successful login or refresh.
type LoginResponse struct {
	Success bool          `json:"success"`
	Tokens  TokenPair     `json:"tokens"`
	User    model.Summary `json:"user"`
}

// AdminCreationLogEntry is an admin creation log row shaped for the frontend.
type AdminCreationLogEntry struct {
	Key       string `json:"key"`
	Creator   string `json:"creator"`
	NewAdmin  string `json:"new_admin"`
	CreatedAt string `json:"created_at"`
}
