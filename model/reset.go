package model

import (
	"time"
)

// ResetCodeValidity is the window during which a reset code or its exchanged
// token can be used. Evaluated at read time, never by a background sweep.
const ResetCodeValidity = 10 * time.Minute

// PasswordResetToken is the ephemeral record backing the reset flow: a
// 6-digit code delivered by email plus the opaque token id handed out after
// the code is verified. Issuing a new code marks all prior unused records for
// the same user as used.
type PasswordResetToken struct {
	Key       string    `json:"_key,omitempty"`
	UserKey   string    `json:"user_key"`
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	Token     string    `json:"token"`
	Used      bool      `json:"used"`
	CreatedAt time.Time `json:"created_at"`
}

// NewPasswordResetToken creates an unused reset record for a user.
func NewPasswordResetToken(userKey, email, code, token string) *PasswordResetToken {
	return &PasswordResetToken{
		UserKey:   userKey,
		Email:     email,
		Code:      code,
		Token:     token,
		Used:      false,
		CreatedAt: time.Now(),
	}
}

// Expired reports whether the validity window has elapsed.
func (t *PasswordResetToken) Expired() bool {
	return time.Since(t.CreatedAt) > ResetCodeValidity
}

// Valid reports whether the record can still authorize a reset step.
func (t *PasswordResetToken) Valid() bool {
	return !t.Used && !t.Expired()
}
