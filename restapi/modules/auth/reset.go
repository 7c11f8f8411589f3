package auth

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/thegr8lewis/health-backend/internal/store"
	"github.com/thegr8lewis/health-backend/model"
)

// Sentinel errors for the reset flow. Handlers map these to HTTP responses.
var (
	ErrCodeInvalid  = errors.New("invalid code")
	ErrCodeExpired  = errors.New("code expired")
	ErrTokenInvalid = errors.New("invalid reset token")
	ErrTokenExpired = errors.New("reset token expired")
)

// ResetFlow implements the three-step password reset: request a code, verify
// the code for a one-time token, redeem the token with a new password.
type ResetFlow struct {
	Users  store.Users
	Tokens store.ResetTokens
	Sender EmailSender
}

// Request issues a fresh reset code for the account behind email and mails it
// out. A new code supersedes every earlier unused code for the same user.
// Unknown addresses return nil so the endpoint cannot be used to enumerate
// accounts.
func (f *ResetFlow) Request(ctx context.Context, email string) error {
	user, err := f.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logger.Info("Password reset requested for unknown email")
			return nil
		}
		return err
	}

	code, err := GenerateResetCode()
	if err != nil {
		return err
	}

	if err := f.Tokens.MarkAllUsedForUser(ctx, user.Key); err != nil {
		return err
	}

	record := model.NewPasswordResetToken(user.Key, user.Email, code, NewResetTokenID())
	if err := f.Tokens.Create(ctx, record); err != nil {
		return err
	}

	// Delivery happens off the request path. A mail outage should not make
	// the endpoint distinguishable from the unknown-email case.
	go func() {
		if err := f.Sender.SendResetCode(user.Email, code); err != nil {
			logger.Error("Failed to send reset code email",
				zap.String("email", user.Email), zap.Error(err))
		}
	}()

	logger.Info("Password reset code issued", zap.String("user", user.Key))
	return nil
}

// Verify checks an emailed code and returns the opaque token for the final
// step. The code stays unused so it could be re-verified until redeemed.
func (f *ResetFlow) Verify(ctx context.Context, email, code string) (string, error) {
	record, err := f.Tokens.LatestUnusedByCode(ctx, email, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrCodeInvalid
		}
		return "", err
	}
	if record.Expired() {
		return "", ErrCodeExpired
	}
	return record.Token, nil
}

// Reset redeems a verified token and sets the new password. The token and
// every other outstanding record for the user are consumed, so neither the
// token nor its code can be replayed.
func (f *ResetFlow) Reset(ctx context.Context, token, newPassword string) error {
	record, err := f.Tokens.GetUnusedByToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTokenInvalid
		}
		return err
	}
	if record.Expired() {
		return ErrTokenExpired
	}

	user, err := f.Users.GetByKey(ctx, record.UserKey)
	if err != nil {
		return ErrTokenInvalid
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	user.UpdatedAt = time.Now()
	if err := f.Users.Update(ctx, user); err != nil {
		return err
	}

	if err := f.Tokens.MarkAllUsedForUser(ctx, user.Key); err != nil {
		// Password already changed; the leftover records only risk replay,
		// so consume the redeemed one at minimum.
		logger.Error("Failed to consume reset tokens", zap.String("user", user.Key), zap.Error(err))
		return f.Tokens.MarkUsed(ctx, record.Key)
	}

	logger.Info("Password reset completed", zap.String("user", user.Key))
	return nil
}
