// Package auth provides authentication, authorization and the password reset
// flow for the REST API.
package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/thegr8lewis/health-backend/model"
)

// JWT secret key - should be loaded from environment variable in production
var jwtSecret = []byte("your-secret-key-change-this-in-production")

// Token lifetimes. Access tokens are short-lived; refresh tokens let the
// frontend mint a new access token without re-authenticating.
const (
	AccessTokenValidity  = 15 * time.Minute
	RefreshTokenValidity = 7 * 24 * time.Hour
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// ============================================================================
// PASSWORD HASHING
// ============================================================================

// HashPassword generates a bcrypt hash of the password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares a password with a hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// ============================================================================
// JWT TOKEN MANAGEMENT
// ============================================================================

// Claims represents JWT claims. Subject carries the user key.
type Claims struct {
	Email     string     `json:"email"`
	Role      model.Role `json:"role"`
	TokenType string     `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair bundles the short-lived access token with its refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// GenerateTokenPair mints an access/refresh token pair bound to the user.
func GenerateTokenPair(u *model.User) (TokenPair, error) {
	access, err := generateToken(u, tokenTypeAccess, AccessTokenValidity)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := generateToken(u, tokenTypeRefresh, RefreshTokenValidity)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func generateToken(u *model.User, tokenType string, validity time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email:     u.Email,
		Role:      u.Role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "health-backend",
			Subject:   u.Key,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ValidateAccessToken validates an access token and returns its claims.
func ValidateAccessToken(tokenString string) (*Claims, error) {
	return validateToken(tokenString, tokenTypeAccess)
}

// ValidateRefreshToken validates a refresh token and returns its claims.
func ValidateRefreshToken(tokenString string) (*Claims, error) {
	return validateToken(tokenString, tokenTypeRefresh)
}

func validateToken(tokenString, wantType string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	if claims.TokenType != wantType {
		return nil, fmt.Errorf("wrong token type")
	}

	return claims, nil
}

// SetJWTSecret sets the JWT secret (call this on startup with env var)
func SetJWTSecret(secret string) {
	if secret == "" {
		panic("JWT secret cannot be empty")
	}
	jwtSecret = []byte(secret)
}

// ============================================================================
// RESET CODE / TOKEN GENERATION
// ============================================================================

// GenerateResetCode returns a random 6-digit code, zero padded.
func GenerateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// NewResetTokenID returns the opaque identifier handed out after a code is
// verified. Distinct from the code itself.
func NewResetTokenID() string {
	return uuid.NewString()
}

// ============================================================================
// VALIDATION HELPERS
// ============================================================================

// ValidatePasswordStrength validates password meets security requirements
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}
	return nil
}
