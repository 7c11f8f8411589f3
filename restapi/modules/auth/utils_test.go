package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thegr8lewis/health-backend/model"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cretpass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cretpass", hash)

	assert.True(t, CheckPasswordHash("s3cretpass", hash))
	assert.False(t, CheckPasswordHash("wrongpass", hash))
	assert.False(t, CheckPasswordHash("s3cretpass", "not-a-hash"))
}

func TestGenerateTokenPair(t *testing.T) {
	user := model.NewUser("alice", "alice@example.com", model.RoleAdmin)
	user.Key = "42"

	pair, err := GenerateTokenPair(user)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	claims, err := ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, model.RoleAdmin, claims.Role)

	refreshClaims, err := ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "42", refreshClaims.Subject)
}

func TestValidateToken_WrongType(t *testing.T) {
	user := model.NewUser("bob", "bob@example.com", model.RoleStaff)
	user.Key = "7"

	pair, err := GenerateTokenPair(user)
	require.NoError(t, err)

	// A refresh token must not pass as an access token and vice versa.
	_, err = ValidateAccessToken(pair.RefreshToken)
	assert.Error(t, err)
	_, err = ValidateRefreshToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := ValidateAccessToken("not.a.token")
	assert.Error(t, err)
}

func TestGenerateResetCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := GenerateResetCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9')
		}
		seen[code] = true
	}
	// 50 draws from a million values colliding every time is not plausible.
	assert.Greater(t, len(seen), 1)
}

func TestValidatePasswordStrength(t *testing.T) {
	assert.Error(t, ValidatePasswordStrength("short"))
	assert.NoError(t, ValidatePasswordStrength("longenough"))
}
