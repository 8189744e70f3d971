package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateAccessToken(42, "mae@familia.com", "mae")
	require.NoError(t, err)

	claims, err := ParseAccessToken(token)
	require.NoError(t, err)

	userID, ok := UserIDFromClaims(claims)
	require.True(t, ok)
	assert.Equal(t, uint(42), userID)
	assert.Equal(t, "mae@familia.com", claims["email"])
	assert.Equal(t, "mae", claims["role"])
}

func TestRefreshTokenUsesSeparateSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret")

	refresh, err := GenerateRefreshToken(42)
	require.NoError(t, err)

	// refresh токен не проходит как access
	_, err = ParseAccessToken(refresh)
	assert.Error(t, err)

	claims, err := ParseRefreshToken(refresh)
	require.NoError(t, err)
	userID, ok := UserIDFromClaims(claims)
	require.True(t, ok)
	assert.Equal(t, uint(42), userID)
}

func TestParseRejectsTamperedToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateStateToken(7)
	require.NoError(t, err)

	_, err = ParseAccessToken(token + "x")
	assert.Error(t, err)
}

func TestUserIDFromClaimsMissing(t *testing.T) {
	_, ok := UserIDFromClaims(map[string]interface{}{"email": "x"})
	assert.False(t, ok)
}
