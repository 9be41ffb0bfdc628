package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateTokenPair(t *testing.T) {
	manager := NewJWTManager("secret", 1, 30)
	userID := uuid.New()

	pair, err := manager.GenerateTokenPair(userID.String(), "customer", "a@example.com")
	require.NoError(t, err)

	claims, err := manager.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "customer", claims.Role)
	assert.Equal(t, AccessToken, claims.TokenType)

	identity := IdentityFromClaims(claims)
	assert.True(t, identity.IsAuthenticated())
	assert.Equal(t, userID, identity.UserID)
}

func TestValidateAccessTokenRejectsRefreshToken(t *testing.T) {
	manager := NewJWTManager("secret", 1, 30)
	pair, err := manager.GenerateTokenPair(uuid.NewString(), "customer", "a@example.com")
	require.NoError(t, err)

	_, err = manager.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	pair, err := NewJWTManager("secret", 1, 30).GenerateTokenPair(uuid.NewString(), "customer", "a@example.com")
	require.NoError(t, err)

	_, err = NewJWTManager("other", 1, 30).ValidateToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestRefreshAccessToken(t *testing.T) {
	manager := NewJWTManager("secret", 1, 30)
	userID := uuid.NewString()
	pair, err := manager.GenerateTokenPair(userID, "customer", "a@example.com")
	require.NoError(t, err)

	access, err := manager.RefreshAccessToken(pair.RefreshToken)
	require.NoError(t, err)
	claims, err := manager.ValidateAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)

	_, err = manager.RefreshAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestIdentityFromClaimsMalformedUser(t *testing.T) {
	assert.False(t, IdentityFromClaims(&Claims{UserID: "not-a-uuid"}).IsAuthenticated())
	assert.False(t, IdentityFromClaims(nil).IsAuthenticated())
	assert.False(t, Anonymous.IsAuthenticated())
}
