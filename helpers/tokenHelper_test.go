package helpers

import (
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(secret, "64f0c2a1e4b0a1b2c3d4e5f6", "alpha", "owner@alpha.test", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "64f0c2a1e4b0a1b2c3d4e5f6", claims.Uid)
	assert.Equal(t, "alpha", claims.Slug)
	assert.Equal(t, "owner@alpha.test", claims.Email)
}

func TestValidateTokenRejects(t *testing.T) {
	good, err := GenerateToken(secret, "uid", "alpha", "", time.Hour)
	require.NoError(t, err)
	expired, err := GenerateToken(secret, "uid", "alpha", "", -time.Minute)
	require.NoError(t, err)
	noUID, err := GenerateToken(secret, "", "alpha", "", time.Hour)
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, SignedDetails{Uid: "uid"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret string
		token  string
	}{
		{"wrong secret", "other-secret", good},
		{"expired", secret, expired},
		{"missing uid", secret, noUID},
		{"unsigned", secret, none},
		{"garbage", secret, "not-a-token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateToken(tt.secret, tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
