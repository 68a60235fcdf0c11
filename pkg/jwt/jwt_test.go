package jwt

import (
	"testing"
	"time"

	"outpatient-registration/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(secret string) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:        secret,
		AccessExpiry:  time.Minute,
		RefreshExpiry: time.Hour,
	})
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := newService("s3cret")
	sub := Subject{UserID: uuid.New(), Email: "doc@clinic.test", RoleID: 2}

	token, id, err := svc.GenerateAccessToken(sub)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, sub.UserID, claims.UserID)
	assert.Equal(t, 2, claims.RoleID)
	assert.Equal(t, AccessToken, claims.TokenType)
	assert.Equal(t, id, claims.TokenID)

	refresh, _, err := svc.GenerateRefreshToken(sub)
	require.NoError(t, err)
	claims, err = svc.ValidateToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, RefreshToken, claims.TokenType)
}

func TestJWTService_RejectsForeignSignature(t *testing.T) {
	token, _, err := newService("one").GenerateAccessToken(Subject{UserID: uuid.New()})
	require.NoError(t, err)

	_, err = newService("two").ValidateToken(token)
	assert.Error(t, err)
}
