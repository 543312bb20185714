package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Minute, time.Hour)
	userID := uuid.New()

	token, err := m.GenerateAccessToken(userID, "partner@example.com", RolePartner)
	require.NoError(t, err)

	claims, err := m.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "partner@example.com", claims.Email)
	assert.Equal(t, RolePartner, claims.Role)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestVerifyExpiredToken(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute, time.Hour)

	token, err := m.GenerateAccessToken(uuid.New(), "x@example.com", RolePartner)
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewJWTManager("secret-a", time.Minute, time.Hour)
	verifier := NewJWTManager("secret-b", time.Minute, time.Hour)

	token, err := issuer.GenerateAccessToken(uuid.New(), "x@example.com", RoleVendor)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyGarbage(t *testing.T) {
	m := NewJWTManager("test-secret", time.Minute, time.Hour)

	_, err := m.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
