package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentacar-backend/internal/domain"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenManager_RoundTrip(t *testing.T) {
	customerID := int32(7)
	user := &domain.User{
		Metadata:   domain.Metadata{ID: 3},
		Username:   "jdoe",
		Role:       domain.RoleCustomer,
		CustomerID: &customerID,
	}
	tm := NewTokenManager(testSecret, "rentacar-backend", time.Hour)

	token, expiresAt, err := tm.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int32(3), claims.UserID)
	assert.Equal(t, "jdoe", claims.Username)
	assert.Equal(t, domain.RoleCustomer, claims.Role)
	require.NotNil(t, claims.CustomerID)
	assert.Equal(t, int32(7), *claims.CustomerID)

	actor := claims.Actor("10.0.0.1")
	assert.True(t, actor.CanActFor(7))
	assert.False(t, actor.CanActFor(8))
	assert.Equal(t, "10.0.0.1", actor.Origin)
}

func TestTokenManager_Expired(t *testing.T) {
	tm := NewTokenManager(testSecret, "rentacar-backend", time.Minute).(*tokenManager)
	tm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := tm.GenerateAccessToken(&domain.User{Metadata: domain.Metadata{ID: 1}, Username: "admin", Role: domain.RoleAdmin})
	require.NoError(t, err)

	tm.now = time.Now
	_, err = tm.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenManager_Rejects(t *testing.T) {
	tm := NewTokenManager(testSecret, "rentacar-backend", time.Hour)
	other := NewTokenManager("ffffffffffffffffffffffffffffffff", "rentacar-backend", time.Hour)

	token, _, err := other.GenerateAccessToken(&domain.User{Metadata: domain.Metadata{ID: 1}, Username: "x", Role: domain.RoleAdmin})
	require.NoError(t, err)
	_, err = tm.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken, "foreign signature")

	_, err = tm.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, UserClaims{
		UserID: 1,
		Type:   "refresh",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "rentacar-backend",
			Audience:  jwt.ClaimStrings{audienceAPI},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := refresh.SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = tm.ValidateToken(signed)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}
