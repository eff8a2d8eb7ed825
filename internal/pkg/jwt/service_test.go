package jwt

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHMACService_RoundTrip(t *testing.T) {
	svc := NewHMACService("secret")
	id := uuid.New()

	tok, err := svc.GenerateAccessToken(id, RoleCompany, time.Minute)
	require.NoError(t, err)

	c, err := svc.ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, id, c.UserID)
	assert.Equal(t, RoleCompany, c.Role)
}

func TestHMACService_Expired(t *testing.T) {
	svc := NewHMACService("secret")
	past := time.Now().Add(-time.Hour)
	svc.now = func() time.Time { return past }
	tok, err := svc.GenerateAccessToken(uuid.New(), RoleCandidate, time.Minute)
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestHMACService_Rejects(t *testing.T) {
	svc := NewHMACService("secret")

	other, err := NewHMACService("other").GenerateAccessToken(uuid.New(), RoleAdmin, time.Minute)
	require.NoError(t, err)
	_, err = svc.ValidateToken(other)
	assert.ErrorIs(t, err, ErrTokenInvalid, "wrong secret")

	refresh := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, Claims{
		UserID:    uuid.New(),
		Role:      RoleCandidate,
		TokenType: "refresh",
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Minute)),
		},
	})
	s, err := refresh.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(s)
	assert.ErrorIs(t, err, ErrTokenInvalid, "refresh token")

	noRole := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, Claims{UserID: uuid.New()})
	s, err = noRole.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(s)
	assert.ErrorIs(t, err, ErrTokenInvalid, "missing role")

	_, err = svc.ValidateToken("garbage")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = svc.GenerateAccessToken(uuid.New(), Role("guest"), time.Minute)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
