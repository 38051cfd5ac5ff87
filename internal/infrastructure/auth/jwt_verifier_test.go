package auth

import (
	"testing"
	"time"

	"github.com/DRSN-tech/shop-admin/pkg/e"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func claimsFor(email string, exp time.Time) IdentityClaims {
	return IdentityClaims{
		Email:   email,
		Name:    "Ann",
		Picture: "https://img/ann.png",
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: exp.Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}
}

func TestVerifyValidToken(t *testing.T) {
	v := NewJWTVerifier("secret")
	token, err := v.Sign(claimsFor(" Ann@Shop.io ", time.Now().Add(time.Hour)))
	require.NoError(t, err)

	id, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "ann@shop.io", id.Email)
	assert.Equal(t, "Ann", id.Name)
	assert.Equal(t, "https://img/ann.png", id.Picture)
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	v := NewJWTVerifier("secret")

	expired, err := v.Sign(claimsFor("ann@shop.io", time.Now().Add(-time.Hour)))
	require.NoError(t, err)

	foreign, err := NewJWTVerifier("other").Sign(claimsFor("ann@shop.io", time.Now().Add(time.Hour)))
	require.NoError(t, err)

	noEmail, err := v.Sign(claimsFor("", time.Now().Add(time.Hour)))
	require.NoError(t, err)

	noExpiryClaims := claimsFor("ann@shop.io", time.Now())
	noExpiryClaims.ExpiresAt = 0
	noExpiry, err := v.Sign(noExpiryClaims)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claimsFor("ann@shop.io", time.Now().Add(time.Hour))).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":  expired,
		"foreign":  foreign,
		"no email": noEmail,
		"no exp":   noExpiry,
		"unsigned": unsigned,
		"garbage":  "not-a-token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(token)
			assert.ErrorIs(t, err, e.ErrInvalidToken)
			assert.ErrorIs(t, err, e.ErrUnauthorized)
		})
	}
}
