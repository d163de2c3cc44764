package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const secret = "unit-test-secret"

func TestVerifyRoundTrip(t *testing.T) {
	token, err := Sign(secret, "u1", time.Minute)
	require.NoError(t, err)

	userID, err := NewVerifier(secret).Verify(token)
	require.NoError(t, err)
	require.Equal(t, "u1", userID)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	token, err := Sign(secret, "u1", -time.Minute)
	require.NoError(t, err)

	_, err = NewVerifier(secret).Verify(token)
	require.Error(t, err)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := Sign("other-secret", "u1", time.Minute)
	require.NoError(t, err)

	_, err = NewVerifier(secret).Verify(token)
	require.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := NewVerifier(secret).Verify("definitely.not.ajwt")
	require.Error(t, err)
}

func TestVerifyRejectsTokenWithoutUserID(t *testing.T) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = NewVerifier(secret).Verify(token)
	require.ErrorIs(t, err, ErrNoUserID)
}

func TestVerifyRejectsUnexpectedSigningMethod(t *testing.T) {
	// alg "none" tokens must never validate, whatever their claims say.
	claims := &Claims{UserID: "u1"}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewVerifier(secret).Verify(token)
	require.Error(t, err)
}
