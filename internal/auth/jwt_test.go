package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	s := NewTokenSigner("secret")
	token, err := s.Sign("session-1", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	sid, err := s.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "session-1", sid)
}

func TestVerify_Invalid(t *testing.T) {
	s := NewTokenSigner("secret")
	_, err := s.Verify("invalid.token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	token, err := NewTokenSigner("one").Sign("session-1", time.Hour)
	require.NoError(t, err)

	_, err = NewTokenSigner("two").Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Expired(t *testing.T) {
	s := NewTokenSigner("secret")
	base := time.Now()
	s.now = func() time.Time { return base }

	token, err := s.Sign("session-1", time.Minute)
	require.NoError(t, err)

	base = base.Add(2 * time.Minute)
	_, err = s.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{SessionID: "session-1", RegisteredClaims: jwt.RegisteredClaims{Issuer: tokenIssuer}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenSigner("secret").Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}
