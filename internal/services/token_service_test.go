package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTokenService_IssueAndVerify(t *testing.T) {
	tokens := NewTokenService("test-secret")
	userID := primitive.NewObjectID()

	token, err := tokens.Issue(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := tokens.Verify(token)
	require.NoError(t, err)
	require.Equal(t, userID, got)
}

func TestTokenService_VerifyRejectsExpiredToken(t *testing.T) {
	tokens := NewTokenService("test-secret")
	userID := primitive.NewObjectID()

	// Hand-craft a token that expired one second ago, signed with the
	// correct secret.
	claims := &Claims{
		UserID: userID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Second)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = tokens.Verify(expired)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_VerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-a")
	verifier := NewTokenService("secret-b")

	token, err := issuer.Issue(primitive.NewObjectID())
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_VerifyRejectsMalformedToken(t *testing.T) {
	tokens := NewTokenService("test-secret")

	for _, malformed := range []string{"", "not-a-token", "a.b.c"} {
		_, err := tokens.Verify(malformed)
		require.ErrorIs(t, err, ErrInvalidToken)
	}
}
