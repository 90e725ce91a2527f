package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/match-scheduler-gateway/internal/models"
	appErrors "github.com/noah-isme/match-scheduler-gateway/pkg/errors"
)

const testSecret = "test-secret"

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims *models.JWTClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims() *models.JWTClaims {
	now := time.Now()
	return &models.JWTClaims{
		UserID:   "user-1",
		Role:     models.RoleHeadReferee,
		Username: "referee",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "tournament-api",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
}

func TestValidateTokenAcceptsSignedToken(t *testing.T) {
	svc := NewAuthService(nil, AuthConfig{AccessTokenSecret: testSecret, Issuer: "tournament-api"})

	claims, err := svc.ValidateToken(signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims()))
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleHeadReferee, claims.Role)
}

func TestValidateTokenFallsBackToSubject(t *testing.T) {
	svc := NewAuthService(nil, AuthConfig{AccessTokenSecret: testSecret})
	claims := validClaims()
	claims.UserID = ""
	claims.Subject = "user-9"

	got, err := svc.ValidateToken(signToken(t, jwt.SigningMethodHS256, []byte(testSecret), claims))
	require.NoError(t, err)
	assert.Equal(t, "user-9", got.UserID)
}

func TestValidateTokenRejections(t *testing.T) {
	svc := NewAuthService(nil, AuthConfig{AccessTokenSecret: testSecret, Issuer: "tournament-api"})

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	noExpiry := validClaims()
	noExpiry.ExpiresAt = nil

	wrongIssuer := validClaims()
	wrongIssuer.Issuer = "someone-else"

	anonymous := validClaims()
	anonymous.UserID = ""

	cases := map[string]string{
		"wrong secret": signToken(t, jwt.SigningMethodHS256, []byte("other"), validClaims()),
		"expired":      signToken(t, jwt.SigningMethodHS256, []byte(testSecret), expired),
		"no expiry":    signToken(t, jwt.SigningMethodHS256, []byte(testSecret), noExpiry),
		"wrong issuer": signToken(t, jwt.SigningMethodHS256, []byte(testSecret), wrongIssuer),
		"no subject":   signToken(t, jwt.SigningMethodHS256, []byte(testSecret), anonymous),
		"none alg":     signToken(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, validClaims()),
		"garbage":      "not-a-token",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(token)
			require.ErrorIs(t, err, appErrors.ErrUnauthorized)
		})
	}
}
