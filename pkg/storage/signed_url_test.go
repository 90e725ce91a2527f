package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignedURLSignerGenerateAndParse(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, expiresAt, err := signer.Generate("stage-1/matches-stage-1.pdf")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.False(t, expiresAt.IsZero())

	name, parsedExpiry, err := signer.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "stage-1/matches-stage-1.pdf", name)
	require.WithinDuration(t, expiresAt, parsedExpiry, time.Second)
}

func TestSignedURLSignerExpired(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Minute)
	token, _, err := signer.Generate("stage-1/matches.csv")
	require.NoError(t, err)

	signer.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, _, err = signer.Parse(token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestSignedURLSignerRejectsTampering(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, _, err := signer.Generate("stage-1/matches.csv")
	require.NoError(t, err)

	other := NewSignedURLSigner("other-secret", time.Hour)
	_, _, err = other.Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, _, err = signer.Parse("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)

	_, _, err = NewSignedURLSigner("", time.Hour).Generate("x")
	require.Error(t, err)
}
