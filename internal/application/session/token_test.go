package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCodecRoundTrip(t *testing.T) {
	codec := NewTokenCodec("test-secret-32-bytes-long-enough")

	token, err := codec.Sign("session-123", time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.NotEmpty(t, token)

	sessionID, err := codec.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "session-123", sessionID)
}

func TestTokenCodecRejectsTamperedToken(t *testing.T) {
	codec := NewTokenCodec("test-secret-32-bytes-long-enough")

	token, err := codec.Sign("session-123", time.Now().Add(time.Hour))
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	sessionID, err := codec.Parse(tampered)
	require.NoError(t, err)
	assert.Empty(t, sessionID)
}

func TestTokenCodecRejectsWrongSecret(t *testing.T) {
	signer := NewTokenCodec("secret-a-belonging-to-the-server")
	other := NewTokenCodec("secret-b-belonging-to-an-attacker")

	token, err := signer.Sign("session-123", time.Now().Add(time.Hour))
	require.NoError(t, err)

	sessionID, err := other.Parse(token)
	require.NoError(t, err)
	assert.Empty(t, sessionID)
}

func TestTokenCodecRejectsExpiredToken(t *testing.T) {
	codec := NewTokenCodec("test-secret-32-bytes-long-enough")

	token, err := codec.Sign("session-123", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	sessionID, err := codec.Parse(token)
	require.NoError(t, err)
	assert.Empty(t, sessionID)
}

func TestTokenCodecRejectsGarbage(t *testing.T) {
	codec := NewTokenCodec("test-secret-32-bytes-long-enough")

	sessionID, err := codec.Parse("not-a-jwt")
	require.NoError(t, err)
	assert.Empty(t, sessionID)
}
