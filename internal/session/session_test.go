package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestFromToken(t *testing.T) {
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	token := signToken(t, jwt.MapClaims{
		"sub":   "user-a",
		"email": "a@example.com",
		"exp":   exp.Unix(),
	})

	sess, err := FromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-a", sess.UserID)
	assert.Equal(t, "a@example.com", sess.Email)
	assert.Equal(t, token, sess.AccessToken)
	assert.True(t, sess.ExpiresAt.Equal(exp))
	assert.True(t, sess.SignedIn())
}

func TestFromTokenRejectsBadTokens(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty", "  "},
		{"garbage", "not.a.jwt"},
		{"no subject", signToken(t, jwt.MapClaims{"email": "x@example.com"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromToken(tt.token)
			require.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestKeyringRoundTrip(t *testing.T) {
	keyring.MockInit()
	ctx := context.Background()
	k := NewKeyring()

	sess, err := k.Current(ctx)
	require.NoError(t, err)
	assert.False(t, sess.SignedIn())

	token := signToken(t, jwt.MapClaims{"sub": "user-b"})
	_, err = k.Save(token)
	require.NoError(t, err)

	sess, err = k.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-b", sess.UserID)
	got, err := k.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, token, got)

	require.NoError(t, k.Clear())
	require.NoError(t, k.Clear())
	sess, err = k.Current(ctx)
	require.NoError(t, err)
	assert.False(t, sess.SignedIn())
}

func TestKeyringSaveRejectsInvalidToken(t *testing.T) {
	keyring.MockInit()
	k := NewKeyring()

	_, err := k.Save("nope")
	require.ErrorIs(t, err, ErrInvalidToken)

	sess, err := k.Current(context.Background())
	require.NoError(t, err)
	assert.False(t, sess.SignedIn())
}

func TestKeyringExpiredTokenIsSignedOut(t *testing.T) {
	keyring.MockInit()
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	k := &Keyring{now: func() time.Time { return now }}

	_, err := k.Save(signToken(t, jwt.MapClaims{"sub": "user-c", "exp": now.Add(-time.Minute).Unix()}))
	require.NoError(t, err)

	sess, err := k.Current(context.Background())
	require.NoError(t, err)
	assert.False(t, sess.SignedIn())
	got, err := k.Token(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStatic(t *testing.T) {
	sess, err := Static{UserID: "local"}.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "local", sess.UserID)
}
