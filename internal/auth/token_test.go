package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenCodec_SignAndVerify(t *testing.T) {
	t.Parallel()

	codec := NewTokenCodec([]byte("super-secret"), time.Hour)

	tok, err := codec.Sign(42)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, err := codec.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, int64(42), userID)
}

func TestTokenCodec_Expired(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenCodec([]byte("secret"), -1*time.Second).Sign(7)
	require.NoError(t, err)

	// structurally valid signature, but past expiry
	_, err = NewTokenCodec([]byte("secret"), time.Hour).Verify(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenCodec_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenCodec([]byte("right-secret"), time.Hour).Sign(7)
	require.NoError(t, err)

	_, err = NewTokenCodec([]byte("wrong-secret"), time.Hour).Verify(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenCodec_Malformed(t *testing.T) {
	t.Parallel()

	_, err := NewTokenCodec([]byte("k"), time.Hour).Verify("not.a.jwt")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenCodec_DefaultTTL(t *testing.T) {
	t.Parallel()

	codec := NewTokenCodec([]byte("k"), 0)
	require.Equal(t, TokenTTL, codec.ttl)
}
