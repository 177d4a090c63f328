package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashNeverStoresPlaintext(t *testing.T) {
	hasher := NewPasswordHasher()

	hash, err := hasher.Hash("secret123")
	require.NoError(t, err)
	require.NotEqual(t, "secret123", hash)
	require.True(t, hasher.Verify("secret123", hash))
	require.False(t, hasher.Verify("wrong", hash))
}

func TestHashIsSalted(t *testing.T) {
	hasher := NewPasswordHasher()

	first, err := hasher.Hash("secret123")
	require.NoError(t, err)
	second, err := hasher.Hash("secret123")
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestVerifyMalformedHashFailsClosed(t *testing.T) {
	hasher := NewPasswordHasher()

	require.False(t, hasher.Verify("secret123", "not-a-bcrypt-hash"))
	require.False(t, hasher.Verify("secret123", ""))
}
