package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	require.NotEqual(t, "password123", hash)
	require.True(t, strings.HasPrefix(hash, "$2a$10$"), "bcrypt cost 10 expected, got %q", hash)

	ok, err := ComparePassword("password123", hash)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = ComparePassword("password124", hash)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHashPassword_FreshSalt(t *testing.T) {
	a, err := HashPassword("same-password")
	require.NoError(t, err)
	b, err := HashPassword("same-password")
	require.NoError(t, err)

	require.NotEqual(t, a, b)
}

func TestComparePassword_DistinctInputs(t *testing.T) {
	inputs := []string{"", "a", "password", "Password", "password ", "pässwörd"}

	for _, p := range inputs {
		hash, err := HashPassword(p)
		require.NoError(t, err)

		for _, other := range inputs {
			ok, err := ComparePassword(other, hash)
			require.NoError(t, err)
			require.Equal(t, p == other, ok, "compare(%q) against hash of %q", other, p)
		}
	}
}

func TestComparePassword_MalformedHash(t *testing.T) {
	ok, err := ComparePassword("whatever", "not-a-bcrypt-hash")
	require.Error(t, err)
	require.False(t, ok)
}
