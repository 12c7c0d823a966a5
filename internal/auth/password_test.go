package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pw", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.NoError(t, ComparePassword(hash, "s3cret-pw"))
	assert.Error(t, ComparePassword(hash, "wrong-pw"))
}

func TestHashPasswordSalted(t *testing.T) {
	first, err := HashPassword("same-password", bcrypt.MinCost)
	require.NoError(t, err)
	second, err := HashPassword("same-password", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NoError(t, ComparePassword(first, "same-password"))
	assert.NoError(t, ComparePassword(second, "same-password"))
}

func TestHashPasswordUTF8(t *testing.T) {
	hash, err := HashPassword("pässwörd-日本語-🩺", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NoError(t, ComparePassword(hash, "pässwörd-日本語-🩺"))
}

func TestComparePasswordMalformedHash(t *testing.T) {
	assert.Error(t, ComparePassword("not-a-bcrypt-hash", "anything"))
	assert.Error(t, ComparePassword("", "anything"))
}
