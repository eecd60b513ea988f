package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$")

	ok, err := CheckPassword("hunter22", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPassword("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	// hashing is salted
	hash2, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2)
}

func TestCheckPasswordRejectsMalformedHash(t *testing.T) {
	_, err := CheckPassword("pw", "not-a-hash")
	assert.ErrorIs(t, err, ErrInvalidHash)

	_, err = CheckPassword("pw", "$bcrypt$whatever$nope$nope$nope")
	assert.ErrorIs(t, err, ErrInvalidHash)
}
