package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("sup3rsecret", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "sup3rsecret", hash)

	assert.True(t, VerifyPassword(hash, "sup3rsecret"))
	assert.False(t, VerifyPassword(hash, "wrongpassword"))
	assert.False(t, VerifyPassword("not a bcrypt hash", "sup3rsecret"))
}

func TestNewAccessToken(t *testing.T) {
	a, err := NewAccessToken()
	require.NoError(t, err)
	b, err := NewAccessToken()
	require.NoError(t, err)

	assert.Len(t, a, 128)
	assert.Regexp(t, "^[0-9a-f]+$", a)
	assert.NotEqual(t, a, b)
}
