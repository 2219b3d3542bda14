package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHashAndCompare(t *testing.T) {
	hash, err := GetHash("espresso123")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "espresso123", hash)

	assert.NoError(t, CompareHash(hash, "espresso123"))
	assert.Error(t, CompareHash(hash, "latte456"))
}

func TestCompareHash_InvalidHash(t *testing.T) {
	err := CompareHash("not-a-bcrypt-hash", "espresso123")
	assert.Error(t, err)
}
