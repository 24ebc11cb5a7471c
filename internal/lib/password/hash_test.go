package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHashAndCompare(t *testing.T) {
	hash, err := GetHash("correct-horse-battery-staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "correct-horse-battery-staple", hash)

	err = CompareHash(hash, "correct-horse-battery-staple")
	assert.NoError(t, err)
}

func TestCompareHash_WrongPassword(t *testing.T) {
	hash, err := GetHash("correct-horse-battery-staple")
	require.NoError(t, err)

	err = CompareHash(hash, "wrong-password")
	assert.Error(t, err)
}

func TestGetHash_Unique(t *testing.T) {
	first, err := GetHash("same-password")
	require.NoError(t, err)
	second, err := GetHash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
