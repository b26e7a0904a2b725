package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)

	require.True(t, VerifyPassword(hash, "secret"))
	require.False(t, VerifyPassword(hash, "incorrect"))
}

func TestGenerateToken(t *testing.T) {
	first, err := GenerateToken(48)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := GenerateToken(48)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	_, err = GenerateToken(0)
	require.Error(t, err)
}
