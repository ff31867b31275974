package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	token, err := Generate("secret", "u-1", "Ana", "MANAGER", "test", 5)
	require.NoError(t, err)

	claims, err := Parse("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "Ana", claims.Name)
	assert.Equal(t, "MANAGER", claims.Role)
	assert.Equal(t, "test", claims.Issuer)
}

func TestParse_WrongSecret(t *testing.T) {
	token, err := Generate("secret", "u-1", "Ana", "ADMIN", "test", 5)
	require.NoError(t, err)

	_, err = Parse("otro", token)
	assert.Error(t, err)
}

func TestParse_Expired(t *testing.T) {
	token, err := Generate("secret", "u-1", "Ana", "ADMIN", "test", -1)
	require.NoError(t, err)

	_, err = Parse("secret", token)
	assert.Error(t, err)
}

func TestGenerate_EmptySecret(t *testing.T) {
	_, err := Generate("", "u-1", "Ana", "ADMIN", "test", 5)
	assert.Error(t, err)
}
