package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("password1", bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, CheckPassword("password1", hash))
	assert.False(t, CheckPassword("password2", hash))
	assert.NotContains(t, hash, "password1")
}

func TestHashPasswordUsesRequestedCost(t *testing.T) {
	hash, err := HashPassword("password1", bcrypt.MinCost+1)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost+1, cost)
}

func TestIsID(t *testing.T) {
	assert.True(t, IsID(NewID()))
	assert.False(t, IsID("not-a-uuid"))
	assert.False(t, IsID(""))
}
