package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasherRoundTrip(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	first, err := h.Hash("Passw0rd!")
	require.NoError(t, err)
	second, err := h.Hash("Passw0rd!")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "salt must differ per call")
	assert.True(t, h.Verify("Passw0rd!", first))
	assert.True(t, h.Verify("Passw0rd!", second))
	assert.False(t, h.Verify("Passw0rd?", first))
}

func TestHasherVerifyMalformedHash(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	assert.False(t, h.Verify("Passw0rd!", nil))
	assert.False(t, h.Verify("Passw0rd!", []byte("not-a-bcrypt-hash")))
}

func TestNewHasherCost(t *testing.T) {
	assert.Equal(t, DefaultHashCost, NewHasher(0).cost)
	assert.Equal(t, DefaultHashCost, NewHasher(bcrypt.MaxCost+1).cost)

	h := NewHasher(bcrypt.MinCost)
	hash, err := h.Hash("Passw0rd!")
	require.NoError(t, err)
	cost, err := bcrypt.Cost(hash)
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}
