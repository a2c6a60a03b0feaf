package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHasherRoundTrip(t *testing.T) {
	h := NewBcryptHasher(4)

	hash, err := h.Hash("brand-new-secret")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "brand-new-secret", hash)

	assert.NoError(t, h.Compare(hash, "brand-new-secret"))
	assert.Error(t, h.Compare(hash, "wrong-secret"))
}

func TestBcryptHasherSaltsEachHash(t *testing.T) {
	h := NewBcryptHasher(4)

	first, err := h.Hash("brand-new-secret")
	require.NoError(t, err)
	second, err := h.Hash("brand-new-secret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NoError(t, h.Compare(second, "brand-new-secret"))
}

func TestNewBcryptHasherDefaultsCost(t *testing.T) {
	h := NewBcryptHasher(0)

	hash, err := h.Hash("brand-new-secret")
	require.NoError(t, err)
	assert.NoError(t, h.Compare(hash, "brand-new-secret"))
}
