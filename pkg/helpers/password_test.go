package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)
	assert.True(t, h.Compare(hash, "s3cret!"))
	assert.False(t, h.Compare(hash, "s3cret"))
	assert.False(t, h.Compare("not-a-hash", "s3cret!"))

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}

func TestPasswordHasher_CostClamp(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(0).Cost())
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(bcrypt.MaxCost+1).Cost())
	assert.Equal(t, 12, NewPasswordHasher(12).Cost())
}

func TestPasswordHasher_DummyHash(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	dummy := h.DummyHash()
	require.NotEmpty(t, dummy)
	assert.Equal(t, dummy, h.DummyHash())

	cost, err := bcrypt.Cost([]byte(dummy))
	require.NoError(t, err)
	assert.Equal(t, h.Cost(), cost)
	assert.False(t, h.Compare(dummy, ""))
}
