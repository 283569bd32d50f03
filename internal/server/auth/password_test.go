package auth

import (
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	digest, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.NotContains(t, string(digest), "secret1")

	ok, err := h.Verify("secret1", digest)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("wrong", digest)
	require.NoError(t, err, "a wrong password is not an error")
	assert.False(t, ok)
}

func TestPasswordHasher_Salted(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	a, err := h.Hash("secret1")
	require.NoError(t, err)
	b, err := h.Hash("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestPasswordHasher_DefaultCost(t *testing.T) {
	h := NewPasswordHasher(0)

	digest, err := h.Hash("secret1")
	require.NoError(t, err)

	cost, err := bcrypt.Cost(digest)
	require.NoError(t, err)
	assert.Equal(t, DefaultHashCost, cost)
}

func TestPasswordHasher_RejectsInvalidPasswords(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	for _, p := range []string{"", "12345", "äöü", "password123", "mypassword"} {
		_, err := h.Hash(p)
		assert.True(t, errors.Is(err, common.ErrorValidation), p)
	}
}

func TestPasswordHasher_VerifyOverlongIsMismatch(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	digest, err := h.Hash("secret1")
	require.NoError(t, err)

	ok, err := h.Verify(strings.Repeat("a", 73), digest)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordHasher_MalformedDigest(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	ok, err := h.Verify("secret1", []byte("not-a-bcrypt-hash"))
	assert.False(t, ok)
	assert.Error(t, err)
}
