package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T, secret string, validity time.Duration) *TokenManager {
	t.Helper()
	m, err := NewTokenManager([]byte(secret), validity)
	require.NoError(t, err)
	return m
}

func TestIssueAndValidate_Success(t *testing.T) {
	t.Parallel()

	m := newManager(t, "super-secret", time.Hour)

	tok, claims, err := m.Issue("user-123")
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.NotEmpty(t, claims.ID)

	gotUserID, err := m.Validate(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", gotUserID)
}

func TestNewTokenManager_Defaults(t *testing.T) {
	t.Parallel()

	m := newManager(t, "k", 0)
	assert.Equal(t, common.DefaultTokenValidity, m.validity)

	_, claims, err := m.Issue("u1")
	require.NoError(t, err)
	assert.Equal(t, 72*time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestNewTokenManager_Rejects(t *testing.T) {
	t.Parallel()

	_, err := NewTokenManager(nil, time.Hour)
	assert.Error(t, err)

	_, err = NewTokenManager([]byte("k"), -time.Second)
	assert.Error(t, err)
}

func TestIssue_DistinctTokens(t *testing.T) {
	t.Parallel()

	m := newManager(t, "k", time.Hour)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return fixed }

	seen := make(map[string]struct{})
	for i := 0; i < 20; i++ {
		tok, _, err := m.Issue("same-user")
		require.NoError(t, err)
		_, dup := seen[tok]
		require.False(t, dup, "token reused on issuance %d", i)
		seen[tok] = struct{}{}
	}
}

func TestValidate_ExpiresAfterThreeDays(t *testing.T) {
	t.Parallel()

	m := newManager(t, "secret", 0)
	issued := time.Now()
	m.now = func() time.Time { return issued }

	tok, _, err := m.Issue("u1")
	require.NoError(t, err)

	m.now = func() time.Time { return issued.Add(72*time.Hour - time.Minute) }
	_, err = m.Validate(tok)
	require.NoError(t, err, "still valid just before three days")

	m.now = func() time.Time { return issued.Add(72*time.Hour + time.Minute) }
	_, err = m.Validate(tok)
	require.ErrorIs(t, err, common.ErrTokenExpired)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestValidate_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, _, err := newManager(t, "right-secret", time.Hour).Issue("u2")
	require.NoError(t, err)

	_, err = newManager(t, "wrong-secret", time.Hour).Validate(tok)
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestValidate_Malformed(t *testing.T) {
	t.Parallel()

	m := newManager(t, "k", time.Hour)
	for _, s := range []string{"", "not.a.jwt", "abc"} {
		_, err := m.Validate(s)
		assert.ErrorIs(t, err, common.ErrInvalidToken, s)
	}
}

func TestValidate_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	m := newManager(t, "k", time.Hour)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           "u1",
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.Validate(none)
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("k"))
	require.NoError(t, err)
	_, err = m.Validate(hs512)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestValidate_RequiresExpiryAndUser(t *testing.T) {
	t.Parallel()

	m := newManager(t, "k", time.Hour)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: "u1"}).SignedString([]byte("k"))
	require.NoError(t, err)
	_, err = m.Validate(noExp)
	assert.True(t, errors.Is(err, common.ErrInvalidToken))

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("k"))
	require.NoError(t, err)
	_, err = m.Validate(noUser)
	assert.True(t, errors.Is(err, common.ErrInvalidToken))
}
