// Package auth holds the credential primitives of the server: bcrypt
// password hashing, session token signing/validation and bearer header
// parsing. It has no storage of its own.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are the session token claims: the standard registered claims plus
// the owning user id.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

// TokenManager signs and validates HS256 session tokens. The secret is fixed
// at construction.
type TokenManager struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

// NewTokenManager returns a TokenManager. A zero validity falls back to
// common.DefaultTokenValidity.
func NewTokenManager(secret []byte, validity time.Duration) (*TokenManager, error) {
	if len(secret) == 0 {
		return nil, errors.New("token secret must not be empty")
	}
	if validity == 0 {
		validity = common.DefaultTokenValidity
	}
	if validity < 0 {
		return nil, errors.New("token validity must be positive")
	}

	key := make([]byte, len(secret))
	copy(key, secret)
	return &TokenManager{secret: key, validity: validity, now: time.Now}, nil
}

// Issue signs a token for userID. Every call yields a distinct token, even
// within the same second, because each carries a random jti.
func (m *TokenManager) Issue(userID string) (string, *Claims, error) {
	issuedAt := m.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(m.validity)),
		},
		UserID: userID,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, claims, nil
}

// Validate checks signature, algorithm and expiry and returns the user id.
// Expired tokens yield common.ErrTokenExpired, everything else
// common.ErrInvalidToken. Token list membership is not checked here.
func (m *TokenManager) Validate(tokenString string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.UserID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}
