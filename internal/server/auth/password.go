package auth

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophtasks/internal/validator"
	"golang.org/x/crypto/bcrypt"
)

// DefaultHashCost is the bcrypt work factor used unless configured otherwise.
const DefaultHashCost = 8

// PasswordHasher hashes and verifies passwords with bcrypt. It never keeps
// plaintext around.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost == 0 {
		cost = DefaultHashCost
	}
	return &PasswordHasher{cost: cost}
}

// ValidatePassword applies the password rules and returns a
// *common.ValidationError on the "password" field when they fail.
func ValidatePassword(plaintext string) error {
	v := validator.New()
	v.CheckPassword(plaintext)
	return v.Err()
}

// Hash validates plaintext and returns its salted bcrypt digest.
func (h *PasswordHasher) Hash(plaintext string) ([]byte, error) {
	if err := ValidatePassword(plaintext); err != nil {
		return nil, err
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return digest, nil
}

// Verify reports whether plaintext matches digest. A mismatch, including a
// plaintext over 72 bytes, is (false, nil); an error is returned only when
// digest is not a bcrypt hash.
func (h *PasswordHasher) Verify(plaintext string, digest []byte) (bool, error) {
	err := bcrypt.CompareHashAndPassword(digest, []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword), errors.Is(err, bcrypt.ErrPasswordTooLong):
		return false, nil
	default:
		return false, fmt.Errorf("verify password: %w", err)
	}
}
