// Package common defines shared constants and sentinel errors used across
// the server layers of gophtasks. Callers should use errors.Is to match
// these values.
package common

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Token errors. Both are authentication failures.
	ErrInvalidToken = fmt.Errorf("%w: invalid token", ErrorUnauthorized)
	ErrTokenExpired = fmt.Errorf("%w: token expired", ErrorUnauthorized)

	// ErrBadCredentials covers both an unknown email and a wrong password.
	ErrBadCredentials = fmt.Errorf("%w: unable to login", ErrorUnauthorized)
)

// ValidationError reports caller-fixable problems with input fields.
// Fields maps a field name to a human readable message.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation error: " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrorValidation) true for any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrorValidation
}
