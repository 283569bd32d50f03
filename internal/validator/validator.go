// Package validator collects per-field validation failures and turns them
// into a common.ValidationError.
package validator

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/gophtasks/internal/common"
)

var emailRegexp = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)+$")

const (
	// Minimum and name limits count characters.
	MinPasswordLength = 6
	// bcrypt ignores everything past 72 bytes.
	MaxPasswordLength = 72
	MaxNameLength     = 255

	forbiddenPasswordWord = "password"
)

// Validator keeps the first failure message per field.
type Validator struct {
	errors map[string]string
}

func New() *Validator {
	return &Validator{errors: make(map[string]string)}
}

func (v *Validator) Valid() bool {
	return len(v.errors) == 0
}

// Check records msg for key unless cond holds or key already failed.
func (v *Validator) Check(cond bool, key, msg string) {
	if cond {
		return
	}
	if _, ok := v.errors[key]; !ok {
		v.errors[key] = msg
	}
}

// Err returns nil when nothing failed, otherwise a *common.ValidationError.
func (v *Validator) Err() error {
	if v.Valid() {
		return nil
	}
	fields := make(map[string]string, len(v.errors))
	for k, msg := range v.errors {
		fields[k] = msg
	}
	return &common.ValidationError{Fields: fields}
}

func (v *Validator) CheckName(name string) {
	v.Check(name != "", "name", "must be provided")
	v.Check(utf8.RuneCountInString(name) <= MaxNameLength, "name", "must be at most 255 characters")
}

func (v *Validator) CheckEmail(email string) {
	v.Check(email != "", "email", "must be provided")
	v.Check(emailRegexp.MatchString(email), "email", "must be a valid email address")
}

func (v *Validator) CheckPassword(password string) {
	v.Check(password != "", "password", "must be provided")
	v.Check(utf8.RuneCountInString(password) >= MinPasswordLength, "password", "must be at least 6 characters long")
	v.Check(len(password) <= MaxPasswordLength, "password", "must be at most 72 bytes long")
	v.Check(!strings.Contains(password, forbiddenPasswordWord), "password", `must not contain "password"`)
}

func (v *Validator) CheckAge(age *int) {
	v.Check(age == nil || *age >= 0, "age", "must be a non-negative integer")
}

// NormalizeName trims surrounding whitespace.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
