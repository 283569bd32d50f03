// Package models defines server-side data models persisted in the database
// and the projections that leave the server.
package models

import "time"

// User is the stored identity record. The password hash never leaves the
// server; avatar bytes and session tokens are stored separately and are
// not part of this struct.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash []byte `json:"-"`
	Age          *int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the only externally visible representation of a User.
type PublicUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       *int      `json:"age,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Public returns the redacted projection of u.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Age:       u.Age,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
