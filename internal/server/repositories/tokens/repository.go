// Package tokens declares the server-side repository contract for the
// per-user list of live session tokens.
package tokens

import (
	"context"
	"time"
)

// Repository stores the session tokens of each user. A token is live while
// it is present here; removing it revokes it.
type Repository interface {
	// Create appends token to the user's list.
	Create(ctx context.Context, userID string, token string, expiresAt time.Time) error

	// Delete removes exactly the given token of the user. Deleting a token
	// that is not present is not an error.
	Delete(ctx context.Context, userID string, token string) error

	// DeleteAll empties the user's list.
	DeleteAll(ctx context.Context, userID string) error

	// DeleteExpired drops the user's tokens that expired before now.
	DeleteExpired(ctx context.Context, userID string, now time.Time) error

	// List returns the user's tokens in issuance order.
	List(ctx context.Context, userID string) ([]string, error)
}
