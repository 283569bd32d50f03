// Package avatars stores user avatar images and normalizes uploads.
//
// Two backends exist: the users table itself (PostgresStore) and an S3
// compatible bucket (S3Store). Both hold at most one PNG per user.
package avatars

import "context"

// Store keeps one avatar blob per user id. Get returns common.ErrorNotFound
// when the user has no avatar. Delete of a missing avatar is not an error.
type Store interface {
	Put(ctx context.Context, userID string, blob []byte) error
	Get(ctx context.Context, userID string) ([]byte, error)
	Delete(ctx context.Context, userID string) error
}
