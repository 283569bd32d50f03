package avatars

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/dbx"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/repomanager"
)

// PostgresStore keeps avatars in the users.avatar column. The blob goes
// away together with the user row.
type PostgresStore struct {
	db          dbx.DBTX
	repomanager repomanager.RepositoryManager
}

func NewPostgresStore(db dbx.DBTX, repomanager repomanager.RepositoryManager) *PostgresStore {
	return &PostgresStore{db: db, repomanager: repomanager}
}

func (s *PostgresStore) Put(ctx context.Context, userID string, blob []byte) error {
	return s.repomanager.Users(s.db).SetAvatar(ctx, userID, blob)
}

func (s *PostgresStore) Get(ctx context.Context, userID string) ([]byte, error) {
	return s.repomanager.Users(s.db).GetAvatar(ctx, userID)
}

func (s *PostgresStore) Delete(ctx context.Context, userID string) error {
	err := s.repomanager.Users(s.db).SetAvatar(ctx, userID, nil)
	if errors.Is(err, common.ErrorNotFound) {
		return nil
	}
	return err
}
