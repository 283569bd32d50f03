// Package services holds the server's use cases: sessions, the user
// directory and the task ledger. Services own transactions; repositories
// are obtained from the RepositoryManager for either the pool or a tx.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/dbx"
	"github.com/dmitrijs2005/gophtasks/internal/logging"
	"github.com/dmitrijs2005/gophtasks/internal/server/auth"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// SessionService issues, validates and revokes bearer tokens. A token is
// accepted only while it is both validly signed and present in the owner's
// token list.
type SessionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenManager
	logger      logging.Logger
	now         func() time.Time
}

func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, tokens *auth.TokenManager, logger logging.Logger) *SessionService {
	return &SessionService{
		db:          db,
		repomanager: m,
		tokens:      tokens,
		logger:      logger.With("module", "sessions"),
		now:         time.Now,
	}
}

// Issue signs a new token for userID and appends it to the user's list.
func (s *SessionService) Issue(ctx context.Context, userID string) (string, error) {
	return s.IssueWith(ctx, s.db, userID)
}

// IssueWith is Issue running on the given handle, so callers can make the
// issuance part of a wider transaction. Expired tokens of the user are
// pruned first.
func (s *SessionService) IssueWith(ctx context.Context, db dbx.DBTX, userID string) (string, error) {
	token, claims, err := s.tokens.Issue(userID)
	if err != nil {
		return "", err
	}

	repo := s.repomanager.Tokens(db)
	if err := repo.DeleteExpired(ctx, userID, s.now()); err != nil {
		return "", fmt.Errorf("prune tokens: %w", err)
	}
	if err := repo.Create(ctx, userID, token, claims.ExpiresAt.Time); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	return token, nil
}

// Validate checks signature and expiry only; list membership is checked by
// Authenticate.
func (s *SessionService) Validate(token string) (string, error) {
	return s.tokens.Validate(token)
}

// Revoke removes exactly this token from the user's list.
func (s *SessionService) Revoke(ctx context.Context, userID, token string) error {
	if err := s.repomanager.Tokens(s.db).Delete(ctx, userID, token); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// RevokeAll empties the user's token list.
func (s *SessionService) RevokeAll(ctx context.Context, userID string) error {
	if err := s.repomanager.Tokens(s.db).DeleteAll(ctx, userID); err != nil {
		return fmt.Errorf("revoke tokens: %w", err)
	}
	return nil
}

// Authenticate resolves a raw bearer token to its user. Every failure,
// including storage errors, is reported as common.ErrorUnauthorized.
func (s *SessionService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(userID); err != nil {
		return nil, common.ErrInvalidToken
	}

	user, err := s.repomanager.Users(s.db).GetByIDAndToken(ctx, userID, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		s.logger.Error(ctx, "token lookup failed", "user_id", userID, "error", err)
		return nil, common.ErrorUnauthorized
	}
	return user, nil
}
