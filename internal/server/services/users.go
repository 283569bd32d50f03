package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/dbx"
	"github.com/dmitrijs2005/gophtasks/internal/logging"
	"github.com/dmitrijs2005/gophtasks/internal/server/auth"
	"github.com/dmitrijs2005/gophtasks/internal/server/avatars"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophtasks/internal/validator"
	"github.com/google/uuid"
)

// Fields accepted by UserService.Update.
const (
	UserFieldName     = "name"
	UserFieldEmail    = "email"
	UserFieldPassword = "password"
)

var userUpdatable = map[string]struct{}{
	UserFieldName:     {},
	UserFieldEmail:    {},
	UserFieldPassword: {},
}

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Age      *int
}

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *auth.PasswordHasher
	sessions    *SessionService
	avatars     avatars.Store
	logger      logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher *auth.PasswordHasher,
	sessions *SessionService, store avatars.Store, logger logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		sessions:    sessions,
		avatars:     store,
		logger:      logger.With("module", "users"),
	}
}

// Register validates and stores a new user and issues its first token. The
// user row and the token are written in one transaction.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	user := &models.User{
		Name:  validator.NormalizeName(in.Name),
		Email: validator.NormalizeEmail(in.Email),
		Age:   in.Age,
	}

	v := validator.New()
	v.CheckName(user.Name)
	v.CheckEmail(user.Email)
	v.CheckPassword(in.Password)
	v.CheckAge(user.Age)
	if err := v.Err(); err != nil {
		return nil, "", err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, "", err
	}
	user.PasswordHash = hash

	var token string
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		if user, err = s.repomanager.Users(tx).Create(ctx, user); err != nil {
			return err
		}
		token, err = s.sessions.IssueWith(ctx, tx, user.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, "", fmt.Errorf("email is already registered: %w", common.ErrorConflict)
		}
		return nil, "", fmt.Errorf("register user: %w", err)
	}

	return user, token, nil
}

// FindByCredentials fails with common.ErrBadCredentials for an unknown
// email and for a wrong password alike.
func (s *UserService) FindByCredentials(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, validator.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrBadCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		s.logger.Warn(ctx, "stored password hash is unreadable", "user_id", user.ID, "error", err)
		return nil, common.ErrBadCredentials
	}
	if !ok {
		return nil, common.ErrBadCredentials
	}
	return user, nil
}

// Login checks the credentials and issues a new token.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.FindByCredentials(ctx, email, password)
	if err != nil {
		return nil, "", err
	}
	token, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Logout revokes only the token used for the current request.
func (s *UserService) Logout(ctx context.Context, user *models.User, token string) error {
	return s.sessions.Revoke(ctx, user.ID, token)
}

// LogoutAll revokes every token of the user.
func (s *UserService) LogoutAll(ctx context.Context, user *models.User) error {
	return s.sessions.RevokeAll(ctx, user.ID)
}

// GetByID returns common.ErrorNotFound for malformed ids too.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

func stringField(v *validator.Validator, key string, raw any) string {
	str, ok := raw.(string)
	v.Check(ok, key, "must be a string")
	return str
}

// Update applies a whitelisted partial update. Any key outside name, email
// and password rejects the whole update before anything is written.
func (s *UserService) Update(ctx context.Context, user *models.User, fields map[string]any) (*models.User, error) {
	for key := range fields {
		if _, ok := userUpdatable[key]; !ok {
			return nil, common.NewValidationError("updates", "invalid updates")
		}
	}

	updated := *user
	v := validator.New()
	var password string

	if raw, ok := fields[UserFieldName]; ok {
		updated.Name = validator.NormalizeName(stringField(v, UserFieldName, raw))
		v.CheckName(updated.Name)
	}
	if raw, ok := fields[UserFieldEmail]; ok {
		updated.Email = validator.NormalizeEmail(stringField(v, UserFieldEmail, raw))
		v.CheckEmail(updated.Email)
	}
	if raw, ok := fields[UserFieldPassword]; ok {
		password = stringField(v, UserFieldPassword, raw)
		v.CheckPassword(password)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	if _, ok := fields[UserFieldPassword]; ok {
		hash, err := s.hasher.Hash(password)
		if err != nil {
			return nil, err
		}
		updated.PasswordHash = hash
	}

	result, err := s.repomanager.Users(s.db).Update(ctx, &updated)
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, fmt.Errorf("email is already registered: %w", common.ErrorConflict)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return result, nil
}

// Delete removes the user's tasks, tokens and the user in one transaction.
// The avatar is removed from its store after commit; a failure there is
// logged and does not fail the call.
func (s *UserService) Delete(ctx context.Context, user *models.User) (*models.User, error) {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Tasks(tx).DeleteByOwner(ctx, user.ID); err != nil {
			return fmt.Errorf("delete tasks: %w", err)
		}
		if err := s.repomanager.Tokens(tx).DeleteAll(ctx, user.ID); err != nil {
			return fmt.Errorf("delete tokens: %w", err)
		}
		if err := s.repomanager.Users(tx).Delete(ctx, user.ID); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.avatars.Delete(ctx, user.ID); err != nil {
		s.logger.Error(ctx, "avatar cleanup failed", "user_id", user.ID, "error", err)
	}
	return user, nil
}

// SetAvatar stores an already normalized image for the user.
func (s *UserService) SetAvatar(ctx context.Context, user *models.User, blob []byte) error {
	if len(blob) == 0 {
		return common.NewValidationError("avatar", "must be provided")
	}
	if err := s.avatars.Put(ctx, user.ID, blob); err != nil {
		return fmt.Errorf("store avatar: %w", err)
	}
	return nil
}

func (s *UserService) ClearAvatar(ctx context.Context, user *models.User) error {
	if err := s.avatars.Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("delete avatar: %w", err)
	}
	return nil
}

// Avatar returns the stored image or common.ErrorNotFound. The user must
// still exist, so a blob left behind by a failed cleanup is never served.
func (s *UserService) Avatar(ctx context.Context, userID string) ([]byte, error) {
	if _, err := s.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.avatars.Get(ctx, userID)
}
