package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/dbx"
	"github.com/dmitrijs2005/gophtasks/internal/logging"
	"github.com/dmitrijs2005/gophtasks/internal/server/auth"
	"github.com/dmitrijs2005/gophtasks/internal/server/avatars"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/memory"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/tokens"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// newTxDB returns a handle that can begin and commit transactions. The
// in-memory repositories ignore it.
func newTxDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+strings.ReplaceAll(t.Name(), "/", "_")+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type testEnv struct {
	db       *sql.DB
	repos    *memory.Manager
	sessions *SessionService
	users    *UserService
	tasks    *TaskService
}

func newTokenManager(t *testing.T) *auth.TokenManager {
	t.Helper()
	tm, err := auth.NewTokenManager([]byte("test-secret"), 72*time.Hour)
	require.NoError(t, err)
	return tm
}

func newEnvWith(t *testing.T, db *sql.DB, rm repomanager.RepositoryManager, repos *memory.Manager) *testEnv {
	t.Helper()
	logger := logging.Nop()
	sessions := NewSessionService(db, rm, newTokenManager(t), logger)
	return &testEnv{
		db:       db,
		repos:    repos,
		sessions: sessions,
		users:    NewUserService(db, rm, auth.NewPasswordHasher(4), sessions, avatars.NewPostgresStore(db, rm), logger),
		tasks:    NewTaskService(db, rm, logger),
	}
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	repos := memory.NewManager()
	return newEnvWith(t, newTxDB(t), repos, repos)
}

func (e *testEnv) register(t *testing.T, name, email string) (*models.User, string) {
	t.Helper()
	u, tok, err := e.users.Register(context.Background(), RegisterInput{Name: name, Email: email, Password: "Red12345!"})
	require.NoError(t, err)
	return u, tok
}

// overrideManager replaces selected repositories of a memory.Manager.
type overrideManager struct {
	*memory.Manager
	users  func(users.Repository) users.Repository
	tasks  func(tasks.Repository) tasks.Repository
	tokens func(tokens.Repository) tokens.Repository
}

func (m *overrideManager) Users(db dbx.DBTX) users.Repository {
	r := m.Manager.Users(db)
	if m.users != nil {
		return m.users(r)
	}
	return r
}

func (m *overrideManager) Tasks(db dbx.DBTX) tasks.Repository {
	r := m.Manager.Tasks(db)
	if m.tasks != nil {
		return m.tasks(r)
	}
	return r
}

func (m *overrideManager) Tokens(db dbx.DBTX) tokens.Repository {
	r := m.Manager.Tokens(db)
	if m.tokens != nil {
		return m.tokens(r)
	}
	return r
}

type failingUserLookup struct {
	users.Repository
	err error
}

func (f failingUserLookup) GetByIDAndToken(context.Context, string, string) (*models.User, error) {
	return nil, f.err
}

type failingTokenWipe struct {
	tokens.Repository
	err error
}

func (f failingTokenWipe) DeleteAll(context.Context, string) error { return f.err }

func mustTokenManager(t *testing.T, secret string) *auth.TokenManager {
	t.Helper()
	tm, err := auth.NewTokenManager([]byte(secret), time.Hour)
	require.NoError(t, err)
	return tm
}

// stickyStore keeps avatars in a map and refuses to delete them, like an
// object store that is unreachable after the user row is gone.
type stickyStore struct {
	blobs map[string][]byte
}

func newStickyStore() *stickyStore {
	return &stickyStore{blobs: map[string][]byte{}}
}

func (s *stickyStore) Put(_ context.Context, userID string, blob []byte) error {
	s.blobs[userID] = blob
	return nil
}

func (s *stickyStore) Get(_ context.Context, userID string) ([]byte, error) {
	blob, ok := s.blobs[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return blob, nil
}

func (s *stickyStore) Delete(context.Context, string) error {
	return errors.New("s3 delete: connection reset")
}
