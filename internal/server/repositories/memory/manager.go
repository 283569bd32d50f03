// Package memory provides an in-process RepositoryManager. All repositories
// vended by one Manager share state; the DBTX handle passed to them is
// ignored, so transactions do not isolate or roll back in-memory writes.
package memory

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/dbx"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/tokens"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/users"
)

type tokenEntry struct {
	token     string
	expiresAt time.Time
}

type state struct {
	mu      sync.Mutex
	users   map[string]models.User
	avatars map[string][]byte
	tokens  map[string][]tokenEntry
	tasks   map[string]models.Task
	seq     int64
	now     func() time.Time
}

// Manager implements repomanager.RepositoryManager on top of maps.
type Manager struct {
	st *state
}

func NewManager() *Manager {
	return &Manager{st: &state{
		users:   map[string]models.User{},
		avatars: map[string][]byte{},
		tokens:  map[string][]tokenEntry{},
		tasks:   map[string]models.Task{},
		now:     time.Now,
	}}
}

func (m *Manager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *Manager) Users(dbx.DBTX) users.Repository { return &userRepo{st: m.st} }

func (m *Manager) Tasks(dbx.DBTX) tasks.Repository { return &taskRepo{st: m.st} }

func (m *Manager) Tokens(dbx.DBTX) tokens.Repository { return &tokenRepo{st: m.st} }

// TokenCount reports how many tokens the user currently holds.
func (m *Manager) TokenCount(userID string) int {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	return len(m.st.tokens[userID])
}

// TaskCount reports how many tasks the user owns.
func (m *Manager) TaskCount(ownerID string) int {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	n := 0
	for _, t := range m.st.tasks {
		if t.OwnerID == ownerID {
			n++
		}
	}
	return n
}

// tick returns a strictly increasing timestamp so ordering by creation time
// is deterministic within a test.
func (s *state) tick() time.Time {
	s.seq++
	return s.now().Add(time.Duration(s.seq) * time.Microsecond)
}
