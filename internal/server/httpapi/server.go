// Package httpapi exposes the user directory and the task ledger over
// REST/JSON on a net/http ServeMux.
package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/gophtasks/internal/logging"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/dmitrijs2005/gophtasks/internal/server/services"
)

// Authenticator resolves a bearer token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// UserDirectory is the account surface used by the handlers.
type UserDirectory interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	Logout(ctx context.Context, user *models.User, token string) error
	LogoutAll(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, user *models.User, fields map[string]any) (*models.User, error)
	Delete(ctx context.Context, user *models.User) (*models.User, error)
	SetAvatar(ctx context.Context, user *models.User, blob []byte) error
	ClearAvatar(ctx context.Context, user *models.User) error
	Avatar(ctx context.Context, userID string) ([]byte, error)
}

// TaskLedger is the task surface used by the handlers.
type TaskLedger interface {
	Create(ctx context.Context, ownerID string, in services.NewTask) (*models.Task, error)
	List(ctx context.Context, ownerID string, opts models.TaskListOptions) ([]*models.Task, error)
	Get(ctx context.Context, ownerID, id string) (*models.Task, error)
	Update(ctx context.Context, ownerID, id string, fields map[string]any) (*models.Task, error)
	Delete(ctx context.Context, ownerID, id string) (*models.Task, error)
}

// Server holds the handler dependencies.
type Server struct {
	auth        Authenticator
	users       UserDirectory
	tasks       TaskLedger
	logger      logging.Logger
	environment string
	version     string
}

func NewServer(auth Authenticator, users UserDirectory, tasks TaskLedger, logger logging.Logger, environment, version string) *Server {
	return &Server{
		auth:        auth,
		users:       users,
		tasks:       tasks,
		logger:      logger.With("module", "http"),
		environment: environment,
		version:     version,
	}
}

// Routes builds the request multiplexer wrapped in request logging.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthcheck", s.healthCheckHandler)

	mux.HandleFunc("POST /users", s.registerHandler)
	mux.HandleFunc("POST /users/login", s.loginHandler)
	mux.HandleFunc("POST /users/logout", s.requireAuth(s.logoutHandler))
	mux.HandleFunc("POST /users/logoutAll", s.requireAuth(s.logoutAllHandler))
	mux.HandleFunc("GET /users/me", s.requireAuth(s.getMeHandler))
	mux.HandleFunc("PATCH /users/me", s.requireAuth(s.updateMeHandler))
	mux.HandleFunc("DELETE /users/me", s.requireAuth(s.deleteMeHandler))
	mux.HandleFunc("POST /users/me/avatar", s.requireAuth(s.uploadAvatarHandler))
	mux.HandleFunc("DELETE /users/me/avatar", s.requireAuth(s.deleteAvatarHandler))
	mux.HandleFunc("GET /users/{id}", s.getUserHandler)
	mux.HandleFunc("GET /users/{id}/avatar", s.getAvatarHandler)

	mux.HandleFunc("POST /tasks", s.requireAuth(s.createTaskHandler))
	mux.HandleFunc("GET /tasks", s.requireAuth(s.listTasksHandler))
	mux.HandleFunc("GET /tasks/{id}", s.requireAuth(s.getTaskHandler))
	mux.HandleFunc("PATCH /tasks/{id}", s.requireAuth(s.updateTaskHandler))
	mux.HandleFunc("DELETE /tasks/{id}", s.requireAuth(s.deleteTaskHandler))

	return s.logRequests(mux)
}

func (s *Server) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, envelope{
		"status":      "available",
		"environment": s.environment,
		"version":     s.version,
	})
}
