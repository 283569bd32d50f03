package grpc

import "github.com/dmitrijs2005/gophtasks/internal/server/models"

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Age      *int   `json:"age,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User  models.PublicUser `json:"user"`
	Token string            `json:"token"`
}

type Empty struct{}

type CreateTaskRequest struct {
	Description string `json:"description"`
	Done        bool   `json:"done"`
}

// ListTasksRequest mirrors the HTTP query string; Done is nil when absent.
type ListTasksRequest struct {
	Done   *string `json:"done,omitempty"`
	SortBy string  `json:"sortBy,omitempty"`
	Limit  string  `json:"limit,omitempty"`
	Skip   string  `json:"skip,omitempty"`
}

type ListTasksResponse struct {
	Tasks []*models.Task `json:"tasks"`
}

type TaskRequest struct {
	ID string `json:"id"`
}

type UpdateTaskRequest struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}
