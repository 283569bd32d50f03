package models

import "time"

// Task is a single to-do item. OwnerID is set once at creation.
type Task struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner"`
	Description string    `json:"description"`
	Done        bool      `json:"done"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TaskSortField names a column tasks can be ordered by.
type TaskSortField string

const (
	SortByCreatedAt   TaskSortField = "createdAt"
	SortByUpdatedAt   TaskSortField = "updatedAt"
	SortByDescription TaskSortField = "description"
	SortByDone        TaskSortField = "done"
)

// TaskListOptions narrows and orders a task listing. Zero Limit or Skip
// means no bound.
type TaskListOptions struct {
	Done   *bool
	SortBy TaskSortField
	Desc   bool
	Limit  int
	Skip   int
}
