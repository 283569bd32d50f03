package services

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/dbx"
	"github.com/dmitrijs2005/gophtasks/internal/logging"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophtasks/internal/validator"
	"github.com/google/uuid"
)

// Fields accepted by TaskService.Update. TaskFieldTask is an alias of
// TaskFieldDescription.
const (
	TaskFieldDescription = "description"
	TaskFieldTask        = "task"
	TaskFieldDone        = "done"
)

var taskUpdatable = map[string]struct{}{
	TaskFieldDescription: {},
	TaskFieldTask:        {},
	TaskFieldDone:        {},
}

var sortAliases = map[string]models.TaskSortField{
	"createdAt":   models.SortByCreatedAt,
	"updatedAt":   models.SortByUpdatedAt,
	"description": models.SortByDescription,
	"task":        models.SortByDescription,
	"done":        models.SortByDone,
}

// NewTask carries the fields of a task being created.
type NewTask struct {
	Description string
	Done        bool
}

// ListQuery is the raw, untrusted form of a listing request. A nil Done
// means the filter was not given.
type ListQuery struct {
	Done   *string
	SortBy string
	Limit  string
	Skip   string
}

// ParseListOptions converts a ListQuery. Only an unknown sort field is an
// error; malformed or non-positive limit and skip mean "no bound". An empty
// done value applies no filter; any other value than "true" selects
// unfinished tasks.
func ParseListOptions(q ListQuery) (models.TaskListOptions, error) {
	var opts models.TaskListOptions

	if q.Done != nil && *q.Done != "" {
		done := *q.Done == "true"
		opts.Done = &done
	}

	if q.SortBy != "" {
		name, dir, _ := strings.Cut(q.SortBy, ":")
		field, ok := sortAliases[name]
		if !ok {
			return models.TaskListOptions{}, common.NewValidationError("sortBy", fmt.Sprintf("unsupported field %q", name))
		}
		opts.SortBy = field
		opts.Desc = dir == "desc"
	}

	opts.Limit = positiveOrZero(q.Limit)
	opts.Skip = positiveOrZero(q.Skip)
	return opts, nil
}

func positiveOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewTaskService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *TaskService {
	return &TaskService{
		db:          db,
		repomanager: m,
		logger:      logger.With("module", "tasks"),
	}
}

func checkDescription(v *validator.Validator, description string) {
	v.Check(description != "", TaskFieldDescription, "must be provided")
}

// Create stores a task owned by ownerID. The owner never comes from the
// request body.
func (s *TaskService) Create(ctx context.Context, ownerID string, in NewTask) (*models.Task, error) {
	task := &models.Task{
		OwnerID:     ownerID,
		Description: strings.TrimSpace(in.Description),
		Done:        in.Done,
	}

	v := validator.New()
	checkDescription(v, task.Description)
	if err := v.Err(); err != nil {
		return nil, err
	}

	task, err := s.repomanager.Tasks(s.db).Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	s.logger.Debug(ctx, "task created", "task_id", task.ID, "owner_id", ownerID)
	return task, nil
}

func (s *TaskService) List(ctx context.Context, ownerID string, opts models.TaskListOptions) ([]*models.Task, error) {
	tasks, err := s.repomanager.Tasks(s.db).List(ctx, ownerID, opts)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Get returns common.ErrorNotFound for missing, foreign and malformed ids.
func (s *TaskService) Get(ctx context.Context, ownerID, id string) (*models.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	return s.repomanager.Tasks(s.db).GetByID(ctx, ownerID, id)
}

// Update applies a whitelisted partial update to a task of ownerID.
func (s *TaskService) Update(ctx context.Context, ownerID, id string, fields map[string]any) (*models.Task, error) {
	for key := range fields {
		if _, ok := taskUpdatable[key]; !ok {
			return nil, common.NewValidationError("updates", "invalid updates")
		}
	}

	v := validator.New()
	var (
		description *string
		done        *bool
	)
	for _, key := range []string{TaskFieldTask, TaskFieldDescription} {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		str, isString := raw.(string)
		v.Check(isString, TaskFieldDescription, "must be a string")
		str = strings.TrimSpace(str)
		if isString {
			checkDescription(v, str)
		}
		description = &str
	}
	if raw, ok := fields[TaskFieldDone]; ok {
		b, isBool := raw.(bool)
		v.Check(isBool, TaskFieldDone, "must be a boolean")
		done = &b
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}

	var result *models.Task
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Tasks(tx)
		task, err := repo.GetByID(ctx, ownerID, id)
		if err != nil {
			return err
		}
		if description != nil {
			task.Description = *description
		}
		if done != nil {
			task.Done = *done
		}
		result, err = repo.Update(ctx, task)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return result, nil
}

// Delete removes a task of ownerID and returns it.
func (s *TaskService) Delete(ctx context.Context, ownerID, id string) (*models.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	task, err := s.repomanager.Tasks(s.db).Delete(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("delete task: %w", err)
	}
	return task, nil
}
