// Package tasks provides the PostgreSQL repository for owner-scoped tasks.
package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/dbx"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
)

const taskColumns = `id, owner_id, description, done, created_at, updated_at`

// sortColumns whitelists the columns a listing may be ordered by.
var sortColumns = map[models.TaskSortField]string{
	models.SortByCreatedAt:   "created_at",
	models.SortByUpdatedAt:   "updated_at",
	models.SortByDescription: "description",
	models.SortByDone:        "done",
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (*models.Task, error) {
	var t models.Task
	if err := s.Scan(&t.ID, &t.OwnerID, &t.Description, &t.Done, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PostgresRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	query :=
		`INSERT INTO tasks (owner_id, description, done)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, task.OwnerID, task.Description, task.Done).
		Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return task, nil
}

// buildListQuery renders the listing statement for opts. Only whitelisted
// column names are interpolated; every value is a bind parameter.
func buildListQuery(ownerID string, opts models.TaskListOptions) (string, []any, error) {
	var sb strings.Builder
	args := []any{ownerID}

	sb.WriteString(`SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = $1`)

	if opts.Done != nil {
		args = append(args, *opts.Done)
		fmt.Fprintf(&sb, ` AND done = $%d`, len(args))
	}

	field := opts.SortBy
	if field == "" {
		field = models.SortByCreatedAt
	}
	col, ok := sortColumns[field]
	if !ok {
		return "", nil, common.NewValidationError("sortBy", fmt.Sprintf("unsupported field %q", field))
	}
	dir := "ASC"
	if opts.Desc {
		dir = "DESC"
	}
	fmt.Fprintf(&sb, ` ORDER BY %s %s, id ASC`, col, dir)

	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		fmt.Fprintf(&sb, ` LIMIT $%d`, len(args))
	}
	if opts.Skip > 0 {
		args = append(args, opts.Skip)
		fmt.Fprintf(&sb, ` OFFSET $%d`, len(args))
	}

	return sb.String(), args, nil
}

func (r *PostgresRepository) List(ctx context.Context, ownerID string, opts models.TaskListOptions) ([]*models.Task, error) {
	query, args, err := buildListQuery(ownerID, opts)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, ownerID string, id string) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND owner_id = $2`

	t, err := scanTask(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

// Update writes description and done of the task identified by
// (task.ID, task.OwnerID) and refreshes updated_at.
func (r *PostgresRepository) Update(ctx context.Context, task *models.Task) (*models.Task, error) {
	query :=
		`UPDATE tasks
		 SET description = $3, done = $4, updated_at = now()
		 WHERE id = $1 AND owner_id = $2
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, task.ID, task.OwnerID, task.Description, task.Done).
		Scan(&task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return task, nil
}

// Delete removes the task and returns its last state.
func (r *PostgresRepository) Delete(ctx context.Context, ownerID string, id string) (*models.Task, error) {
	query := `DELETE FROM tasks WHERE id = $1 AND owner_id = $2 RETURNING ` + taskColumns

	t, err := scanTask(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE owner_id = $1`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
