package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/google/uuid"
)

type taskRepo struct {
	st *state
}

func (r *taskRepo) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	if _, ok := r.st.users[task.OwnerID]; !ok {
		return nil, errRestrict
	}
	task.ID = uuid.NewString()
	task.CreatedAt = r.st.tick()
	task.UpdatedAt = task.CreatedAt
	r.st.tasks[task.ID] = *task
	out := *task
	return &out, nil
}

func compareTasks(a, b models.Task, field models.TaskSortField) (int, error) {
	switch field {
	case models.SortByCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt), nil
	case models.SortByUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt), nil
	case models.SortByDescription:
		return strings.Compare(a.Description, b.Description), nil
	case models.SortByDone:
		switch {
		case a.Done == b.Done:
			return 0, nil
		case !a.Done:
			return -1, nil
		default:
			return 1, nil
		}
	}
	return 0, common.NewValidationError("sortBy", fmt.Sprintf("unsupported field %q", field))
}

func (r *taskRepo) List(ctx context.Context, ownerID string, opts models.TaskListOptions) ([]*models.Task, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	field := opts.SortBy
	if field == "" {
		field = models.SortByCreatedAt
	}
	if _, err := compareTasks(models.Task{}, models.Task{}, field); err != nil {
		return nil, err
	}

	matched := make([]models.Task, 0)
	for _, t := range r.st.tasks {
		if t.OwnerID != ownerID {
			continue
		}
		if opts.Done != nil && t.Done != *opts.Done {
			continue
		}
		matched = append(matched, t)
	}

	sort.Slice(matched, func(i, j int) bool {
		c, _ := compareTasks(matched[i], matched[j], field)
		if opts.Desc {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		return matched[i].ID < matched[j].ID
	})

	if opts.Skip > 0 {
		if opts.Skip >= len(matched) {
			matched = matched[:0]
		} else {
			matched = matched[opts.Skip:]
		}
	}
	if opts.Limit > 0 && opts.Limit < len(matched) {
		matched = matched[:opts.Limit]
	}

	out := make([]*models.Task, 0, len(matched))
	for i := range matched {
		t := matched[i]
		out = append(out, &t)
	}
	return out, nil
}

func (r *taskRepo) GetByID(ctx context.Context, ownerID string, id string) (*models.Task, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	t, ok := r.st.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return nil, common.ErrorNotFound
	}
	return &t, nil
}

func (r *taskRepo) Update(ctx context.Context, task *models.Task) (*models.Task, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	cur, ok := r.st.tasks[task.ID]
	if !ok || cur.OwnerID != task.OwnerID {
		return nil, common.ErrorNotFound
	}
	cur.Description = task.Description
	cur.Done = task.Done
	cur.UpdatedAt = r.st.tick()
	r.st.tasks[task.ID] = cur
	out := cur
	return &out, nil
}

func (r *taskRepo) Delete(ctx context.Context, ownerID string, id string) (*models.Task, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	t, ok := r.st.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return nil, common.ErrorNotFound
	}
	delete(r.st.tasks, id)
	return &t, nil
}

func (r *taskRepo) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	var n int64
	for id, t := range r.st.tasks {
		if t.OwnerID == ownerID {
			delete(r.st.tasks, id)
			n++
		}
	}
	return n, nil
}
