package memory

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, m *Manager, email string) *models.User {
	t.Helper()
	u, err := m.Users(nil).Create(context.Background(), &models.User{Name: "n", Email: email, PasswordHash: []byte("h")})
	require.NoError(t, err)
	return u
}

func TestUsers_EmailUniqueness(t *testing.T) {
	m := NewManager()
	ctx := context.Background()
	ann := seedUser(t, m, "ann@x.com")
	bob := seedUser(t, m, "bob@x.com")

	_, err := m.Users(nil).Create(ctx, &models.User{Email: "ann@x.com"})
	assert.ErrorIs(t, err, common.ErrorConflict)

	bob.Email = ann.Email
	_, err = m.Users(nil).Update(ctx, bob)
	assert.ErrorIs(t, err, common.ErrorConflict)

	got, err := m.Users(nil).GetByEmail(ctx, "bob@x.com")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, got.ID)
}

func TestUsers_DeleteRestrictedByTokensAndTasks(t *testing.T) {
	m := NewManager()
	ctx := context.Background()
	u := seedUser(t, m, "ann@x.com")

	require.NoError(t, m.Tokens(nil).Create(ctx, u.ID, "t1", time.Now().Add(time.Hour)))
	_, err := m.Tasks(nil).Create(ctx, &models.Task{OwnerID: u.ID, Description: "x"})
	require.NoError(t, err)

	assert.Error(t, m.Users(nil).Delete(ctx, u.ID))

	require.NoError(t, m.Tokens(nil).DeleteAll(ctx, u.ID))
	n, err := m.Tasks(nil).DeleteByOwner(ctx, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	require.NoError(t, m.Users(nil).Delete(ctx, u.ID))
	assert.ErrorIs(t, m.Users(nil).Delete(ctx, u.ID), common.ErrorNotFound)
}

func TestTokens_Lifecycle(t *testing.T) {
	m := NewManager()
	ctx := context.Background()
	u := seedUser(t, m, "ann@x.com")
	now := time.Now()

	repo := m.Tokens(nil)
	require.NoError(t, repo.Create(ctx, u.ID, "old", now.Add(-time.Minute)))
	require.NoError(t, repo.Create(ctx, u.ID, "t1", now.Add(time.Hour)))
	require.NoError(t, repo.Create(ctx, u.ID, "t2", now.Add(time.Hour)))

	require.NoError(t, repo.DeleteExpired(ctx, u.ID, now))
	got, err := repo.List(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "t2"}, got)

	_, err = m.Users(nil).GetByIDAndToken(ctx, u.ID, "t1")
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, u.ID, "t1"))
	_, err = m.Users(nil).GetByIDAndToken(ctx, u.ID, "t1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.Equal(t, 1, m.TokenCount(u.ID))

	assert.Error(t, repo.Create(ctx, "ghost", "t", now), "token for unknown user")
}

func TestTasks_ListFilterSortPaginate(t *testing.T) {
	m := NewManager()
	ctx := context.Background()
	ann := seedUser(t, m, "ann@x.com")
	bob := seedUser(t, m, "bob@x.com")

	repo := m.Tasks(nil)
	for _, d := range []string{"c", "a", "b"} {
		_, err := repo.Create(ctx, &models.Task{OwnerID: ann.ID, Description: d, Done: d == "a"})
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, &models.Task{OwnerID: bob.ID, Description: "bob's"})
	require.NoError(t, err)

	descriptions := func(tasks []*models.Task) []string {
		out := make([]string, 0, len(tasks))
		for _, t := range tasks {
			out = append(out, t.Description)
		}
		return out
	}

	all, err := repo.List(ctx, ann.ID, models.TaskListOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, descriptions(all))

	sorted, err := repo.List(ctx, ann.ID, models.TaskListOptions{SortBy: models.SortByDescription, Desc: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, descriptions(sorted))

	done := false
	page, err := repo.List(ctx, ann.ID, models.TaskListOptions{Done: &done, Limit: 1, Skip: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, descriptions(page))

	empty, err := repo.List(ctx, ann.ID, models.TaskListOptions{Skip: 10})
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = repo.List(ctx, ann.ID, models.TaskListOptions{SortBy: "owner"})
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestTasks_OwnerScoping(t *testing.T) {
	m := NewManager()
	ctx := context.Background()
	ann := seedUser(t, m, "ann@x.com")
	bob := seedUser(t, m, "bob@x.com")

	task, err := m.Tasks(nil).Create(ctx, &models.Task{OwnerID: ann.ID, Description: "mine"})
	require.NoError(t, err)

	_, err = m.Tasks(nil).GetByID(ctx, bob.ID, task.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = m.Tasks(nil).Update(ctx, &models.Task{ID: task.ID, OwnerID: bob.ID, Description: "stolen"})
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = m.Tasks(nil).Delete(ctx, bob.ID, task.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	got, err := m.Tasks(nil).GetByID(ctx, ann.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "mine", got.Description)
	assert.Equal(t, 1, m.TaskCount(ann.ID))
}

func TestAvatars_SetGetClear(t *testing.T) {
	m := NewManager()
	ctx := context.Background()
	u := seedUser(t, m, "ann@x.com")
	repo := m.Users(nil)

	_, err := repo.GetAvatar(ctx, u.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, repo.SetAvatar(ctx, u.ID, []byte{1, 2}))
	blob, err := repo.GetAvatar(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, blob)

	require.NoError(t, repo.SetAvatar(ctx, u.ID, nil))
	_, err = repo.GetAvatar(ctx, u.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	assert.ErrorIs(t, repo.SetAvatar(ctx, "ghost", []byte{1}), common.ErrorNotFound)
}
