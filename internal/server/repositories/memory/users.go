package memory

import (
	"context"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/google/uuid"
)

type userRepo struct {
	st *state
}

func cloneUser(u models.User) *models.User {
	c := u
	c.PasswordHash = append([]byte(nil), u.PasswordHash...)
	if u.Age != nil {
		age := *u.Age
		c.Age = &age
	}
	return &c
}

func (r *userRepo) emailTaken(email, exceptID string) bool {
	for id, u := range r.st.users {
		if u.Email == email && id != exceptID {
			return true
		}
	}
	return false
}

func (r *userRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	if r.emailTaken(user.Email, "") {
		return nil, common.ErrorConflict
	}
	user.ID = uuid.NewString()
	user.CreatedAt = r.st.tick()
	user.UpdatedAt = user.CreatedAt
	r.st.users[user.ID] = *cloneUser(*user)
	return user, nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	u, ok := r.st.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneUser(u), nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	for _, u := range r.st.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *userRepo) GetByIDAndToken(ctx context.Context, id string, token string) (*models.User, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	u, ok := r.st.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	for _, e := range r.st.tokens[id] {
		if e.token == token {
			return cloneUser(u), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *userRepo) Update(ctx context.Context, user *models.User) (*models.User, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	cur, ok := r.st.users[user.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if r.emailTaken(user.Email, user.ID) {
		return nil, common.ErrorConflict
	}
	user.CreatedAt = cur.CreatedAt
	user.UpdatedAt = r.st.tick()
	r.st.users[user.ID] = *cloneUser(*user)
	return user, nil
}

// Delete mirrors the RESTRICT foreign keys of the SQL schema: a user that
// still owns tasks or tokens cannot be removed.
func (r *userRepo) Delete(ctx context.Context, id string) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	if _, ok := r.st.users[id]; !ok {
		return common.ErrorNotFound
	}
	if len(r.st.tokens[id]) > 0 {
		return errRestrict
	}
	for _, t := range r.st.tasks {
		if t.OwnerID == id {
			return errRestrict
		}
	}
	delete(r.st.users, id)
	delete(r.st.avatars, id)
	return nil
}

func (r *userRepo) SetAvatar(ctx context.Context, id string, blob []byte) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	if _, ok := r.st.users[id]; !ok {
		return common.ErrorNotFound
	}
	if blob == nil {
		delete(r.st.avatars, id)
		return nil
	}
	r.st.avatars[id] = append([]byte(nil), blob...)
	return nil
}

func (r *userRepo) GetAvatar(ctx context.Context, id string) ([]byte, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	blob, ok := r.st.avatars[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return append([]byte(nil), blob...), nil
}
