package memory

import (
	"context"
	"errors"
	"time"
)

var errRestrict = errors.New("db error: foreign key violation")

type tokenRepo struct {
	st *state
}

func (r *tokenRepo) Create(ctx context.Context, userID string, token string, expiresAt time.Time) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	if _, ok := r.st.users[userID]; !ok {
		return errRestrict
	}
	r.st.tokens[userID] = append(r.st.tokens[userID], tokenEntry{token: token, expiresAt: expiresAt})
	return nil
}

func (r *tokenRepo) filter(userID string, drop func(tokenEntry) bool) {
	kept := r.st.tokens[userID][:0]
	for _, e := range r.st.tokens[userID] {
		if !drop(e) {
			kept = append(kept, e)
		}
	}
	if len(kept) == 0 {
		delete(r.st.tokens, userID)
		return
	}
	r.st.tokens[userID] = kept
}

func (r *tokenRepo) Delete(ctx context.Context, userID string, token string) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	r.filter(userID, func(e tokenEntry) bool { return e.token == token })
	return nil
}

func (r *tokenRepo) DeleteAll(ctx context.Context, userID string) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	delete(r.st.tokens, userID)
	return nil
}

func (r *tokenRepo) DeleteExpired(ctx context.Context, userID string, now time.Time) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	r.filter(userID, func(e tokenEntry) bool { return e.expiresAt.Before(now) })
	return nil
}

func (r *tokenRepo) List(ctx context.Context, userID string) ([]string, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	var out []string
	for _, e := range r.st.tokens[userID] {
		out = append(out, e.token)
	}
	return out, nil
}
