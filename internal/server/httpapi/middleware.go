package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/server/auth"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
)

type contextKey struct{ name string }

var (
	userContextKey  = &contextKey{"user"}
	tokenContextKey = &contextKey{"token"}
)

func userFromRequest(r *http.Request) *models.User {
	u, _ := r.Context().Value(userContextKey).(*models.User)
	return u
}

func tokenFromRequest(r *http.Request) string {
	t, _ := r.Context().Value(tokenContextKey).(string)
	return t
}

// requireAuth admits a request only with a bearer token that is validly
// signed, unexpired and still in its owner's token list. All failures get
// the same 401 response.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Authorization")

		token, ok := auth.BearerToken(r.Header.Get("Authorization"))
		if !ok {
			s.writeError(w, r, http.StatusUnauthorized, "please authenticate")
			return
		}

		user, err := s.auth.Authenticate(r.Context(), token)
		if err != nil {
			s.logger.Debug(r.Context(), "authentication failed", "path", r.URL.Path, "error", err)
			s.writeError(w, r, http.StatusUnauthorized, "please authenticate")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		ctx = context.WithValue(ctx, tokenContextKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	n, err := rec.ResponseWriter.Write(b)
	rec.bytes += n
	return n, err
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, r)

		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		s.logger.Info(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"bytes", rec.bytes,
			"duration", time.Since(start),
		)
	})
}
