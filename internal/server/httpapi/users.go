package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/gophtasks/internal/server/avatars"
	"github.com/dmitrijs2005/gophtasks/internal/server/services"
)

// multipartOverhead leaves room for boundaries and part headers on top of
// the avatar size limit.
const multipartOverhead = 64 << 10

func (s *Server) registerHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Age      *int   `json:"age"`
	}
	if err := s.readJSON(w, r, &input); err != nil {
		s.badRequest(w, r, err)
		return
	}

	user, token, err := s.users.Register(r.Context(), services.RegisterInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Age:      input.Age,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusCreated, envelope{"user": user.Public(), "token": token})
}

func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := s.readJSON(w, r, &input); err != nil {
		s.badRequest(w, r, err)
		return
	}

	user, token, err := s.users.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, envelope{"user": user.Public(), "token": token})
}

func (s *Server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.users.Logout(r.Context(), userFromRequest(r), tokenFromRequest(r)); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) logoutAllHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.users.LogoutAll(r.Context(), userFromRequest(r)); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) getMeHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, userFromRequest(r).Public())
}

func (s *Server) updateMeHandler(w http.ResponseWriter, r *http.Request) {
	var fields map[string]any
	if err := s.readJSON(w, r, &fields); err != nil {
		s.badRequest(w, r, err)
		return
	}

	user, err := s.users.Update(r.Context(), userFromRequest(r), fields)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, user.Public())
}

func (s *Server) deleteMeHandler(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.Delete(r.Context(), userFromRequest(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, user.Public())
}

func (s *Server) getUserHandler(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, user.Public())
}

func (s *Server) uploadAvatarHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, avatars.MaxUploadSize+multipartOverhead)

	file, header, err := r.FormFile(avatars.FormField)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			s.writeError(w, r, http.StatusBadRequest, envelope{"avatar": "file is too large"})
			return
		}
		s.writeError(w, r, http.StatusBadRequest, envelope{"avatar": "must be provided"})
		return
	}
	defer file.Close()

	if err := avatars.CheckUpload(header.Filename, header.Size); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	raw, err := io.ReadAll(io.LimitReader(file, avatars.MaxUploadSize+1))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if err := avatars.CheckUpload(header.Filename, int64(len(raw))); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	blob, err := avatars.Normalize(raw)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	if err := s.users.SetAvatar(r.Context(), userFromRequest(r), blob); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) deleteAvatarHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.users.ClearAvatar(r.Context(), userFromRequest(r)); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) getAvatarHandler(w http.ResponseWriter, r *http.Request) {
	blob, err := s.users.Avatar(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", avatars.ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(blob)
}
