package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/gophtasks/internal/server/services"
)

func (s *Server) createTaskHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Description *string `json:"description"`
		Task        *string `json:"task"`
		Done        bool    `json:"done"`
	}
	if err := s.readJSON(w, r, &input); err != nil {
		s.badRequest(w, r, err)
		return
	}

	in := services.NewTask{Done: input.Done}
	switch {
	case input.Description != nil:
		in.Description = *input.Description
	case input.Task != nil:
		in.Description = *input.Task
	}

	task, err := s.tasks.Create(r.Context(), userFromRequest(r).ID, in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusCreated, task)
}

func (s *Server) listTasksHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	q := services.ListQuery{
		SortBy: qs.Get("sortBy"),
		Limit:  qs.Get("limit"),
		Skip:   qs.Get("skip"),
	}
	if qs.Has("done") {
		done := qs.Get("done")
		q.Done = &done
	}

	opts, err := services.ParseListOptions(q)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	tasks, err := s.tasks.List(r.Context(), userFromRequest(r).ID, opts)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, tasks)
}

func (s *Server) getTaskHandler(w http.ResponseWriter, r *http.Request) {
	task, err := s.tasks.Get(r.Context(), userFromRequest(r).ID, r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, task)
}

func (s *Server) updateTaskHandler(w http.ResponseWriter, r *http.Request) {
	var fields map[string]any
	if err := s.readJSON(w, r, &fields); err != nil {
		s.badRequest(w, r, err)
		return
	}

	task, err := s.tasks.Update(r.Context(), userFromRequest(r).ID, r.PathValue("id"), fields)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, task)
}

func (s *Server) deleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	task, err := s.tasks.Delete(r.Context(), userFromRequest(r).ID, r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, task)
}
