package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osgirl/groupbuyer/internal/middleware"
	"github.com/osgirl/groupbuyer/internal/service"
)

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var input service.CreateItemInput
	if err := decode(r, &input); err != nil {
		writeError(w, err)
		return
	}

	view, err := s.items.Create(r.Context(), middleware.CurrentUser(r.Context()), chi.URLParam(r, "id"), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var input service.UpdateItemInput
	if err := decode(r, &input); err != nil {
		writeError(w, err)
		return
	}

	view, err := s.items.Update(r.Context(), middleware.CurrentUser(r.Context()), chi.URLParam(r, "itemID"), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	views, err := s.items.List(r.Context(), middleware.CurrentUser(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}
