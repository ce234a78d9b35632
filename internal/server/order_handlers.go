package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osgirl/groupbuyer/internal/groupbuy"
	"github.com/osgirl/groupbuyer/internal/middleware"
)

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	view, err := s.orders.Get(r.Context(), middleware.CurrentUser(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleAddRequest(w http.ResponseWriter, r *http.Request) {
	var payload groupbuy.RequestPayload
	if err := decode(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	view, err := s.orders.AddRequest(r.Context(), middleware.CurrentUser(r.Context()), chi.URLParam(r, "id"), payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleRemoveRequest(w http.ResponseWriter, r *http.Request) {
	view, err := s.orders.RemoveRequest(
		r.Context(),
		middleware.CurrentUser(r.Context()),
		chi.URLParam(r, "id"),
		chi.URLParam(r, "requestID"),
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleCalculateOrder(w http.ResponseWriter, r *http.Request) {
	view, err := s.orders.Calculate(r.Context(), middleware.CurrentUser(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	views, err := s.orders.ListByGroupbuy(r.Context(), middleware.CurrentUser(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}
