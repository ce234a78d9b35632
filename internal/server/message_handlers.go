package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osgirl/groupbuyer/internal/middleware"
)

type sendMessageRequest struct {
	Text     string `json:"text"`
	ToUserID string `json:"toUserId"`
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	view, err := s.messages.Send(
		r.Context(),
		middleware.CurrentUser(r.Context()),
		chi.URLParam(r, "id"),
		req.Text,
		req.ToUserID,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleInbox(w http.ResponseWriter, r *http.Request) {
	views, err := s.messages.Inbox(r.Context(), middleware.CurrentUser(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	count, err := s.messages.MarkRead(r.Context(), middleware.CurrentUser(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"marked": count})
}
