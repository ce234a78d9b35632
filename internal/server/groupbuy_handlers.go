package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osgirl/groupbuyer/internal/middleware"
	"github.com/osgirl/groupbuyer/internal/service"
)

func (s *Server) handleListGroupbuys(w http.ResponseWriter, r *http.Request) {
	views, err := s.groupbuys.List(r.Context(), middleware.CurrentUser(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateGroupbuy(w http.ResponseWriter, r *http.Request) {
	var input service.CreateGroupbuyInput
	if err := decode(r, &input); err != nil {
		writeError(w, err)
		return
	}

	view, err := s.groupbuys.Create(r.Context(), middleware.CurrentUser(r.Context()), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleGetGroupbuy(w http.ResponseWriter, r *http.Request) {
	view, err := s.groupbuys.Get(r.Context(), middleware.CurrentUser(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleUpdateGroupbuy(w http.ResponseWriter, r *http.Request) {
	var input service.UpdateGroupbuyInput
	if err := decode(r, &input); err != nil {
		writeError(w, err)
		return
	}

	view, err := s.groupbuys.Update(r.Context(), middleware.CurrentUser(r.Context()), chi.URLParam(r, "id"), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleTransition(w http.ResponseWriter, r *http.Request) {
	view, err := s.groupbuys.Transition(
		r.Context(),
		middleware.CurrentUser(r.Context()),
		chi.URLParam(r, "id"),
		chi.URLParam(r, "status"),
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type membershipRequest struct {
	UserID string `json:"userId"`
}

type membershipOp func(r *http.Request, groupbuyID, userID string) (*service.GroupbuyView, error)

// handleMembership factors the four manager/member mutations: POST
// bodies carry the target user, DELETE routes carry it in the path.
func (s *Server) handleMembership(w http.ResponseWriter, r *http.Request, op membershipOp) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		var req membershipRequest
		if err := decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
		userID = req.UserID
	}

	view, err := op(r, chi.URLParam(r, "id"), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleAddManager(w http.ResponseWriter, r *http.Request) {
	s.handleMembership(w, r, func(r *http.Request, id, userID string) (*service.GroupbuyView, error) {
		return s.groupbuys.AddManager(r.Context(), middleware.CurrentUser(r.Context()), id, userID)
	})
}

func (s *Server) handleRemoveManager(w http.ResponseWriter, r *http.Request) {
	s.handleMembership(w, r, func(r *http.Request, id, userID string) (*service.GroupbuyView, error) {
		return s.groupbuys.RemoveManager(r.Context(), middleware.CurrentUser(r.Context()), id, userID)
	})
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	s.handleMembership(w, r, func(r *http.Request, id, userID string) (*service.GroupbuyView, error) {
		return s.groupbuys.AddMember(r.Context(), middleware.CurrentUser(r.Context()), id, userID)
	})
}

func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	s.handleMembership(w, r, func(r *http.Request, id, userID string) (*service.GroupbuyView, error) {
		return s.groupbuys.RemoveMember(r.Context(), middleware.CurrentUser(r.Context()), id, userID)
	})
}

type addUpdateRequest struct {
	TextInfo string `json:"textInfo"`
}

func (s *Server) handleAddUpdate(w http.ResponseWriter, r *http.Request) {
	var req addUpdateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	view, err := s.groupbuys.AddUpdate(r.Context(), middleware.CurrentUser(r.Context()), chi.URLParam(r, "id"), req.TextInfo)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}
