package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/osgirl/groupbuyer/internal/apperr"
)

// errorBody is the uniform error response: the taxonomy name, a human
// message, and per-field details for validation failures.
type errorBody struct {
	Name    string            `json:"name"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// statusFor maps a taxonomy name to its HTTP status.
func statusFor(name string) int {
	switch name {
	case "ValidationError", "InvalidRecipient", "InvalidSenderOrReceiver":
		return http.StatusBadRequest
	case "NotLogged":
		return http.StatusUnauthorized
	case "NotAuthorized":
		return http.StatusForbidden
	case "NotFound":
		return http.StatusNotFound
	case "DuplicateError", "InvalidStateTransition", "LastManagerError":
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encoding failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	name := apperr.Name(err)
	status := statusFor(name)

	body := errorBody{Name: name, Message: err.Error()}
	var verr *apperr.ValidationError
	if errors.As(err, &verr) {
		body.Errors = verr.Fields
	}
	if status == http.StatusInternalServerError {
		// Internal details stay in the log, not the response.
		slog.Error("Request errored", "error", err)
		body.Message = "internal error"
	}

	writeJSON(w, status, body)
}

// decode reads the request body into v, surfacing malformed JSON as a
// validation error.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Validation("body", "malformed JSON: "+err.Error())
	}
	return nil
}
