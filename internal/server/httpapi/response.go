// Package httpapi is the HTTP boundary: chi router, middleware, and handlers
// that translate between JSON requests and the services. Every response uses
// the same envelope the extension already parses.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/impulseapp/impulse-api/internal/common"
	"github.com/impulseapp/impulse-api/internal/logging"
)

// envelope is the uniform response shape: success plus either data or a
// client-safe error string, with an optional human-readable message.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func respondDataMessage(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: true, Message: message})
}

func respondError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Error: message})
}

// respondServiceError maps an error kind to its status code. Anything outside
// the taxonomy is an internal failure: it gets logged with full detail and
// reported to the client as a generic message.
func respondServiceError(w http.ResponseWriter, r *http.Request, logger logging.Logger, err error) {
	switch {
	case errors.Is(err, common.ErrValidation):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, common.ErrForbidden):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, common.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, common.ErrConflict):
		respondError(w, http.StatusConflict, err.Error())
	default:
		logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
