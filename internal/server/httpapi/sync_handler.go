package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/impulseapp/impulse-api/internal/logging"
	"github.com/impulseapp/impulse-api/internal/server/models"
)

// SyncService is the surface of services.SyncService the handlers need.
type SyncService interface {
	Pull(ctx context.Context, userID string) (*models.SyncData, error)
	Push(ctx context.Context, userID string, data models.SyncData) error
}

type SyncHandler struct {
	svc    SyncService
	logger logging.Logger
}

func NewSyncHandler(svc SyncService, logger logging.Logger) *SyncHandler {
	return &SyncHandler{svc: svc, logger: logger}
}

// Pull handles GET /api/sync/pull. Requires auth.
func (h *SyncHandler) Pull(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	data, err := h.svc.Pull(r.Context(), claims.UserID)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}
	respondData(w, http.StatusOK, data)
}

// Push handles POST /api/sync/push. Requires auth.
func (h *SyncHandler) Push(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var data models.SyncData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		if errors.Is(err, io.EOF) {
			respondError(w, http.StatusBadRequest, "No data provided")
			return
		}
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.svc.Push(r.Context(), claims.UserID, data); err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}
	respondMessage(w, http.StatusOK, "Data synchronized successfully")
}
