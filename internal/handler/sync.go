package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/internal/service"
	"github.com/MKhiriev/go-sync-engine/internal/utils"
	"github.com/MKhiriev/go-sync-engine/models"
)

// getUpdates handles POST /api/sync/getupdates.
func (h *Handler) getUpdates(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	accountID := utils.AccountIDFromContext(r.Context())

	var req models.GetUpdatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("failed to decode get updates request")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.service.GetUpdates(r.Context(), accountID, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, resp)
}

// commit handles POST /api/sync/commit.
func (h *Handler) commit(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	accountID := utils.AccountIDFromContext(r.Context())

	var req models.CommitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("failed to decode commit request")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.service.Commit(r.Context(), accountID, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, resp)
}

// writeServiceError maps service-level errors to HTTP statuses: request
// malformations are the client's fault (400), everything else is a server
// error (500).
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)

	switch {
	case errors.Is(err, service.ErrMalformedMarker), errors.Is(err, service.ErrNoModelType):
		log.Err(err).Msg("rejected malformed sync request")
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Err(err).Msg("sync request failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.FromRequest(r).Err(err).Msg("failed to encode response")
	}
}
