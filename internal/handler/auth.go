package handler

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/internal/utils"
)

type tokenRequest struct {
	AccountID string `json:"account_id"`
	Secret    string `json:"secret"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// issueToken handles POST /api/auth/token. It checks the shared account
// secret and returns a signed JWT for the requested account id.
//
// Key distribution and real account management are collaborator concerns;
// this endpoint exists so the reference deployment is usable end to end.
func (h *Handler) issueToken(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("failed to decode token request")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.AccountID == "" {
		http.Error(w, "account_id is required", http.StatusBadRequest)
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Secret), []byte(h.app.AccountSecret)) != 1 {
		log.Err(ErrWrongSecret).Str("account_id", req.AccountID).Send()
		http.Error(w, ErrWrongSecret.Error(), http.StatusUnauthorized)
		return
	}

	token, err := utils.GenerateJWTToken(h.app.TokenIssuer, req.AccountID, h.app.TokenDuration, h.app.TokenSignKey)
	if err != nil {
		log.Err(err).Msg("failed to sign token")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(tokenResponse{Token: token}); err != nil {
		log.Err(err).Msg("failed to encode token response")
	}
}
