// Package handler implements the HTTP transport layer of the sync server:
// routing, JWT authentication, request-scoped logging, and the sync
// endpoints themselves. Requests are decoded, authenticated, and forwarded
// to the service layer; wire payloads are passed through without
// reinterpretation.
package handler

import (
	"fmt"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-sync-engine/internal/config"
	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/internal/service"
)

// Handler is the root HTTP transport handler. One instance is created at
// startup and shared by the HTTP server.
type Handler struct {
	service service.SyncService
	app     config.App
	logger  *logger.Logger
}

// NewHandler constructs a [Handler] over the sync service. The app config
// supplies the token sign key, issuer, duration, and the shared account
// secret; a config that cannot issue or verify tokens is rejected at
// startup rather than failing on the first request.
func NewHandler(syncService service.SyncService, app config.App, log *logger.Logger) (*Handler, error) {
	if app.TokenSignKey == "" {
		return nil, fmt.Errorf("%w: token sign key is required", config.ErrInvalidAppConfigs)
	}
	if app.AccountSecret == "" {
		return nil, fmt.Errorf("%w: account secret is required", config.ErrInvalidAppConfigs)
	}
	if app.TokenDuration <= 0 {
		return nil, fmt.Errorf("%w: token duration must be positive", config.ErrInvalidAppConfigs)
	}

	return &Handler{service: syncService, app: app, logger: log}, nil
}

// Init builds the route tree. The sync endpoints sit behind the JWT auth
// middleware; the token endpoint does not.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(h.withLogging)

	router.Post("/api/auth/token", h.issueToken)

	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Post("/api/sync/getupdates", h.getUpdates)
		r.Post("/api/sync/commit", h.commit)
	})

	return router
}
