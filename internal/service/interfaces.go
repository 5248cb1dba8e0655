// Package service contains the server-side business logic of the sync
// protocol: incremental change queries keyed by an opaque progress-marker
// cookie, and versioned commits with per-entity conflict verdicts.
package service

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

import (
	"context"

	"github.com/MKhiriev/go-sync-engine/models"
)

// SyncService is the transport-facing boundary of the sync server.
type SyncService interface {
	// GetUpdates returns every entity of the requested type changed since
	// the request's progress marker, together with a fresh marker and the
	// server's current data type context. A marker token it cannot decode
	// fails with ErrMalformedMarker.
	GetUpdates(ctx context.Context, accountID string, req models.GetUpdatesRequest) (models.GetUpdatesResponse, error)

	// Commit applies the contribution entity by entity and returns one
	// verdict per entity, in request order. Per-entity conflicts and
	// failures never abort the rest of the batch.
	Commit(ctx context.Context, accountID string, req models.CommitRequest) (models.CommitResponse, error)
}
