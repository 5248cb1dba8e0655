// Package adapter contains the client-side transport to the sync server.
// The engine never talks to the network itself; the scheduler job calls the
// adapter between tasks posted onto the sync loop.
package adapter

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

import (
	"context"

	"github.com/MKhiriev/go-sync-engine/models"
)

// ServerAdapter is the wire boundary of the sync engine. Implementations
// must round-trip the opaque fields of the DTOs (progress-marker tokens,
// type contexts, unknown entity fields) without reinterpreting them.
type ServerAdapter interface {
	// Authenticate obtains a bearer token for the account and stores it
	// for all subsequent requests.
	Authenticate(ctx context.Context, accountID, secret string) error

	// SetToken stores a previously obtained bearer token.
	SetToken(token string)

	// GetUpdates fetches every entity of the requested type changed since
	// the request's progress marker.
	GetUpdates(ctx context.Context, req models.GetUpdatesRequest) (models.GetUpdatesResponse, error)

	// Commit ships one commit contribution and returns the per-entity
	// verdicts in request order.
	Commit(ctx context.Context, req models.CommitRequest) (models.CommitResponse, error)
}
