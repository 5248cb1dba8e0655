// Package store contains the server-side persistence of sync entities:
// one versioned row per (account, model type, client tag), with a
// per-type monotonically increasing version sequence that doubles as the
// GetUpdates watermark.
package store

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

import (
	"context"

	"github.com/MKhiriev/go-sync-engine/models"
)

// EntityRepository is the storage boundary of the sync server.
type EntityRepository interface {
	// ChangesSince returns every entity of the given type changed after
	// sinceVersion, ordered by ascending version, together with the
	// current high-water version for the type (equal to sinceVersion when
	// nothing changed).
	ChangesSince(ctx context.Context, accountID string, modelType models.ModelType, sinceVersion int64) ([]models.SyncEntity, int64, error)

	// CommitEntity applies one versioned write. The entity's Version
	// field carries the base version the client computed the change
	// against (0 for a creation). A stale base version returns
	// ErrVersionConflict and writes nothing. On success the stored entity
	// is returned with its server id and newly assigned version.
	CommitEntity(ctx context.Context, accountID string, modelType models.ModelType, entity models.SyncEntity) (models.SyncEntity, error)
}
