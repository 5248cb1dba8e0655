package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/models"
)

// psql builds queries with $N placeholders, which both the pgx and sqlite3
// drivers accept.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// entityRepository is the SQL-backed implementation of [EntityRepository].
// All writes go through a transaction so the base-version check and the
// version assignment are atomic.
type entityRepository struct {
	*DB
	logger *logger.Logger
}

// NewEntityRepository constructs an [EntityRepository] backed by the
// provided database connection and logger.
func NewEntityRepository(db *DB, log *logger.Logger) EntityRepository {
	return &entityRepository{DB: db, logger: log}
}

// ChangesSince implements [EntityRepository]. Tombstones are returned like
// any other change so clients learn about deletions.
func (r *entityRepository) ChangesSince(
	ctx context.Context,
	accountID string,
	modelType models.ModelType,
	sinceVersion int64,
) ([]models.SyncEntity, int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := psql.
		Select("client_tag", "server_id", "version", "deleted", "specifics", "unknown").
		From("entities").
		Where(sq.Eq{"account_id": accountID, "model_type": modelType.String()}).
		Where(sq.Gt{"version": sinceVersion}).
		OrderBy("version ASC").
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build changes query: %w", err)
	}

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("account_id", accountID).Str("model_type", modelType.String()).
			Msg("failed to query changed entities")
		return nil, 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	entities := make([]models.SyncEntity, 0, 50)
	watermark := sinceVersion

	for rows.Next() {
		var entity models.SyncEntity
		var rawSpecifics, rawUnknown []byte
		if err := rows.Scan(&entity.ClientTag, &entity.ServerID, &entity.Version,
			&entity.Deleted, &rawSpecifics, &rawUnknown); err != nil {
			return nil, 0, fmt.Errorf("scan entity row: %w", err)
		}

		if len(rawSpecifics) > 0 {
			if err := json.Unmarshal(rawSpecifics, &entity.Specifics); err != nil {
				return nil, 0, fmt.Errorf("decode stored specifics: %w", err)
			}
		}
		entity.Unknown = json.RawMessage(rawUnknown)

		if entity.Version > watermark {
			watermark = entity.Version
		}
		entities = append(entities, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return entities, watermark, nil
}

// CommitEntity implements [EntityRepository]. The new version is allocated
// from the per-type sequence (MAX(version)+1 within the account and type) so
// versions order all changes of a type, which is what the GetUpdates
// watermark relies on.
func (r *entityRepository) CommitEntity(
	ctx context.Context,
	accountID string,
	modelType models.ModelType,
	entity models.SyncEntity,
) (models.SyncEntity, error) {
	log := logger.FromContext(ctx)

	tx, err := r.BeginTx(ctx, nil)
	if err != nil {
		return models.SyncEntity{}, fmt.Errorf("begin commit tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	if err = r.lockCommitScope(ctx, tx, accountID, modelType); err != nil {
		return models.SyncEntity{}, err
	}

	currentVersion, serverID, exists, err := r.currentRow(ctx, tx, accountID, modelType, entity.ClientTag)
	if err != nil {
		return models.SyncEntity{}, err
	}

	// The entity's Version field carries the client's base version.
	if exists && entity.Version != currentVersion {
		return models.SyncEntity{}, fmt.Errorf("%w: base %d, stored %d",
			ErrVersionConflict, entity.Version, currentVersion)
	}
	if !exists && entity.Version != 0 {
		return models.SyncEntity{}, fmt.Errorf("%w: base %d for unknown entity",
			ErrVersionConflict, entity.Version)
	}

	newVersion, err := r.nextVersion(ctx, tx, accountID, modelType)
	if err != nil {
		return models.SyncEntity{}, err
	}
	if !exists {
		serverID = uuid.NewString()
	}

	rawSpecifics, err := json.Marshal(entity.Specifics)
	if err != nil {
		return models.SyncEntity{}, fmt.Errorf("encode specifics: %w", err)
	}

	var builder sq.Sqlizer
	if exists {
		builder = psql.Update("entities").
			Set("version", newVersion).
			Set("deleted", entity.Deleted).
			Set("specifics", rawSpecifics).
			Set("unknown", []byte(entity.Unknown)).
			Where(sq.Eq{
				"account_id": accountID,
				"model_type": modelType.String(),
				"client_tag": entity.ClientTag,
			})
	} else {
		builder = psql.Insert("entities").
			Columns("account_id", "model_type", "client_tag", "server_id",
				"version", "deleted", "specifics", "unknown").
			Values(accountID, modelType.String(), entity.ClientTag, serverID,
				newVersion, entity.Deleted, rawSpecifics, []byte(entity.Unknown))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return models.SyncEntity{}, fmt.Errorf("build commit query: %w", err)
	}

	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			// Two clients raced on the same fresh client tag; the
			// loser retries with the winner's version as base.
			return models.SyncEntity{}, fmt.Errorf("%w: concurrent creation", ErrVersionConflict)
		}
		log.Err(err).Str("account_id", accountID).Str("client_tag", entity.ClientTag).
			Msg("failed to write entity")
		return models.SyncEntity{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if err = tx.Commit(); err != nil {
		return models.SyncEntity{}, fmt.Errorf("commit tx: %w", err)
	}

	entity.ServerID = serverID
	entity.Version = newVersion
	return entity, nil
}

// lockCommitScope serializes commit transactions for one account and model
// type. Under Postgres read committed, two concurrent commits would both
// read the same MAX(version) and allocate duplicate versions, which breaks
// the GetUpdates watermark; the transaction-scoped advisory lock makes the
// read-check-write sequence single-file per scope. The SQLite backend runs
// on a single connection (see NewConnect), which already serializes commits.
func (r *entityRepository) lockCommitScope(
	ctx context.Context,
	tx *sql.Tx,
	accountID string,
	modelType models.ModelType,
) error {
	if r.driver != "pgx" {
		return nil
	}

	_, err := tx.ExecContext(ctx,
		"SELECT pg_advisory_xact_lock(hashtext($1))",
		accountID+"/"+modelType.String())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return nil
}

func (r *entityRepository) currentRow(
	ctx context.Context,
	tx *sql.Tx,
	accountID string,
	modelType models.ModelType,
	clientTag string,
) (version int64, serverID string, exists bool, err error) {
	query, args, err := psql.
		Select("version", "server_id").
		From("entities").
		Where(sq.Eq{
			"account_id": accountID,
			"model_type": modelType.String(),
			"client_tag": clientTag,
		}).
		ToSql()
	if err != nil {
		return 0, "", false, fmt.Errorf("build lookup query: %w", err)
	}

	err = tx.QueryRowContext(ctx, query, args...).Scan(&version, &serverID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, "", false, nil
	case err != nil:
		return 0, "", false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	default:
		return version, serverID, true, nil
	}
}

func (r *entityRepository) nextVersion(
	ctx context.Context,
	tx *sql.Tx,
	accountID string,
	modelType models.ModelType,
) (int64, error) {
	query, args, err := psql.
		Select("COALESCE(MAX(version), 0)").
		From("entities").
		Where(sq.Eq{"account_id": accountID, "model_type": modelType.String()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build version query: %w", err)
	}

	var maxVersion int64
	if err = tx.QueryRowContext(ctx, query, args...).Scan(&maxVersion); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return maxVersion + 1, nil
}
