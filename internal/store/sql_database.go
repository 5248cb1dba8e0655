package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
	"github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/go-sync-engine/internal/config"
	"github.com/MKhiriev/go-sync-engine/internal/logger"
)

// DB wraps the database/sql connection together with the backend-specific
// constraint-error classifier. Both supported drivers ("pgx" and "sqlite3")
// go through the same repository code: the schema uses $N placeholders,
// which both accept.
type DB struct {
	*sql.DB
	driver string
	logger *logger.Logger
}

// NewConnect opens and pings the database described by cfg.
// cfg.Driver selects the backend: "pgx" for PostgreSQL, "sqlite3" for
// SQLite.
func NewConnect(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	conn, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		log.Err(err).Str("driver", cfg.Driver).Msg("error occured during database connection")
		return nil, fmt.Errorf("error occured during database connection: %w", err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(4)
	if cfg.Driver == "sqlite3" {
		// A single connection avoids SQLITE_BUSY under concurrent
		// commits and serializes the commit transaction's
		// read-check-write sequence; the pgx backend gets the same
		// guarantee from an advisory lock (see lockCommitScope).
		conn.SetMaxOpenConns(1)
	}

	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).Str("driver", cfg.Driver).Msg("error connecting database (ping)")
		return nil, err
	}
	log.Info().Str("driver", cfg.Driver).Msg("connected to database successfully")

	return &DB{DB: conn, driver: cfg.Driver, logger: log}, nil
}

// isUniqueViolation reports whether err is a unique-constraint violation on
// either backend. CommitEntity uses it to turn an insert race into a
// version conflict instead of a server error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	return false
}
