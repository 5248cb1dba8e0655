package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/models"
)

const (
	testAccount = "acc-1"
	testType    = models.ModelType("bookmarks")
)

func newTestEntityRepo(t *testing.T) (*entityRepository, sqlmock.Sqlmock, *sql.DB) {
	return newTestEntityRepoForDriver(t, "pgx")
}

func newTestEntityRepoForDriver(t *testing.T, driver string) (*entityRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	l := logger.Nop()
	repo := &entityRepository{
		DB:     &DB{DB: db, driver: driver, logger: l},
		logger: l,
	}
	return repo, mock, db
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

// expectCommitLock matches the per-(account, type) advisory lock the pgx
// backend takes at the start of every commit transaction.
func expectCommitLock(mock sqlmock.Sqlmock) {
	mock.ExpectExec("SELECT pg_advisory_xact_lock").
		WithArgs(testAccount + "/" + testType.String()).
		WillReturnResult(sqlmock.NewResult(0, 0))
}

// ── ChangesSince ─────────────────────────────────────────────────────────────

func TestChangesSince_ReturnsOrderedChangesAndWatermark(t *testing.T) {
	repo, mock, db := newTestEntityRepo(t)
	defer db.Close()

	rows := sqlmock.
		NewRows([]string{"client_tag", "server_id", "version", "deleted", "specifics", "unknown"}).
		AddRow("a", "srv-a", 3, false, []byte(`{"value":{"x":1}}`), []byte(nil)).
		AddRow("b", "srv-b", 5, true, []byte(nil), []byte(`{"future":true}`))

	mock.ExpectQuery("SELECT client_tag, server_id, version, deleted, specifics, unknown FROM entities").
		WithArgs(testAccount, testType.String(), int64(2)).
		WillReturnRows(rows)

	entities, watermark, err := repo.ChangesSince(context.Background(), testAccount, testType, 2)
	require.NoError(t, err)
	require.Len(t, entities, 2)
	assert.Equal(t, int64(5), watermark)

	assert.Equal(t, "a", entities[0].ClientTag)
	assert.JSONEq(t, `{"x":1}`, string(entities[0].Specifics.Value))
	assert.True(t, entities[1].Deleted)
	assert.JSONEq(t, `{"future":true}`, string(entities[1].Unknown))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChangesSince_NoChangesKeepsWatermark(t *testing.T) {
	repo, mock, db := newTestEntityRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT client_tag, server_id, version, deleted, specifics, unknown FROM entities").
		WithArgs(testAccount, testType.String(), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"client_tag", "server_id", "version", "deleted", "specifics", "unknown"}))

	entities, watermark, err := repo.ChangesSince(context.Background(), testAccount, testType, 7)
	require.NoError(t, err)
	assert.Empty(t, entities)
	assert.Equal(t, int64(7), watermark)
}

func TestChangesSince_QueryError(t *testing.T) {
	repo, mock, db := newTestEntityRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT client_tag, server_id, version, deleted, specifics, unknown FROM entities").
		WillReturnError(errors.New("db gone"))

	_, _, err := repo.ChangesSince(context.Background(), testAccount, testType, 0)
	require.ErrorIs(t, err, ErrExecutingQuery)
}

// ── CommitEntity ─────────────────────────────────────────────────────────────

func TestCommitEntity_CreatesNewEntity(t *testing.T) {
	repo, mock, db := newTestEntityRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	expectCommitLock(mock)
	// no current row for this tag
	mock.ExpectQuery("SELECT version, server_id FROM entities").
		WithArgs(testAccount, "a", testType.String()).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`SELECT COALESCE\(MAX\(version\), 0\) FROM entities`).
		WithArgs(testAccount, testType.String()).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(4))
	mock.ExpectExec("INSERT INTO entities").
		WithArgs(testAccount, testType.String(), "a", sqlmock.AnyArg(),
			int64(5), false, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	committed, err := repo.CommitEntity(context.Background(), testAccount, testType, models.SyncEntity{
		ClientTag: "a",
		Version:   0,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), committed.Version)
	assert.NotEmpty(t, committed.ServerID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCommitEntity_UpdatesExistingEntity(t *testing.T) {
	repo, mock, db := newTestEntityRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	expectCommitLock(mock)
	mock.ExpectQuery("SELECT version, server_id FROM entities").
		WithArgs(testAccount, "a", testType.String()).
		WillReturnRows(sqlmock.NewRows([]string{"version", "server_id"}).AddRow(3, "srv-a"))
	mock.ExpectQuery(`SELECT COALESCE\(MAX\(version\), 0\) FROM entities`).
		WithArgs(testAccount, testType.String()).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(6))
	mock.ExpectExec("UPDATE entities").
		WithArgs(int64(7), false, sqlmock.AnyArg(), sqlmock.AnyArg(),
			testAccount, "a", testType.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	committed, err := repo.CommitEntity(context.Background(), testAccount, testType, models.SyncEntity{
		ClientTag: "a",
		Version:   3,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), committed.Version)
	assert.Equal(t, "srv-a", committed.ServerID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCommitEntity_StaleBaseVersionConflicts(t *testing.T) {
	repo, mock, db := newTestEntityRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	expectCommitLock(mock)
	mock.ExpectQuery("SELECT version, server_id FROM entities").
		WithArgs(testAccount, "a", testType.String()).
		WillReturnRows(sqlmock.NewRows([]string{"version", "server_id"}).AddRow(5, "srv-a"))
	mock.ExpectRollback()

	_, err := repo.CommitEntity(context.Background(), testAccount, testType, models.SyncEntity{
		ClientTag: "a",
		Version:   3, // another client already committed v4 and v5
	})
	require.ErrorIs(t, err, ErrVersionConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCommitEntity_NonZeroBaseForUnknownEntityConflicts(t *testing.T) {
	repo, mock, db := newTestEntityRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	expectCommitLock(mock)
	mock.ExpectQuery("SELECT version, server_id FROM entities").
		WithArgs(testAccount, "a", testType.String()).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.CommitEntity(context.Background(), testAccount, testType, models.SyncEntity{
		ClientTag: "a",
		Version:   2,
	})
	require.ErrorIs(t, err, ErrVersionConflict)
}

func TestCommitEntity_InsertRaceBecomesConflict(t *testing.T) {
	repo, mock, db := newTestEntityRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	expectCommitLock(mock)
	mock.ExpectQuery("SELECT version, server_id FROM entities").
		WithArgs(testAccount, "a", testType.String()).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`SELECT COALESCE\(MAX\(version\), 0\) FROM entities`).
		WithArgs(testAccount, testType.String()).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))
	mock.ExpectExec("INSERT INTO entities").
		WillReturnError(pgError(pgerrcode.UniqueViolation))
	mock.ExpectRollback()

	_, err := repo.CommitEntity(context.Background(), testAccount, testType, models.SyncEntity{
		ClientTag: "a",
		Version:   0,
	})
	require.ErrorIs(t, err, ErrVersionConflict)
}

func TestCommitEntity_UnexpectedWriteError(t *testing.T) {
	repo, mock, db := newTestEntityRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	expectCommitLock(mock)
	mock.ExpectQuery("SELECT version, server_id FROM entities").
		WithArgs(testAccount, "a", testType.String()).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`SELECT COALESCE\(MAX\(version\), 0\) FROM entities`).
		WithArgs(testAccount, testType.String()).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))
	mock.ExpectExec("INSERT INTO entities").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := repo.CommitEntity(context.Background(), testAccount, testType, models.SyncEntity{
		ClientTag: "a",
		Version:   0,
	})
	require.ErrorIs(t, err, ErrExecutingQuery)
	require.NotErrorIs(t, err, ErrVersionConflict)
}

func TestCommitEntity_RacingCommitSurfacesAsConflict(t *testing.T) {
	repo, mock, db := newTestEntityRepo(t)
	defer db.Close()

	// A concurrent commit for the same tag held the advisory lock and
	// wrote version 6. Once the lock is granted, this transaction reads
	// the fresh row, so the stale base fails the version check instead
	// of silently overwriting the racer's write.
	mock.ExpectBegin()
	expectCommitLock(mock)
	mock.ExpectQuery("SELECT version, server_id FROM entities").
		WithArgs(testAccount, "a", testType.String()).
		WillReturnRows(sqlmock.NewRows([]string{"version", "server_id"}).AddRow(6, "srv-a"))
	mock.ExpectRollback()

	_, err := repo.CommitEntity(context.Background(), testAccount, testType, models.SyncEntity{
		ClientTag: "a",
		Version:   5,
	})
	require.ErrorIs(t, err, ErrVersionConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCommitEntity_LockFailureAborts(t *testing.T) {
	repo, mock, db := newTestEntityRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := repo.CommitEntity(context.Background(), testAccount, testType, models.SyncEntity{
		ClientTag: "a",
	})
	require.ErrorIs(t, err, ErrExecutingQuery)
}

func TestCommitEntity_SQLiteSkipsAdvisoryLock(t *testing.T) {
	repo, mock, db := newTestEntityRepoForDriver(t, "sqlite3")
	defer db.Close()

	// no lock statement: the single sqlite connection serializes commits
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT version, server_id FROM entities").
		WithArgs(testAccount, "a", testType.String()).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`SELECT COALESCE\(MAX\(version\), 0\) FROM entities`).
		WithArgs(testAccount, testType.String()).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))
	mock.ExpectExec("INSERT INTO entities").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	committed, err := repo.CommitEntity(context.Background(), testAccount, testType, models.SyncEntity{
		ClientTag: "a",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), committed.Version)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(pgError(pgerrcode.UniqueViolation)))
	assert.False(t, isUniqueViolation(pgError(pgerrcode.SerializationFailure)))
	assert.False(t, isUniqueViolation(errors.New("plain error")))
	assert.False(t, isUniqueViolation(nil))
}
