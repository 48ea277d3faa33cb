package store

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/data-publish-agent/internal/logger"
	"github.com/MKhiriev/data-publish-agent/models"
)

func TestCursorRepository_SQLite(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewCursorRepository(db, logger.Nop())
	ctx := context.Background()

	root := models.Scope{}
	project := models.Scope{ClientID: "c1", ProjectID: "p1"}

	// absent cursor is the zero cursor
	cursor, err := repo.LoadCursor(ctx, "clients", root)
	require.NoError(t, err)
	assert.Equal(t, models.SyncCursor{}, cursor)

	require.NoError(t, repo.SaveCursor(ctx, "clients", root, models.SyncCursor{Version: 5, Offset: 100}))
	require.NoError(t, repo.SaveCursor(ctx, "stations", project, models.SyncCursor{Version: 7}))

	// overwrite
	require.NoError(t, repo.SaveCursor(ctx, "clients", root, models.SyncCursor{Version: 9}))

	cursor, err = repo.LoadCursor(ctx, "clients", root)
	require.NoError(t, err)
	assert.Equal(t, models.SyncCursor{Version: 9}, cursor)

	// scopes are independent
	cursor, err = repo.LoadCursor(ctx, "stations", project)
	require.NoError(t, err)
	assert.Equal(t, models.SyncCursor{Version: 7}, cursor)

	cursor, err = repo.LoadCursor(ctx, "stations", models.Scope{ClientID: "c1", ProjectID: "p2"})
	require.NoError(t, err)
	assert.Equal(t, models.SyncCursor{}, cursor)

	deleted, err := repo.ResetCursors(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	cursor, err = repo.LoadCursor(ctx, "clients", root)
	require.NoError(t, err)
	assert.Equal(t, models.SyncCursor{}, cursor)
}

func TestCursorRepository_Postgres_LoadCursor(t *testing.T) {
	db, mock := newMockPostgresDB(t)
	repo := NewCursorRepository(db, logger.Nop())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT version, page_offset FROM sync_versions WHERE client_id = $1 AND dataset = $2 AND project_id = $3")).
		WithArgs("c1", "projects", "").
		WillReturnRows(sqlmock.NewRows([]string{"version", "page_offset"}).AddRow(int64(42), int64(200)))

	cursor, err := repo.LoadCursor(context.Background(), "projects", models.Scope{ClientID: "c1"})

	require.NoError(t, err)
	assert.Equal(t, models.SyncCursor{Version: 42, Offset: 200}, cursor)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCursorRepository_Postgres_SaveCursor_RetriesTransientError(t *testing.T) {
	db, mock := newMockPostgresDB(t)
	repo := NewCursorRepository(db, logger.Nop())

	mock.ExpectExec("INSERT INTO sync_versions").
		WithArgs("clients", "", "", int64(3), int64(0)).
		WillReturnError(pgError(pgerrcode.SerializationFailure))
	mock.ExpectExec("INSERT INTO sync_versions").
		WithArgs("clients", "", "", int64(3), int64(0)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SaveCursor(context.Background(), "clients", models.Scope{}, models.SyncCursor{Version: 3})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCursorRepository_Postgres_SaveCursor_NonRetryable(t *testing.T) {
	db, mock := newMockPostgresDB(t)
	repo := NewCursorRepository(db, logger.Nop())

	mock.ExpectExec("INSERT INTO sync_versions").
		WillReturnError(pgError(pgerrcode.UndefinedTable))

	err := repo.SaveCursor(context.Background(), "clients", models.Scope{}, models.SyncCursor{Version: 3})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCursorRepository_Postgres_SaveCursor_RetriesExhausted(t *testing.T) {
	db, mock := newMockPostgresDB(t)
	db.retryMax = 2
	repo := NewCursorRepository(db, logger.Nop())

	for i := 0; i < 3; i++ {
		mock.ExpectExec("INSERT INTO sync_versions").
			WillReturnError(pgError(pgerrcode.ConnectionFailure))
	}

	err := repo.SaveCursor(context.Background(), "clients", models.Scope{}, models.SyncCursor{})

	require.Error(t, err)
	assert.Equal(t, Retryable, NewPostgresErrorClassifier().Classify(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCursorRepository_Postgres_ResetCursors(t *testing.T) {
	db, mock := newMockPostgresDB(t)
	repo := NewCursorRepository(db, logger.Nop())

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sync_versions")).
		WillReturnResult(sqlmock.NewResult(0, 12))

	deleted, err := repo.ResetCursors(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(12), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
