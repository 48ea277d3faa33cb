package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/data-publish-agent/internal/config"
	"github.com/MKhiriev/data-publish-agent/internal/logger"
)

// newSQLiteDB opens a migrated SQLite database in a temp dir.
func newSQLiteDB(t *testing.T) *DB {
	t.Helper()
	cfg := config.AgentDB{Driver: DriverSQLite, DSN: filepath.Join(t.TempDir(), "agent.db")}

	db, err := NewConnect(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate())
	return db
}

// newMockPostgresDB wraps sqlmock as a PostgreSQL connection with fast
// retries.
func newMockPostgresDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db := newDB(conn, DriverPostgres, NewPostgresErrorClassifier(), logger.Nop())
	db.retryBase = time.Millisecond
	return db, mock
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

