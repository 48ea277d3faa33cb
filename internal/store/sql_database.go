package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/data-publish-agent/internal/config"
	"github.com/MKhiriev/data-publish-agent/internal/logger"
	"github.com/MKhiriev/data-publish-agent/migrations"
)

// Driver names accepted by [NewConnect].
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

const (
	defaultRetryMax  = 3
	defaultRetryBase = 100 * time.Millisecond
)

// DB wraps a database/sql connection with the dialect details the
// repositories need.
type DB struct {
	*sql.DB
	driver             string
	placeholder        sq.PlaceholderFormat
	errorClassificator ErrorClassificator
	retryMax           uint64
	retryBase          time.Duration
	logger             *logger.Logger
}

// NewConnect opens the database selected by cfg.Driver.
func NewConnect(ctx context.Context, cfg config.AgentDB, log *logger.Logger) (*DB, error) {
	switch cfg.Driver {
	case DriverSQLite:
		return NewConnectSQLite(ctx, cfg, log)
	case DriverPostgres:
		return NewConnectPostgres(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver)
	}
}

func newDB(conn *sql.DB, driver string, classificator ErrorClassificator, log *logger.Logger) *DB {
	var placeholder sq.PlaceholderFormat = sq.Question
	if driver == DriverPostgres {
		placeholder = sq.Dollar
	}

	return &DB{
		DB:                 conn,
		driver:             driver,
		placeholder:        placeholder,
		errorClassificator: classificator,
		retryMax:           defaultRetryMax,
		retryBase:          defaultRetryBase,
		logger:             log,
	}
}

// Driver returns the database/sql driver name of the connection.
func (db *DB) Driver() string {
	return db.driver
}

func (db *DB) builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(db.placeholder)
}

// Migrate applies all pending schema migrations.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.driver)
}

// SchemaVersion returns the applied schema version and the version this
// binary expects.
func (db *DB) SchemaVersion() (current, latest int64, err error) {
	current, err = migrations.SchemaVersion(db.DB, db.driver)
	if err != nil {
		return 0, 0, err
	}

	latest, err = migrations.LatestVersion()
	if err != nil {
		return 0, 0, err
	}

	return current, latest, nil
}
