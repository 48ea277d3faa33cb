// Package migrations embeds the SQL schema of the local database and applies
// it with goose for both SQLite and PostgreSQL.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var embedMigrations embed.FS

// ErrNilDB is returned when a nil connection is passed.
var ErrNilDB = errors.New("db is nil")

// goose keeps the base FS and dialect in package globals.
var gooseMu sync.Mutex

// Migrate applies every pending migration. driver is the database/sql
// driver name ("sqlite3" or "pgx").
func Migrate(db *sql.DB, driver string) error {
	if db == nil {
		return fmt.Errorf("migration error: %w", ErrNilDB)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := setup(driver); err != nil {
		return err
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}

// SchemaVersion returns the version of the last applied migration, or 0 for
// an empty database.
func SchemaVersion(db *sql.DB, driver string) (int64, error) {
	if db == nil {
		return 0, fmt.Errorf("schema version error: %w", ErrNilDB)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := setup(driver); err != nil {
		return 0, err
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		return 0, fmt.Errorf("schema version error: %w", err)
	}

	return version, nil
}

// LatestVersion returns the version of the newest embedded migration.
func LatestVersion() (int64, error) {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(embedMigrations)

	migrations, err := goose.CollectMigrations(".", 0, goose.MaxVersion)
	if err != nil {
		return 0, fmt.Errorf("collect migrations: %w", err)
	}

	last, err := migrations.Last()
	if err != nil {
		return 0, fmt.Errorf("collect migrations: %w", err)
	}

	return last.Version, nil
}

func setup(driver string) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect(driver); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	return nil
}
