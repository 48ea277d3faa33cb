package agent

import "errors"

var (
	// ErrSchemaBehind is returned when the database schema is older than
	// the one this binary expects. Run schemaupdate to migrate.
	ErrSchemaBehind = errors.New("database schema is behind, run schemaupdate")

	// ErrSchemaAhead is returned when the database was migrated by a newer
	// binary.
	ErrSchemaAhead = errors.New("database schema is newer than this binary")
)
