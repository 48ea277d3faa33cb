package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/data-publish-agent/internal/config"
	"github.com/MKhiriev/data-publish-agent/internal/logger"
)

// Storages groups the repositories of the agent around one connection.
type Storages struct {
	DB               *DB
	CursorRepository CursorRepository
	EntityRepository EntityRepository
}

// NewStorages opens the configured database and wires the repositories.
// Migrations are not applied here; see [DB.Migrate].
func NewStorages(ctx context.Context, cfg config.AgentStorage, logger *logger.Logger) (*Storages, error) {
	logger.Debug().Str("driver", cfg.DB.Driver).Msg("creating new storages...")

	db, err := NewConnect(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("database connection error: %w", err)
	}

	return &Storages{
		DB:               db,
		CursorRepository: NewCursorRepository(db, logger),
		EntityRepository: NewEntityRepository(db, logger),
	}, nil
}

// Close closes the underlying connection.
func (s *Storages) Close() error {
	return s.DB.Close()
}
