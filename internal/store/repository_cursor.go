package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/data-publish-agent/internal/logger"
	"github.com/MKhiriev/data-publish-agent/models"
)

// cursorRepository is the SQL implementation of [CursorRepository] over the
// sync_versions table.
type cursorRepository struct {
	*DB
	logger *logger.Logger
}

func NewCursorRepository(db *DB, logger *logger.Logger) CursorRepository {
	return &cursorRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *cursorRepository) LoadCursor(ctx context.Context, dataset string, scope models.Scope) (models.SyncCursor, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildLoadCursorQuery(r.builder(), dataset, scope)
	if err != nil {
		return models.SyncCursor{}, err
	}

	var cursor models.SyncCursor
	err = r.withRetry(ctx, "cursorRepository.LoadCursor", func(ctx context.Context) error {
		return r.DB.QueryRowContext(ctx, query, args...).Scan(&cursor.Version, &cursor.Offset)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return models.SyncCursor{}, nil
	}
	if err != nil {
		log.Err(err).
			Str("func", "cursorRepository.LoadCursor").
			Str("dataset", dataset).
			Str("scope", scope.String()).
			Msg("failed to load sync cursor")
		return models.SyncCursor{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return cursor, nil
}

func (r *cursorRepository) SaveCursor(ctx context.Context, dataset string, scope models.Scope, cursor models.SyncCursor) error {
	log := logger.FromContext(ctx)

	query, args, err := buildSaveCursorQuery(r.builder(), dataset, scope, cursor)
	if err != nil {
		return err
	}

	err = r.withRetry(ctx, "cursorRepository.SaveCursor", func(ctx context.Context) error {
		_, execErr := r.DB.ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		log.Err(err).
			Str("func", "cursorRepository.SaveCursor").
			Str("dataset", dataset).
			Str("scope", scope.String()).
			Str("cursor", cursor.String()).
			Msg("failed to save sync cursor")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (r *cursorRepository) ResetCursors(ctx context.Context) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildResetCursorsQuery(r.builder())
	if err != nil {
		return 0, err
	}

	var deleted int64
	err = r.withRetry(ctx, "cursorRepository.ResetCursors", func(ctx context.Context) error {
		res, execErr := r.DB.ExecContext(ctx, query, args...)
		if execErr != nil {
			return execErr
		}
		deleted, execErr = res.RowsAffected()
		return execErr
	})
	if err != nil {
		log.Err(err).Str("func", "cursorRepository.ResetCursors").Msg("failed to reset sync cursors")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	log.Info().Int64("cursors", deleted).Msg("sync cursors reset")
	return deleted, nil
}
