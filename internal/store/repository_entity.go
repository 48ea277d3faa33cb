package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/data-publish-agent/internal/logger"
	"github.com/MKhiriev/data-publish-agent/models"
)

// entityRepository is the SQL implementation of [EntityRepository] over the
// entities table. Payloads are stored as JSON text.
type entityRepository struct {
	*DB
	logger *logger.Logger
}

func NewEntityRepository(db *DB, logger *logger.Logger) EntityRepository {
	return &entityRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *entityRepository) ApplyUpdates(ctx context.Context, dataset string, scope models.Scope, entities []models.Entity) error {
	if len(entities) == 0 {
		return nil
	}
	log := logger.FromContext(ctx)

	entities = latestByKey(entities)

	queries := make([]string, 0, len(entities)/entitiesBatchSize+1)
	argsList := make([][]any, 0, cap(queries))
	for start := 0; start < len(entities); start += entitiesBatchSize {
		end := min(start+entitiesBatchSize, len(entities))
		query, args, err := buildUpsertEntitiesQuery(r.builder(), dataset, scope, entities[start:end])
		if err != nil {
			return err
		}
		queries = append(queries, query)
		argsList = append(argsList, args)
	}

	err := r.withRetry(ctx, "entityRepository.ApplyUpdates", func(ctx context.Context) error {
		tx, err := r.DB.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
		}
		defer tx.Rollback()

		for i, query := range queries {
			if _, err = tx.ExecContext(ctx, query, argsList[i]...); err != nil {
				return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
		}

		if err = tx.Commit(); err != nil {
			return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
		}
		return nil
	})
	if err != nil {
		log.Err(err).
			Str("func", "entityRepository.ApplyUpdates").
			Str("dataset", dataset).
			Str("scope", scope.String()).
			Int("entities", len(entities)).
			Msg("failed to apply updates")
		return err
	}

	return nil
}

func (r *entityRepository) ActiveKeys(ctx context.Context, dataset string, scope models.Scope) ([]string, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildActiveKeysQuery(r.builder(), dataset, scope)
	if err != nil {
		return nil, err
	}

	var keys []string
	err = r.withRetry(ctx, "entityRepository.ActiveKeys", func(ctx context.Context) error {
		keys = keys[:0]

		rows, err := r.DB.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		defer rows.Close()

		for rows.Next() {
			var key string
			if err = rows.Scan(&key); err != nil {
				return fmt.Errorf("%w: %w", ErrScanningRow, err)
			}
			keys = append(keys, key)
		}

		if err = rows.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		return nil
	})
	if err != nil {
		log.Err(err).
			Str("func", "entityRepository.ActiveKeys").
			Str("dataset", dataset).
			Str("scope", scope.String()).
			Msg("failed to read active keys")
		return nil, err
	}

	return keys, nil
}
