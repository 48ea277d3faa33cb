package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/data-publish-agent/models"
)

const (
	syncVersionsTable = "sync_versions"
	entitiesTable     = "entities"

	// entitiesBatchSize keeps multi-row inserts under the SQLite host
	// parameter limit.
	entitiesBatchSize = 100
)

const (
	upsertCursorSuffix = `ON CONFLICT (dataset, client_id, project_id) DO UPDATE SET
		version = excluded.version,
		page_offset = excluded.page_offset,
		updated_at = excluded.updated_at`

	upsertEntitySuffix = `ON CONFLICT (dataset, client_id, project_id, entity_key) DO UPDATE SET
		deleted = excluded.deleted,
		version = excluded.version,
		payload = excluded.payload,
		updated_at = excluded.updated_at`
)

func scopeEq(dataset string, scope models.Scope) sq.Eq {
	return sq.Eq{
		"dataset":    dataset,
		"client_id":  scope.ClientID,
		"project_id": scope.ProjectID,
	}
}

func buildLoadCursorQuery(b sq.StatementBuilderType, dataset string, scope models.Scope) (string, []any, error) {
	query, args, err := b.
		Select("version", "page_offset").
		From(syncVersionsTable).
		Where(scopeEq(dataset, scope)).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildSaveCursorQuery(b sq.StatementBuilderType, dataset string, scope models.Scope, cursor models.SyncCursor) (string, []any, error) {
	query, args, err := b.
		Insert(syncVersionsTable).
		Columns("dataset", "client_id", "project_id", "version", "page_offset", "updated_at").
		Values(dataset, scope.ClientID, scope.ProjectID, cursor.Version, cursor.Offset, sq.Expr("CURRENT_TIMESTAMP")).
		Suffix(upsertCursorSuffix).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildResetCursorsQuery(b sq.StatementBuilderType) (string, []any, error) {
	query, args, err := b.Delete(syncVersionsTable).ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildUpsertEntitiesQuery builds one multi-row upsert. entities must not
// repeat a key.
func buildUpsertEntitiesQuery(b sq.StatementBuilderType, dataset string, scope models.Scope, entities []models.Entity) (string, []any, error) {
	insert := b.
		Insert(entitiesTable).
		Columns("dataset", "client_id", "project_id", "entity_key", "deleted", "version", "payload", "updated_at")

	for _, e := range entities {
		insert = insert.Values(dataset, scope.ClientID, scope.ProjectID, e.Key, e.Deleted, e.Version, string(e.Raw), sq.Expr("CURRENT_TIMESTAMP"))
	}

	query, args, err := insert.Suffix(upsertEntitySuffix).ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildActiveKeysQuery(b sq.StatementBuilderType, dataset string, scope models.Scope) (string, []any, error) {
	where := scopeEq(dataset, scope)
	where["deleted"] = false

	query, args, err := b.
		Select("entity_key").
		From(entitiesTable).
		Where(where).
		OrderBy("entity_key").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// latestByKey drops all but the last occurrence of every key, keeping the
// order of those last occurrences.
func latestByKey(entities []models.Entity) []models.Entity {
	last := make(map[string]int, len(entities))
	for i, e := range entities {
		last[e.Key] = i
	}
	if len(last) == len(entities) {
		return entities
	}

	out := make([]models.Entity, 0, len(last))
	for i, e := range entities {
		if last[e.Key] == i {
			out = append(out, e)
		}
	}
	return out
}
