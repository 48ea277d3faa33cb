// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	"github.com/MKhiriev/data-publish-agent/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// CursorRepository persists one sync cursor per (dataset, scope).
type CursorRepository interface {
	// LoadCursor returns the stored cursor, or the zero cursor when the
	// dataset was never synced under scope.
	LoadCursor(ctx context.Context, dataset string, scope models.Scope) (models.SyncCursor, error)

	// SaveCursor stores cursor, replacing any previous value.
	SaveCursor(ctx context.Context, dataset string, scope models.Scope, cursor models.SyncCursor) error

	// ResetCursors deletes every stored cursor and returns how many were
	// removed. The next sync reloads everything from version 0.
	ResetCursors(ctx context.Context) (int64, error)
}

// EntityRepository persists the entities received from the API.
type EntityRepository interface {
	// ApplyUpdates upserts entities by key in one transaction. When a key
	// occurs more than once the last occurrence wins.
	ApplyUpdates(ctx context.Context, dataset string, scope models.Scope, entities []models.Entity) error

	// ActiveKeys returns the keys of stored entities that are not deleted,
	// ordered by key.
	ActiveKeys(ctx context.Context, dataset string, scope models.Scope) ([]string, error)
}
