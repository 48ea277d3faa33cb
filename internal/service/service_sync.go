// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/data-publish-agent/internal/config"
	"github.com/MKhiriev/data-publish-agent/internal/logger"
	"github.com/MKhiriev/data-publish-agent/internal/store"
	"github.com/MKhiriev/data-publish-agent/internal/utils"
	"github.com/MKhiriev/data-publish-agent/models"
)

// syncDriver replicates the collection tree: clients, then per client the
// client collections and projects, then per project the project collections.
type syncDriver struct {
	fetcher  Fetcher
	cursors  store.CursorRepository
	entities store.EntityRepository

	// clientIDs and projectIDs restrict the fan-out; empty means all.
	clientIDs  []string
	projectIDs []string

	clientCollections  []models.Collection
	projectCollections []models.Collection

	// concurrency bounds the number of clients synced in parallel.
	concurrency int

	ids *utils.UUIDGenerator
	now func() time.Time

	mu   sync.RWMutex
	last *models.SyncReport

	logger *logger.Logger
}

// NewSyncDriver builds a SyncDriver. cfg.Collections, when set, selects the
// child collections to sync; clients and projects are always synced since
// they drive the fan-out.
func NewSyncDriver(fetcher Fetcher, cursors store.CursorRepository, entities store.EntityRepository, cfg config.AgentSync, logger *logger.Logger) (SyncDriver, error) {
	clientCollections, projectCollections, err := selectCollections(cfg.Collections)
	if err != nil {
		return nil, err
	}

	return &syncDriver{
		fetcher:            fetcher,
		cursors:            cursors,
		entities:           entities,
		clientIDs:          cfg.ClientIDs,
		projectIDs:         cfg.ProjectIDs,
		clientCollections:  clientCollections,
		projectCollections: projectCollections,
		concurrency:        max(cfg.Concurrency, 1),
		ids:                utils.NewUUIDGenerator(),
		now:                time.Now,
		logger:             logger,
	}, nil
}

func selectCollections(names []string) (clientCollections, projectCollections []models.Collection, err error) {
	if len(names) == 0 {
		return models.ClientCollections, models.ProjectCollections, nil
	}

	for _, name := range names {
		collection, ok := models.LookupCollection(name)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %q", ErrUnknownCollection, name)
		}

		switch {
		case collection.Name == models.Clients.Name || collection.Name == models.Projects.Name:
		case collection.Level == models.LevelClient:
			clientCollections = appendCollection(clientCollections, collection)
		case collection.Level == models.LevelProject:
			projectCollections = appendCollection(projectCollections, collection)
		}
	}

	return clientCollections, projectCollections, nil
}

func appendCollection(collections []models.Collection, c models.Collection) []models.Collection {
	for _, existing := range collections {
		if existing.Name == c.Name {
			return collections
		}
	}
	return append(collections, c)
}

func (d *syncDriver) Run(ctx context.Context) (models.SyncReport, error) {
	runID := d.ids.Generate()
	runLogger := &logger.Logger{Logger: d.logger.With().Str("run_id", runID).Logger()}
	ctx = runLogger.WithContext(utils.WithRunID(ctx, runID))

	report := models.SyncReport{RunID: runID, StartedAt: d.now()}
	rec := &runRecorder{}

	runLogger.Info().
		Int("client_collections", len(d.clientCollections)).
		Int("project_collections", len(d.projectCollections)).
		Int("concurrency", d.concurrency).
		Msg("sync started")

	clientIDs, fatal := d.syncParent(ctx, rec, models.Clients, models.Scope{}, d.clientIDs)
	report.ClientIDs = clientIDs

	if fatal == nil {
		fatal = d.syncClients(ctx, rec, clientIDs)
	}

	report.FinishedAt = d.now()
	report.Reports = rec.reports

	err := fatal
	if err == nil {
		err = errors.Join(rec.errs...)
	}
	if err != nil {
		report.Error = err.Error()
	}
	d.setLastReport(report)

	event := runLogger.Info()
	if err != nil {
		event = runLogger.Error().Err(err)
	}
	event.
		Int("clients", len(report.ClientIDs)).
		Int("collections", len(report.Reports)).
		Int("failed", len(report.Failed())).
		Int("items", report.Items()).
		Dur("duration", report.FinishedAt.Sub(report.StartedAt)).
		Msg("sync finished")

	return report, err
}

// syncClients syncs the subtree of every client in a bounded pool. The first
// fatal error cancels the remaining clients.
func (d *syncDriver) syncClients(ctx context.Context, rec *runRecorder, clientIDs []string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)

	for _, clientID := range clientIDs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return d.syncClient(gctx, rec, clientID)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (d *syncDriver) syncClient(ctx context.Context, rec *runRecorder, clientID string) error {
	scope := models.Scope{ClientID: clientID}

	for _, collection := range d.clientCollections {
		if err := d.syncLeaf(ctx, rec, collection, scope); err != nil {
			return err
		}
	}

	projectIDs, err := d.syncParent(ctx, rec, models.Projects, scope, d.projectIDs)
	if err != nil {
		return err
	}

	for _, projectID := range projectIDs {
		projectScope := models.Scope{ClientID: clientID, ProjectID: projectID}
		for _, collection := range d.projectCollections {
			if err = d.syncLeaf(ctx, rec, collection, projectScope); err != nil {
				return err
			}
		}
	}

	return nil
}

// syncLeaf syncs a collection without children. Only a fatal error is
// returned; other failures are recorded and the caller moves on.
func (d *syncDriver) syncLeaf(ctx context.Context, rec *runRecorder, collection models.Collection, scope models.Scope) error {
	report, _, err := d.syncCollection(ctx, collection, scope, false)
	rec.record(ctx, report, err)
	if isFatal(ctx, err) {
		return err
	}
	return nil
}

// syncParent syncs a collection whose entities parent other collections and
// returns the keys to fan out to: keys that arrived in this run and are not
// deleted, in arrival order, followed by the other active keys already
// stored. A failed sync still fans out to the stored keys.
func (d *syncDriver) syncParent(ctx context.Context, rec *runRecorder, collection models.Collection, scope models.Scope, filter []string) ([]string, error) {
	report, discovered, err := d.syncCollection(ctx, collection, scope, true)
	rec.record(ctx, report, err)
	if isFatal(ctx, err) {
		return nil, err
	}

	active, err := d.entities.ActiveKeys(ctx, collection.Name, scope)
	if err != nil {
		if isFatal(ctx, err) {
			return nil, err
		}
		rec.fail(&SyncError{Collection: collection.Name, Scope: scope, Cursor: report.End, Err: err})
	}

	keys := mergeKeys(discovered, active)
	if len(filter) > 0 {
		keys = slices.DeleteFunc(keys, func(key string) bool {
			return !slices.Contains(filter, key)
		})
	}

	return keys, nil
}

// syncCollection drives one collection under scope from its stored cursor to
// the end of its updates. Every page is stored before the cursor moves past
// it, so an interrupted sync resumes at the last completed page. With
// discover set it also returns the keys that are not deleted after this run,
// in arrival order.
func (d *syncDriver) syncCollection(ctx context.Context, collection models.Collection, scope models.Scope, discover bool) (models.CollectionReport, []string, error) {
	log := logger.FromContext(ctx).With().
		Str("collection", collection.Name).
		Str("scope", scope.String()).
		Logger()

	report := models.CollectionReport{Collection: collection.Name, Scope: scope}
	tracker := newKeyTracker(discover)

	cursor, err := d.cursors.LoadCursor(ctx, collection.Name, scope)
	if err != nil {
		return report, nil, &SyncError{Collection: collection.Name, Scope: scope, Cursor: cursor, Err: err}
	}
	report.Start, report.End = cursor, cursor

	fail := func(err error) (models.CollectionReport, []string, error) {
		log.Warn().Err(err).Str("cursor", cursor.String()).Msg("collection sync failed")
		return report, tracker.keys(), &SyncError{Collection: collection.Name, Scope: scope, Cursor: cursor, Err: err}
	}

	for {
		if err = ctx.Err(); err != nil {
			return fail(err)
		}

		page, err := d.fetcher.Fetch(ctx, collection, scope, cursor)
		if err != nil {
			return fail(err)
		}

		if err = d.entities.ApplyUpdates(ctx, collection.Name, scope, page.Items); err != nil {
			return fail(err)
		}
		tracker.track(page.Items)

		next := cursor.Advance(page.Received())
		if !page.MoreUpdates {
			next = cursor.Complete(page.FinalVersion)
		}
		if err = d.cursors.SaveCursor(ctx, collection.Name, scope, next); err != nil {
			return fail(err)
		}

		cursor = next
		report.End = cursor
		report.Pages++
		report.Items += len(page.Items)

		if page.Skipped > 0 {
			log.Warn().Int("skipped", page.Skipped).Str("cursor", cursor.String()).Msg("items without key skipped")
		}
		log.Debug().
			Int("items", len(page.Items)).
			Bool("more_updates", page.MoreUpdates).
			Str("cursor", cursor.String()).
			Msg("page stored")

		if !page.MoreUpdates {
			report.Done = true
			return report, tracker.keys(), nil
		}
	}
}

func (d *syncDriver) LastReport() (models.SyncReport, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.last == nil {
		return models.SyncReport{}, false
	}
	return *d.last, true
}

func (d *syncDriver) setLastReport(report models.SyncReport) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.last = &report
}

// isFatal reports whether err must abort the whole run.
func isFatal(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	return ctx.Err() != nil || errors.Is(err, ErrSessionExpired)
}

// runRecorder collects collection reports from concurrent workers.
type runRecorder struct {
	mu      sync.Mutex
	reports []models.CollectionReport
	errs    []error
}

// record adds report. Non-fatal errors are kept for the run result; fatal
// errors are returned by the worker that hit them.
func (r *runRecorder) record(ctx context.Context, report models.CollectionReport, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err != nil {
		report.Error = err.Error()
		if !isFatal(ctx, err) {
			r.errs = append(r.errs, err)
		}
	}
	r.reports = append(r.reports, report)
}

func (r *runRecorder) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

// keyTracker follows the deleted state of keys in arrival order.
type keyTracker struct {
	enabled bool
	order   []string
	deleted map[string]bool
}

func newKeyTracker(enabled bool) *keyTracker {
	return &keyTracker{enabled: enabled, deleted: make(map[string]bool)}
}

func (t *keyTracker) track(items []models.Entity) {
	if !t.enabled {
		return
	}
	for _, item := range items {
		if _, seen := t.deleted[item.Key]; !seen {
			t.order = append(t.order, item.Key)
		}
		t.deleted[item.Key] = item.Deleted
	}
}

func (t *keyTracker) keys() []string {
	if !t.enabled {
		return nil
	}
	keys := make([]string, 0, len(t.order))
	for _, key := range t.order {
		if !t.deleted[key] {
			keys = append(keys, key)
		}
	}
	return keys
}

// mergeKeys appends to discovered the keys of active it does not contain.
func mergeKeys(discovered, active []string) []string {
	keys := slices.Clone(discovered)
	seen := make(map[string]struct{}, len(discovered))
	for _, key := range discovered {
		seen[key] = struct{}{}
	}
	for _, key := range active {
		if _, ok := seen[key]; !ok {
			keys = append(keys, key)
			seen[key] = struct{}{}
		}
	}
	return keys
}
