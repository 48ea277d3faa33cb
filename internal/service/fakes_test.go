package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/MKhiriev/data-publish-agent/models"
)

func datasetKey(dataset string, scope models.Scope) string {
	return dataset + "|" + scope.String()
}

func fetchKey(dataset string, scope models.Scope, cursor models.SyncCursor) string {
	return fmt.Sprintf("%s|%s|%d/%d", dataset, scope, cursor.Version, cursor.Offset)
}

// memoryStore keeps cursors and entities in maps.
type memoryStore struct {
	mu       sync.Mutex
	cursors  map[string]models.SyncCursor
	entities map[string]map[string]models.Entity
	applied  map[string][]string
	saves    map[string][]models.SyncCursor
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		cursors:  make(map[string]models.SyncCursor),
		entities: make(map[string]map[string]models.Entity),
		applied:  make(map[string][]string),
		saves:    make(map[string][]models.SyncCursor),
	}
}

func (s *memoryStore) LoadCursor(_ context.Context, dataset string, scope models.Scope) (models.SyncCursor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursors[datasetKey(dataset, scope)], nil
}

func (s *memoryStore) SaveCursor(_ context.Context, dataset string, scope models.Scope, cursor models.SyncCursor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := datasetKey(dataset, scope)
	s.cursors[key] = cursor
	s.saves[key] = append(s.saves[key], cursor)
	return nil
}

func (s *memoryStore) ResetCursors(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := int64(len(s.cursors))
	s.cursors = make(map[string]models.SyncCursor)
	return n, nil
}

func (s *memoryStore) ApplyUpdates(_ context.Context, dataset string, scope models.Scope, entities []models.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := datasetKey(dataset, scope)
	if s.entities[key] == nil {
		s.entities[key] = make(map[string]models.Entity)
	}
	for _, e := range entities {
		s.entities[key][e.Key] = e
		s.applied[key] = append(s.applied[key], e.Key)
	}
	return nil
}

func (s *memoryStore) ActiveKeys(_ context.Context, dataset string, scope models.Scope) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []string
	for key, e := range s.entities[datasetKey(dataset, scope)] {
		if !e.Deleted {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	return keys, nil
}

func (s *memoryStore) cursor(dataset string, scope models.Scope) (models.SyncCursor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cursors[datasetKey(dataset, scope)]
	return c, ok
}

func (s *memoryStore) appliedKeys(dataset string, scope models.Scope) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.applied[datasetKey(dataset, scope)])
}

type fetchResult struct {
	page models.Page
	err  error
}

// scriptedFetcher answers from a table keyed by dataset, scope and cursor.
// Unscripted requests get an empty final page at the requested version.
type scriptedFetcher struct {
	mu      sync.Mutex
	results map[string]fetchResult
	calls   []string
	hook    func(key string)
}

func newScriptedFetcher() *scriptedFetcher {
	return &scriptedFetcher{results: make(map[string]fetchResult)}
}

func (f *scriptedFetcher) on(collection models.Collection, scope models.Scope, cursor models.SyncCursor, page models.Page, err error) {
	f.results[fetchKey(collection.Name, scope, cursor)] = fetchResult{page: page, err: err}
}

func (f *scriptedFetcher) Fetch(_ context.Context, collection models.Collection, scope models.Scope, cursor models.SyncCursor) (models.Page, error) {
	key := fetchKey(collection.Name, scope, cursor)

	f.mu.Lock()
	f.calls = append(f.calls, key)
	result, ok := f.results[key]
	hook := f.hook
	f.mu.Unlock()

	if hook != nil {
		hook(key)
	}
	if !ok {
		return models.Page{FinalVersion: cursor.Version}, nil
	}
	return result.page, result.err
}

func (f *scriptedFetcher) called(prefix string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

func items(prefix string, from, to int) []models.Entity {
	out := make([]models.Entity, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, models.Entity{Key: fmt.Sprintf("%s%d", prefix, i)})
	}
	return out
}

func keyed(keys ...string) []models.Entity {
	out := make([]models.Entity, 0, len(keys))
	for _, k := range keys {
		out = append(out, models.Entity{Key: k})
	}
	return out
}
