// Package memstore is an in-memory docstore.Store. It backs unit tests and
// local development; query semantics mirror the Postgres adapter, including
// ErrUnsupportedQuery for unindexed collection groups.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/promptstack/console-backend/internal/docstore"
)

// Store is a thread-safe in-memory document store.
type Store struct {
	mu sync.RWMutex
	// docs maps collection path -> doc id -> payload.
	docs map[string]map[string]map[string]any
	// unindexed collection group names reject GroupQuery/GroupCount.
	unindexed map[string]bool
}

// New creates an empty store.
func New() *Store {
	return &Store{
		docs:      make(map[string]map[string]map[string]any),
		unindexed: make(map[string]bool),
	}
}

// MarkGroupUnindexed makes GroupQuery/GroupCount on name fail with
// ErrUnsupportedQuery, simulating a store without a cross-tenant index.
func (s *Store) MarkGroupUnindexed(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unindexed[name] = true
}

// Put inserts or replaces a document. Payload is copied shallowly.
func (s *Store) Put(path, id string, data map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	coll, ok := s.docs[path]
	if !ok {
		coll = make(map[string]map[string]any)
		s.docs[path] = coll
	}
	cp := make(map[string]any, len(data))
	for k, v := range data {
		cp[k] = v
	}
	coll[id] = cp
}

func (s *Store) List(_ context.Context, path string) ([]docstore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collectLocked(path, nil), nil
}

func (s *Store) Query(_ context.Context, path string, q docstore.Query) ([]docstore.Document, error) {
	s.mu.RLock()
	docs := s.collectLocked(path, q.Filters)
	s.mu.RUnlock()
	return applyOrderAndSlice(docs, q), nil
}

func (s *Store) Count(_ context.Context, path string, filters []docstore.Filter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collectLocked(path, filters)), nil
}

func (s *Store) GroupQuery(_ context.Context, name string, q docstore.Query) ([]docstore.Document, error) {
	s.mu.RLock()
	if s.unindexed[name] {
		s.mu.RUnlock()
		return nil, fmt.Errorf("group %s: %w", name, docstore.ErrUnsupportedQuery)
	}
	docs := s.groupCollectLocked(name, q.Filters)
	s.mu.RUnlock()
	return applyOrderAndSlice(docs, q), nil
}

func (s *Store) GroupCount(_ context.Context, name string, filters []docstore.Filter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.unindexed[name] {
		return 0, fmt.Errorf("group %s: %w", name, docstore.ErrUnsupportedQuery)
	}
	return len(s.groupCollectLocked(name, filters)), nil
}

func (s *Store) GroupFindByID(_ context.Context, name, id string) ([]docstore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []docstore.Document
	for _, path := range s.groupPathsLocked(name) {
		if data, ok := s.docs[path][id]; ok {
			out = append(out, docstore.Document{ID: id, Parent: parentOf(path), Data: copyMap(data)})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Parent < out[j].Parent })
	return out, nil
}

func (s *Store) Get(_ context.Context, path, id string) (docstore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.docs[path][id]
	if !ok {
		return docstore.Document{}, fmt.Errorf("%s/%s: %w", path, id, docstore.ErrNotFound)
	}
	return docstore.Document{ID: id, Parent: parentOf(path), Data: copyMap(data)}, nil
}

func (s *Store) BatchGet(_ context.Context, path string, ids []string) ([]docstore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]docstore.Document, 0, len(ids))
	for _, id := range ids {
		if data, ok := s.docs[path][id]; ok {
			out = append(out, docstore.Document{ID: id, Parent: parentOf(path), Data: copyMap(data)})
		}
	}
	return out, nil
}

func (s *Store) Update(_ context.Context, path, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.docs[path][id]
	if !ok {
		return fmt.Errorf("%s/%s: %w", path, id, docstore.ErrNotFound)
	}
	for k, v := range fields {
		data[k] = v
	}
	return nil
}

func (s *Store) Delete(_ context.Context, path, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[path][id]; !ok {
		return fmt.Errorf("%s/%s: %w", path, id, docstore.ErrNotFound)
	}
	delete(s.docs[path], id)
	return nil
}

// ---------------------------------------------------------------------------
// Internals
// ---------------------------------------------------------------------------

func (s *Store) collectLocked(path string, filters []docstore.Filter) []docstore.Document {
	coll := s.docs[path]
	parent := parentOf(path)
	out := make([]docstore.Document, 0, len(coll))
	for id, data := range coll {
		if !matches(data, filters) {
			continue
		}
		out = append(out, docstore.Document{ID: id, Parent: parent, Data: copyMap(data)})
	}
	// Deterministic base order for tests; callers re-sort anyway.
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// groupPathsLocked returns every collection path belonging to a group name:
// the top-level collection itself plus any <name>/<tenant>/<name> nesting.
func (s *Store) groupPathsLocked(name string) []string {
	var paths []string
	for path := range s.docs {
		if path == name || (strings.HasPrefix(path, name+"/") && strings.HasSuffix(path, "/"+name)) {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths
}

func (s *Store) groupCollectLocked(name string, filters []docstore.Filter) []docstore.Document {
	var out []docstore.Document
	for _, path := range s.groupPathsLocked(name) {
		out = append(out, s.collectLocked(path, filters)...)
	}
	return out
}

func parentOf(path string) string {
	parts := strings.Split(path, "/")
	if len(parts) == 3 {
		return parts[1]
	}
	return ""
}

func copyMap(m map[string]any) map[string]any {
	cp := make(map[string]any, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

func matches(data map[string]any, filters []docstore.Filter) bool {
	for _, f := range filters {
		v, ok := data[f.Field]
		if !ok {
			return false
		}
		switch f.Op {
		case docstore.OpEq:
			if !looseEqual(v, f.Value) {
				return false
			}
		case docstore.OpGte:
			cmp, ok := compare(v, f.Value)
			if !ok || cmp < 0 {
				return false
			}
		case docstore.OpLt:
			cmp, ok := compare(v, f.Value)
			if !ok || cmp >= 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func looseEqual(a, b any) bool {
	if af, aok := toFloat(a); aok {
		bf, bok := toFloat(b)
		return bok && af == bf
	}
	return a == b
}

// compare orders two values when both are strings or both are numeric.
func compare(a, b any) (int, bool) {
	if as, ok := a.(string); ok {
		bs, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(as, bs), true
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if !aok || !bok {
		return 0, false
	}
	switch {
	case af < bf:
		return -1, true
	case af > bf:
		return 1, true
	}
	return 0, true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func applyOrderAndSlice(docs []docstore.Document, q docstore.Query) []docstore.Document {
	if q.OrderBy != "" {
		sort.SliceStable(docs, func(i, j int) bool {
			cmp, ok := compare(docs[i].Data[q.OrderBy], docs[j].Data[q.OrderBy])
			if !ok {
				return false
			}
			if q.Desc {
				return cmp > 0
			}
			return cmp < 0
		})
	}
	if q.Offset > 0 {
		if q.Offset >= len(docs) {
			return []docstore.Document{}
		}
		docs = docs[q.Offset:]
	}
	if q.Limit > 0 && q.Limit < len(docs) {
		docs = docs[:q.Limit]
	}
	return docs
}
