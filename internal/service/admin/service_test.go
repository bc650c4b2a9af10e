package admin

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/promptstack/console-backend/internal/docstore"
	"github.com/promptstack/console-backend/internal/docstore/memstore"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// testNow is the frozen clock all service tests run against.
var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestService(store docstore.Store) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
	svc := NewService(logger, store)
	svc.now = func() time.Time { return testNow }
	return svc
}

func ptr[T any](v T) *T { return &v }

// daysAgo returns a unix timestamp n days before the frozen clock.
func daysAgo(n int) int64 {
	return testNow.AddDate(0, 0, -n).Unix()
}

// seedUser writes an owner record into the flat users collection.
func seedUser(store *memstore.Store, id, email string, createdAt int64) {
	store.Put("users", id, map[string]any{
		"email":       email,
		"displayName": "Owner " + id,
		"isAdmin":     false,
		"createdAt":   createdAt,
	})
}

// seedProduct writes a flat content document.
func seedProduct(store *memstore.Store, id, ownerID, title string, createdAt int64) {
	store.Put("products", id, map[string]any{
		"userId":    ownerID,
		"title":     title,
		"content":   "about " + title,
		"isPublic":  true,
		"createdAt": createdAt,
	})
}

// seedPrompt writes a per-tenant prompt plus the tenant marker document.
func seedPrompt(store *memstore.Store, tenantID, id, title string, createdAt int64) {
	store.Put("myprompts", tenantID, map[string]any{"createdAt": createdAt})
	store.Put("myprompts/"+tenantID+"/myprompts", id, map[string]any{
		"title":     title,
		"body":      "prompt body for " + title,
		"createdAt": createdAt,
	})
}

// seedAgent writes a per-tenant, group-indexed agent document.
func seedAgent(store *memstore.Store, tenantID, id, title string, createdAt int64) {
	store.Put("myagents/"+tenantID+"/myagents", id, map[string]any{
		"title":     title,
		"content":   "agent " + title,
		"isPublic":  true,
		"createdAt": createdAt,
	})
}

// errStore wraps a Store and fails selected operations on selected paths.
type errStore struct {
	docstore.Store
	failList  map[string]error
	failQuery map[string]error
	failCount map[string]error
}

func (e *errStore) List(ctx context.Context, path string) ([]docstore.Document, error) {
	if err := e.failList[path]; err != nil {
		return nil, err
	}
	return e.Store.List(ctx, path)
}

func (e *errStore) Query(ctx context.Context, path string, q docstore.Query) ([]docstore.Document, error) {
	if err := e.failQuery[path]; err != nil {
		return nil, err
	}
	return e.Store.Query(ctx, path, q)
}

func (e *errStore) Count(ctx context.Context, path string, filters []docstore.Filter) (int, error) {
	if err := e.failCount[path]; err != nil {
		return 0, err
	}
	return e.Store.Count(ctx, path, filters)
}
