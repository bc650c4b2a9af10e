package admin

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/promptstack/console-backend/internal/domain"
	"github.com/promptstack/console-backend/internal/schema"
)

// flatten materializes every tenant's subcollection of a per-tenant kind
// into one in-memory sequence, tagging each record with the tenant id from
// the traversal path. Cost is O(tenants) store calls; acceptable only for
// this bounded, admin-only path.
//
// One tenant's fetch failure excludes that tenant's records and marks the
// result partial instead of aborting the whole read.
func (s *Service) flatten(ctx context.Context, kind domain.Kind, loc schema.Locator) ([]domain.Entity, bool, error) {
	parents, err := s.store.List(ctx, loc.Collection)
	if err != nil {
		return nil, false, fmt.Errorf("list tenants of %s: %w", loc.Collection, err)
	}

	var (
		mu      sync.Mutex
		all     []domain.Entity
		partial bool
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(flattenConcurrency)

	now := s.now()
	for _, parent := range parents {
		tenantID := parent.ID
		g.Go(func() error {
			docs, err := s.store.List(ctx, loc.SubPath(tenantID))
			if err != nil {
				s.log.WarnContext(ctx, "tenant fetch failed, excluding from result",
					slog.String("collection", loc.Collection),
					slog.String("tenant_id", tenantID),
					slog.String("error", err.Error()),
				)
				mu.Lock()
				partial = true
				mu.Unlock()
				return nil
			}

			entities := make([]domain.Entity, 0, len(docs))
			for _, doc := range docs {
				e := decodeEntity(kind, doc, now)
				// The traversal path is authoritative: stored payloads may
				// lack their own userId field.
				e.OwnerID = tenantID
				entities = append(entities, e)
			}

			mu.Lock()
			all = append(all, entities...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, false, err
	}

	return all, partial, nil
}
