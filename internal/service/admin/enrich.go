package admin

import (
	"context"
	"log/slog"
	"time"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/promptstack/console-backend/internal/domain"
)

const (
	ownerBatchCapacity = 100
	ownerBatchWait     = 2 * time.Millisecond
)

// enrich attaches owner records to a page of entities. Distinct owner ids
// are fetched through a batched loader, so an owner appearing on several
// rows is requested exactly once. A missing or failed owner leaves the row
// in place with a nil owner; the bool result reports fetch failures.
func (s *Service) enrich(ctx context.Context, entities []domain.Entity) ([]domain.EnrichedEntity, bool) {
	loader := dataloader.NewBatchedLoader(
		s.ownerBatchFn(),
		dataloader.WithWait[string, *domain.Owner](ownerBatchWait),
		dataloader.WithBatchCapacity[string, *domain.Owner](ownerBatchCapacity),
	)

	distinct := make([]string, 0, len(entities))
	seen := make(map[string]bool, len(entities))
	for _, e := range entities {
		if e.OwnerID == "" || seen[e.OwnerID] {
			continue
		}
		seen[e.OwnerID] = true
		distinct = append(distinct, e.OwnerID)
	}

	owners := make(map[string]*domain.Owner, len(distinct))
	partial := false
	if len(distinct) > 0 {
		results, errs := loader.LoadMany(ctx, distinct)()
		for i, id := range distinct {
			if i < len(errs) && errs[i] != nil {
				s.log.WarnContext(ctx, "owner fetch failed",
					slog.String("owner_id", id),
					slog.String("error", errs[i].Error()),
				)
				partial = true
				continue
			}
			owners[id] = results[i]
		}
	}

	out := make([]domain.EnrichedEntity, len(entities))
	for i, e := range entities {
		out[i] = domain.EnrichedEntity{Entity: e, Owner: owners[e.OwnerID]}
	}
	return out, partial
}

// ownerBatchFn resolves one batch of owner ids with a single store call.
// Ids absent from the store resolve to nil rather than an error.
func (s *Service) ownerBatchFn() dataloader.BatchFunc[string, *domain.Owner] {
	return func(ctx context.Context, keys []string) []*dataloader.Result[*domain.Owner] {
		docs, err := s.store.BatchGet(ctx, ownersCollection, keys)
		if err != nil {
			results := make([]*dataloader.Result[*domain.Owner], len(keys))
			for i := range results {
				results[i] = &dataloader.Result[*domain.Owner]{Error: err}
			}
			return results
		}

		byID := make(map[string]*domain.Owner, len(docs))
		for _, doc := range docs {
			owner := decodeOwner(doc)
			byID[doc.ID] = &owner
		}

		results := make([]*dataloader.Result[*domain.Owner], len(keys))
		for i, key := range keys {
			results[i] = &dataloader.Result[*domain.Owner]{Data: byID[key]}
		}
		return results
	}
}
