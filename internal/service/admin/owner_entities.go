package admin

import (
	"context"
	"fmt"

	"github.com/promptstack/console-backend/internal/docstore"
	"github.com/promptstack/console-backend/internal/domain"
	"github.com/promptstack/console-backend/internal/schema"
)

// OwnerEntities returns everything one tenant owns of a kind, for the admin
// user-detail view. Flat kinds filter by owner equality; per-tenant kinds
// read the tenant's subcollection directly, no scatter-gather needed.
func (s *Service) OwnerEntities(ctx context.Context, ownerID string, kind domain.Kind) ([]domain.Entity, error) {
	if ownerID == "" {
		return nil, domain.NewValidationError("ownerId", "ownerId is required")
	}
	if kind == domain.KindUser {
		return nil, domain.NewValidationError("kind", "users do not own users")
	}

	loc, err := schema.Resolve(kind)
	if err != nil {
		return nil, err
	}

	var docs []docstore.Document
	if loc.Style == schema.Flat {
		docs, err = s.store.Query(ctx, loc.Collection, docstore.Query{
			Filters: []docstore.Filter{{Field: "userId", Op: docstore.OpEq, Value: ownerID}},
		})
	} else {
		docs, err = s.store.List(ctx, loc.SubPath(ownerID))
	}
	if err != nil {
		return nil, fmt.Errorf("owner %s %s: %w", ownerID, kind, err)
	}

	now := s.now()
	entities := make([]domain.Entity, 0, len(docs))
	for _, doc := range docs {
		e := decodeEntity(kind, doc, now)
		e.OwnerID = ownerID
		entities = append(entities, e)
	}
	return entities, nil
}
