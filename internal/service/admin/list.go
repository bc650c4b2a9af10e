package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/promptstack/console-backend/internal/docstore"
	"github.com/promptstack/console-backend/internal/domain"
	"github.com/promptstack/console-backend/internal/schema"
)

// List returns one page of entities of a kind across all tenants, with
// owners attached. The store-side query path is used whenever the kind's
// layout and the requested shape allow it; otherwise the full scatter-gather
// materialization runs with in-process filtering.
func (s *Service) List(ctx context.Context, kind domain.Kind, spec domain.QuerySpec) (domain.Page, error) {
	spec.Normalize()

	loc, err := schema.Resolve(kind)
	if err != nil {
		return domain.Page{}, err
	}

	var (
		entities []domain.Entity
		total    int
		partial  bool
	)

	switch {
	case loc.Style == schema.Flat:
		entities, total, partial, err = s.queryCollection(ctx, kind, loc, spec)
	case loc.GroupIndexed:
		entities, total, partial, err = s.queryGroup(ctx, kind, loc, spec)
	default:
		entities, total, partial, err = s.listFlattened(ctx, kind, loc, spec)
	}
	if err != nil {
		return domain.Page{}, err
	}

	items, enrichPartial := s.enrichUnlessUsers(ctx, kind, entities)

	return domain.Page{
		Items:      items,
		TotalCount: total,
		Partial:    partial || enrichPartial,
	}, nil
}

// queryCollection runs the filtered/sorted/paginated read against a flat
// collection. The count runs the same predicate, never a fetched page.
func (s *Service) queryCollection(ctx context.Context, kind domain.Kind, loc schema.Locator, spec domain.QuerySpec) ([]domain.Entity, int, bool, error) {
	filters := buildFilters(kind, spec.Filters)

	total, err := s.store.Count(ctx, loc.Collection, filters)
	if errors.Is(err, docstore.ErrUnsupportedQuery) {
		return s.fallbackFlat(ctx, kind, loc, spec)
	}
	if err != nil {
		return nil, 0, false, fmt.Errorf("count %s: %w", loc.Collection, err)
	}

	docs, err := s.store.Query(ctx, loc.Collection, docstore.Query{
		Filters: filters,
		OrderBy: sortField(spec),
		Desc:    spec.SortDesc,
		Limit:   spec.PageSize,
		Offset:  spec.Offset(),
	})
	if errors.Is(err, docstore.ErrUnsupportedQuery) {
		return s.fallbackFlat(ctx, kind, loc, spec)
	}
	if err != nil {
		return nil, 0, false, fmt.Errorf("query %s: %w", loc.Collection, err)
	}

	return s.decodeDocs(kind, docs), total, false, nil
}

// queryGroup runs the same read as a collection-group query, falling back to
// the scatter-gather path when the group is unindexed for this shape.
func (s *Service) queryGroup(ctx context.Context, kind domain.Kind, loc schema.Locator, spec domain.QuerySpec) ([]domain.Entity, int, bool, error) {
	filters := buildFilters(kind, spec.Filters)

	total, err := s.store.GroupCount(ctx, loc.Collection, filters)
	if err == nil {
		var docs []docstore.Document
		docs, err = s.store.GroupQuery(ctx, loc.Collection, docstore.Query{
			Filters: filters,
			OrderBy: sortField(spec),
			Desc:    spec.SortDesc,
			Limit:   spec.PageSize,
			Offset:  spec.Offset(),
		})
		if err == nil {
			return s.decodeDocs(kind, docs), total, false, nil
		}
	}
	if !errors.Is(err, docstore.ErrUnsupportedQuery) {
		return nil, 0, false, fmt.Errorf("group query %s: %w", loc.Collection, err)
	}

	s.log.InfoContext(ctx, "group query unsupported, falling back to flatten",
		slog.String("collection", loc.Collection),
	)
	return s.listFlattened(ctx, kind, loc, spec)
}

// listFlattened is the full-materialization path: all tenants, all records,
// then in-process substring filter, sort, and slice. totalCount is the
// filtered pre-slice length.
func (s *Service) listFlattened(ctx context.Context, kind domain.Kind, loc schema.Locator, spec domain.QuerySpec) ([]domain.Entity, int, bool, error) {
	all, partial, err := s.flatten(ctx, kind, loc)
	if err != nil {
		return nil, 0, false, err
	}
	return pageInProcess(all, spec, partial)
}

// fallbackFlat reloads a flat collection in full and pages it in process.
// Used when the store rejects the combined filter+sort shape.
func (s *Service) fallbackFlat(ctx context.Context, kind domain.Kind, loc schema.Locator, spec domain.QuerySpec) ([]domain.Entity, int, bool, error) {
	docs, err := s.store.List(ctx, loc.Collection)
	if err != nil {
		return nil, 0, false, fmt.Errorf("list %s: %w", loc.Collection, err)
	}
	return pageInProcess(s.decodeDocs(kind, docs), spec, false)
}

func pageInProcess(all []domain.Entity, spec domain.QuerySpec, partial bool) ([]domain.Entity, int, bool, error) {
	filtered := filterInProcess(all, spec.Filters)
	sortEntities(filtered, sortField(spec), spec.SortDesc)
	page := slicePage(filtered, spec.Offset(), spec.PageSize)
	return page, len(filtered), partial, nil
}

func (s *Service) decodeDocs(kind domain.Kind, docs []docstore.Document) []domain.Entity {
	now := s.now()
	entities := make([]domain.Entity, 0, len(docs))
	for _, doc := range docs {
		if kind == domain.KindUser {
			entities = append(entities, ownerAsEntity(doc, now))
			continue
		}
		entities = append(entities, decodeEntity(kind, doc, now))
	}
	return entities
}

// enrichUnlessUsers attaches owners to content rows. The users listing is
// the owner table itself, so it skips the join.
func (s *Service) enrichUnlessUsers(ctx context.Context, kind domain.Kind, entities []domain.Entity) ([]domain.EnrichedEntity, bool) {
	if kind == domain.KindUser {
		out := make([]domain.EnrichedEntity, len(entities))
		for i, e := range entities {
			out[i] = domain.EnrichedEntity{Entity: e}
		}
		return out, false
	}
	return s.enrich(ctx, entities)
}
