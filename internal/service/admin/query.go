package admin

import (
	"sort"
	"strings"

	"github.com/promptstack/console-backend/internal/docstore"
	"github.com/promptstack/console-backend/internal/domain"
)

// prefixUpperBound is the highest assigned codepoint in the store's private
// use area; [v, v+prefixUpperBound) emulates prefix search on a store with
// no full-text index. Prefix-only by design: substring matching happens on
// the in-process path.
const prefixUpperBound = ""

// sortable whitelists sort fields per the stored payload shape.
var sortable = map[string]bool{
	"createdAt":   true,
	"updatedAt":   true,
	"title":       true,
	"views":       true,
	"likes":       true,
	"email":       true,
	"lastLoginAt": true,
}

func sortField(spec domain.QuerySpec) string {
	if sortable[spec.SortField] {
		return spec.SortField
	}
	return "createdAt"
}

// buildFilters translates the request filters into store predicates.
// Absent filters are omitted entirely; a nil filter never excludes rows.
func buildFilters(kind domain.Kind, f domain.Filters) []docstore.Filter {
	var out []docstore.Filter

	if kind == domain.KindUser {
		if f.Email != nil && *f.Email != "" {
			out = append(out,
				docstore.Filter{Field: "email", Op: docstore.OpGte, Value: *f.Email},
				docstore.Filter{Field: "email", Op: docstore.OpLt, Value: *f.Email + prefixUpperBound},
			)
		}
		if f.IsAdmin != nil {
			out = append(out, docstore.Filter{Field: "isAdmin", Op: docstore.OpEq, Value: *f.IsAdmin})
		}
		return out
	}

	if f.Title != nil && *f.Title != "" {
		out = append(out,
			docstore.Filter{Field: "title", Op: docstore.OpGte, Value: *f.Title},
			docstore.Filter{Field: "title", Op: docstore.OpLt, Value: *f.Title + prefixUpperBound},
		)
	}
	if f.OwnerID != nil && *f.OwnerID != "" {
		out = append(out, docstore.Filter{Field: "userId", Op: docstore.OpEq, Value: *f.OwnerID})
	}
	if f.IsPublic != nil {
		out = append(out, docstore.Filter{Field: "isPublic", Op: docstore.OpEq, Value: *f.IsPublic})
	}
	return out
}

// ---------------------------------------------------------------------------
// In-process filter/sort/slice, shared by the flatten and fallback paths
// ---------------------------------------------------------------------------

// filterInProcess applies the request filters to materialized entities.
// Text search here is case-insensitive substring containment on title and
// content, intentionally broader than the store-side prefix range.
func filterInProcess(entities []domain.Entity, f domain.Filters) []domain.Entity {
	out := entities[:0:0]
	for _, e := range entities {
		if f.Title != nil && *f.Title != "" {
			term := strings.ToLower(*f.Title)
			if !strings.Contains(strings.ToLower(e.Title), term) &&
				!strings.Contains(strings.ToLower(e.Content), term) {
				continue
			}
		}
		if f.Email != nil && *f.Email != "" {
			term := strings.ToLower(*f.Email)
			if !strings.Contains(strings.ToLower(e.Title), term) {
				continue
			}
		}
		if f.OwnerID != nil && *f.OwnerID != "" && e.OwnerID != *f.OwnerID {
			continue
		}
		if f.IsPublic != nil && e.IsPublic != *f.IsPublic {
			continue
		}
		out = append(out, e)
	}
	return out
}

func sortEntities(entities []domain.Entity, field string, desc bool) {
	sort.SliceStable(entities, func(i, j int) bool {
		less := entityLess(entities[i], entities[j], field)
		if desc {
			return entityLess(entities[j], entities[i], field)
		}
		return less
	})
}

func entityLess(a, b domain.Entity, field string) bool {
	switch field {
	case "title", "email":
		return a.Title < b.Title
	case "updatedAt":
		return a.UpdatedAt < b.UpdatedAt
	case "views":
		return a.Views < b.Views
	case "likes":
		return a.Likes < b.Likes
	default:
		return a.CreatedAt < b.CreatedAt
	}
}

// slicePage returns the [offset, offset+limit) window.
func slicePage(entities []domain.Entity, offset, limit int) []domain.Entity {
	if offset >= len(entities) {
		return []domain.Entity{}
	}
	entities = entities[offset:]
	if limit > 0 && limit < len(entities) {
		entities = entities[:limit]
	}
	return entities
}
