package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptstack/console-backend/internal/docstore"
	"github.com/promptstack/console-backend/internal/domain"
)

func TestBuildFilters_TitlePrefixRange(t *testing.T) {
	t.Parallel()

	filters := buildFilters(domain.KindProduct, domain.Filters{Title: ptr("Wid")})
	require.Len(t, filters, 2)

	assert.Equal(t, docstore.Filter{Field: "title", Op: docstore.OpGte, Value: "Wid"}, filters[0])
	assert.Equal(t, docstore.Filter{Field: "title", Op: docstore.OpLt, Value: "Wid" + prefixUpperBound}, filters[1])
}

func TestBuildFilters_UsersIgnoreContentFilters(t *testing.T) {
	t.Parallel()

	filters := buildFilters(domain.KindUser, domain.Filters{
		Title:    ptr("nope"),
		IsPublic: ptr(true),
		IsAdmin:  ptr(true),
	})

	require.Len(t, filters, 1)
	assert.Equal(t, "isAdmin", filters[0].Field)
}

func TestBuildFilters_NilFiltersExcludeNothing(t *testing.T) {
	t.Parallel()

	assert.Empty(t, buildFilters(domain.KindProduct, domain.Filters{}))
	assert.Empty(t, buildFilters(domain.KindProduct, domain.Filters{Title: ptr("")}))
}

func TestSortField_Whitelist(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "views", sortField(domain.QuerySpec{SortField: "views"}))
	assert.Equal(t, "createdAt", sortField(domain.QuerySpec{SortField: "data->>'x'; drop table"}))
	assert.Equal(t, "createdAt", sortField(domain.QuerySpec{}))
}

func TestFilterInProcess_SubstringOverTitleAndContent(t *testing.T) {
	t.Parallel()

	entities := []domain.Entity{
		{ID: "1", Title: "Greeting Maker"},
		{ID: "2", Title: "Other", Content: "says a friendly GREETING"},
		{ID: "3", Title: "Unrelated"},
	}

	got := filterInProcess(entities, domain.Filters{Title: ptr("greeting")})
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "2", got[1].ID)
}

func TestSlicePage_Bounds(t *testing.T) {
	t.Parallel()

	entities := []domain.Entity{{ID: "1"}, {ID: "2"}, {ID: "3"}}

	assert.Len(t, slicePage(entities, 0, 2), 2)
	assert.Len(t, slicePage(entities, 2, 2), 1)
	assert.Empty(t, slicePage(entities, 3, 2))
	assert.Empty(t, slicePage(entities, 99, 2))
}

func TestSortEntities_StableTies(t *testing.T) {
	t.Parallel()

	entities := []domain.Entity{
		{ID: "b", CreatedAt: 100},
		{ID: "a", CreatedAt: 100},
		{ID: "c", CreatedAt: 50},
	}

	sortEntities(entities, "createdAt", true)

	// Descending by createdAt; equal keys keep their original order.
	assert.Equal(t, "b", entities[0].ID)
	assert.Equal(t, "a", entities[1].ID)
	assert.Equal(t, "c", entities[2].ID)
}
