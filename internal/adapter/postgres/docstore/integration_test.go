package docstore_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pgdocstore "github.com/promptstack/console-backend/internal/adapter/postgres/docstore"
	"github.com/promptstack/console-backend/internal/adapter/postgres/testhelper"
	"github.com/promptstack/console-backend/internal/docstore"
)

// newStore sets up a test DB and returns a Store with a unique collection
// namespace, so tests sharing the container never see each other's rows.
func newStore(t *testing.T, groupIndexed ...string) (*pgdocstore.Store, string) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	ns := "c" + uuid.NewString()[:8]
	for i := range groupIndexed {
		groupIndexed[i] = ns + groupIndexed[i]
	}
	return pgdocstore.New(pool, groupIndexed), ns
}

func TestStore_PutGetRoundTrip(t *testing.T) {
	t.Parallel()

	store, ns := newStore(t)
	ctx := context.Background()

	data := map[string]any{
		"title":     "Widget",
		"isPublic":  true,
		"views":     float64(42),
		"createdAt": float64(1700000000),
	}
	require.NoError(t, store.Put(ctx, ns+"products", "p1", data))

	doc, err := store.Get(ctx, ns+"products", "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", doc.ID)
	assert.Empty(t, doc.Parent)
	assert.Equal(t, "Widget", doc.Data["title"])
	assert.Equal(t, true, doc.Data["isPublic"])
	assert.Equal(t, float64(42), doc.Data["views"])

	_, err = store.Get(ctx, ns+"products", "ghost")
	require.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestStore_QueryFiltersSortsAndPages(t *testing.T) {
	t.Parallel()

	store, ns := newStore(t)
	ctx := context.Background()
	path := ns + "products"

	rows := []struct {
		id        string
		title     string
		isPublic  bool
		createdAt int64
	}{
		{"a", "Alpha", true, 30},
		{"b", "Beta", false, 10},
		{"c", "Widget One", true, 20},
		{"d", "Widget Two", true, 40},
	}
	for _, r := range rows {
		require.NoError(t, store.Put(ctx, path, r.id, map[string]any{
			"title": r.title, "isPublic": r.isPublic, "createdAt": r.createdAt,
		}))
	}

	// Prefix range over title.
	docs, err := store.Query(ctx, path, docstore.Query{
		Filters: []docstore.Filter{
			{Field: "title", Op: docstore.OpGte, Value: "Widget"},
			{Field: "title", Op: docstore.OpLt, Value: "Widget"},
		},
		OrderBy: "createdAt",
		Desc:    true,
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "d", docs[0].ID)
	assert.Equal(t, "c", docs[1].ID)

	// Boolean filter with count.
	count, err := store.Count(ctx, path, []docstore.Filter{
		{Field: "isPublic", Op: docstore.OpEq, Value: true},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// Numeric sort with limit and offset.
	docs, err = store.Query(ctx, path, docstore.Query{
		OrderBy: "createdAt",
		Limit:   2,
		Offset:  1,
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "c", docs[0].ID)
	assert.Equal(t, "a", docs[1].ID)
}

func TestStore_GroupQueryAcrossTenants(t *testing.T) {
	t.Parallel()

	store, ns := newStore(t, "myagents")
	ctx := context.Background()
	name := ns + "myagents"

	require.NoError(t, store.Put(ctx, name+"/t1/"+name, "a1", map[string]any{"createdAt": 1}))
	require.NoError(t, store.Put(ctx, name+"/t2/"+name, "a2", map[string]any{"createdAt": 2}))

	docs, err := store.GroupQuery(ctx, name, docstore.Query{OrderBy: "createdAt"})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "t1", docs[0].Parent)
	assert.Equal(t, "t2", docs[1].Parent)

	count, err := store.GroupCount(ctx, name, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// An unindexed name is rejected before touching the database.
	_, err = store.GroupQuery(ctx, ns+"unknown", docstore.Query{})
	require.ErrorIs(t, err, docstore.ErrUnsupportedQuery)
}

func TestStore_GroupFindByID(t *testing.T) {
	t.Parallel()

	// Works without a group index.
	store, ns := newStore(t)
	ctx := context.Background()
	name := ns + "myprompts"

	require.NoError(t, store.Put(ctx, name+"/t1/"+name, "p1", map[string]any{"title": "Mine"}))
	require.NoError(t, store.Put(ctx, name+"/t2/"+name, "p2", map[string]any{"title": "Theirs"}))

	docs, err := store.GroupFindByID(ctx, name, "p1")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "t1", docs[0].Parent)

	docs, err = store.GroupFindByID(ctx, name, "ghost")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestStore_BatchGetSkipsMissing(t *testing.T) {
	t.Parallel()

	store, ns := newStore(t)
	ctx := context.Background()
	path := ns + "users"

	require.NoError(t, store.Put(ctx, path, "u1", map[string]any{"email": "a@example.com"}))
	require.NoError(t, store.Put(ctx, path, "u2", map[string]any{"email": "b@example.com"}))

	docs, err := store.BatchGet(ctx, path, []string{"u1", "ghost", "u2"})
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	docs, err = store.BatchGet(ctx, path, nil)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestStore_UpdateMergesJSONB(t *testing.T) {
	t.Parallel()

	store, ns := newStore(t)
	ctx := context.Background()
	path := ns + "products"

	require.NoError(t, store.Put(ctx, path, "p1", map[string]any{
		"title": "Old", "views": 3,
	}))

	require.NoError(t, store.Update(ctx, path, "p1", map[string]any{
		"title": "New", "updatedAt": 1700000001,
	}))

	doc, err := store.Get(ctx, path, "p1")
	require.NoError(t, err)
	assert.Equal(t, "New", doc.Data["title"])
	assert.Equal(t, float64(3), doc.Data["views"])
	assert.Equal(t, float64(1700000001), doc.Data["updatedAt"])

	require.ErrorIs(t, store.Update(ctx, path, "ghost", map[string]any{"x": 1}), docstore.ErrNotFound)
}

func TestStore_Delete(t *testing.T) {
	t.Parallel()

	store, ns := newStore(t)
	ctx := context.Background()
	path := ns + "products"

	require.NoError(t, store.Put(ctx, path, "p1", map[string]any{"title": "X"}))
	require.NoError(t, store.Delete(ctx, path, "p1"))

	_, err := store.Get(ctx, path, "p1")
	require.ErrorIs(t, err, docstore.ErrNotFound)

	require.ErrorIs(t, store.Delete(ctx, path, "p1"), docstore.ErrNotFound)
}

func TestStore_PutUpserts(t *testing.T) {
	t.Parallel()

	store, ns := newStore(t)
	ctx := context.Background()
	path := ns + "products"

	require.NoError(t, store.Put(ctx, path, "p1", map[string]any{"title": "First"}))
	require.NoError(t, store.Put(ctx, path, "p1", map[string]any{"title": "Second"}))

	doc, err := store.Get(ctx, path, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Second", doc.Data["title"])

	count, err := store.Count(ctx, path, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
