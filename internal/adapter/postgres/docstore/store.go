// Package docstore implements the document store contract on PostgreSQL.
// Documents live in a single JSONB table keyed by (path, doc_id); dynamic
// filter/sort/paginate SQL is built with squirrel.
package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/promptstack/console-backend/internal/docstore"
)

const table = "documents"

// numericFields are payload fields ordered and compared numerically.
var numericFields = map[string]bool{
	"createdAt":   true,
	"updatedAt":   true,
	"views":       true,
	"likes":       true,
	"lastLoginAt": true,
}

var fieldNameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Store is the PostgreSQL-backed document store.
type Store struct {
	pool *pgxpool.Pool
	// groupIndexed collection names accept collection-group queries;
	// everything else reports ErrUnsupportedQuery, forcing callers onto
	// the scatter-gather path, mirroring the production store's composite
	// index surface.
	groupIndexed map[string]bool
}

// New creates a Store. groupIndexed lists the collection names with a
// cross-tenant index.
func New(pool *pgxpool.Pool, groupIndexed []string) *Store {
	idx := make(map[string]bool, len(groupIndexed))
	for _, name := range groupIndexed {
		idx[name] = true
	}
	return &Store{pool: pool, groupIndexed: idx}
}

func (s *Store) List(ctx context.Context, path string) ([]docstore.Document, error) {
	return s.run(ctx, s.base().Where(sq.Eq{"path": path}).OrderBy("doc_id"))
}

func (s *Store) Query(ctx context.Context, path string, q docstore.Query) ([]docstore.Document, error) {
	builder, err := applyQuery(s.base().Where(sq.Eq{"path": path}), q)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, builder)
}

func (s *Store) Count(ctx context.Context, path string, filters []docstore.Filter) (int, error) {
	builder, err := applyFilters(countBase().Where(sq.Eq{"path": path}), filters)
	if err != nil {
		return 0, err
	}
	return s.runCount(ctx, builder)
}

func (s *Store) GroupQuery(ctx context.Context, name string, q docstore.Query) ([]docstore.Document, error) {
	if !s.groupIndexed[name] {
		return nil, fmt.Errorf("group %s: %w", name, docstore.ErrUnsupportedQuery)
	}
	builder, err := applyQuery(s.base().Where(sq.Eq{"collection": name}), q)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, builder)
}

func (s *Store) GroupCount(ctx context.Context, name string, filters []docstore.Filter) (int, error) {
	if !s.groupIndexed[name] {
		return 0, fmt.Errorf("group %s: %w", name, docstore.ErrUnsupportedQuery)
	}
	builder, err := applyFilters(countBase().Where(sq.Eq{"collection": name}), filters)
	if err != nil {
		return 0, err
	}
	return s.runCount(ctx, builder)
}

// GroupFindByID works regardless of group indexing: the primary key suffix
// makes an id lookup cheap on any collection name.
func (s *Store) GroupFindByID(ctx context.Context, name, id string) ([]docstore.Document, error) {
	return s.run(ctx, s.base().
		Where(sq.Eq{"collection": name, "doc_id": id}).
		OrderBy("parent_id"))
}

func (s *Store) Get(ctx context.Context, path, id string) (docstore.Document, error) {
	sql, args, err := s.base().Where(sq.Eq{"path": path, "doc_id": id}).ToSql()
	if err != nil {
		return docstore.Document{}, fmt.Errorf("build get: %w", err)
	}

	row := s.pool.QueryRow(ctx, sql, args...)
	doc, err := scanDocument(row)
	if err != nil {
		return docstore.Document{}, mapError(err, path, id)
	}
	return doc, nil
}

func (s *Store) BatchGet(ctx context.Context, path string, ids []string) ([]docstore.Document, error) {
	if len(ids) == 0 {
		return []docstore.Document{}, nil
	}
	return s.run(ctx, s.base().Where(sq.Eq{"path": path, "doc_id": ids}))
}

// Put upserts a full document payload. Not part of the Store contract the
// aggregation layer consumes; used by the seeder and integration tests.
func (s *Store) Put(ctx context.Context, path, id string, data map[string]any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	collection, parent := splitPath(path)

	sql, args, err := sq.Insert(table).
		Columns("path", "doc_id", "collection", "parent_id", "data").
		Values(path, id, collection, parent, string(payload)).
		Suffix("ON CONFLICT (path, doc_id) DO UPDATE SET data = EXCLUDED.data").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("build put: %w", err)
	}

	if _, err := s.pool.Exec(ctx, sql, args...); err != nil {
		return mapError(err, path, id)
	}
	return nil
}

// splitPath derives the collection name and tenant parent from a path:
// "products" is flat, "myprompts/u1/myprompts" belongs to tenant u1.
func splitPath(path string) (collection, parent string) {
	parts := strings.Split(path, "/")
	if len(parts) == 3 {
		return parts[2], parts[1]
	}
	return parts[0], ""
}

// Update merges fields into the document payload. It never creates rows.
func (s *Store) Update(ctx context.Context, path, id string, fields map[string]any) error {
	patch, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshal update: %w", err)
	}

	sql, args, err := sq.Update(table).
		Set("data", sq.Expr("data || ?::jsonb", string(patch))).
		Where(sq.Eq{"path": path, "doc_id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := s.pool.Exec(ctx, sql, args...)
	if err != nil {
		return mapError(err, path, id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s/%s: %w", path, id, docstore.ErrNotFound)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, path, id string) error {
	sql, args, err := sq.Delete(table).
		Where(sq.Eq{"path": path, "doc_id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := s.pool.Exec(ctx, sql, args...)
	if err != nil {
		return mapError(err, path, id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s/%s: %w", path, id, docstore.ErrNotFound)
	}
	return nil
}

// ---------------------------------------------------------------------------
// SQL building
// ---------------------------------------------------------------------------

func (s *Store) base() sq.SelectBuilder {
	return sq.Select("doc_id", "parent_id", "data").
		From(table).
		PlaceholderFormat(sq.Dollar)
}

func countBase() sq.SelectBuilder {
	return sq.Select("count(*)").From(table).PlaceholderFormat(sq.Dollar)
}

// fieldExpr addresses a payload field, cast for numeric comparisons.
func fieldExpr(field string) (string, error) {
	if !fieldNameRe.MatchString(field) {
		return "", fmt.Errorf("field %q: %w", field, docstore.ErrUnsupportedQuery)
	}
	expr := fmt.Sprintf("data->>'%s'", field)
	if numericFields[field] {
		expr = fmt.Sprintf("(%s)::numeric", expr)
	}
	return expr, nil
}

func applyFilters(builder sq.SelectBuilder, filters []docstore.Filter) (sq.SelectBuilder, error) {
	for _, f := range filters {
		expr, err := fieldExpr(f.Field)
		if err != nil {
			return builder, err
		}

		value := f.Value
		if b, ok := value.(bool); ok {
			// JSONB booleans come back as text through ->>.
			expr = fmt.Sprintf("(data->>'%s')::boolean", f.Field)
			value = b
		}

		switch f.Op {
		case docstore.OpEq:
			builder = builder.Where(sq.Expr(expr+" = ?", value))
		case docstore.OpGte:
			builder = builder.Where(sq.Expr(expr+" >= ?", value))
		case docstore.OpLt:
			builder = builder.Where(sq.Expr(expr+" < ?", value))
		default:
			return builder, fmt.Errorf("operator %q: %w", f.Op, docstore.ErrUnsupportedQuery)
		}
	}
	return builder, nil
}

func applyQuery(builder sq.SelectBuilder, q docstore.Query) (sq.SelectBuilder, error) {
	builder, err := applyFilters(builder, q.Filters)
	if err != nil {
		return builder, err
	}

	if q.OrderBy != "" {
		expr, err := fieldExpr(q.OrderBy)
		if err != nil {
			return builder, err
		}
		dir := " ASC"
		if q.Desc {
			dir = " DESC"
		}
		builder = builder.OrderBy(expr + dir)
	}

	if q.Limit > 0 {
		builder = builder.Limit(uint64(q.Limit))
	}
	if q.Offset > 0 {
		builder = builder.Offset(uint64(q.Offset))
	}
	return builder, nil
}

// ---------------------------------------------------------------------------
// Execution
// ---------------------------------------------------------------------------

func (s *Store) run(ctx context.Context, builder sq.SelectBuilder) ([]docstore.Document, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var docs []docstore.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}

func (s *Store) runCount(ctx context.Context, builder sq.SelectBuilder) (int, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var count int
	if err := s.pool.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return count, nil
}

func scanDocument(row pgx.Row) (docstore.Document, error) {
	var (
		doc docstore.Document
		raw []byte
	)
	if err := row.Scan(&doc.ID, &doc.Parent, &raw); err != nil {
		return docstore.Document{}, err
	}
	if err := json.Unmarshal(raw, &doc.Data); err != nil {
		return docstore.Document{}, fmt.Errorf("decode payload: %w", err)
	}
	return doc, nil
}
