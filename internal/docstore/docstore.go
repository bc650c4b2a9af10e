// Package docstore defines the document store contract the aggregation layer
// is written against. The store itself (consistency, indexing, persistence)
// is an external collaborator; two implementations ship with the backend:
// a Postgres/JSONB adapter and an in-memory store for tests and local runs.
package docstore

import (
	"context"
	"errors"
)

// ErrUnsupportedQuery is returned when the store cannot execute a filter +
// sort combination natively (missing composite index, unindexed collection
// group). Callers fall back to the in-process scatter-gather path.
var ErrUnsupportedQuery = errors.New("unsupported query shape")

// ErrNotFound is returned by Get/Update/Delete when the document is absent.
var ErrNotFound = errors.New("document not found")

// Document is one stored record. Data is the opaque schema-less payload.
// Parent is the owning tenant id for subcollection documents, "" for flat
// collections.
type Document struct {
	ID     string
	Parent string
	Data   map[string]any
}

// Op is a filter comparison operator.
type Op string

const (
	OpEq  Op = "=="
	OpGte Op = ">="
	OpLt  Op = "<"
)

// Filter is a single field predicate.
type Filter struct {
	Field string
	Op    Op
	Value any
}

// Query describes a filtered, ordered, paginated collection read.
// OrderBy applies exactly one field; an empty OrderBy means store order.
type Query struct {
	Filters []Filter
	OrderBy string
	Desc    bool
	Limit   int
	Offset  int
}

// Store is the outbound contract to the document store.
//
// path arguments name a concrete collection: either a top-level collection
// ("products") or one tenant's subcollection ("myprompts/u1/myprompts").
// name arguments address a collection group across all tenants.
type Store interface {
	// List returns every document of a collection, in store order.
	List(ctx context.Context, path string) ([]Document, error)
	// Query returns documents matching q.
	Query(ctx context.Context, path string, q Query) ([]Document, error)
	// Count runs a count-only execution of the same filter predicate.
	Count(ctx context.Context, path string, filters []Filter) (int, error)

	// GroupQuery queries a collection group across all tenants. Returns
	// ErrUnsupportedQuery when the group is not indexed for this name or
	// query shape.
	GroupQuery(ctx context.Context, name string, q Query) ([]Document, error)
	// GroupCount is the count-only form of GroupQuery.
	GroupCount(ctx context.Context, name string, filters []Filter) (int, error)
	// GroupFindByID locates documents by identifier across all tenants of a
	// collection group, regardless of group indexing. At most a handful of
	// matches is expected; duplicate ids across tenants are a data defect
	// handled by the caller.
	GroupFindByID(ctx context.Context, name, id string) ([]Document, error)

	// Get returns one document by id.
	Get(ctx context.Context, path, id string) (Document, error)
	// BatchGet returns the documents whose ids exist; missing ids are simply
	// absent from the result.
	BatchGet(ctx context.Context, path string, ids []string) ([]Document, error)
	// Update merges fields into a document and fails with ErrNotFound when
	// it does not exist. It never creates documents.
	Update(ctx context.Context, path, id string, fields map[string]any) error
	// Delete removes a document, ErrNotFound when absent.
	Delete(ctx context.Context, path, id string) error
}
