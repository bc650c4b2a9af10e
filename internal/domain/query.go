package domain

// Filters holds the per-kind filter predicates an admin can apply.
// Nil pointers mean "not filtered"; a nil filter must never exclude rows.
type Filters struct {
	// Title matches title prefix on store-side queries and case-insensitive
	// title/content substring on the flatten path.
	Title *string
	// Email matches email prefix (users only).
	Email *string
	// OwnerID is an exact match on the owning user.
	OwnerID *string
	// IsPublic is an exact match (content kinds).
	IsPublic *bool
	// IsAdmin is an exact match (users only).
	IsAdmin *bool
}

// QuerySpec describes one listing request. Constructed per request, never
// persisted.
type QuerySpec struct {
	Filters Filters
	// SortField defaults to "createdAt".
	SortField string
	// SortDesc selects descending order; the transport defaults it to true.
	SortDesc bool
	// Page is 1-based; values <= 0 are normalized to 1.
	Page     int
	PageSize int
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 200
)

// Normalize applies defaults and clamps values.
func (q *QuerySpec) Normalize() {
	if q.SortField == "" {
		q.SortField = "createdAt"
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
}

// Offset returns the number of rows to skip for the current page.
func (q QuerySpec) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// Page is one page of enriched entities.
//
// Partial is set when one or more tenant or owner sub-fetches failed and
// their rows are omitted; the page is still returned as a best effort.
type Page struct {
	Items      []EnrichedEntity `json:"items"`
	TotalCount int              `json:"totalCount"`
	Partial    bool             `json:"partial,omitempty"`
}
