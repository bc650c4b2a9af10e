package domain

// Entity is the base shape shared by all content kinds. Timestamps are unix
// seconds, matching the stored payloads. Extra carries per-kind attributes
// (agent capabilities, stack components, ...) that the aggregation layer
// never interprets.
type Entity struct {
	ID        string         `json:"id"`
	Kind      Kind           `json:"kind"`
	OwnerID   string         `json:"userId"`
	Title     string         `json:"title"`
	Content   string         `json:"content,omitempty"`
	IsPublic  bool           `json:"isPublic"`
	Views     int            `json:"views"`
	Likes     int            `json:"likes"`
	Tags      []string       `json:"tags,omitempty"`
	CreatedAt int64          `json:"createdAt"`
	UpdatedAt int64          `json:"updatedAt"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// Owner is the user record joined onto entity rows. Read-only in this layer.
type Owner struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	IsAdmin     bool   `json:"isAdmin"`
	CreatedAt   int64  `json:"createdAt"`
	LastLoginAt int64  `json:"lastLoginAt,omitempty"`
}

// EnrichedEntity is an entity with its owner attached. Owner is nil when the
// owner record does not exist; the entity row is never dropped for that.
type EnrichedEntity struct {
	Entity
	Owner *Owner `json:"user,omitempty"`
}
