// Package admin implements the administrative aggregation and query layer:
// cross-tenant listing, owner joins, activity analytics, dashboard stats,
// and group-wide bulk mutation over the document store.
package admin

import (
	"log/slog"
	"time"

	"github.com/promptstack/console-backend/internal/docstore"
)

const (
	// ownersCollection is where owner records live; owners are read-only
	// for this layer except through the explicit user mutations.
	ownersCollection = "users"

	// flattenConcurrency bounds the scatter-gather fan-out over tenants.
	flattenConcurrency = 8

	// newWindowDays is the recency window behind the "new" counters.
	newWindowDays = 7

	// defaultActivityDays is the dashboard's default chart window.
	defaultActivityDays = 30
	maxActivityDays     = 365
)

// Service implements the admin data aggregation and query operations.
type Service struct {
	log   *slog.Logger
	store docstore.Store

	// now is injectable for deterministic time-window tests.
	now func() time.Time
}

// NewService creates a new admin service instance.
func NewService(logger *slog.Logger, store docstore.Store) *Service {
	return &Service{
		log:   logger.With("service", "admin"),
		store: store,
		now:   time.Now,
	}
}
