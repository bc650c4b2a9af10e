package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/promptstack/console-backend/internal/docstore"
	"github.com/promptstack/console-backend/internal/domain"
	"github.com/promptstack/console-backend/internal/schema"
)

// activeMultiplier approximates the "active" fraction per kind in the
// absence of a true activity signal. Carried over from the observed product
// behavior; replace summarize when a real signal lands.
var activeMultiplier = map[domain.Kind]float64{
	domain.KindUser:       0.7,
	domain.KindProduct:    0.6,
	domain.KindPrompt:     0.5,
	domain.KindStack:      0.5,
	domain.KindCollection: 0.5,
	domain.KindAgent:      0.5,
}

// trendingFactor is the fraction of "new" reported as trending.
const trendingFactor = 0.4

// Stats returns the per-kind dashboard summary. Counts are fetched
// concurrently; a failed kind reports zeroes and flags the result partial.
// The summarizer itself issues no store calls.
func (s *Service) Stats(ctx context.Context) (domain.Stats, error) {
	cutoff := s.now().Add(-newWindowDays * 24 * time.Hour).Unix()

	kinds := []domain.Kind{
		domain.KindUser,
		domain.KindProduct,
		domain.KindPrompt,
		domain.KindStack,
		domain.KindCollection,
		domain.KindAgent,
	}

	perKind := make([]domain.KindStats, len(kinds))
	partials := make([]bool, len(kinds))

	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		g.Go(func() error {
			total, fresh, err := s.kindCounts(gctx, kind, cutoff)
			if err != nil {
				s.log.WarnContext(gctx, "stats fetch failed, kind zeroed",
					slog.String("kind", kind.String()),
					slog.String("error", err.Error()),
				)
				partials[i] = true
				return nil
			}
			perKind[i] = summarize(kind, total, fresh)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.Stats{}, err
	}

	partial := false
	for _, p := range partials {
		partial = partial || p
	}

	return domain.Stats{
		Users:       perKind[0],
		Products:    perKind[1],
		Prompts:     perKind[2],
		Stacks:      perKind[3],
		Collections: perKind[4],
		Agents:      perKind[5],
		Partial:     partial,
	}, nil
}

// summarize derives the dashboard numbers from already-fetched counts.
func summarize(kind domain.Kind, total, fresh int) domain.KindStats {
	stats := domain.KindStats{
		Total:  total,
		Active: int(math.Floor(float64(total) * activeMultiplier[kind])),
		New:    fresh,
	}
	// Users carry no trending metric on the dashboard.
	if kind != domain.KindUser {
		stats.Trending = int(math.Floor(float64(fresh) * trendingFactor))
	}
	return stats
}

// kindCounts returns (total, created-in-window) for one kind.
func (s *Service) kindCounts(ctx context.Context, kind domain.Kind, cutoff int64) (int, int, error) {
	loc, err := schema.Resolve(kind)
	if err != nil {
		return 0, 0, err
	}

	freshFilter := []docstore.Filter{{Field: "createdAt", Op: docstore.OpGte, Value: cutoff}}

	if loc.Style == schema.Flat {
		total, err := s.store.Count(ctx, loc.Collection, nil)
		if err != nil {
			return 0, 0, fmt.Errorf("count %s: %w", loc.Collection, err)
		}
		fresh, err := s.store.Count(ctx, loc.Collection, freshFilter)
		if err != nil {
			return 0, 0, fmt.Errorf("count new %s: %w", loc.Collection, err)
		}
		return total, fresh, nil
	}

	if loc.GroupIndexed {
		total, err := s.store.GroupCount(ctx, loc.Collection, nil)
		if err == nil {
			fresh, err := s.store.GroupCount(ctx, loc.Collection, freshFilter)
			if err == nil {
				return total, fresh, nil
			}
			if !errors.Is(err, docstore.ErrUnsupportedQuery) {
				return 0, 0, fmt.Errorf("group count new %s: %w", loc.Collection, err)
			}
		} else if !errors.Is(err, docstore.ErrUnsupportedQuery) {
			return 0, 0, fmt.Errorf("group count %s: %w", loc.Collection, err)
		}
	}

	// Manual count over the scatter-gather materialization.
	all, _, err := s.flatten(ctx, kind, loc)
	if err != nil {
		return 0, 0, err
	}
	fresh := 0
	for _, e := range all {
		if e.CreatedAt >= cutoff {
			fresh++
		}
	}
	return len(all), fresh, nil
}
