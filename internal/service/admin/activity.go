package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/promptstack/console-backend/internal/docstore"
	"github.com/promptstack/console-backend/internal/domain"
	"github.com/promptstack/console-backend/internal/schema"
)

const dayFormat = "2006-01-02"

// Activity produces the creation-activity time series for the dashboard:
// one dense bucket per UTC calendar day for the last windowDays days
// inclusive of today, ascending by date. Days with no events stay at zero
// so charts never show a missing category.
//
// Per-kind fetches run concurrently; a failed fetch zeroes that kind's
// contribution and marks the series partial instead of failing the call.
func (s *Service) Activity(ctx context.Context, windowDays int) ([]domain.ActivityBucket, bool, error) {
	if windowDays <= 0 {
		windowDays = defaultActivityDays
	}
	if windowDays > maxActivityDays {
		windowDays = maxActivityDays
	}

	now := s.now().UTC()
	windowStart := now.AddDate(0, 0, -(windowDays - 1)).Truncate(24 * time.Hour)
	startUnix := windowStart.Unix()

	series := []domain.Kind{
		domain.KindUser,
		domain.KindProduct,
		domain.KindPrompt,
		domain.KindStack,
		domain.KindCollection,
		domain.KindAgent,
	}

	timestamps := make([][]int64, len(series))
	partials := make([]bool, len(series))

	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range series {
		g.Go(func() error {
			ts, partial, err := s.creationTimes(gctx, kind, startUnix)
			if err != nil {
				s.log.WarnContext(gctx, "activity fetch failed, kind omitted",
					slog.String("kind", kind.String()),
					slog.String("error", err.Error()),
				)
				partials[i] = true
				return nil
			}
			timestamps[i] = ts
			partials[i] = partial
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, false, err
	}

	buckets := make([]domain.ActivityBucket, windowDays)
	index := make(map[string]*domain.ActivityBucket, windowDays)
	for i := range buckets {
		date := windowStart.AddDate(0, 0, i).Format(dayFormat)
		buckets[i] = domain.ActivityBucket{Date: date}
		index[date] = &buckets[i]
	}

	for i, kind := range series {
		for _, ts := range timestamps[i] {
			// Timestamps outside the initialized window (clock skew, bad
			// data) are dropped rather than expanding the series.
			bucket, ok := index[time.Unix(ts, 0).UTC().Format(dayFormat)]
			if !ok {
				continue
			}
			switch kind {
			case domain.KindUser:
				bucket.Signups++
			case domain.KindProduct:
				bucket.Products++
			case domain.KindPrompt:
				bucket.Prompts++
			case domain.KindStack:
				bucket.Stacks++
			case domain.KindCollection:
				bucket.Collections++
			case domain.KindAgent:
				bucket.Agents++
			}
		}
	}

	partial := false
	for _, p := range partials {
		partial = partial || p
	}
	return buckets, partial, nil
}

// creationTimes returns the createdAt stamps of a kind's documents created
// at or after startUnix, using the cheapest path the layout allows.
func (s *Service) creationTimes(ctx context.Context, kind domain.Kind, startUnix int64) ([]int64, bool, error) {
	loc, err := schema.Resolve(kind)
	if err != nil {
		return nil, false, err
	}

	rangeFilter := []docstore.Filter{{Field: "createdAt", Op: docstore.OpGte, Value: startUnix}}

	if loc.Style == schema.Flat {
		docs, err := s.store.Query(ctx, loc.Collection, docstore.Query{Filters: rangeFilter})
		if err != nil {
			return nil, false, fmt.Errorf("query %s: %w", loc.Collection, err)
		}
		return docTimes(docs), false, nil
	}

	if loc.GroupIndexed {
		docs, err := s.store.GroupQuery(ctx, loc.Collection, docstore.Query{Filters: rangeFilter})
		if err == nil {
			return docTimes(docs), false, nil
		}
		if !errors.Is(err, docstore.ErrUnsupportedQuery) {
			return nil, false, fmt.Errorf("group query %s: %w", loc.Collection, err)
		}
	}

	all, partial, err := s.flatten(ctx, kind, loc)
	if err != nil {
		return nil, false, err
	}
	var ts []int64
	for _, e := range all {
		if e.CreatedAt >= startUnix {
			ts = append(ts, e.CreatedAt)
		}
	}
	return ts, partial, nil
}

func docTimes(docs []docstore.Document) []int64 {
	ts := make([]int64, 0, len(docs))
	for _, doc := range docs {
		if v := asInt64(doc.Data["createdAt"]); v != 0 {
			ts = append(ts, v)
		}
	}
	return ts
}

// RecentSignups returns users created within the last seven days, newest
// first, capped at limit.
func (s *Service) RecentSignups(ctx context.Context, limit int) ([]domain.Owner, error) {
	if limit <= 0 {
		limit = 5
	}

	cutoff := s.now().Add(-newWindowDays * 24 * time.Hour).Unix()
	docs, err := s.store.Query(ctx, ownersCollection, docstore.Query{
		Filters: []docstore.Filter{{Field: "createdAt", Op: docstore.OpGte, Value: cutoff}},
		OrderBy: "createdAt",
		Desc:    true,
		Limit:   limit,
	})
	if err != nil {
		return nil, fmt.Errorf("recent signups: %w", err)
	}

	owners := make([]domain.Owner, 0, len(docs))
	for _, doc := range docs {
		owners = append(owners, decodeOwner(doc))
	}
	return owners, nil
}
