package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/promptstack/console-backend/internal/docstore"
	"github.com/promptstack/console-backend/internal/domain"
	"github.com/promptstack/console-backend/internal/schema"
)

// Delete removes one entity by kind and id, wherever it lives.
func (s *Service) Delete(ctx context.Context, kind domain.Kind, id string) error {
	if id == "" {
		return domain.NewValidationError("id", "id is required")
	}

	loc, err := schema.Resolve(kind)
	if err != nil {
		return err
	}

	path, err := s.locate(ctx, loc, id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, path, id); err != nil {
		return mapStoreErr(err, kind, id)
	}

	s.log.InfoContext(ctx, "entity deleted",
		slog.String("kind", kind.String()),
		slog.String("id", id),
	)
	return nil
}

// Update merges fields into one entity. The id field, if present in the
// payload, is stripped: an entity's identity is immutable. updatedAt is
// always stamped.
func (s *Service) Update(ctx context.Context, kind domain.Kind, id string, fields map[string]any) error {
	if id == "" {
		return domain.NewValidationError("id", "id is required")
	}
	if len(fields) == 0 {
		return domain.NewValidationError("fields", "no fields to update")
	}

	loc, err := schema.Resolve(kind)
	if err != nil {
		return err
	}

	updates := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		if k == "id" {
			continue
		}
		updates[k] = v
	}
	updates["updatedAt"] = s.now().Unix()

	path, err := s.locate(ctx, loc, id)
	if err != nil {
		return err
	}

	if err := s.store.Update(ctx, path, id, updates); err != nil {
		return mapStoreErr(err, kind, id)
	}

	s.log.InfoContext(ctx, "entity updated",
		slog.String("kind", kind.String()),
		slog.String("id", id),
	)
	return nil
}

// BulkDelete deletes each id in turn and reports a per-item outcome.
// Individual failures never abort the batch.
func (s *Service) BulkDelete(ctx context.Context, kind domain.Kind, ids []string) []domain.MutationOutcome {
	outcomes := make([]domain.MutationOutcome, 0, len(ids))
	for _, id := range ids {
		outcome := domain.MutationOutcome{TargetID: id, Success: true}
		if err := s.Delete(ctx, kind, id); err != nil {
			outcome.Success = false
			outcome.Error = outcomeError(err)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// locate resolves the concrete collection path holding id. Flat kinds are
// addressed directly; per-tenant kinds need a cross-tenant lookup because
// the owning tenant is unknown without a reverse index.
func (s *Service) locate(ctx context.Context, loc schema.Locator, id string) (string, error) {
	if loc.Style == schema.Flat {
		return loc.Collection, nil
	}

	matches, err := s.store.GroupFindByID(ctx, loc.Collection, id)
	if err != nil {
		return "", fmt.Errorf("locate %s in %s: %w", id, loc.Collection, err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%s %s: %w", loc.Collection, id, domain.ErrNotFound)
	}
	if len(matches) > 1 {
		// Ids are expected unique within a kind; mutate the first match.
		s.log.WarnContext(ctx, "multiple documents share id, mutating first",
			slog.String("collection", loc.Collection),
			slog.String("id", id),
			slog.Int("matches", len(matches)),
		)
	}
	return loc.SubPath(matches[0].Parent), nil
}

func mapStoreErr(err error, kind domain.Kind, id string) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return fmt.Errorf("%s %s: %w", kind, id, domain.ErrNotFound)
	}
	return fmt.Errorf("%s %s: %w", kind, id, err)
}

// outcomeError reduces an error to the stable string reported per item.
func outcomeError(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "NotFound"
	case errors.Is(err, domain.ErrValidation):
		return "ValidationError"
	}
	return err.Error()
}
