package docstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/promptstack/console-backend/internal/docstore"
)

// mapError converts pgx errors to docstore errors.
// context.DeadlineExceeded and context.Canceled are NOT mapped — they pass through.
func mapError(err error, path, id string) error {
	if err == nil {
		return nil
	}

	// context errors pass through as-is
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s/%s: %w", path, id, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s/%s: %w", path, id, docstore.ErrNotFound)
	}

	return fmt.Errorf("%s/%s: %w", path, id, err)
}
