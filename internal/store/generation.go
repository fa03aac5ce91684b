package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/tenxcards/cards-api/internal/domain"
)

// GenerationStore defines the interface for generation-attempt persistence.
type GenerationStore interface {
	// Create inserts a new generation record and fills in its store-assigned
	// ID. Called at the start of an orchestration; count and duration are
	// zero at this point.
	Create(ctx context.Context, gen *domain.Generation) error

	// UpdateStats records the final generated count and duration (seconds)
	// for a generation after the external call resolves.
	UpdateStats(ctx context.Context, id int64, generatedCount, durationSeconds int) error

	// GetForUser retrieves a generation by ID, scoped to the given user.
	// Returns ErrGenerationNotFound if it does not exist or belongs to
	// someone else. Used for ownership checks before saving AI-sourced
	// flashcards.
	GetForUser(ctx context.Context, id int64, userID uuid.UUID) (*domain.Generation, error)

	// ListForUser returns one page of the user's generations, newest first,
	// plus the total count.
	ListForUser(
		ctx context.Context,
		userID uuid.UUID,
		page, limit int,
	) ([]*domain.Generation, int, error)

	// CreateErrorLog inserts a generation error-log record. Callers treat
	// this as best-effort bookkeeping.
	CreateErrorLog(ctx context.Context, log *domain.GenerationErrorLog) error
}
