package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/tenxcards/cards-api/internal/domain"
)

// FlashcardListParams controls filtering, ordering, and pagination of
// flashcard listings. Page numbering is 1-based.
type FlashcardListParams struct {
	Page   int
	Limit  int
	Source domain.FlashcardSource // optional filter, empty means all sources
	Sort   string                 // "created_at" or "updated_at"
	Order  string                 // "asc" or "desc"
}

// Offset returns the row offset implied by Page and Limit.
func (p FlashcardListParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// FlashcardStore defines the interface for flashcard persistence.
// Every operation is scoped to the owning user; implementations must filter
// by user ID so one user can never read or mutate another user's rows.
type FlashcardStore interface {
	// Create saves a single flashcard and fills in its store-assigned ID.
	// Returns validation errors if the flashcard is invalid, and
	// ErrInvalidEntity if a referenced generation does not exist.
	Create(ctx context.Context, card *domain.Flashcard) error

	// GetForUser retrieves a flashcard by ID, scoped to the given user.
	// Returns ErrFlashcardNotFound if it does not exist or belongs to
	// someone else.
	GetForUser(ctx context.Context, id int64, userID uuid.UUID) (*domain.Flashcard, error)

	// ListForUser returns one page of the user's flashcards plus the total
	// count matching the filter.
	ListForUser(
		ctx context.Context,
		userID uuid.UUID,
		params FlashcardListParams,
	) ([]*domain.Flashcard, int, error)

	// Update persists changes to front, back, source, and generation
	// reference, scoped to the owning user. Returns ErrFlashcardNotFound if
	// the row does not exist for that user.
	Update(ctx context.Context, card *domain.Flashcard) error

	// Delete removes a flashcard by ID, scoped to the given user.
	// Returns ErrFlashcardNotFound if the row does not exist for that user.
	Delete(ctx context.Context, id int64, userID uuid.UUID) error
}
