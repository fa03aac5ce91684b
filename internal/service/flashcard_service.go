package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tenxcards/cards-api/internal/domain"
	"github.com/tenxcards/cards-api/internal/store"
)

// CreateFlashcardCommand describes one flashcard a user wants to save.
type CreateFlashcardCommand struct {
	Front        string                 `json:"front"`
	Back         string                 `json:"back"`
	Source       domain.FlashcardSource `json:"source"`
	GenerationID *int64                 `json:"generated_id,omitempty"`
}

// UpdateFlashcardCommand carries a partial update; nil fields are left
// unchanged.
type UpdateFlashcardCommand struct {
	Front        *string                 `json:"front,omitempty"`
	Back         *string                 `json:"back,omitempty"`
	Source       *domain.FlashcardSource `json:"source,omitempty"`
	GenerationID *int64                  `json:"generated_id,omitempty"`
}

// FailedFlashcard pairs a rejected batch entry with the reason it failed. The
// input is echoed back so the caller can correct and resubmit it.
type FailedFlashcard struct {
	Flashcard CreateFlashcardCommand `json:"flashcard"`
	Error     string                 `json:"error"`
}

// BatchSaveResult reports the outcome of a batch save. Saved holds persisted
// flashcards and Failed holds rejected entries; both preserve input order.
type BatchSaveResult struct {
	Saved  []*domain.Flashcard `json:"data"`
	Failed []FailedFlashcard   `json:"failed,omitempty"`
}

// FlashcardService manages a user's saved flashcard collection.
type FlashcardService struct {
	flashcards  store.FlashcardStore
	generations store.GenerationStore
	logger      *slog.Logger
}

// NewFlashcardService creates a FlashcardService.
func NewFlashcardService(
	flashcards store.FlashcardStore,
	generations store.GenerationStore,
	logger *slog.Logger,
) (*FlashcardService, error) {
	if flashcards == nil {
		return nil, errors.New("flashcard store cannot be nil")
	}
	if generations == nil {
		return nil, errors.New("generation store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &FlashcardService{
		flashcards:  flashcards,
		generations: generations,
		logger:      logger.With(slog.String("component", "flashcard_service")),
	}, nil
}

// CreateFlashcards saves a batch of flashcards for the user. Entries are
// processed sequentially and independently: one invalid or failing entry
// lands in Failed with its input echoed back, and the rest still save. The
// batch is deliberately not transactional.
func (s *FlashcardService) CreateFlashcards(
	ctx context.Context,
	userID uuid.UUID,
	commands []CreateFlashcardCommand,
) *BatchSaveResult {
	result := &BatchSaveResult{Saved: []*domain.Flashcard{}}

	for _, cmd := range commands {
		card, err := s.createOne(ctx, userID, cmd)
		if err != nil {
			result.Failed = append(result.Failed, FailedFlashcard{
				Flashcard: cmd,
				Error:     err.Error(),
			})
			continue
		}
		result.Saved = append(result.Saved, card)
	}

	s.logger.InfoContext(ctx, "flashcard batch save finished",
		slog.Int("requested", len(commands)),
		slog.Int("saved", len(result.Saved)),
		slog.Int("failed", len(result.Failed)))

	return result
}

// CreateFlashcard saves a single flashcard for the user.
func (s *FlashcardService) CreateFlashcard(
	ctx context.Context,
	userID uuid.UUID,
	cmd CreateFlashcardCommand,
) (*domain.Flashcard, error) {
	return s.createOne(ctx, userID, cmd)
}

// createOne validates, ownership-checks, and persists one flashcard.
func (s *FlashcardService) createOne(
	ctx context.Context,
	userID uuid.UUID,
	cmd CreateFlashcardCommand,
) (*domain.Flashcard, error) {
	card, err := domain.NewFlashcard(userID, cmd.Front, cmd.Back, cmd.Source, cmd.GenerationID)
	if err != nil {
		return nil, err
	}

	// AI-sourced flashcards must reference a generation owned by the same
	// user. The store filters by user ID, so a hit proves ownership.
	if card.Source != domain.SourceManual {
		if err := s.checkGenerationOwnership(ctx, *card.GenerationID, userID); err != nil {
			return nil, err
		}
	}

	if err := s.flashcards.Create(ctx, card); err != nil {
		return nil, err
	}

	return card, nil
}

// checkGenerationOwnership verifies that the generation exists and belongs to
// the user.
func (s *FlashcardService) checkGenerationOwnership(
	ctx context.Context,
	generationID int64,
	userID uuid.UUID,
) error {
	_, err := s.generations.GetForUser(ctx, generationID, userID)
	if err != nil {
		if errors.Is(err, store.ErrGenerationNotFound) {
			return ErrGenerationNotOwned
		}
		return err
	}
	return nil
}

// GetFlashcard retrieves one of the user's flashcards by ID.
func (s *FlashcardService) GetFlashcard(
	ctx context.Context,
	userID uuid.UUID,
	id int64,
) (*domain.Flashcard, error) {
	return s.flashcards.GetForUser(ctx, id, userID)
}

// ListFlashcards returns one page of the user's flashcards plus the total
// count matching the filter.
func (s *FlashcardService) ListFlashcards(
	ctx context.Context,
	userID uuid.UUID,
	params store.FlashcardListParams,
) ([]*domain.Flashcard, int, error) {
	return s.flashcards.ListForUser(ctx, userID, params)
}

// UpdateFlashcard applies a partial update to one of the user's flashcards.
// All validation, including the source transition rules, runs before any
// store mutation. Changing source to ai-edited requires a generation
// reference (kept or supplied) that exists and belongs to the user; changing
// it to manual clears the reference.
func (s *FlashcardService) UpdateFlashcard(
	ctx context.Context,
	userID uuid.UUID,
	id int64,
	cmd UpdateFlashcardCommand,
) (*domain.Flashcard, error) {
	card, err := s.flashcards.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if cmd.Front != nil {
		card.Front = *cmd.Front
	}
	if cmd.Back != nil {
		card.Back = *cmd.Back
	}
	if cmd.GenerationID != nil {
		card.GenerationID = cmd.GenerationID
	}
	if cmd.Source != nil {
		switch *cmd.Source {
		case domain.SourceManual:
			card.GenerationID = nil
		case domain.SourceAIEdited:
			// Keep the reference; validated below.
		default:
			return nil, ErrInvalidSourceTransition
		}
		card.Source = *cmd.Source
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	if card.Source != domain.SourceManual {
		if err := s.checkGenerationOwnership(ctx, *card.GenerationID, userID); err != nil {
			return nil, err
		}
	}

	card.UpdatedAt = time.Now().UTC()
	if err := s.flashcards.Update(ctx, card); err != nil {
		return nil, err
	}

	return card, nil
}

// DeleteFlashcard removes one of the user's flashcards.
func (s *FlashcardService) DeleteFlashcard(
	ctx context.Context,
	userID uuid.UUID,
	id int64,
) error {
	return s.flashcards.Delete(ctx, id, userID)
}
