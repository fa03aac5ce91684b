package api

import (
	"context"

	"github.com/google/uuid"

	"github.com/tenxcards/cards-api/internal/domain"
	"github.com/tenxcards/cards-api/internal/service"
	"github.com/tenxcards/cards-api/internal/store"
)

// GenerationService is the slice of the generation service the handlers need.
// Defined here so handler tests can substitute a mock.
type GenerationService interface {
	GenerateFlashcards(
		ctx context.Context,
		userID uuid.UUID,
		sourceText string,
	) (*service.GenerationResult, error)

	ListGenerations(
		ctx context.Context,
		userID uuid.UUID,
		page, limit int,
	) ([]*domain.Generation, int, error)
}

// FlashcardService is the slice of the flashcard service the handlers need.
type FlashcardService interface {
	CreateFlashcards(
		ctx context.Context,
		userID uuid.UUID,
		commands []service.CreateFlashcardCommand,
	) *service.BatchSaveResult

	GetFlashcard(ctx context.Context, userID uuid.UUID, id int64) (*domain.Flashcard, error)

	ListFlashcards(
		ctx context.Context,
		userID uuid.UUID,
		params store.FlashcardListParams,
	) ([]*domain.Flashcard, int, error)

	UpdateFlashcard(
		ctx context.Context,
		userID uuid.UUID,
		id int64,
		cmd service.UpdateFlashcardCommand,
	) (*domain.Flashcard, error)

	DeleteFlashcard(ctx context.Context, userID uuid.UUID, id int64) error
}

var (
	_ GenerationService = (*service.GenerationService)(nil)
	_ FlashcardService  = (*service.FlashcardService)(nil)
)
