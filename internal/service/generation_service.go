package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tenxcards/cards-api/internal/domain"
	"github.com/tenxcards/cards-api/internal/generation"
	"github.com/tenxcards/cards-api/internal/store"
	"github.com/tenxcards/cards-api/internal/texthash"
)

// defaultGenerationTimeout bounds the whole generation attempt, model call
// included.
const defaultGenerationTimeout = 60 * time.Second

// Error codes recorded in generations_error_logs.
const (
	errCodeTimeout          = "UPSTREAM_TIMEOUT"
	errCodeInvalidResponse  = "INVALID_RESPONSE"
	errCodeGenerationFailed = "GENERATION_FAILED"
)

// GenerationResult is the outcome of a successful generation attempt: the
// persisted attempt's ID plus the unsaved proposals derived from the model
// output.
type GenerationResult struct {
	GenerationID   int64
	GeneratedCount int
	Proposals      []domain.FlashcardProposal
}

// GenerationService orchestrates flashcard generation: it records the
// attempt, calls the external generator under a deadline, and keeps the
// attempt's statistics and error log up to date.
type GenerationService struct {
	generations store.GenerationStore
	generator   generation.Generator
	model       string
	timeout     time.Duration
	logger      *slog.Logger
}

// NewGenerationService creates a GenerationService. A non-positive timeout
// falls back to the 60 second default.
func NewGenerationService(
	generations store.GenerationStore,
	generator generation.Generator,
	model string,
	timeout time.Duration,
	logger *slog.Logger,
) (*GenerationService, error) {
	if generations == nil {
		return nil, errors.New("generation store cannot be nil")
	}
	if generator == nil {
		return nil, errors.New("generator cannot be nil")
	}
	if model == "" {
		return nil, errors.New("model name cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultGenerationTimeout
	}

	return &GenerationService{
		generations: generations,
		generator:   generator,
		model:       model,
		timeout:     timeout,
		logger:      logger.With(slog.String("component", "generation_service")),
	}, nil
}

// GenerateFlashcards runs one generation attempt for the given user. A
// generations row is inserted before the model is called; if that insert
// fails the attempt is abandoned. The model call runs under the service
// timeout. On success the row's count and duration are updated best-effort
// and the proposals are returned with source ai-full. On failure an error-log
// row is written best-effort and the original error is returned.
func (s *GenerationService) GenerateFlashcards(
	ctx context.Context,
	userID uuid.UUID,
	sourceText string,
) (*GenerationResult, error) {
	start := time.Now()
	hash := texthash.Hash(sourceText)

	gen, err := domain.NewGeneration(userID, len(sourceText), hash, s.model)
	if err != nil {
		return nil, err
	}

	if err := s.generations.Create(ctx, gen); err != nil {
		return nil, fmt.Errorf("failed to record generation attempt: %w", err)
	}

	cards, err := s.callGenerator(ctx, sourceText)
	if err != nil {
		s.logGenerationError(ctx, gen, err)
		return nil, err
	}

	duration := int(time.Since(start).Seconds())
	if err := s.generations.UpdateStats(ctx, gen.ID, len(cards), duration); err != nil {
		// Best-effort; the proposals are still valid.
		s.logger.WarnContext(ctx, "failed to update generation stats",
			slog.Int64("generation_id", gen.ID),
			slog.String("error", err.Error()))
	}

	proposals := make([]domain.FlashcardProposal, len(cards))
	for i, card := range cards {
		proposals[i] = domain.FlashcardProposal{
			Front:        card.Front,
			Back:         card.Back,
			Source:       domain.SourceAIFull,
			GenerationID: gen.ID,
		}
	}

	s.logger.InfoContext(ctx, "generation attempt succeeded",
		slog.Int64("generation_id", gen.ID),
		slog.Int("generated_count", len(proposals)),
		slog.Int("duration_seconds", duration))

	return &GenerationResult{
		GenerationID:   gen.ID,
		GeneratedCount: len(proposals),
		Proposals:      proposals,
	}, nil
}

// callGenerator races the generator call against the service deadline. The
// call runs in its own goroutine so a hung upstream cannot block the caller
// past the deadline.
func (s *GenerationService) callGenerator(
	ctx context.Context,
	sourceText string,
) ([]generation.ProposedCard, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type outcome struct {
		cards []generation.ProposedCard
		err   error
	}
	done := make(chan outcome, 1)

	go func() {
		cards, err := s.generator.GenerateProposals(ctx, sourceText)
		done <- outcome{cards: cards, err: err}
	}()

	select {
	case out := <-done:
		return out.cards, out.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", ErrGenerationTimeout, s.timeout)
		}
		return nil, ctx.Err()
	}
}

// logGenerationError records a failed attempt in the error log. Failures here
// are logged and swallowed so they never mask the generation error itself.
func (s *GenerationService) logGenerationError(
	ctx context.Context,
	gen *domain.Generation,
	genErr error,
) {
	errLog := &domain.GenerationErrorLog{
		UserID:           gen.UserID,
		ErrorMessage:     genErr.Error(),
		ErrorCode:        classifyGenerationError(genErr),
		SourceTextHash:   gen.SourceTextHash,
		SourceTextLength: gen.SourceTextLength,
		CreatedAt:        time.Now().UTC(),
	}

	if err := s.generations.CreateErrorLog(ctx, errLog); err != nil {
		s.logger.WarnContext(ctx, "failed to record generation error log",
			slog.Int64("generation_id", gen.ID),
			slog.String("error", err.Error()))
	}
}

// classifyGenerationError maps a generation failure to a stable error code.
func classifyGenerationError(err error) string {
	switch {
	case errors.Is(err, ErrGenerationTimeout):
		return errCodeTimeout
	case errors.Is(err, generation.ErrInvalidResponse):
		return errCodeInvalidResponse
	default:
		return errCodeGenerationFailed
	}
}

// ListGenerations returns one page of the user's generation attempts, newest
// first, plus the total count.
func (s *GenerationService) ListGenerations(
	ctx context.Context,
	userID uuid.UUID,
	page, limit int,
) ([]*domain.Generation, int, error) {
	return s.generations.ListForUser(ctx, userID, page, limit)
}
