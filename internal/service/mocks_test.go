package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/tenxcards/cards-api/internal/domain"
	"github.com/tenxcards/cards-api/internal/generation"
	"github.com/tenxcards/cards-api/internal/store"
)

// mockGenerationStore implements store.GenerationStore with overridable
// function fields. Unset fields succeed with zero values.
type mockGenerationStore struct {
	createFn         func(ctx context.Context, gen *domain.Generation) error
	updateStatsFn    func(ctx context.Context, id int64, count, duration int) error
	getForUserFn     func(ctx context.Context, id int64, userID uuid.UUID) (*domain.Generation, error)
	listForUserFn    func(ctx context.Context, userID uuid.UUID, page, limit int) ([]*domain.Generation, int, error)
	createErrorLogFn func(ctx context.Context, log *domain.GenerationErrorLog) error

	createCalls      int
	updateStatsCalls int
	errorLogs        []*domain.GenerationErrorLog
}

var _ store.GenerationStore = (*mockGenerationStore)(nil)

func (m *mockGenerationStore) Create(ctx context.Context, gen *domain.Generation) error {
	m.createCalls++
	if m.createFn != nil {
		return m.createFn(ctx, gen)
	}
	gen.ID = 42
	return nil
}

func (m *mockGenerationStore) UpdateStats(
	ctx context.Context,
	id int64,
	generatedCount, durationSeconds int,
) error {
	m.updateStatsCalls++
	if m.updateStatsFn != nil {
		return m.updateStatsFn(ctx, id, generatedCount, durationSeconds)
	}
	return nil
}

func (m *mockGenerationStore) GetForUser(
	ctx context.Context,
	id int64,
	userID uuid.UUID,
) (*domain.Generation, error) {
	if m.getForUserFn != nil {
		return m.getForUserFn(ctx, id, userID)
	}
	return &domain.Generation{ID: id, UserID: userID}, nil
}

func (m *mockGenerationStore) ListForUser(
	ctx context.Context,
	userID uuid.UUID,
	page, limit int,
) ([]*domain.Generation, int, error) {
	if m.listForUserFn != nil {
		return m.listForUserFn(ctx, userID, page, limit)
	}
	return nil, 0, nil
}

func (m *mockGenerationStore) CreateErrorLog(
	ctx context.Context,
	log *domain.GenerationErrorLog,
) error {
	m.errorLogs = append(m.errorLogs, log)
	if m.createErrorLogFn != nil {
		return m.createErrorLogFn(ctx, log)
	}
	return nil
}

// mockFlashcardStore implements store.FlashcardStore with overridable
// function fields.
type mockFlashcardStore struct {
	createFn      func(ctx context.Context, card *domain.Flashcard) error
	getForUserFn  func(ctx context.Context, id int64, userID uuid.UUID) (*domain.Flashcard, error)
	listForUserFn func(ctx context.Context, userID uuid.UUID, params store.FlashcardListParams) ([]*domain.Flashcard, int, error)
	updateFn      func(ctx context.Context, card *domain.Flashcard) error
	deleteFn      func(ctx context.Context, id int64, userID uuid.UUID) error

	created     []*domain.Flashcard
	updateCalls int
	deleteCalls int
}

var _ store.FlashcardStore = (*mockFlashcardStore)(nil)

func (m *mockFlashcardStore) Create(ctx context.Context, card *domain.Flashcard) error {
	if m.createFn != nil {
		if err := m.createFn(ctx, card); err != nil {
			return err
		}
	}
	card.ID = int64(len(m.created) + 1)
	m.created = append(m.created, card)
	return nil
}

func (m *mockFlashcardStore) GetForUser(
	ctx context.Context,
	id int64,
	userID uuid.UUID,
) (*domain.Flashcard, error) {
	if m.getForUserFn != nil {
		return m.getForUserFn(ctx, id, userID)
	}
	return nil, store.ErrFlashcardNotFound
}

func (m *mockFlashcardStore) ListForUser(
	ctx context.Context,
	userID uuid.UUID,
	params store.FlashcardListParams,
) ([]*domain.Flashcard, int, error) {
	if m.listForUserFn != nil {
		return m.listForUserFn(ctx, userID, params)
	}
	return nil, 0, nil
}

func (m *mockFlashcardStore) Update(ctx context.Context, card *domain.Flashcard) error {
	m.updateCalls++
	if m.updateFn != nil {
		return m.updateFn(ctx, card)
	}
	return nil
}

func (m *mockFlashcardStore) Delete(ctx context.Context, id int64, userID uuid.UUID) error {
	m.deleteCalls++
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id, userID)
	}
	return nil
}

// mockGenerator implements generation.Generator via a single function field.
type mockGenerator struct {
	generateFn func(ctx context.Context, sourceText string) ([]generation.ProposedCard, error)
	calls      int
}

var _ generation.Generator = (*mockGenerator)(nil)

func (m *mockGenerator) GenerateProposals(
	ctx context.Context,
	sourceText string,
) ([]generation.ProposedCard, error) {
	m.calls++
	if m.generateFn != nil {
		return m.generateFn(ctx, sourceText)
	}
	return nil, nil
}
