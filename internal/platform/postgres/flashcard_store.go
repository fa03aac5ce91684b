package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tenxcards/cards-api/internal/domain"
	"github.com/tenxcards/cards-api/internal/platform/logger"
	"github.com/tenxcards/cards-api/internal/store"
)

// FlashcardStore implements the store.FlashcardStore interface using
// PostgreSQL.
type FlashcardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewFlashcardStore creates a new PostgreSQL implementation of the
// FlashcardStore interface. If logger is nil, the default logger is used.
func NewFlashcardStore(db store.DBTX, log *slog.Logger) *FlashcardStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if log == nil {
		log = slog.Default()
	}

	return &FlashcardStore{
		db:     db,
		logger: log.With(slog.String("component", "flashcard_store")),
	}
}

var _ store.FlashcardStore = (*FlashcardStore)(nil)

const flashcardColumns = `id, user_id, front, back, source, generated_id, created_at, updated_at`

// scanFlashcard reads one flashcard row. generated_id is nullable.
func scanFlashcard(row interface{ Scan(dest ...any) error }) (*domain.Flashcard, error) {
	var card domain.Flashcard
	var generationID sql.NullInt64

	err := row.Scan(
		&card.ID,
		&card.UserID,
		&card.Front,
		&card.Back,
		&card.Source,
		&generationID,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if generationID.Valid {
		card.GenerationID = &generationID.Int64
	}

	return &card, nil
}

// Create implements store.FlashcardStore.Create.
// The generated ID is written back into card.ID. Returns
// store.ErrInvalidEntity if the referenced generation does not exist.
func (s *FlashcardStore) Create(ctx context.Context, card *domain.Flashcard) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("flashcard validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", card.UserID.String()))
		return err
	}

	query := `
		INSERT INTO flashcards
			(user_id, front, back, source, generated_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		card.UserID,
		card.Front,
		card.Back,
		card.Source,
		card.GenerationID,
		card.CreatedAt,
		card.UpdatedAt,
	).Scan(&card.ID)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during flashcard creation",
				slog.String("user_id", card.UserID.String()))
			return fmt.Errorf("%w: referenced generation not found", store.ErrInvalidEntity)
		}
		log.Error("failed to create flashcard",
			slog.String("error", err.Error()),
			slog.String("user_id", card.UserID.String()))
		return MapError(err)
	}

	log.Info("flashcard created",
		slog.Int64("flashcard_id", card.ID),
		slog.String("user_id", card.UserID.String()),
		slog.String("source", string(card.Source)))
	return nil
}

// GetForUser implements store.FlashcardStore.GetForUser.
func (s *FlashcardStore) GetForUser(
	ctx context.Context,
	id int64,
	userID uuid.UUID,
) (*domain.Flashcard, error) {
	query := `
		SELECT ` + flashcardColumns + `
		FROM flashcards
		WHERE id = $1 AND user_id = $2
	`

	card, err := scanFlashcard(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrFlashcardNotFound
		}
		return nil, MapError(err)
	}

	return card, nil
}

// ListForUser implements store.FlashcardStore.ListForUser.
func (s *FlashcardStore) ListForUser(
	ctx context.Context,
	userID uuid.UUID,
	params store.FlashcardListParams,
) ([]*domain.Flashcard, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Sort column and direction come from a fixed allowlist, never from raw
	// request input.
	sortColumn := "created_at"
	if params.Sort == "updated_at" {
		sortColumn = "updated_at"
	}
	direction := "DESC"
	if params.Order == "asc" {
		direction = "ASC"
	}

	where := `WHERE user_id = $1`
	args := []any{userID}
	if params.Source != "" {
		where += ` AND source = $2`
		args = append(args, params.Source)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM flashcards ` + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, MapError(err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM flashcards
		%s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, flashcardColumns, where, sortColumn, direction, len(args)+1, len(args)+2)
	args = append(args, params.Limit, params.Offset())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list flashcards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, 0, MapError(err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Warn("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	var cards []*domain.Flashcard
	for rows.Next() {
		card, err := scanFlashcard(rows)
		if err != nil {
			return nil, 0, MapError(err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, MapError(err)
	}

	return cards, total, nil
}

// Update implements store.FlashcardStore.Update.
// The row is matched on both ID and user ID, so updating another user's
// flashcard reports not-found rather than leaking its existence.
func (s *FlashcardStore) Update(ctx context.Context, card *domain.Flashcard) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE flashcards
		SET front = $1, back = $2, source = $3, generated_id = $4, updated_at = $5
		WHERE id = $6 AND user_id = $7
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		card.Front,
		card.Back,
		card.Source,
		card.GenerationID,
		card.UpdatedAt,
		card.ID,
		card.UserID,
	)
	if err != nil {
		log.Error("failed to update flashcard",
			slog.String("error", err.Error()),
			slog.Int64("flashcard_id", card.ID))
		return MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if rows == 0 {
		return store.ErrFlashcardNotFound
	}

	return nil
}

// Delete implements store.FlashcardStore.Delete.
func (s *FlashcardStore) Delete(ctx context.Context, id int64, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM flashcards WHERE id = $1 AND user_id = $2`
	result, err := s.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		log.Error("failed to delete flashcard",
			slog.String("error", err.Error()),
			slog.Int64("flashcard_id", id))
		return MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if rows == 0 {
		return store.ErrFlashcardNotFound
	}

	log.Info("flashcard deleted",
		slog.Int64("flashcard_id", id),
		slog.String("user_id", userID.String()))
	return nil
}
