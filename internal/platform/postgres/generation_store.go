package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tenxcards/cards-api/internal/domain"
	"github.com/tenxcards/cards-api/internal/platform/logger"
	"github.com/tenxcards/cards-api/internal/store"
)

// GenerationStore implements the store.GenerationStore interface using
// PostgreSQL.
type GenerationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewGenerationStore creates a new PostgreSQL implementation of the
// GenerationStore interface. If logger is nil, the default logger is used.
func NewGenerationStore(db store.DBTX, log *slog.Logger) *GenerationStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if log == nil {
		log = slog.Default()
	}

	return &GenerationStore{
		db:     db,
		logger: log.With(slog.String("component", "generation_store")),
	}
}

var _ store.GenerationStore = (*GenerationStore)(nil)

// Create implements store.GenerationStore.Create.
// The generated ID is written back into gen.ID.
func (s *GenerationStore) Create(ctx context.Context, gen *domain.Generation) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := gen.Validate(); err != nil {
		log.Warn("generation validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", gen.UserID.String()))
		return err
	}

	query := `
		INSERT INTO generations
			(user_id, source_text_length, source_text_hash, model,
			 generated_count, generation_duration, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		gen.UserID,
		gen.SourceTextLength,
		gen.SourceTextHash,
		gen.Model,
		gen.GeneratedCount,
		gen.GenerationDuration,
		gen.CreatedAt,
	).Scan(&gen.ID)

	if err != nil {
		log.Error("failed to create generation",
			slog.String("error", err.Error()),
			slog.String("user_id", gen.UserID.String()))
		return MapError(err)
	}

	log.Info("generation created",
		slog.Int64("generation_id", gen.ID),
		slog.String("user_id", gen.UserID.String()),
		slog.String("source_text_hash", gen.SourceTextHash))
	return nil
}

// UpdateStats implements store.GenerationStore.UpdateStats.
// Returns store.ErrGenerationNotFound if the row does not exist.
func (s *GenerationStore) UpdateStats(
	ctx context.Context,
	id int64,
	generatedCount, durationSeconds int,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE generations
		SET generated_count = $1, generation_duration = $2
		WHERE id = $3
	`
	result, err := s.db.ExecContext(ctx, query, generatedCount, durationSeconds, id)
	if err != nil {
		log.Error("failed to update generation stats",
			slog.String("error", err.Error()),
			slog.Int64("generation_id", id))
		return MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if rows == 0 {
		return store.ErrGenerationNotFound
	}

	return nil
}

// GetForUser implements store.GenerationStore.GetForUser.
// The query is filtered by user ID so a generation owned by another user is
// indistinguishable from a missing one.
func (s *GenerationStore) GetForUser(
	ctx context.Context,
	id int64,
	userID uuid.UUID,
) (*domain.Generation, error) {
	query := `
		SELECT id, user_id, source_text_length, source_text_hash, model,
		       generated_count, generation_duration, created_at
		FROM generations
		WHERE id = $1 AND user_id = $2
	`

	var gen domain.Generation
	err := s.db.QueryRowContext(ctx, query, id, userID).Scan(
		&gen.ID,
		&gen.UserID,
		&gen.SourceTextLength,
		&gen.SourceTextHash,
		&gen.Model,
		&gen.GeneratedCount,
		&gen.GenerationDuration,
		&gen.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrGenerationNotFound
		}
		return nil, MapError(err)
	}

	return &gen, nil
}

// ListForUser implements store.GenerationStore.ListForUser.
func (s *GenerationStore) ListForUser(
	ctx context.Context,
	userID uuid.UUID,
	page, limit int,
) ([]*domain.Generation, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if page < 1 {
		page = 1
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM generations WHERE user_id = $1`
	if err := s.db.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, MapError(err)
	}

	query := `
		SELECT id, user_id, source_text_length, source_text_hash, model,
		       generated_count, generation_duration, created_at
		FROM generations
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := s.db.QueryContext(ctx, query, userID, limit, (page-1)*limit)
	if err != nil {
		log.Error("failed to list generations",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, 0, MapError(err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Warn("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	var gens []*domain.Generation
	for rows.Next() {
		var gen domain.Generation
		if err := rows.Scan(
			&gen.ID,
			&gen.UserID,
			&gen.SourceTextLength,
			&gen.SourceTextHash,
			&gen.Model,
			&gen.GeneratedCount,
			&gen.GenerationDuration,
			&gen.CreatedAt,
		); err != nil {
			return nil, 0, MapError(err)
		}
		gens = append(gens, &gen)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, MapError(err)
	}

	return gens, total, nil
}

// CreateErrorLog implements store.GenerationStore.CreateErrorLog.
func (s *GenerationStore) CreateErrorLog(
	ctx context.Context,
	errLog *domain.GenerationErrorLog,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO generations_error_logs
			(user_id, error_message, error_code, source_text_hash,
			 source_text_length, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		errLog.UserID,
		errLog.ErrorMessage,
		errLog.ErrorCode,
		errLog.SourceTextHash,
		errLog.SourceTextLength,
		errLog.CreatedAt,
	).Scan(&errLog.ID)

	if err != nil {
		log.Error("failed to create generation error log",
			slog.String("error", err.Error()),
			slog.String("user_id", errLog.UserID.String()))
		return MapError(err)
	}

	return nil
}
