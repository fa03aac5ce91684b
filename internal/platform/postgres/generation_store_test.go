package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenxcards/cards-api/internal/domain"
	"github.com/tenxcards/cards-api/internal/store"
)

func setupGenerationMock(t *testing.T) (*GenerationStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewGenerationStore(db, nil), mock
}

func TestGenerationStoreCreate(t *testing.T) {
	s, mock := setupGenerationMock(t)
	userID := uuid.New()

	gen, err := domain.NewGeneration(userID, 2048, "deadbeef", "openai/gpt-4o-mini")
	require.NoError(t, err)

	mock.ExpectQuery(`INSERT INTO generations`).
		WithArgs(userID, 2048, "deadbeef", "openai/gpt-4o-mini", 0, 0, gen.CreatedAt).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	err = s.Create(context.Background(), gen)
	require.NoError(t, err)
	assert.Equal(t, int64(42), gen.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerationStoreUpdateStats(t *testing.T) {
	s, mock := setupGenerationMock(t)

	t.Run("updated", func(t *testing.T) {
		mock.ExpectExec(`UPDATE generations`).
			WithArgs(8, 4, int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, s.UpdateStats(context.Background(), 42, 8, 4))
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(`UPDATE generations`).
			WithArgs(8, 4, int64(43)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.UpdateStats(context.Background(), 43, 8, 4)
		assert.ErrorIs(t, err, store.ErrGenerationNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerationStoreGetForUser(t *testing.T) {
	s, mock := setupGenerationMock(t)
	owner := uuid.New()
	stranger := uuid.New()
	now := time.Now().UTC()

	t.Run("owned generation is returned", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{
			"id", "user_id", "source_text_length", "source_text_hash", "model",
			"generated_count", "generation_duration", "created_at",
		}).AddRow(int64(42), owner, 2048, "deadbeef", "openai/gpt-4o-mini", 5, 3, now)

		mock.ExpectQuery(`SELECT .+ FROM generations`).
			WithArgs(int64(42), owner).
			WillReturnRows(rows)

		gen, err := s.GetForUser(context.Background(), 42, owner)
		require.NoError(t, err)
		assert.Equal(t, 5, gen.GeneratedCount)
	})

	t.Run("other user's generation reads as not found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .+ FROM generations`).
			WithArgs(int64(42), stranger).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := s.GetForUser(context.Background(), 42, stranger)
		assert.ErrorIs(t, err, store.ErrGenerationNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerationStoreCreateErrorLog(t *testing.T) {
	s, mock := setupGenerationMock(t)
	userID := uuid.New()

	errLog := &domain.GenerationErrorLog{
		UserID:           userID,
		ErrorMessage:     "timeout while calling the model",
		ErrorCode:        "UPSTREAM_TIMEOUT",
		SourceTextHash:   "deadbeef",
		SourceTextLength: 2048,
		CreatedAt:        time.Now().UTC(),
	}

	mock.ExpectQuery(`INSERT INTO generations_error_logs`).
		WithArgs(userID, errLog.ErrorMessage, errLog.ErrorCode,
			errLog.SourceTextHash, errLog.SourceTextLength, errLog.CreatedAt).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	err := s.CreateErrorLog(context.Background(), errLog)
	require.NoError(t, err)
	assert.Equal(t, int64(7), errLog.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerationStoreListForUser(t *testing.T) {
	s, mock := setupGenerationMock(t)
	userID := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM generations`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "source_text_length", "source_text_hash", "model",
		"generated_count", "generation_duration", "created_at",
	}).AddRow(int64(1), userID, 1500, "cafebabe", "openai/gpt-4o-mini", 6, 2, now)

	mock.ExpectQuery(`SELECT .+ FROM generations`).
		WithArgs(userID, 10, 0).
		WillReturnRows(rows)

	gens, total, err := s.ListForUser(context.Background(), userID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, gens, 1)
	assert.Equal(t, 6, gens[0].GeneratedCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
