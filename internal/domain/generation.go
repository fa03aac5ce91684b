package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Generation
var (
	ErrGenerationUserIDEmpty = errors.New("generation user ID cannot be empty")
	ErrGenerationHashEmpty   = errors.New("generation source text hash cannot be empty")
	ErrGenerationModelEmpty  = errors.New("generation model name cannot be empty")
	ErrGenerationTextLength  = errors.New("generation source text length must be positive")
)

// Generation represents one attempt to produce flashcard proposals from
// source text via an external model. The row is inserted before the model is
// called (count and duration zero) and updated once after the call resolves.
type Generation struct {
	ID               int64     `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	SourceTextLength int       `json:"source_text_length"`
	SourceTextHash   string    `json:"source_text_hash"`
	Model            string    `json:"model"`
	GeneratedCount   int       `json:"generated_count"`
	// GenerationDuration is the wall-clock seconds spent on the model call.
	GenerationDuration int       `json:"generation_duration"`
	CreatedAt          time.Time `json:"created_at"`
}

// NewGeneration creates a Generation record for the start of an orchestration
// call. Count and duration start at zero and are filled in after the external
// call resolves. Returns an error if validation fails.
func NewGeneration(
	userID uuid.UUID,
	sourceTextLength int,
	sourceTextHash string,
	model string,
) (*Generation, error) {
	gen := &Generation{
		UserID:           userID,
		SourceTextLength: sourceTextLength,
		SourceTextHash:   sourceTextHash,
		Model:            model,
		CreatedAt:        time.Now().UTC(),
	}

	if err := gen.Validate(); err != nil {
		return nil, err
	}

	return gen, nil
}

// Validate checks if the Generation has valid data.
func (g *Generation) Validate() error {
	if g.UserID == uuid.Nil {
		return ErrGenerationUserIDEmpty
	}

	if g.SourceTextLength <= 0 {
		return ErrGenerationTextLength
	}

	if g.SourceTextHash == "" {
		return ErrGenerationHashEmpty
	}

	if g.Model == "" {
		return ErrGenerationModelEmpty
	}

	return nil
}

// GenerationErrorLog records a failed generation attempt for later review.
// Rows are written best-effort; a failure to log never masks the original
// generation error.
type GenerationErrorLog struct {
	ID               int64     `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	ErrorMessage     string    `json:"error_message"`
	ErrorCode        string    `json:"error_code"`
	SourceTextHash   string    `json:"source_text_hash"`
	SourceTextLength int       `json:"source_text_length"`
	CreatedAt        time.Time `json:"created_at"`
}
