package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// FlashcardSource indicates how a flashcard came to exist.
type FlashcardSource string

// Possible flashcard source values
const (
	// SourceManual marks a flashcard written by hand.
	SourceManual FlashcardSource = "manual"

	// SourceAIFull marks a flashcard accepted verbatim from a generation.
	SourceAIFull FlashcardSource = "ai-full"

	// SourceAIEdited marks a generated flashcard the user edited before saving.
	SourceAIEdited FlashcardSource = "ai-edited"
)

// Length bounds for flashcard content.
const (
	FlashcardFrontMinLen = 3
	FlashcardFrontMaxLen = 200
	FlashcardBackMinLen  = 3
	FlashcardBackMaxLen  = 500
)

// Flashcard-specific validation errors
var (
	// ErrFlashcardUserIDEmpty is returned when a flashcard's user ID is empty or nil.
	ErrFlashcardUserIDEmpty = errors.New("flashcard user ID cannot be empty")

	// ErrFlashcardFrontLength is returned when the front text is outside its length bounds.
	ErrFlashcardFrontLength = fmt.Errorf(
		"flashcard front must be between %d and %d characters",
		FlashcardFrontMinLen, FlashcardFrontMaxLen)

	// ErrFlashcardBackLength is returned when the back text is outside its length bounds.
	ErrFlashcardBackLength = fmt.Errorf(
		"flashcard back must be between %d and %d characters",
		FlashcardBackMinLen, FlashcardBackMaxLen)

	// ErrInvalidFlashcardSource is returned for a source outside the known set.
	ErrInvalidFlashcardSource = errors.New("invalid flashcard source")

	// ErrGenerationIDRequired is returned when an AI-sourced flashcard has no
	// generation reference.
	ErrGenerationIDRequired = errors.New(
		"generation ID is required when source is not manual")

	// ErrGenerationIDNotAllowed is returned when a manual flashcard carries a
	// generation reference.
	ErrGenerationIDNotAllowed = errors.New(
		"generation ID must not be set when source is manual")
)

// Flashcard represents a persisted front/back question-answer pair owned by a
// user. AI-sourced flashcards keep a reference to the generation attempt that
// produced them.
type Flashcard struct {
	ID           int64           `json:"id"`
	UserID       uuid.UUID       `json:"user_id"`
	Front        string          `json:"front"`
	Back         string          `json:"back"`
	Source       FlashcardSource `json:"source"`
	GenerationID *int64          `json:"generated_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// NewFlashcard creates a new Flashcard with the given owner and content.
// The ID is assigned by the store on insert. Returns an error if validation
// fails.
func NewFlashcard(
	userID uuid.UUID,
	front, back string,
	source FlashcardSource,
	generationID *int64,
) (*Flashcard, error) {
	now := time.Now().UTC()
	card := &Flashcard{
		UserID:       userID,
		Front:        front,
		Back:         back,
		Source:       source,
		GenerationID: generationID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Flashcard has valid data.
// Returns an error if any field fails validation.
func (f *Flashcard) Validate() error {
	if f.UserID == uuid.Nil {
		return ErrFlashcardUserIDEmpty
	}

	if len(f.Front) < FlashcardFrontMinLen || len(f.Front) > FlashcardFrontMaxLen {
		return ErrFlashcardFrontLength
	}

	if len(f.Back) < FlashcardBackMinLen || len(f.Back) > FlashcardBackMaxLen {
		return ErrFlashcardBackLength
	}

	if !isValidFlashcardSource(f.Source) {
		return ErrInvalidFlashcardSource
	}

	if f.Source == SourceManual {
		if f.GenerationID != nil {
			return ErrGenerationIDNotAllowed
		}
	} else if f.GenerationID == nil {
		return ErrGenerationIDRequired
	}

	return nil
}

// isValidFlashcardSource checks if the given source is a known FlashcardSource.
func isValidFlashcardSource(source FlashcardSource) bool {
	switch source {
	case SourceManual, SourceAIFull, SourceAIEdited:
		return true
	default:
		return false
	}
}

// FlashcardProposal is an unsaved candidate flashcard returned from a
// generation attempt. Proposals are never persisted directly; the user decides
// which ones become Flashcards through an explicit save.
type FlashcardProposal struct {
	Front        string          `json:"front"`
	Back         string          `json:"back"`
	Source       FlashcardSource `json:"source"`
	GenerationID int64           `json:"generated_id"`
}
