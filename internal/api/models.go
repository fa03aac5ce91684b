package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/tenxcards/cards-api/internal/domain"
	"github.com/tenxcards/cards-api/internal/service"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	Email        string    `json:"email"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh
// endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// GenerateFlashcardsRequest defines the payload for starting a generation.
// The source text bounds match what the model produces useful flashcards from.
type GenerateFlashcardsRequest struct {
	SourceText string `json:"source_text" validate:"required,min=1000,max=10000"`
}

// GenerationResponse defines the successful response for a generation call:
// the persisted attempt's ID plus the unsaved proposals.
type GenerationResponse struct {
	GenerationID        int64                      `json:"generation_id"`
	FlashcardsProposals []domain.FlashcardProposal `json:"flashcards_proposals"`
	GeneratedCount      int                        `json:"generated_count"`
}

// GenerationListResponse defines one page of a user's generation attempts.
type GenerationListResponse struct {
	Data       []*domain.Generation `json:"data"`
	Pagination Pagination           `json:"pagination"`
}

// FlashcardInput is one flashcard in a batch save request.
type FlashcardInput struct {
	Front       string `json:"front"        validate:"required,min=3,max=200"`
	Back        string `json:"back"         validate:"required,min=3,max=500"`
	Source      string `json:"source"       validate:"required,oneof=manual ai-full ai-edited"`
	GeneratedID *int64 `json:"generated_id"`
}

// CreateFlashcardsRequest defines the payload for the batch save endpoint.
type CreateFlashcardsRequest struct {
	Flashcards []FlashcardInput `json:"flashcards" validate:"required,min=1,max=50,dive"`
}

// FlashcardResponse represents one persisted flashcard.
type FlashcardResponse struct {
	ID          int64     `json:"id"`
	Front       string    `json:"front"`
	Back        string    `json:"back"`
	Source      string    `json:"source"`
	GeneratedID *int64    `json:"generated_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FailedFlashcardResponse echoes a rejected batch entry with the reason.
type FailedFlashcardResponse struct {
	Flashcard FlashcardInput `json:"flashcard"`
	Error     string         `json:"error"`
}

// BatchSaveResponse defines the response for the batch save endpoint.
type BatchSaveResponse struct {
	Data   []FlashcardResponse       `json:"data"`
	Failed []FailedFlashcardResponse `json:"failed,omitempty"`
}

// UpdateFlashcardRequest defines the payload for a partial flashcard update.
type UpdateFlashcardRequest struct {
	Front       *string `json:"front,omitempty"        validate:"omitempty,min=3,max=200"`
	Back        *string `json:"back,omitempty"         validate:"omitempty,min=3,max=500"`
	Source      *string `json:"source,omitempty"       validate:"omitempty,oneof=manual ai-edited"`
	GeneratedID *int64  `json:"generated_id,omitempty"`
}

// Pagination describes one page of a list response.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// FlashcardListResponse defines one page of a user's flashcards.
type FlashcardListResponse struct {
	Data       []FlashcardResponse `json:"data"`
	Pagination Pagination          `json:"pagination"`
}

// flashcardToResponse converts a domain.Flashcard to its response shape.
func flashcardToResponse(card *domain.Flashcard) FlashcardResponse {
	return FlashcardResponse{
		ID:          card.ID,
		Front:       card.Front,
		Back:        card.Back,
		Source:      string(card.Source),
		GeneratedID: card.GenerationID,
		CreatedAt:   card.CreatedAt,
		UpdatedAt:   card.UpdatedAt,
	}
}

// batchResultToResponse converts a service batch result to its response shape.
func batchResultToResponse(result *service.BatchSaveResult) BatchSaveResponse {
	resp := BatchSaveResponse{Data: make([]FlashcardResponse, len(result.Saved))}
	for i, card := range result.Saved {
		resp.Data[i] = flashcardToResponse(card)
	}
	for _, failed := range result.Failed {
		resp.Failed = append(resp.Failed, FailedFlashcardResponse{
			Flashcard: FlashcardInput{
				Front:       failed.Flashcard.Front,
				Back:        failed.Flashcard.Back,
				Source:      string(failed.Flashcard.Source),
				GeneratedID: failed.Flashcard.GenerationID,
			},
			Error: failed.Error,
		})
	}
	return resp
}
