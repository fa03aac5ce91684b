package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/tenxcards/cards-api/internal/api/shared"
	"github.com/tenxcards/cards-api/internal/domain"
	"github.com/tenxcards/cards-api/internal/service"
	"github.com/tenxcards/cards-api/internal/store"
)

// FlashcardHandler handles flashcard-related HTTP requests.
type FlashcardHandler struct {
	flashcardService FlashcardService
	validator        *validator.Validate
}

// NewFlashcardHandler creates a new FlashcardHandler.
func NewFlashcardHandler(flashcardService FlashcardService) *FlashcardHandler {
	return &FlashcardHandler{
		flashcardService: flashcardService,
		validator:        validator.New(),
	}
}

// CreateFlashcards handles POST /api/flashcards requests: a batch save with
// per-item isolation. The status code reflects the outcome: 201 when every
// entry saved, 207 on a partial save, 400 when every entry failed.
func (h *FlashcardHandler) CreateFlashcards(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateFlashcardsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	commands := make([]service.CreateFlashcardCommand, len(req.Flashcards))
	for i, input := range req.Flashcards {
		commands[i] = service.CreateFlashcardCommand{
			Front:        input.Front,
			Back:         input.Back,
			Source:       domain.FlashcardSource(input.Source),
			GenerationID: input.GeneratedID,
		}
	}

	result := h.flashcardService.CreateFlashcards(r.Context(), userID, commands)

	status := http.StatusCreated
	switch {
	case len(result.Saved) == 0:
		status = http.StatusBadRequest
	case len(result.Failed) > 0:
		status = http.StatusMultiStatus
	}

	shared.RespondWithJSON(w, r, status, batchResultToResponse(result))
}

// ListFlashcards handles GET /api/flashcards requests with optional source
// filtering, sorting, and pagination.
func (h *FlashcardHandler) ListFlashcards(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	page, limit := parsePagination(r)
	params := store.FlashcardListParams{
		Page:   page,
		Limit:  limit,
		Source: domain.FlashcardSource(r.URL.Query().Get("source")),
		Sort:   r.URL.Query().Get("sort"),
		Order:  r.URL.Query().Get("order"),
	}

	cards, total, err := h.flashcardService.ListFlashcards(r.Context(), userID, params)
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	resp := FlashcardListResponse{
		Data:       make([]FlashcardResponse, len(cards)),
		Pagination: Pagination{Page: page, Limit: limit, Total: total},
	}
	for i, card := range cards {
		resp.Data[i] = flashcardToResponse(card)
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// GetFlashcard handles GET /api/flashcards/{id} requests.
func (h *FlashcardHandler) GetFlashcard(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	id, err := flashcardIDParam(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid flashcard ID")
		return
	}

	card, err := h.flashcardService.GetFlashcard(r.Context(), userID, id)
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, flashcardToResponse(card))
}

// UpdateFlashcard handles PUT /api/flashcards/{id} requests.
func (h *FlashcardHandler) UpdateFlashcard(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	id, err := flashcardIDParam(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid flashcard ID")
		return
	}

	var req UpdateFlashcardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	cmd := service.UpdateFlashcardCommand{
		Front:        req.Front,
		Back:         req.Back,
		GenerationID: req.GeneratedID,
	}
	if req.Source != nil {
		source := domain.FlashcardSource(*req.Source)
		cmd.Source = &source
	}

	card, err := h.flashcardService.UpdateFlashcard(r.Context(), userID, id, cmd)
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, flashcardToResponse(card))
}

// DeleteFlashcard handles DELETE /api/flashcards/{id} requests.
func (h *FlashcardHandler) DeleteFlashcard(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	id, err := flashcardIDParam(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid flashcard ID")
		return
	}

	if err := h.flashcardService.DeleteFlashcard(r.Context(), userID, id); err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// flashcardIDParam parses the {id} route parameter.
func flashcardIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
