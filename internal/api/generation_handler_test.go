package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenxcards/cards-api/internal/api/shared"
	"github.com/tenxcards/cards-api/internal/domain"
	"github.com/tenxcards/cards-api/internal/service"
)

// mockGenerationService implements the GenerationService interface.
type mockGenerationService struct {
	generateFn func(ctx context.Context, userID uuid.UUID, sourceText string) (*service.GenerationResult, error)
	listFn     func(ctx context.Context, userID uuid.UUID, page, limit int) ([]*domain.Generation, int, error)
}

func (m *mockGenerationService) GenerateFlashcards(
	ctx context.Context,
	userID uuid.UUID,
	sourceText string,
) (*service.GenerationResult, error) {
	return m.generateFn(ctx, userID, sourceText)
}

func (m *mockGenerationService) ListGenerations(
	ctx context.Context,
	userID uuid.UUID,
	page, limit int,
) ([]*domain.Generation, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, page, limit)
	}
	return nil, 0, nil
}

// authedRequest builds a request with the user ID already in context, as the
// auth middleware would leave it.
func authedRequest(method, target string, body []byte, userID uuid.UUID) *http.Request {
	r := httptest.NewRequest(method, target, bytes.NewReader(body))
	ctx := context.WithValue(r.Context(), shared.UserIDContextKey, userID)
	return r.WithContext(ctx)
}

// validSourceText is long enough to clear the minimum length bound.
var validSourceText = strings.Repeat("Go is a statically typed language. ", 40)

func TestGenerateFlashcardsHandlerSuccess(t *testing.T) {
	userID := uuid.New()
	svc := &mockGenerationService{
		generateFn: func(ctx context.Context, uid uuid.UUID, sourceText string) (*service.GenerationResult, error) {
			assert.Equal(t, userID, uid)
			return &service.GenerationResult{
				GenerationID:   42,
				GeneratedCount: 1,
				Proposals: []domain.FlashcardProposal{
					{Front: "Front text", Back: "Back text", Source: domain.SourceAIFull, GenerationID: 42},
				},
			}, nil
		},
	}
	handler := NewGenerationHandler(svc)

	body, err := json.Marshal(GenerateFlashcardsRequest{SourceText: validSourceText})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	handler.GenerateFlashcards(w, authedRequest(http.MethodPost, "/api/generations", body, userID))

	require.Equal(t, http.StatusCreated, w.Code)

	var resp GenerationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(42), resp.GenerationID)
	assert.Equal(t, 1, resp.GeneratedCount)
	require.Len(t, resp.FlashcardsProposals, 1)
	assert.Equal(t, domain.SourceAIFull, resp.FlashcardsProposals[0].Source)
}

func TestGenerateFlashcardsHandlerSourceTextBounds(t *testing.T) {
	handler := NewGenerationHandler(&mockGenerationService{
		generateFn: func(ctx context.Context, uid uuid.UUID, sourceText string) (*service.GenerationResult, error) {
			t.Fatal("service must not be called for invalid input")
			return nil, nil
		},
	})

	tests := []struct {
		name       string
		sourceText string
	}{
		{"too short", "tiny"},
		{"too long", strings.Repeat("x", 10001)},
		{"empty", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			body, err := json.Marshal(GenerateFlashcardsRequest{SourceText: tc.sourceText})
			require.NoError(t, err)

			w := httptest.NewRecorder()
			handler.GenerateFlashcards(w,
				authedRequest(http.MethodPost, "/api/generations", body, uuid.New()))
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestGenerateFlashcardsHandlerUnauthenticated(t *testing.T) {
	handler := NewGenerationHandler(&mockGenerationService{})

	r := httptest.NewRequest(http.MethodPost, "/api/generations", bytes.NewReader(nil))
	w := httptest.NewRecorder()
	handler.GenerateFlashcards(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGenerateFlashcardsHandlerUpstreamErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"timeout", service.ErrGenerationTimeout, http.StatusGatewayTimeout},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewGenerationHandler(&mockGenerationService{
				generateFn: func(ctx context.Context, uid uuid.UUID, sourceText string) (*service.GenerationResult, error) {
					return nil, tc.err
				},
			})

			body, err := json.Marshal(GenerateFlashcardsRequest{SourceText: validSourceText})
			require.NoError(t, err)

			w := httptest.NewRecorder()
			handler.GenerateFlashcards(w,
				authedRequest(http.MethodPost, "/api/generations", body, uuid.New()))
			assert.Equal(t, tc.wantStatus, w.Code)
			assert.NotContains(t, w.Body.String(), "goroutine",
				"internal detail never leaks")
		})
	}
}

func TestListGenerationsHandler(t *testing.T) {
	userID := uuid.New()
	handler := NewGenerationHandler(&mockGenerationService{
		generateFn: nil,
		listFn: func(ctx context.Context, uid uuid.UUID, page, limit int) ([]*domain.Generation, int, error) {
			assert.Equal(t, 2, page)
			assert.Equal(t, 10, limit)
			return []*domain.Generation{{ID: 1, UserID: uid}}, 11, nil
		},
	})

	w := httptest.NewRecorder()
	handler.ListGenerations(w,
		authedRequest(http.MethodGet, "/api/generations?page=2&limit=10", nil, userID))

	require.Equal(t, http.StatusOK, w.Code)

	var resp GenerationListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, 11, resp.Pagination.Total)
}
