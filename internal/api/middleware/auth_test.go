package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenxcards/cards-api/internal/service/auth"
)

// stubJWTService returns fixed claims or a fixed error.
type stubJWTService struct {
	claims *auth.Claims
	err    error
}

func (s *stubJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return "access-token", nil
}

func (s *stubJWTService) GenerateRefreshToken(
	ctx context.Context,
	userID uuid.UUID,
) (string, error) {
	return "refresh-token", nil
}

func (s *stubJWTService) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.claims, nil
}

func (s *stubJWTService) ValidateRefreshToken(
	ctx context.Context,
	token string,
) (*auth.Claims, error) {
	return nil, auth.ErrInvalidRefreshToken
}

func runAuthMiddleware(t *testing.T, jwt auth.JWTService, authHeader string) (*httptest.ResponseRecorder, uuid.UUID, bool) {
	t.Helper()

	var gotUserID uuid.UUID
	var called bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, called = GetUserID(r)
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest(http.MethodGet, "/api/flashcards", nil)
	if authHeader != "" {
		r.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()

	NewAuthMiddleware(jwt).Authenticate(next).ServeHTTP(w, r)
	return w, gotUserID, called
}

func TestAuthenticateSuccess(t *testing.T) {
	userID := uuid.New()
	jwt := &stubJWTService{claims: &auth.Claims{UserID: userID, TokenType: "access"}}

	w, gotUserID, called := runAuthMiddleware(t, jwt, "Bearer some-token")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, called)
	assert.Equal(t, userID, gotUserID)
}

func TestAuthenticateMissingHeader(t *testing.T) {
	w, _, called := runAuthMiddleware(t, &stubJWTService{}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, called)
}

func TestAuthenticateMalformedHeader(t *testing.T) {
	for _, header := range []string{"some-token", "Basic dXNlcg==", "Bearer"} {
		w, _, called := runAuthMiddleware(t, &stubJWTService{}, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
		assert.False(t, called)
	}
}

func TestAuthenticateTokenErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"wrong token type", auth.ErrWrongTokenType, http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w, _, called := runAuthMiddleware(t, &stubJWTService{err: tc.err}, "Bearer bad")
			assert.Equal(t, tc.wantStatus, w.Code)
			assert.False(t, called)
		})
	}
}
