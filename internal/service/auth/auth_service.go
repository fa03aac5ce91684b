package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tenxcards/cards-api/internal/domain"
	"github.com/tenxcards/cards-api/internal/store"
)

// TokenPair bundles an access token with its refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResult is returned from Register and Login: the authenticated user plus
// a fresh token pair.
type AuthResult struct {
	User   *domain.User
	Tokens TokenPair
}

// Service implements registration, login, and token refresh on top of the
// user store and the JWT service.
type Service struct {
	users    store.UserStore
	jwt      JWTService
	verifier PasswordVerifier
	logger   *slog.Logger
}

// NewService creates an authentication Service.
func NewService(
	users store.UserStore,
	jwtService JWTService,
	verifier PasswordVerifier,
	logger *slog.Logger,
) (*Service, error) {
	if users == nil {
		return nil, errors.New("user store cannot be nil")
	}
	if jwtService == nil {
		return nil, errors.New("jwt service cannot be nil")
	}
	if verifier == nil {
		return nil, errors.New("password verifier cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		users:    users,
		jwt:      jwtService,
		verifier: verifier,
		logger:   logger.With(slog.String("component", "auth_service")),
	}, nil
}

// Register creates a new user account and returns it with a token pair.
// Returns store.ErrEmailExists if the email is already registered, or a
// domain validation error for a malformed email or weak password.
func (s *Service) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := domain.NewUser(email, password)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user registered", slog.String("user_id", user.ID.String()))
	return &AuthResult{User: user, Tokens: tokens}, nil
}

// Login authenticates a user by email and password and returns a token pair.
// Unknown emails and wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Tokens: tokens}, nil
}

// Refresh validates a refresh token and issues a new token pair for its user.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	// The user may have been deleted since the token was issued.
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return &tokens, nil
}

// issueTokens generates an access and refresh token pair for the user.
func (s *Service) issueTokens(ctx context.Context, user *domain.User) (TokenPair, error) {
	accessToken, err := s.jwt.GenerateToken(ctx, user.ID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwt.GenerateRefreshToken(ctx, user.ID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
