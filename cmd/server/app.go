package main

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/crypto/bcrypt"

	"github.com/tenxcards/cards-api/internal/api"
	"github.com/tenxcards/cards-api/internal/api/middleware"
	"github.com/tenxcards/cards-api/internal/config"
	"github.com/tenxcards/cards-api/internal/platform/openrouter"
	"github.com/tenxcards/cards-api/internal/platform/postgres"
	"github.com/tenxcards/cards-api/internal/service"
	"github.com/tenxcards/cards-api/internal/service/auth"
)

// application holds the assembled handler and middleware graph.
type application struct {
	authHandler       *api.AuthHandler
	generationHandler *api.GenerationHandler
	flashcardHandler  *api.FlashcardHandler
	authMiddleware    *middleware.AuthMiddleware
}

// newApplication wires stores, services, and handlers from configuration.
func newApplication(cfg *config.Config, db *sql.DB, log *slog.Logger) (*application, error) {
	userStore := postgres.NewUserStore(db, log, bcrypt.DefaultCost)
	generationStore := postgres.NewGenerationStore(db, log)
	flashcardStore := postgres.NewFlashcardStore(db, log)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, err
	}

	authService, err := auth.NewService(userStore, jwtService, auth.NewBcryptVerifier(), log)
	if err != nil {
		return nil, err
	}

	generator, err := openrouter.NewGenerator(cfg.LLM, log)
	if err != nil {
		return nil, err
	}

	generationService, err := service.NewGenerationService(
		generationStore,
		generator,
		cfg.LLM.Model,
		time.Duration(cfg.LLM.TimeoutSeconds)*time.Second,
		log,
	)
	if err != nil {
		return nil, err
	}

	flashcardService, err := service.NewFlashcardService(flashcardStore, generationStore, log)
	if err != nil {
		return nil, err
	}

	return &application{
		authHandler:       api.NewAuthHandler(authService),
		generationHandler: api.NewGenerationHandler(generationService),
		flashcardHandler:  api.NewFlashcardHandler(flashcardService),
		authMiddleware:    middleware.NewAuthMiddleware(jwtService),
	}, nil
}

// router builds the HTTP routing tree. Auth endpoints are public; everything
// else requires a valid access token.
func (app *application) router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.TraceMiddleware)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", app.authHandler.Register)
			r.Post("/login", app.authHandler.Login)
			r.Post("/refresh", app.authHandler.RefreshToken)
		})

		r.Group(func(r chi.Router) {
			r.Use(app.authMiddleware.Authenticate)

			r.Route("/generations", func(r chi.Router) {
				r.Post("/", app.generationHandler.GenerateFlashcards)
				r.Get("/", app.generationHandler.ListGenerations)
			})

			r.Route("/flashcards", func(r chi.Router) {
				r.Post("/", app.flashcardHandler.CreateFlashcards)
				r.Get("/", app.flashcardHandler.ListFlashcards)
				r.Get("/{id}", app.flashcardHandler.GetFlashcard)
				r.Put("/{id}", app.flashcardHandler.UpdateFlashcard)
				r.Delete("/{id}", app.flashcardHandler.DeleteFlashcard)
			})
		})
	})

	return r
}
