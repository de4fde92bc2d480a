package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cnovais/flashdeck-api/internal/api"
	apiMiddleware "github.com/cnovais/flashdeck-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.userService, app.jwtService)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	deckHandler := api.NewDeckHandler(app.deckService, app.logger)
	studyHandler := api.NewStudyHandler(app.studyService, app.reviewStore, app.logger)
	gamificationHandler := api.NewGamificationHandler(
		app.gamificationService,
		app.eventEmitter,
		app.logger,
	)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Deck and card management
			r.Post("/decks", deckHandler.CreateDeck)
			r.Get("/decks", deckHandler.GetDecks)
			r.Get("/decks/{id}", deckHandler.GetDeck)
			r.Delete("/decks/{id}", deckHandler.DeleteDeck)
			r.Post("/decks/{id}/cards", deckHandler.CreateCard)
			r.Get("/decks/{id}/cards", deckHandler.GetCards)
			r.Delete("/cards/{id}", deckHandler.DeleteCard)

			// Study sessions
			r.Post("/study/sessions", studyHandler.StartSession)
			r.Get("/study/sessions/{id}", studyHandler.GetSession)
			r.Post("/study/sessions/{id}/reveal", studyHandler.RevealAnswer)
			r.Post("/study/sessions/{id}/select", studyHandler.SelectAlternative)
			r.Post("/study/sessions/{id}/rate", studyHandler.RateCard)
			r.Post("/study/sessions/{id}/restart", studyHandler.RestartSession)
			r.Get("/study/sessions/{id}/summary", studyHandler.GetSummary)
			r.Delete("/study/sessions/{id}", studyHandler.AbandonSession)

			// Review log
			r.Post("/study/review", studyHandler.LogReview)
			r.Get("/study/reviews", studyHandler.GetReviews)

			// Gamification
			r.Get("/gamification/stats", gamificationHandler.GetStats)
			r.Get("/gamification/achievements", gamificationHandler.GetAchievements)
			r.Post("/gamification/streak", gamificationHandler.UpdateStreak)
			r.Post("/gamification/card-created", gamificationHandler.ReportCardCreated)
			r.Post("/gamification/deck-created", gamificationHandler.ReportDeckCreated)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
