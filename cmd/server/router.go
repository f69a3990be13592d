package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/memodrop/braindump/internal/api"
	apiMiddleware "github.com/memodrop/braindump/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.userService, app.logger)
	categoryHandler := api.NewCategoryHandler(app.categoryService, app.logger)
	cardHandler := api.NewCardHandler(app.cardService, app.logger)
	reviewHandler := api.NewReviewHandler(app.reviewService, app.logger)
	shareHandler := api.NewShareHandler(app.sharingService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Category endpoints
			r.Post("/categories", categoryHandler.CreateCategory)
			r.Get("/categories", categoryHandler.ListCategories)
			r.Get("/categories/{id}", categoryHandler.GetCategory)
			r.Put("/categories/{id}", categoryHandler.UpdateCategory)
			r.Delete("/categories/{id}", categoryHandler.DeleteCategory)

			// Card endpoints
			r.Post("/categories/{id}/cards", cardHandler.CreateCard)
			r.Get("/categories/{id}/cards", cardHandler.ListCards)
			r.Get("/cards/{id}", cardHandler.GetCard)
			r.Put("/cards/{id}", cardHandler.UpdateCard)
			r.Delete("/cards/{id}", cardHandler.DeleteCard)

			// Review session endpoints
			r.Get("/categories/{id}/review/next", reviewHandler.NextCard)
			r.Post("/placements/{id}/answer", reviewHandler.SubmitAnswer)
			r.Post("/placements/{id}/postpone", reviewHandler.PostponeCard)
			r.Post("/placements/{id}/expedite", reviewHandler.ExpediteCard)
			r.Post("/placements/{id}/reset", reviewHandler.ResetCard)
			r.Post("/placements/{id}/area", reviewHandler.SetArea)

			// Share workflow endpoints
			r.Post("/categories/{id}/shares", shareHandler.RequestShare)
			r.Get("/categories/{id}/shares", shareHandler.ListCategoryShares)
			r.Get("/shares/pending", shareHandler.ListPendingShares)
			r.Post("/shares/{id}/accept", shareHandler.AcceptShare)
			r.Post("/shares/{id}/decline", shareHandler.DeclineShare)
			r.Post("/shares/{id}/revoke", shareHandler.RevokeShare)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
