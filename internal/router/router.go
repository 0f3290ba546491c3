// Package router sets up all HTTP routes and middleware chains for the
// brandnet API. Routes are split into a public group and a token
// protected group for the newsroom tools and effect callers.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"brandnet/internal/handlers"
	"brandnet/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. rateLimiter may be nil.
func New(items *handlers.Items, fx *handlers.Effects, public *handlers.Public, apiTokenHash string, rateLimiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check, no auth.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		if rateLimiter != nil {
			r.Use(rateLimiter.Middleware)
		}

		r.Route("/public/{brand}", func(r chi.Router) {
			r.Post("/subscribe", public.Subscribe)
			r.Get("/{slug}", public.Article)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAPIToken(apiTokenHash))

			r.Route("/items", func(r chi.Router) {
				r.Post("/", items.Create)
				r.Get("/{id}", items.Get)
				r.Post("/{id}/publish", items.Publish)
				r.Get("/{id}/effects", items.Effects)
			})

			r.Post("/newsletter/campaigns/{id}/send", fx.SendCampaign)

			// Effect endpoints, also called by the publish flow of other
			// instances. Keep in sync with effects.Path*.
			r.Route("/effects", func(r chi.Router) {
				r.Post("/audio", fx.Audio)
				r.Post("/newsletter", fx.Newsletter)
				r.Post("/social", fx.Social)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
