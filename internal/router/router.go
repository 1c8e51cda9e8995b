// Package router sets up all HTTP routes and middleware chains for the
// inkpress API. It organizes routes into public, authenticated, and admin
// groups with appropriate middleware stacks.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"inkpress/internal/handlers"
	"inkpress/internal/middleware"
	"inkpress/internal/session"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(tokenStore *session.Store, auth *handlers.Auth, posts *handlers.Posts, categories *handlers.Categories, comments *handlers.Comments) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.LoadActor(tokenStore))

	// Health check.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		// Auth. Login and registration are rate-limited to slow down
		// credential stuffing.
		r.Route("/auth", func(r chi.Router) {
			limiter := middleware.NewRateLimiter(10, time.Minute)
			r.Group(func(r chi.Router) {
				r.Use(limiter.Middleware)
				r.Post("/register", auth.Register)
				r.Post("/login", auth.Login)
			})
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/logout", auth.Logout)
				r.Get("/me", auth.Me)
				r.With(middleware.RequireAdmin).Post("/2fa/setup", auth.TwoFASetup)
				r.With(middleware.RequireAdmin).Post("/2fa/verify", auth.TwoFAVerify)
			})
		})

		// Posts: public reads, admin writes.
		r.Route("/posts", func(r chi.Router) {
			r.Get("/", posts.List)
			r.Get("/{slug}", posts.GetBySlug)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth, middleware.RequireAdmin)
				r.Post("/", posts.Create)
				r.Put("/{id}", posts.Update)
				r.Delete("/{id}", posts.Delete)
			})
		})

		// Categories: public reads, admin writes.
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categories.List)
			r.Get("/{slug}", categories.GetBySlug)
			r.Get("/{slug}/posts", posts.ListByCategory)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth, middleware.RequireAdmin)
				r.Post("/", categories.Create)
				r.Put("/{id}", categories.Update)
				r.Delete("/{id}", categories.Delete)
			})
		})

		// Comments: public thread reads, authenticated writes, admin
		// moderation.
		r.Route("/comments", func(r chi.Router) {
			r.Get("/post/{postID}", comments.ListForPost)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/", comments.Create)
				r.Put("/{id}", comments.Update)
				r.Delete("/{id}", comments.Delete)
			})
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth, middleware.RequireAdmin)
				r.Get("/admin", comments.ListAdmin)
				r.Patch("/{id}/status", comments.SetStatus)
			})
		})

		// User management. Admin only.
		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.RequireAuth, middleware.RequireAdmin)
			r.Get("/", auth.ListUsers)
			r.Patch("/{id}/role", auth.SetRole)
			r.Patch("/{id}/password", auth.SetPassword)
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
