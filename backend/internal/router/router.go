package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/bacilogs/bacilogs/backend/internal/setup"
	mw "github.com/bacilogs/bacilogs/shared/middleware"
	"github.com/bacilogs/bacilogs/shared/middleware/metrics"
)

func New(deps *setup.Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(mw.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Public.CorsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(mw.SecurityHeaders(false))

	h := deps.Handler
	auth := deps.AuthMiddleware

	r.Get("/", h.Root)
	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(
				chimiddleware.Timeout(10*time.Second),
				mw.RateLimit(deps.LoginLimiter, mw.GetUsernameFromBody),
			).Post("/login", h.Login)
			r.With(auth.NeedAuth()).Get("/me", h.Me)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", h.ListPosts)
			// long-lived, so no request timeout here
			r.Get("/stream", h.Stream)
			r.Get("/{id}", h.GetPost)

			r.Group(func(r chi.Router) {
				r.Use(auth.NeedAuth())
				r.Use(chimiddleware.Timeout(30 * time.Second))
				r.Post("/", h.CreatePost)
				r.Put("/{id}", h.UpdatePost)
				r.Delete("/{id}", h.DeletePost)
			})
		})
	})

	return r
}
