package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/kanworks/kanapi/internal/api/auth"
	"github.com/kanworks/kanapi/internal/api/cases"
	"github.com/kanworks/kanapi/internal/api/customer"
	"github.com/kanworks/kanapi/internal/api/health"
	"github.com/kanworks/kanapi/internal/api/user"
)

// Config contains dependencies needed for the router setup.
type Config struct {
	AuthHandler     *auth.AuthHandler
	UserHandler     *user.UserHandler
	CaseHandler     *cases.CaseHandler
	CustomerHandler *customer.CustomerHandler
	HealthHandler   *health.HealthHandler

	// BearerAuth protects API resource routes; CookieAuth protects the
	// browser-session routes. A route group uses one or the other, never both.
	BearerAuth func(http.Handler) http.Handler
	CookieAuth func(http.Handler) http.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are applied before
// mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health/startup", cfg.HealthHandler.Startup)
		r.Get("/health/live", cfg.HealthHandler.Live)
		r.Get("/health/ready", cfg.HealthHandler.Ready)

		// Public routes: no session required.
		r.Group(func(r chi.Router) {
			r.Post("/auth/token", cfg.AuthHandler.Token)
			r.Post("/auth/login", cfg.AuthHandler.Login)
			r.Post("/auth/logout", cfg.AuthHandler.Logout)
			r.Post("/user/create", cfg.UserHandler.CreateUser)
		})

		// Browser-session routes: token sourced from the session cookie only.
		r.Group(func(r chi.Router) {
			r.Use(cfg.CookieAuth)
			r.Get("/auth/me", cfg.AuthHandler.Me)
		})

		// API resource routes: token sourced from the Authorization header only.
		r.Group(func(r chi.Router) {
			r.Use(cfg.BearerAuth)

			r.Get("/case", cfg.CaseHandler.ListCases)
			r.Post("/case/create", cfg.CaseHandler.CreateCase)
			r.Get("/case/{caseID}", cfg.CaseHandler.GetCase)
			r.Put("/case/{caseID}", cfg.CaseHandler.UpdateCase)
			r.Delete("/case/{caseID}", cfg.CaseHandler.DeleteCase)

			r.Get("/customer/{customerID}", cfg.CustomerHandler.GetCustomer)
		})
	})

	return r
}
