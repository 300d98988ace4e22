package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/startailored/records-service/internal/adapters/middleware"
	"github.com/startailored/records-service/internal/core/ports"
)

type RouterConfig struct {
	Log            zerolog.Logger
	Responder      *Responder
	Auth           ports.AuthService
	Staff          ports.StaffService
	Clients        ports.ClientService
	Loans          ports.LoanService
	Measurements   ports.MeasurementService
	Inventory      ports.InventoryService
	Health         *HealthHandler
	AllowedOrigins []string
	// Observer and Metrics are optional.
	Observer middleware.RequestObserver
	Metrics  http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	resp := cfg.Responder
	authMW := middleware.NewAuthMiddleware(cfg.Auth, cfg.Log, resp.Error)

	authHandler := NewAuthHandler(cfg.Auth, resp)
	staff := NewStaffHandler(cfg.Staff, resp)
	clients := NewClientHandler(cfg.Clients, resp)
	loans := NewLoanHandler(cfg.Loans, resp)
	measurements := NewMeasurementHandler(cfg.Measurements, resp)
	inventory := NewInventoryHandler(cfg.Inventory, resp)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(cfg.Log, cfg.Observer))
	r.Use(chimw.Recoverer)
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	}

	if cfg.Health != nil {
		r.Get("/", cfg.Health.Index)
		r.Get("/health", cfg.Health.Health)
		r.Get("/health/ready", cfg.Health.Ready)
		r.Get("/health/live", cfg.Health.Live)
	}
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Post("/login", authHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(authMW.Authenticate)

		r.With(authMW.RequireSession).Post("/logout", authHandler.Logout)
		r.With(authMW.RequireSession).Get("/me", authHandler.Me)

		r.Route("/staff", func(r chi.Router) {
			r.Get("/", staff.List)
			r.Post("/", staff.Create)
			r.Get("/{id}", staff.Get)
			r.Patch("/{id}", staff.Update)
			r.Delete("/{id}", staff.Delete)
		})
		r.Route("/clients", func(r chi.Router) {
			r.Get("/", clients.List)
			r.Post("/", clients.Create)
			r.Get("/{id}", clients.Get)
			r.Patch("/{id}", clients.Update)
			r.Delete("/{id}", clients.Delete)
		})
		r.Route("/loans", func(r chi.Router) {
			r.Get("/", loans.List)
			r.Post("/", loans.Create)
			r.Get("/{id}", loans.Get)
			r.Patch("/{id}", loans.Update)
			r.Delete("/{id}", loans.Delete)
		})
		r.Route("/measurements/{variant}", func(r chi.Router) {
			r.Get("/", measurements.List)
			r.Post("/", measurements.Create)
			r.Get("/{id}", measurements.Get)
			r.Patch("/{id}", measurements.Update)
			r.Delete("/{id}", measurements.Delete)
		})
		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", inventory.List)
			r.Post("/", inventory.Create)
			r.Get("/{id}", inventory.Get)
			r.Patch("/{id}", inventory.Update)
			r.Delete("/{id}", inventory.Delete)
		})
	})

	return r
}
