package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/beautyshop/beautyshop-server/internal/appointment"
	"github.com/beautyshop/beautyshop-server/internal/catalog"
	"github.com/beautyshop/beautyshop-server/internal/clientbook"
	"github.com/beautyshop/beautyshop-server/internal/expense"
	"github.com/beautyshop/beautyshop-server/internal/stats"
	"github.com/beautyshop/beautyshop-server/internal/user"
)

type RouterConfig struct {
	Appointments *appointment.Service
	Users        user.Repository
	Issuer       *user.TokenIssuer
	Services     *catalog.PgRepository
	Clients      *clientbook.PgRepository
	Expenses     *expense.PgRepository
	Stats        *stats.Service
	PgPool       *pgxpool.Pool
	Redis        *redis.Client
	Env          string
	Version      string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Account endpoints
	r.Post("/api/auth/register", registerHandler(cfg.Users, cfg.Issuer))
	r.Post("/api/auth/login", loginHandler(cfg.Users, cfg.Issuer))

	// Public booking page
	r.Get("/api/public/{slug}", masterPageHandler(cfg.Users, cfg.Services, cfg.Appointments))
	r.Get("/api/public/{slug}/slots", slotsHandler(cfg.Users, cfg.Services, cfg.Appointments))
	r.Post("/api/public/{slug}/book", bookHandler(cfg.Users, cfg.Appointments))

	// Authenticated master dashboard
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Issuer))

		r.Get("/api/auth/me", meHandler(cfg.Users))

		r.Get("/api/appointments", listAppointmentsHandler(cfg.Appointments))
		r.Get("/api/appointments/{id}", getAppointmentHandler(cfg.Appointments))
		r.Put("/api/appointments/{id}", updateAppointmentHandler(cfg.Appointments))

		r.Get("/api/services", listServicesHandler(cfg.Services))
		r.Post("/api/services", createServiceHandler(cfg.Services))
		r.Put("/api/services/{id}", updateServiceHandler(cfg.Services))
		r.Delete("/api/services/{id}", deleteServiceHandler(cfg.Services))

		r.Get("/api/clients", listClientsHandler(cfg.Clients))
		r.Post("/api/clients", createClientHandler(cfg.Clients))
		r.Put("/api/clients/{id}", updateClientHandler(cfg.Clients))
		r.Delete("/api/clients/{id}", deleteClientHandler(cfg.Clients))

		r.Get("/api/expenses", listExpensesHandler(cfg.Expenses))
		r.Post("/api/expenses", createExpenseHandler(cfg.Expenses))
		r.Delete("/api/expenses/{id}", deleteExpenseHandler(cfg.Expenses))

		r.Get("/api/stats", statsHandler(cfg.Stats))
	})

	return r
}
