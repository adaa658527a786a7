package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/vetcare/clinic-backoffice/internal/reminder"
	"github.com/vetcare/clinic-backoffice/internal/scheduling"
)

type RouterConfig struct {
	Scheduling *scheduling.Service
	Reminders  *reminder.Scheduler
	PgPool     *pgxpool.Pool
	Redis      *redis.Client
	Env        string
	Version    string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Appointment endpoints
	r.Post("/appointments", bookAppointmentHandler(cfg.Scheduling))
	r.Get("/appointments", listAppointmentsHandler(cfg.Scheduling))
	r.Get("/appointments/{id}", getAppointmentHandler(cfg.Scheduling))
	r.Post("/appointments/{id}/cancel", cancelAppointmentHandler(cfg.Scheduling))
	r.Get("/availability", availabilityHandler(cfg.Scheduling))

	// Reminder endpoints
	r.Post("/reminders", scheduleReminderHandler(cfg.Reminders))
	r.Get("/reminders", listRemindersHandler(cfg.Reminders))
	r.Get("/reminders/stats", reminderStatsHandler(cfg.Reminders))
	r.Delete("/reminders/{id}", cancelReminderHandler(cfg.Reminders))

	return r
}
