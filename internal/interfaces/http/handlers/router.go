package handlers

import (
	"time"

	"github.com/DmitryDubovikov/tutors-backend/internal/infrastructure/config"
	"github.com/DmitryDubovikov/tutors-backend/internal/infrastructure/observability"
	customMW "github.com/DmitryDubovikov/tutors-backend/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

type RouterDeps struct {
	Pool           *pgxpool.Pool
	RedisClient    *redis.Client
	PaymentHandler *PaymentHandler
	WebhookHandler *WebhookHandler
	BookingHandler *BookingHandler
	TutorHandler   *TutorHandler
	Metrics        *observability.Metrics
	CORSConfig     config.CORSConfig
	JWTSecret      string
}

func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(customMW.Tracing())
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.CORSConfig.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: deps.CORSConfig.AllowCredentials,
		MaxAge:           300,
	}))
	r.Use(customMW.Metrics(deps.Metrics))

	healthH := NewHealthHandler(deps.Pool, deps.RedisClient)

	r.Get("/health", healthH.Health)
	r.Get("/health/live", healthH.Liveness)
	r.Get("/health/ready", healthH.Readiness)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		auth := customMW.RequireAuth(deps.JWTSecret)

		// Tutors (public reads, authenticated writes)
		r.Get("/tutors", deps.TutorHandler.ListTutors)
		r.Get("/tutors/{id}", deps.TutorHandler.GetTutor)
		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Post("/tutors", deps.TutorHandler.CreateTutor)
			r.Put("/tutors/{id}", deps.TutorHandler.UpdateTutor)
			r.Delete("/tutors/{id}", deps.TutorHandler.DeleteTutor)
		})

		// Bookings and payments
		r.Group(func(r chi.Router) {
			r.Use(auth)

			r.Post("/bookings", deps.BookingHandler.CreateBooking)
			r.Get("/bookings", deps.BookingHandler.ListBookings)
			r.Get("/bookings/{id}", deps.BookingHandler.GetBooking)

			r.Post("/payments/intents", deps.PaymentHandler.CreateIntent)
			r.Post("/payments/intents/{intent_id}/confirm", deps.PaymentHandler.ConfirmPayment)
			r.Get("/payments/intents/{intent_id}", deps.PaymentHandler.GetStatus)
			r.Get("/payments", deps.PaymentHandler.ListPayments)
		})

		// Admin
		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Use(customMW.RequireAdmin())
			r.Post("/admin/webhooks/simulate", deps.WebhookHandler.SimulateWebhook)
		})
	})

	return r
}
