package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	bookingApp "github.com/DmitryDubovikov/tutors-backend/internal/application/booking"
	paymentApp "github.com/DmitryDubovikov/tutors-backend/internal/application/payment"
	tutorApp "github.com/DmitryDubovikov/tutors-backend/internal/application/tutor"
	webhookApp "github.com/DmitryDubovikov/tutors-backend/internal/application/webhook"
	"github.com/DmitryDubovikov/tutors-backend/internal/bootstrap"
	"github.com/DmitryDubovikov/tutors-backend/internal/interfaces/http/handlers"
	"github.com/DmitryDubovikov/tutors-backend/internal/jobs"
	"github.com/DmitryDubovikov/tutors-backend/internal/repository/postgres"
)

func main() {
	ctx := context.Background()

	app, err := bootstrap.New(ctx, "tutors-api", "tutors")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	// --- Repositories ---
	paymentRepo := postgres.NewPaymentRepository(app.Pool)
	bookingRepo := postgres.NewBookingRepository(app.Pool)
	tutorRepo := postgres.NewTutorRepository(app.Pool)
	outboxRepo := postgres.NewOutboxRepository(app.Pool)
	txManager := postgres.NewTxManager(app.Pool)

	queue := jobs.NewQueue(app.Redis)

	// --- Application services ---
	createIntentUC := paymentApp.NewCreateIntentUseCase(paymentRepo, bookingRepo)
	confirmUC := paymentApp.NewConfirmPaymentUseCase(paymentRepo, queue)
	statusUC := paymentApp.NewGetStatusUseCase(paymentRepo)
	listPaymentsUC := paymentApp.NewListPaymentsUseCase(paymentRepo)
	processWebhookUC := webhookApp.NewProcessWebhookUseCase(paymentRepo, queue, app.Logger)
	createBookingUC := bookingApp.NewCreateBookingUseCase(bookingRepo, tutorRepo, outboxRepo, txManager)
	getBookingUC := bookingApp.NewGetBookingUseCase(bookingRepo)
	listBookingsUC := bookingApp.NewListBookingsUseCase(bookingRepo)
	manageTutorUC := tutorApp.NewManageTutorUseCase(tutorRepo, outboxRepo, txManager)

	// --- Build router ---
	router := handlers.NewRouter(handlers.RouterDeps{
		Pool:           app.Pool,
		RedisClient:    app.Redis,
		PaymentHandler: handlers.NewPaymentHandler(createIntentUC, confirmUC, statusUC, listPaymentsUC),
		WebhookHandler: handlers.NewWebhookHandler(processWebhookUC),
		BookingHandler: handlers.NewBookingHandler(createBookingUC, getBookingUC, listBookingsUC),
		TutorHandler:   handlers.NewTutorHandler(manageTutorUC),
		Metrics:        app.Metrics,
		CORSConfig:     app.Config.Server.CORS,
		JWTSecret:      app.Config.Auth.JWTSecret,
	})

	// --- HTTP server ---
	addr := fmt.Sprintf(":%d", app.Config.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  app.Config.Server.ReadTimeout,
		WriteTimeout: app.Config.Server.WriteTimeout,
		IdleTimeout:  app.Config.Server.IdleTimeout,
	}

	go func() {
		app.Logger.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Logger.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.Logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	app.Logger.Info().Msg("Server exited")
}
