package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	paymentApp "github.com/DmitryDubovikov/tutors-backend/internal/application/payment"
	webhookApp "github.com/DmitryDubovikov/tutors-backend/internal/application/webhook"
	"github.com/DmitryDubovikov/tutors-backend/internal/bootstrap"
	"github.com/DmitryDubovikov/tutors-backend/internal/events"
	"github.com/DmitryDubovikov/tutors-backend/internal/infrastructure/kafka"
	"github.com/DmitryDubovikov/tutors-backend/internal/jobs"
	"github.com/DmitryDubovikov/tutors-backend/internal/provider"
	"github.com/DmitryDubovikov/tutors-backend/internal/repository/postgres"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.New(ctx, "tutors-worker", "tutors_worker")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	// --- Repositories ---
	paymentRepo := postgres.NewPaymentRepository(app.Pool)
	bookingRepo := postgres.NewBookingRepository(app.Pool)
	outboxRepo := postgres.NewOutboxRepository(app.Pool)
	txManager := postgres.NewTxManager(app.Pool)

	queue := jobs.NewQueue(app.Redis)

	// --- Use cases ---
	processWebhookUC := webhookApp.NewProcessWebhookUseCase(paymentRepo, queue, app.Logger)
	confirmBookingUC := webhookApp.NewConfirmBookingUseCase(paymentRepo, bookingRepo, outboxRepo, txManager, app.Logger)
	simulator := provider.NewSimulator(paymentRepo, queue, app.Logger,
		provider.WithDelayRange(app.Config.Payment.SimulatorMinDelay, app.Config.Payment.SimulatorMaxDelay))
	sweepUC := paymentApp.NewSweepStuckPaymentsUseCase(
		paymentRepo, queue,
		app.Config.Payment.ProcessingTimeout,
		app.Config.Worker.OutboxBatchSize,
		app.Logger,
		func(count int) { app.Metrics.StuckPayments.Add(float64(count)) },
	)

	// --- Job worker ---
	worker := jobs.NewWorker(app.Redis, jobs.WorkerConfig{
		Group:         app.Config.Worker.ConsumerGroup,
		Consumer:      app.Config.InstanceID,
		Concurrency:   app.Config.Worker.Concurrency,
		BatchSize:     app.Config.Worker.BatchSize,
		BlockDuration: app.Config.Worker.BlockDuration,
		MaxAttempts:   app.Config.Worker.MaxTaskAttempts,
	}, app.Logger, app.Metrics)

	worker.Register(jobs.TaskSimulateProvider, func(ctx context.Context, payload []byte) error {
		var p jobs.SimulateProviderPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return fmt.Errorf("decode simulate payload: %w", err)
		}
		return simulator.Simulate(ctx, p.PaymentID, p.CardNumber)
	})
	worker.Register(jobs.TaskProcessWebhook, func(ctx context.Context, payload []byte) error {
		var p jobs.ProcessWebhookPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return fmt.Errorf("decode webhook payload: %w", err)
		}
		resp, err := processWebhookUC.Execute(ctx, webhookApp.ProcessWebhookRequest{
			EventType:       p.EventType,
			PaymentIntentID: p.PaymentIntentID,
		})
		if err != nil {
			app.Metrics.PaymentErrors.WithLabelValues("webhook", "processing_error").Inc()
			return err
		}
		if resp.Processed {
			app.Metrics.PaymentsTotal.WithLabelValues(string(resp.Status)).Inc()
		}
		return nil
	})
	worker.Register(jobs.TaskConfirmBooking, func(ctx context.Context, payload []byte) error {
		var p jobs.ConfirmBookingPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return fmt.Errorf("decode confirm booking payload: %w", err)
		}
		return confirmBookingUC.Execute(ctx, p.PaymentID)
	})

	// --- Outbox publisher ---
	producer := kafka.NewProducer(&app.Config.Kafka)
	defer producer.Close()
	publisher := events.NewPublisher(outboxRepo, producer, app.Config.Worker.OutboxBatchSize, app.Logger, app.Metrics)

	app.Logger.Info().
		Str("group", app.Config.Worker.ConsumerGroup).
		Str("consumer", app.Config.InstanceID).
		Msg("Worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return worker.Run(gCtx)
	})
	g.Go(func() error {
		return publisher.Run(gCtx, app.Config.Worker.OutboxPollInterval)
	})
	g.Go(func() error {
		return sweepUC.Run(gCtx, app.Config.Payment.SweepInterval)
	})
	g.Go(func() error {
		select {
		case <-gCtx.Done():
			return gCtx.Err()
		case <-quit:
			app.Logger.Info().Msg("Shutting down worker...")
			cancel()
			return nil
		}
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		app.Logger.Error().Err(err).Msg("Worker error")
	}
	app.Logger.Info().Msg("Worker exited")
}
