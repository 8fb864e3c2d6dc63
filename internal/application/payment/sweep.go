package payment

import (
	"context"
	"time"

	"github.com/DmitryDubovikov/tutors-backend/internal/domain/payment"
	"github.com/DmitryDubovikov/tutors-backend/internal/jobs"
	"github.com/rs/zerolog"
)

// SweepStuckPaymentsUseCase re-drives payments that have sat in processing
// past the timeout. A payment gets stuck when its simulation job is lost
// (worker crash, attempts exhausted), so the sweep re-enqueues the
// simulation. Re-enqueueing is safe: the webhook processor ignores events
// for payments that already reached a terminal status.
type SweepStuckPaymentsUseCase struct {
	paymentRepo payment.Repository
	queue       jobs.Enqueuer
	timeout     time.Duration
	batchSize   int
	logger      zerolog.Logger
	onRedriven  func(count int)
}

// NewSweepStuckPaymentsUseCase creates a new SweepStuckPaymentsUseCase.
// onRedriven receives the number of payments re-enqueued per pass and may be nil.
func NewSweepStuckPaymentsUseCase(
	paymentRepo payment.Repository,
	queue jobs.Enqueuer,
	timeout time.Duration,
	batchSize int,
	logger zerolog.Logger,
	onRedriven func(count int),
) *SweepStuckPaymentsUseCase {
	return &SweepStuckPaymentsUseCase{
		paymentRepo: paymentRepo,
		queue:       queue,
		timeout:     timeout,
		batchSize:   batchSize,
		logger:      logger,
		onRedriven:  onRedriven,
	}
}

// Execute runs one sweep pass and returns the number of payments re-driven.
func (uc *SweepStuckPaymentsUseCase) Execute(ctx context.Context, now time.Time) (int, error) {
	cutoff := now.Add(-uc.timeout)
	stuck, err := uc.paymentRepo.ListStuckProcessing(ctx, cutoff, uc.batchSize)
	if err != nil {
		return 0, err
	}
	if len(stuck) == 0 {
		return 0, nil
	}

	redriven := 0
	for _, p := range stuck {
		err := uc.queue.Enqueue(ctx, jobs.TaskSimulateProvider, jobs.SimulateProviderPayload{
			PaymentID: p.ID,
		})
		if err != nil {
			uc.logger.Error().Err(err).
				Str("payment_id", p.ID.String()).
				Msg("Failed to re-enqueue stuck payment")
			continue
		}
		uc.logger.Warn().
			Str("payment_id", p.ID.String()).
			Str("payment_intent_id", p.PaymentIntentID).
			Time("stuck_since", p.UpdatedAt).
			Msg("Re-driving stuck payment")
		redriven++
	}
	if uc.onRedriven != nil && redriven > 0 {
		uc.onRedriven(redriven)
	}
	return redriven, nil
}

// Run executes the sweep on a fixed interval until the context is cancelled.
func (uc *SweepStuckPaymentsUseCase) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := uc.Execute(ctx, time.Now()); err != nil {
				uc.logger.Error().Err(err).Msg("Stuck payment sweep failed")
			}
		}
	}
}
