package provider

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	domainErrors "github.com/DmitryDubovikov/tutors-backend/internal/domain/errors"
	"github.com/DmitryDubovikov/tutors-backend/internal/domain/payment"
	"github.com/DmitryDubovikov/tutors-backend/internal/jobs"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Test card numbers (matches Stripe test cards).
const (
	TestCardSuccess      = "4242424242424242"
	TestCardDeclined     = "4000000000000002"
	TestCardInsufficient = "4000000000009995"
)

// Simulator emulates a third-party payment processor: it sleeps for a
// simulated network delay, decides the outcome from the card number, and
// reports the result as a webhook task. It never mutates payment state;
// applying the outcome is the webhook processor's job.
type Simulator struct {
	payments payment.Repository
	queue    jobs.Enqueuer
	minDelay time.Duration
	maxDelay time.Duration
	randFn   func() float64
	logger   zerolog.Logger
}

type SimulatorOption func(*Simulator)

// WithDelayRange overrides the simulated processing delay bounds.
func WithDelayRange(min, max time.Duration) SimulatorOption {
	return func(s *Simulator) {
		s.minDelay = min
		s.maxDelay = max
	}
}

// WithRandFunc overrides the randomness source for deterministic tests.
func WithRandFunc(fn func() float64) SimulatorOption {
	return func(s *Simulator) { s.randFn = fn }
}

// NewSimulator creates a Simulator with the default 0.5-2s delay range.
func NewSimulator(payments payment.Repository, queue jobs.Enqueuer, logger zerolog.Logger, opts ...SimulatorOption) *Simulator {
	s := &Simulator{
		payments: payments,
		queue:    queue,
		minDelay: 500 * time.Millisecond,
		maxDelay: 2 * time.Second,
		randFn:   rand.Float64,
		logger:   logger,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// DecideOutcome maps a card number to the webhook event type. Pure:
// designated test cards are deterministic, any other non-empty number is
// a coin flip, and a missing card defaults to success for testing.
func (s *Simulator) DecideOutcome(cardNumber string) string {
	switch {
	case cardNumber == TestCardSuccess:
		return payment.EventSucceeded
	case cardNumber == TestCardDeclined || cardNumber == TestCardInsufficient:
		return payment.EventFailed
	case cardNumber != "":
		if s.randFn() < 0.5 {
			return payment.EventSucceeded
		}
		return payment.EventFailed
	default:
		return payment.EventSucceeded
	}
}

// Simulate runs one provider simulation. A missing payment is a terminal
// no-op (logged, not retried); any other failure is returned so the job
// queue can retry within its attempt budget.
func (s *Simulator) Simulate(ctx context.Context, paymentID uuid.UUID, cardNumber string) error {
	s.logger.Info().
		Str("payment_id", paymentID.String()).
		Str("card_prefix", cardPrefix(cardNumber)).
		Msg("Simulating payment provider")

	if err := s.sleep(ctx); err != nil {
		return err
	}

	p, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrPaymentNotFound) {
			s.logger.Error().Str("payment_id", paymentID.String()).Msg("Payment not found, dropping simulation")
			return nil
		}
		return fmt.Errorf("load payment: %w", err)
	}

	event := s.DecideOutcome(cardNumber)

	if err := s.queue.Enqueue(ctx, jobs.TaskProcessWebhook, jobs.ProcessWebhookPayload{
		EventType:       event,
		PaymentIntentID: p.PaymentIntentID,
	}); err != nil {
		return fmt.Errorf("enqueue webhook task: %w", err)
	}

	s.logger.Info().
		Str("payment_id", paymentID.String()).
		Str("event", event).
		Msg("Payment simulation complete")
	return nil
}

func (s *Simulator) sleep(ctx context.Context) error {
	delay := s.minDelay
	if s.maxDelay > s.minDelay {
		delay += time.Duration(s.randFn() * float64(s.maxDelay-s.minDelay))
	}
	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func cardPrefix(cardNumber string) string {
	if cardNumber == "" {
		return "N/A"
	}
	if len(cardNumber) < 4 {
		return cardNumber + "****"
	}
	return cardNumber[:4] + "****"
}
