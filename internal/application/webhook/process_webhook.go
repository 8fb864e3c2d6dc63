package webhook

import (
	"context"
	"errors"

	domainErrors "github.com/DmitryDubovikov/tutors-backend/internal/domain/errors"
	"github.com/DmitryDubovikov/tutors-backend/internal/domain/payment"
	"github.com/DmitryDubovikov/tutors-backend/internal/jobs"
	"github.com/rs/zerolog"
)

// ProcessWebhookRequest holds a provider webhook event.
type ProcessWebhookRequest struct {
	EventType       string
	PaymentIntentID string
}

// ProcessWebhookResponse holds the result of processing a webhook event.
type ProcessWebhookResponse struct {
	Processed bool
	Status    payment.Status
}

// ProcessWebhookUseCase applies provider webhook events to payments. It is
// the only component allowed to move a payment into a terminal status.
type ProcessWebhookUseCase struct {
	paymentRepo payment.Repository
	queue       jobs.Enqueuer
	logger      zerolog.Logger
}

// NewProcessWebhookUseCase creates a new ProcessWebhookUseCase.
func NewProcessWebhookUseCase(paymentRepo payment.Repository, queue jobs.Enqueuer, logger zerolog.Logger) *ProcessWebhookUseCase {
	return &ProcessWebhookUseCase{
		paymentRepo: paymentRepo,
		queue:       queue,
		logger:      logger,
	}
}

// Execute applies a webhook event. An event referencing an unknown intent
// is logged and swallowed, matching how real providers expect webhook
// endpoints to behave. Re-delivered events are no-ops on the payment but
// still schedule the booking confirmation, which is itself idempotent.
func (uc *ProcessWebhookUseCase) Execute(ctx context.Context, req ProcessWebhookRequest) (*ProcessWebhookResponse, error) {
	p, err := uc.paymentRepo.GetByIntentID(ctx, req.PaymentIntentID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrPaymentNotFound) {
			uc.logger.Warn().
				Str("payment_intent_id", req.PaymentIntentID).
				Str("event_type", req.EventType).
				Msg("Webhook for unknown payment intent, ignoring")
			return &ProcessWebhookResponse{Processed: false}, nil
		}
		return nil, err
	}

	changed, err := p.ApplyEvent(req.EventType)
	if err != nil {
		return nil, err
	}

	if changed {
		if err := uc.paymentRepo.Update(ctx, p); err != nil {
			return nil, err
		}
		uc.logger.Info().
			Str("payment_intent_id", p.PaymentIntentID).
			Str("event_type", req.EventType).
			Str("status", string(p.Status)).
			Msg("Webhook applied to payment")
	} else {
		uc.logger.Info().
			Str("payment_intent_id", p.PaymentIntentID).
			Str("event_type", req.EventType).
			Msg("Webhook re-delivery, payment already up to date")
	}

	if p.Status == payment.StatusSucceeded {
		err := uc.queue.Enqueue(ctx, jobs.TaskConfirmBooking, jobs.ConfirmBookingPayload{
			PaymentID: p.ID,
		})
		if err != nil {
			return nil, err
		}
	}

	return &ProcessWebhookResponse{Processed: changed, Status: p.Status}, nil
}
