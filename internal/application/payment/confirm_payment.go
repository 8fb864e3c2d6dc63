package payment

import (
	"context"

	"github.com/DmitryDubovikov/tutors-backend/internal/domain/payment"
	"github.com/DmitryDubovikov/tutors-backend/internal/jobs"
	"github.com/google/uuid"
)

// ConfirmPaymentRequest holds the input for confirming a payment intent.
type ConfirmPaymentRequest struct {
	PaymentIntentID string
	UserID          uuid.UUID
	CardNumber      string
}

// ConfirmPaymentResponse holds the result of confirming a payment intent.
type ConfirmPaymentResponse struct {
	PaymentIntentID string
	Status          payment.Status
}

// ConfirmPaymentUseCase moves a pending payment into processing and hands
// it off to the provider simulator. It never applies a terminal status;
// that is the webhook processor's job.
type ConfirmPaymentUseCase struct {
	paymentRepo payment.Repository
	queue       jobs.Enqueuer
}

// NewConfirmPaymentUseCase creates a new ConfirmPaymentUseCase.
func NewConfirmPaymentUseCase(paymentRepo payment.Repository, queue jobs.Enqueuer) *ConfirmPaymentUseCase {
	return &ConfirmPaymentUseCase{
		paymentRepo: paymentRepo,
		queue:       queue,
	}
}

// Execute confirms a payment intent. Confirming a payment that is no
// longer pending is a no-op that reports the current status, so client
// retries of the confirm call are safe.
func (uc *ConfirmPaymentUseCase) Execute(ctx context.Context, req ConfirmPaymentRequest) (*ConfirmPaymentResponse, error) {
	p, err := uc.paymentRepo.GetByIntentIDForUser(ctx, req.PaymentIntentID, req.UserID)
	if err != nil {
		return nil, err
	}

	if p.Status != payment.StatusPending {
		return &ConfirmPaymentResponse{PaymentIntentID: p.PaymentIntentID, Status: p.Status}, nil
	}

	if err := p.MarkProcessing(); err != nil {
		return nil, err
	}
	if err := uc.paymentRepo.Update(ctx, p); err != nil {
		return nil, err
	}

	if err := uc.queue.Enqueue(ctx, jobs.TaskSimulateProvider, jobs.SimulateProviderPayload{
		PaymentID:  p.ID,
		CardNumber: req.CardNumber,
	}); err != nil {
		return nil, err
	}

	return &ConfirmPaymentResponse{PaymentIntentID: p.PaymentIntentID, Status: p.Status}, nil
}
