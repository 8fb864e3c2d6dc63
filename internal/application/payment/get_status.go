package payment

import (
	"context"

	"github.com/DmitryDubovikov/tutors-backend/internal/domain/payment"
	"github.com/google/uuid"
)

// GetStatusUseCase resolves a payment intent to its current status.
type GetStatusUseCase struct {
	paymentRepo payment.Repository
}

// NewGetStatusUseCase creates a new GetStatusUseCase.
func NewGetStatusUseCase(paymentRepo payment.Repository) *GetStatusUseCase {
	return &GetStatusUseCase{paymentRepo: paymentRepo}
}

// Execute returns the payment for the given intent id scoped to the user.
func (uc *GetStatusUseCase) Execute(ctx context.Context, intentID string, userID uuid.UUID) (*payment.Payment, error) {
	return uc.paymentRepo.GetByIntentIDForUser(ctx, intentID, userID)
}

// ListPaymentsUseCase lists a user's payments.
type ListPaymentsUseCase struct {
	paymentRepo payment.Repository
}

// NewListPaymentsUseCase creates a new ListPaymentsUseCase.
func NewListPaymentsUseCase(paymentRepo payment.Repository) *ListPaymentsUseCase {
	return &ListPaymentsUseCase{paymentRepo: paymentRepo}
}

// Execute lists the user's payments, newest first.
func (uc *ListPaymentsUseCase) Execute(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*payment.Payment, error) {
	return uc.paymentRepo.ListByUser(ctx, userID, limit, offset)
}
