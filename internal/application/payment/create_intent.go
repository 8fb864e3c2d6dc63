package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/DmitryDubovikov/tutors-backend/internal/domain/booking"
	domainErrors "github.com/DmitryDubovikov/tutors-backend/internal/domain/errors"
	"github.com/DmitryDubovikov/tutors-backend/internal/domain/payment"
	"github.com/google/uuid"
)

// CreateIntentRequest holds the input for creating a payment intent.
type CreateIntentRequest struct {
	IdempotencyKey string
	BookingID      uuid.UUID
	UserID         uuid.UUID
	AmountCents    int64
	Currency       string
	Metadata       map[string]any
}

// CreateIntentResponse holds the result of creating a payment intent.
// Created distinguishes a fresh intent (201) from an idempotent replay (200).
type CreateIntentResponse struct {
	Payment *payment.Payment
	Created bool
}

// CreateIntentUseCase orchestrates idempotent payment intent creation.
type CreateIntentUseCase struct {
	paymentRepo payment.Repository
	bookingRepo booking.Repository
}

// NewCreateIntentUseCase creates a new CreateIntentUseCase.
func NewCreateIntentUseCase(paymentRepo payment.Repository, bookingRepo booking.Repository) *CreateIntentUseCase {
	return &CreateIntentUseCase{
		paymentRepo: paymentRepo,
		bookingRepo: bookingRepo,
	}
}

// Execute creates a payment intent for a booking. Idempotency relies on the
// database unique constraint, not a read-then-write check: we always attempt
// the insert, and on a duplicate-key error re-read and return the existing
// row. Two concurrent calls with the same key therefore can never both
// create a payment.
func (uc *CreateIntentUseCase) Execute(ctx context.Context, req CreateIntentRequest) (*CreateIntentResponse, error) {
	b, err := uc.bookingRepo.GetByIDForStudent(ctx, req.BookingID, req.UserID)
	if err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = payment.DefaultCurrency
	}

	p, err := payment.NewPayment(
		req.IdempotencyKey,
		b.ID,
		req.UserID,
		payment.Amount{ValueCents: req.AmountCents, Currency: currency},
		req.Metadata,
	)
	if err != nil {
		return nil, err
	}

	if err := uc.paymentRepo.Create(ctx, p); err != nil {
		if errors.Is(err, domainErrors.ErrDuplicateIdempotencyKey) {
			existing, readErr := uc.paymentRepo.GetByIdempotencyKey(ctx, req.IdempotencyKey)
			if readErr != nil {
				return nil, fmt.Errorf("re-read payment after duplicate key: %w", readErr)
			}
			return &CreateIntentResponse{Payment: existing, Created: false}, nil
		}
		return nil, err
	}

	return &CreateIntentResponse{Payment: p, Created: true}, nil
}
