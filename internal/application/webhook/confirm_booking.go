package webhook

import (
	"context"

	"github.com/DmitryDubovikov/tutors-backend/internal/domain/booking"
	"github.com/DmitryDubovikov/tutors-backend/internal/domain/outbox"
	"github.com/DmitryDubovikov/tutors-backend/internal/domain/payment"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TransactionManager defines the interface for transaction management.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ConfirmBookingUseCase confirms a booking after its payment succeeded.
type ConfirmBookingUseCase struct {
	paymentRepo payment.Repository
	bookingRepo booking.Repository
	outboxRepo  outbox.Repository
	txManager   TransactionManager
	logger      zerolog.Logger
}

// NewConfirmBookingUseCase creates a new ConfirmBookingUseCase.
func NewConfirmBookingUseCase(
	paymentRepo payment.Repository,
	bookingRepo booking.Repository,
	outboxRepo outbox.Repository,
	txManager TransactionManager,
	logger zerolog.Logger,
) *ConfirmBookingUseCase {
	return &ConfirmBookingUseCase{
		paymentRepo: paymentRepo,
		bookingRepo: bookingRepo,
		outboxRepo:  outboxRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute confirms the booking behind a succeeded payment. Only a pending
// booking transitions; any other status is left untouched, so re-running
// the job after a webhook re-delivery changes nothing.
func (uc *ConfirmBookingUseCase) Execute(ctx context.Context, paymentID uuid.UUID) error {
	p, err := uc.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return err
	}

	return uc.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		b, err := uc.bookingRepo.GetByID(txCtx, p.BookingID)
		if err != nil {
			return err
		}

		if !b.ConfirmIfPending() {
			uc.logger.Info().
				Str("booking_id", b.ID.String()).
				Str("status", string(b.Status)).
				Msg("Booking not pending, skipping confirmation")
			return nil
		}

		if err := uc.bookingRepo.Update(txCtx, b); err != nil {
			return err
		}

		return uc.outboxRepo.Append(txCtx, outbox.NewEvent(
			"Booking",
			b.ID.String(),
			"BookingConfirmed",
			map[string]any{
				"booking_id": b.ID.String(),
				"payment_id": p.ID.String(),
				"status":     string(b.Status),
			},
		))
	})
}
