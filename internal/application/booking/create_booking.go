package booking

import (
	"context"
	"time"

	"github.com/DmitryDubovikov/tutors-backend/internal/domain/booking"
	"github.com/DmitryDubovikov/tutors-backend/internal/domain/outbox"
	"github.com/DmitryDubovikov/tutors-backend/internal/domain/payment"
	"github.com/DmitryDubovikov/tutors-backend/internal/domain/tutor"
	"github.com/google/uuid"
)

// TransactionManager defines the interface for transaction management.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// CreateBookingRequest holds the input for creating a booking.
type CreateBookingRequest struct {
	TutorID         uuid.UUID
	StudentID       uuid.UUID
	ScheduledAt     time.Time
	DurationMinutes int
	PriceCents      int64
	Currency        string
	Notes           string
}

// CreateBookingUseCase orchestrates booking creation.
type CreateBookingUseCase struct {
	bookingRepo booking.Repository
	tutorRepo   tutor.Repository
	outboxRepo  outbox.Repository
	txManager   TransactionManager
}

// NewCreateBookingUseCase creates a new CreateBookingUseCase.
func NewCreateBookingUseCase(
	bookingRepo booking.Repository,
	tutorRepo tutor.Repository,
	outboxRepo outbox.Repository,
	txManager TransactionManager,
) *CreateBookingUseCase {
	return &CreateBookingUseCase{
		bookingRepo: bookingRepo,
		tutorRepo:   tutorRepo,
		outboxRepo:  outboxRepo,
		txManager:   txManager,
	}
}

// Execute creates a pending booking and records a BookingCreated event in
// the same transaction.
func (uc *CreateBookingUseCase) Execute(ctx context.Context, req CreateBookingRequest) (*booking.Booking, error) {
	t, err := uc.tutorRepo.GetByID(ctx, req.TutorID)
	if err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = payment.DefaultCurrency
	}

	b, err := booking.NewBooking(
		t.ID,
		req.StudentID,
		req.ScheduledAt,
		req.DurationMinutes,
		payment.Amount{ValueCents: req.PriceCents, Currency: currency},
		req.Notes,
	)
	if err != nil {
		return nil, err
	}

	err = uc.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.bookingRepo.Create(txCtx, b); err != nil {
			return err
		}
		return uc.outboxRepo.Append(txCtx, outbox.NewEvent(
			"Booking",
			b.ID.String(),
			"BookingCreated",
			map[string]any{
				"booking_id":       b.ID.String(),
				"tutor_id":         b.TutorID.String(),
				"student_id":       b.StudentID.String(),
				"scheduled_at":     b.ScheduledAt.UTC().Format(time.RFC3339),
				"duration_minutes": b.DurationMinutes,
				"price_cents":      b.Price.ValueCents,
				"currency":         b.Price.Currency,
			},
		))
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}
