package booking

import (
	"time"

	"github.com/DmitryDubovikov/tutors-backend/internal/domain/errors"
	"github.com/DmitryDubovikov/tutors-backend/internal/domain/payment"
	"github.com/google/uuid"
)

// Status represents the booking status
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Booking represents a scheduled lesson between a student and a tutor.
type Booking struct {
	ID              uuid.UUID
	TutorID         uuid.UUID
	StudentID       uuid.UUID
	ScheduledAt     time.Time
	DurationMinutes int
	Status          Status
	Price           payment.Amount
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewBooking creates a new pending booking.
func NewBooking(tutorID, studentID uuid.UUID, scheduledAt time.Time, durationMinutes int, price payment.Amount, notes string) (*Booking, error) {
	if err := price.Validate(); err != nil {
		return nil, err
	}
	if durationMinutes <= 0 {
		return nil, errors.NewValidationError("duration_minutes", "must be greater than 0")
	}
	if scheduledAt.IsZero() {
		return nil, errors.NewValidationError("scheduled_at", "cannot be empty")
	}

	now := time.Now()
	return &Booking{
		ID:              uuid.New(),
		TutorID:         tutorID,
		StudentID:       studentID,
		ScheduledAt:     scheduledAt,
		DurationMinutes: durationMinutes,
		Status:          StatusPending,
		Price:           price,
		Notes:           notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// ConfirmIfPending flips a pending booking to confirmed. Any other status
// is left untouched, which makes the payment side effect idempotent under
// at-least-once webhook delivery. Returns whether the status changed.
func (b *Booking) ConfirmIfPending() bool {
	if b.Status != StatusPending {
		return false
	}
	b.Status = StatusConfirmed
	b.UpdatedAt = time.Now()
	return true
}

// Cancel marks the booking cancelled. Confirmed bookings are never
// downgraded back to pending.
func (b *Booking) Cancel() error {
	if b.Status == StatusCompleted {
		return errors.NewDomainError("invalid_transition", "cannot cancel a completed booking", errors.ErrInvalidStateTransition)
	}
	b.Status = StatusCancelled
	b.UpdatedAt = time.Now()
	return nil
}
