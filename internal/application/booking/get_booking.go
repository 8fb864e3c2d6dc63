package booking

import (
	"context"

	"github.com/DmitryDubovikov/tutors-backend/internal/domain/booking"
	"github.com/google/uuid"
)

// GetBookingUseCase retrieves a student's booking.
type GetBookingUseCase struct {
	bookingRepo booking.Repository
}

// NewGetBookingUseCase creates a new GetBookingUseCase.
func NewGetBookingUseCase(bookingRepo booking.Repository) *GetBookingUseCase {
	return &GetBookingUseCase{bookingRepo: bookingRepo}
}

// Execute returns the booking scoped to the owning student.
func (uc *GetBookingUseCase) Execute(ctx context.Context, id, studentID uuid.UUID) (*booking.Booking, error) {
	return uc.bookingRepo.GetByIDForStudent(ctx, id, studentID)
}

// ListBookingsUseCase lists a student's bookings.
type ListBookingsUseCase struct {
	bookingRepo booking.Repository
}

// NewListBookingsUseCase creates a new ListBookingsUseCase.
func NewListBookingsUseCase(bookingRepo booking.Repository) *ListBookingsUseCase {
	return &ListBookingsUseCase{bookingRepo: bookingRepo}
}

// Execute lists the student's bookings, newest first.
func (uc *ListBookingsUseCase) Execute(ctx context.Context, studentID uuid.UUID, limit, offset int) ([]*booking.Booking, error) {
	return uc.bookingRepo.ListByStudent(ctx, studentID, limit, offset)
}
