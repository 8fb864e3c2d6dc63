package booking

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for booking persistence
type Repository interface {
	// Create inserts a new booking
	Create(ctx context.Context, b *Booking) error

	// GetByID retrieves a booking by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// GetByIDForStudent retrieves a booking by ID scoped to the owning student
	GetByIDForStudent(ctx context.Context, id, studentID uuid.UUID) (*Booking, error)

	// Update updates an existing booking
	Update(ctx context.Context, b *Booking) error

	// ListByStudent lists a student's bookings, newest first
	ListByStudent(ctx context.Context, studentID uuid.UUID, limit, offset int) ([]*Booking, error)
}
