package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for payment persistence
type Repository interface {
	// Create inserts a new payment. Returns ErrDuplicateIdempotencyKey when
	// a payment with the same idempotency key already exists.
	Create(ctx context.Context, payment *Payment) error

	// GetByID retrieves a payment by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// GetByIdempotencyKey retrieves a payment by idempotency key
	GetByIdempotencyKey(ctx context.Context, key string) (*Payment, error)

	// GetByIntentID retrieves a payment by its provider-style intent id
	GetByIntentID(ctx context.Context, intentID string) (*Payment, error)

	// GetByIntentIDForUser retrieves a payment by intent id scoped to a user
	GetByIntentIDForUser(ctx context.Context, intentID string, userID uuid.UUID) (*Payment, error)

	// Update updates an existing payment
	Update(ctx context.Context, payment *Payment) error

	// ListByUser lists a user's payments, newest first
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Payment, error)

	// ListStuckProcessing lists payments that have been in processing state
	// since before the given cutoff, for the reconciliation sweep.
	ListStuckProcessing(ctx context.Context, cutoff time.Time, limit int) ([]*Payment, error)
}
