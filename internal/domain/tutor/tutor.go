package tutor

import (
	"context"
	"time"

	"github.com/DmitryDubovikov/tutors-backend/internal/domain/errors"
	"github.com/DmitryDubovikov/tutors-backend/internal/domain/payment"
	"github.com/google/uuid"
)

// Tutor represents a tutor profile. Every mutation of this aggregate is
// mirrored into the outbox so the search index stays in sync.
type Tutor struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Name       string
	Bio        string
	Subjects   []string
	HourlyRate payment.Amount
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewTutor creates a new tutor profile.
func NewTutor(userID uuid.UUID, name, bio string, subjects []string, hourlyRate payment.Amount) (*Tutor, error) {
	if name == "" {
		return nil, errors.NewValidationError("name", "cannot be empty")
	}
	if err := hourlyRate.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Tutor{
		ID:         uuid.New(),
		UserID:     userID,
		Name:       name,
		Bio:        bio,
		Subjects:   subjects,
		HourlyRate: hourlyRate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// SearchDocument returns the event payload published for search indexing.
func (t *Tutor) SearchDocument() map[string]any {
	return map[string]any{
		"id":                t.ID.String(),
		"name":              t.Name,
		"bio":               t.Bio,
		"subjects":          t.Subjects,
		"hourly_rate_cents": t.HourlyRate.ValueCents,
		"currency":          t.HourlyRate.Currency,
	}
}

// Repository defines the interface for tutor persistence
type Repository interface {
	Create(ctx context.Context, t *Tutor) error
	GetByID(ctx context.Context, id uuid.UUID) (*Tutor, error)
	Update(ctx context.Context, t *Tutor) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Tutor, error)
}
