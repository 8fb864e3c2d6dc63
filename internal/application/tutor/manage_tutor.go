package tutor

import (
	"context"

	"github.com/DmitryDubovikov/tutors-backend/internal/domain/outbox"
	"github.com/DmitryDubovikov/tutors-backend/internal/domain/payment"
	"github.com/DmitryDubovikov/tutors-backend/internal/domain/tutor"
	"github.com/google/uuid"
)

// TransactionManager defines the interface for transaction management.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// aggregateType is the outbox aggregate type for tutor events. The search
// service consumes the derived tutor-events topic to keep its index warm.
const aggregateType = "Tutor"

// CreateTutorRequest holds the input for creating a tutor profile.
type CreateTutorRequest struct {
	UserID          uuid.UUID
	Name            string
	Bio             string
	Subjects        []string
	HourlyRateCents int64
	Currency        string
}

// UpdateTutorRequest holds the input for updating a tutor profile.
type UpdateTutorRequest struct {
	ID              uuid.UUID
	Name            string
	Bio             string
	Subjects        []string
	HourlyRateCents int64
	Currency        string
}

// ManageTutorUseCase covers tutor profile CRUD. Every mutation appends a
// matching outbox event in the same transaction so the search index never
// observes a change that rolled back.
type ManageTutorUseCase struct {
	tutorRepo  tutor.Repository
	outboxRepo outbox.Repository
	txManager  TransactionManager
}

// NewManageTutorUseCase creates a new ManageTutorUseCase.
func NewManageTutorUseCase(tutorRepo tutor.Repository, outboxRepo outbox.Repository, txManager TransactionManager) *ManageTutorUseCase {
	return &ManageTutorUseCase{
		tutorRepo:  tutorRepo,
		outboxRepo: outboxRepo,
		txManager:  txManager,
	}
}

// Create creates a tutor profile and records a TutorCreated event.
func (uc *ManageTutorUseCase) Create(ctx context.Context, req CreateTutorRequest) (*tutor.Tutor, error) {
	currency := req.Currency
	if currency == "" {
		currency = payment.DefaultCurrency
	}

	t, err := tutor.NewTutor(req.UserID, req.Name, req.Bio, req.Subjects,
		payment.Amount{ValueCents: req.HourlyRateCents, Currency: currency})
	if err != nil {
		return nil, err
	}

	err = uc.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.tutorRepo.Create(txCtx, t); err != nil {
			return err
		}
		return uc.outboxRepo.Append(txCtx, outbox.NewEvent(
			aggregateType, t.ID.String(), "TutorCreated", t.SearchDocument()))
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Update updates a tutor profile and records a TutorUpdated event.
func (uc *ManageTutorUseCase) Update(ctx context.Context, req UpdateTutorRequest) (*tutor.Tutor, error) {
	t, err := uc.tutorRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		t.Name = req.Name
	}
	t.Bio = req.Bio
	if req.Subjects != nil {
		t.Subjects = req.Subjects
	}
	if req.HourlyRateCents > 0 {
		t.HourlyRate.ValueCents = req.HourlyRateCents
	}
	if req.Currency != "" {
		t.HourlyRate.Currency = req.Currency
	}
	if err := t.HourlyRate.Validate(); err != nil {
		return nil, err
	}

	err = uc.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.tutorRepo.Update(txCtx, t); err != nil {
			return err
		}
		return uc.outboxRepo.Append(txCtx, outbox.NewEvent(
			aggregateType, t.ID.String(), "TutorUpdated", t.SearchDocument()))
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes a tutor profile and records a TutorDeleted event.
func (uc *ManageTutorUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	return uc.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.tutorRepo.Delete(txCtx, id); err != nil {
			return err
		}
		return uc.outboxRepo.Append(txCtx, outbox.NewEvent(
			aggregateType, id.String(), "TutorDeleted",
			map[string]any{"id": id.String()}))
	})
}

// Get returns a tutor profile by id.
func (uc *ManageTutorUseCase) Get(ctx context.Context, id uuid.UUID) (*tutor.Tutor, error) {
	return uc.tutorRepo.GetByID(ctx, id)
}

// List lists tutor profiles.
func (uc *ManageTutorUseCase) List(ctx context.Context, limit, offset int) ([]*tutor.Tutor, error) {
	return uc.tutorRepo.List(ctx, limit, offset)
}
