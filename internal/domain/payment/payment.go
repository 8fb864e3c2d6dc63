package payment

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/DmitryDubovikov/tutors-backend/internal/domain/errors"
	"github.com/google/uuid"
)

// Status represents the payment status in the state machine
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
	StatusRefunded   Status = "refunded"
)

// Webhook event types reported by the provider simulator. Their format
// follows Stripe's payment_intent.* convention.
const (
	EventSucceeded = "payment_intent.succeeded"
	EventFailed    = "payment_intent.failed"
)

// DefaultCurrency is used when the client does not specify one.
const DefaultCurrency = "RUB"

// Payment represents a provider-style PaymentIntent for a booking.
// Terminal status is applied only by the webhook processor, never by
// the confirm endpoint.
type Payment struct {
	ID              uuid.UUID
	PaymentIntentID string
	ClientSecret    string
	IdempotencyKey  string
	Amount          Amount
	Status          Status
	BookingID       uuid.UUID
	UserID          uuid.UUID
	Metadata        map[string]any
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Amount represents a monetary amount in the smallest currency unit (e.g. kopecks).
type Amount struct {
	ValueCents int64
	Currency   string
}

// String returns a human-readable representation of the amount.
func (a Amount) String() string {
	whole := a.ValueCents / 100
	frac := a.ValueCents % 100
	if frac < 0 {
		frac = -frac
	}
	return fmt.Sprintf("%d.%02d %s", whole, frac, a.Currency)
}

// Validate checks that the amount is valid.
func (a Amount) Validate() error {
	return validateAmount(a)
}

// NewPayment creates a new pending payment with a freshly generated intent id.
func NewPayment(idempotencyKey string, bookingID, userID uuid.UUID, amount Amount, metadata map[string]any) (*Payment, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	if idempotencyKey == "" {
		return nil, errors.NewValidationError("idempotency_key", "cannot be empty")
	}

	if metadata == nil {
		metadata = make(map[string]any)
	}

	intentID := GenerateIntentID()
	now := time.Now()
	return &Payment{
		ID:              uuid.New(),
		PaymentIntentID: intentID,
		ClientSecret:    GenerateClientSecret(intentID),
		IdempotencyKey:  idempotencyKey,
		Amount:          amount,
		Status:          StatusPending,
		BookingID:       bookingID,
		UserID:          userID,
		Metadata:        metadata,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// GenerateIntentID generates a Stripe-like payment intent id (pi_...).
func GenerateIntentID() string {
	return "pi_" + randomHex(24)
}

// GenerateClientSecret generates a Stripe-like client secret for an intent.
func GenerateClientSecret(intentID string) string {
	return intentID + "_secret_" + randomHex(24)
}

func randomHex(n int) string {
	id := uuid.New()
	s := hex.EncodeToString(id[:])
	if n > len(s) {
		n = len(s)
	}
	return s[:n]
}

// CanTransitionTo checks if the payment can transition to the given status
func (p *Payment) CanTransitionTo(newStatus Status) bool {
	transitions := map[Status][]Status{
		StatusPending: {
			StatusProcessing,
		},
		StatusProcessing: {
			StatusSucceeded,
			StatusFailed,
		},
		StatusSucceeded: {
			// Reachable only via out-of-band administrative action.
			StatusRefunded,
		},
		StatusFailed:   {}, // Terminal state
		StatusRefunded: {}, // Terminal state
	}

	allowedTransitions, exists := transitions[p.Status]
	if !exists {
		return false
	}

	for _, allowed := range allowedTransitions {
		if allowed == newStatus {
			return true
		}
	}
	return false
}

// TransitionTo transitions the payment to a new status
func (p *Payment) TransitionTo(newStatus Status) error {
	if !p.CanTransitionTo(newStatus) {
		return errors.NewDomainError(
			"invalid_transition",
			"cannot transition from "+string(p.Status)+" to "+string(newStatus),
			errors.ErrInvalidStateTransition,
		)
	}

	p.Status = newStatus
	p.UpdatedAt = time.Now()
	return nil
}

// MarkProcessing transitions the payment to processing status
func (p *Payment) MarkProcessing() error {
	return p.TransitionTo(StatusProcessing)
}

// ApplyEvent applies a webhook event to the payment. Re-applying an event
// the payment already reflects is a no-op, which keeps at-least-once
// webhook delivery safe.
func (p *Payment) ApplyEvent(eventType string) (changed bool, err error) {
	var target Status
	switch eventType {
	case EventSucceeded:
		target = StatusSucceeded
	case EventFailed:
		target = StatusFailed
	default:
		return false, errors.NewValidationError("event_type", "unknown event type "+eventType)
	}

	if p.Status == target {
		return false, nil
	}
	if err := p.TransitionTo(target); err != nil {
		return false, err
	}
	return true, nil
}

// IsTerminal checks if the payment is in a terminal state
func (p *Payment) IsTerminal() bool {
	return p.Status == StatusSucceeded ||
		p.Status == StatusFailed ||
		p.Status == StatusRefunded
}

func validateAmount(amount Amount) error {
	if amount.ValueCents <= 0 {
		return errors.NewValidationError("amount", "must be greater than 0")
	}
	if amount.Currency == "" {
		return errors.NewValidationError("currency", "cannot be empty")
	}
	// Simple currency validation (3-letter code)
	if len(amount.Currency) != 3 {
		return errors.NewValidationError("currency", "must be a 3-letter ISO code")
	}
	return nil
}
