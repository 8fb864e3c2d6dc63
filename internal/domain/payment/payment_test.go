package payment

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPayment_Valid(t *testing.T) {
	bookingID := uuid.New()
	userID := uuid.New()

	p, err := NewPayment("key-1", bookingID, userID, Amount{ValueCents: 10000, Currency: "RUB"}, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, p.Status)
	assert.Equal(t, bookingID, p.BookingID)
	assert.Equal(t, userID, p.UserID)
	assert.Equal(t, "key-1", p.IdempotencyKey)
	assert.NotNil(t, p.Metadata)
}

func TestNewPayment_IntentIDFormat(t *testing.T) {
	p, err := NewPayment("key-1", uuid.New(), uuid.New(), Amount{ValueCents: 100, Currency: "RUB"}, nil)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(p.PaymentIntentID, "pi_"))
	assert.Len(t, p.PaymentIntentID, len("pi_")+24)
	assert.True(t, strings.HasPrefix(p.ClientSecret, p.PaymentIntentID+"_secret_"))
}

func TestNewPayment_InvalidAmount(t *testing.T) {
	_, err := NewPayment("key-1", uuid.New(), uuid.New(), Amount{ValueCents: 0, Currency: "RUB"}, nil)
	assert.Error(t, err)

	_, err = NewPayment("key-1", uuid.New(), uuid.New(), Amount{ValueCents: -100, Currency: "RUB"}, nil)
	assert.Error(t, err)
}

func TestNewPayment_InvalidCurrency(t *testing.T) {
	_, err := NewPayment("key-1", uuid.New(), uuid.New(), Amount{ValueCents: 100, Currency: ""}, nil)
	assert.Error(t, err)

	_, err = NewPayment("key-1", uuid.New(), uuid.New(), Amount{ValueCents: 100, Currency: "RUBL"}, nil)
	assert.Error(t, err)
}

func TestNewPayment_EmptyIdempotencyKey(t *testing.T) {
	_, err := NewPayment("", uuid.New(), uuid.New(), Amount{ValueCents: 100, Currency: "RUB"}, nil)
	assert.Error(t, err)
}

// --- State machine ---

func TestTransitions_HappyPath(t *testing.T) {
	p, _ := NewPayment("k", uuid.New(), uuid.New(), Amount{ValueCents: 100, Currency: "RUB"}, nil)

	require.NoError(t, p.MarkProcessing())
	assert.Equal(t, StatusProcessing, p.Status)

	require.NoError(t, p.TransitionTo(StatusSucceeded))
	assert.Equal(t, StatusSucceeded, p.Status)
}

func TestTransitions_NoBackwardMoves(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
	}{
		{"pending to succeeded skips processing", StatusPending, StatusSucceeded},
		{"pending to failed skips processing", StatusPending, StatusFailed},
		{"processing back to pending", StatusProcessing, StatusPending},
		{"succeeded to failed", StatusSucceeded, StatusFailed},
		{"succeeded to processing", StatusSucceeded, StatusProcessing},
		{"failed to succeeded", StatusFailed, StatusSucceeded},
		{"failed to pending", StatusFailed, StatusPending},
		{"refunded to anything", StatusRefunded, StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := NewPayment("k", uuid.New(), uuid.New(), Amount{ValueCents: 100, Currency: "RUB"}, nil)
			p.Status = tt.from
			assert.Error(t, p.TransitionTo(tt.to))
			assert.Equal(t, tt.from, p.Status)
		})
	}
}

func TestTransitions_SucceededToRefunded(t *testing.T) {
	p, _ := NewPayment("k", uuid.New(), uuid.New(), Amount{ValueCents: 100, Currency: "RUB"}, nil)
	p.Status = StatusSucceeded

	require.NoError(t, p.TransitionTo(StatusRefunded))
	assert.Equal(t, StatusRefunded, p.Status)
	assert.True(t, p.IsTerminal())
}

// --- ApplyEvent ---

func TestApplyEvent_Succeeded(t *testing.T) {
	p, _ := NewPayment("k", uuid.New(), uuid.New(), Amount{ValueCents: 100, Currency: "RUB"}, nil)
	require.NoError(t, p.MarkProcessing())

	changed, err := p.ApplyEvent(EventSucceeded)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, StatusSucceeded, p.Status)
}

func TestApplyEvent_Redelivery(t *testing.T) {
	p, _ := NewPayment("k", uuid.New(), uuid.New(), Amount{ValueCents: 100, Currency: "RUB"}, nil)
	require.NoError(t, p.MarkProcessing())

	changed, err := p.ApplyEvent(EventFailed)
	require.NoError(t, err)
	assert.True(t, changed)

	// Second delivery of the same event is a no-op.
	changed, err = p.ApplyEvent(EventFailed)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, StatusFailed, p.Status)
}

func TestApplyEvent_ConflictingEventAfterTerminal(t *testing.T) {
	p, _ := NewPayment("k", uuid.New(), uuid.New(), Amount{ValueCents: 100, Currency: "RUB"}, nil)
	require.NoError(t, p.MarkProcessing())

	_, err := p.ApplyEvent(EventSucceeded)
	require.NoError(t, err)

	_, err = p.ApplyEvent(EventFailed)
	assert.Error(t, err)
	assert.Equal(t, StatusSucceeded, p.Status)
}

func TestApplyEvent_UnknownType(t *testing.T) {
	p, _ := NewPayment("k", uuid.New(), uuid.New(), Amount{ValueCents: 100, Currency: "RUB"}, nil)
	require.NoError(t, p.MarkProcessing())

	_, err := p.ApplyEvent("payment_intent.exploded")
	assert.Error(t, err)
	assert.Equal(t, StatusProcessing, p.Status)
}

func TestApplyEvent_OnPendingPayment(t *testing.T) {
	p, _ := NewPayment("k", uuid.New(), uuid.New(), Amount{ValueCents: 100, Currency: "RUB"}, nil)

	_, err := p.ApplyEvent(EventSucceeded)
	assert.Error(t, err)
	assert.Equal(t, StatusPending, p.Status)
}
