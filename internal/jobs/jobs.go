package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Streams used by the job queue.
const (
	TaskStream = "tasks:payments"
	DLQStream  = "tasks:dlq"
)

// Task names. Each task is a durable, at-least-once-delivered unit of work;
// handlers must tolerate duplicate delivery.
const (
	TaskSimulateProvider = "payments.simulate_provider"
	TaskProcessWebhook   = "payments.process_webhook"
	TaskConfirmBooking   = "payments.confirm_booking"
)

// SimulateProviderPayload triggers the payment provider simulation.
type SimulateProviderPayload struct {
	PaymentID  uuid.UUID `json:"payment_id"`
	CardNumber string    `json:"card_number,omitempty"`
}

// ProcessWebhookPayload applies a provider webhook event to a payment.
type ProcessWebhookPayload struct {
	EventType       string `json:"event_type"`
	PaymentIntentID string `json:"payment_intent_id"`
}

// ConfirmBookingPayload confirms the booking behind a successful payment.
type ConfirmBookingPayload struct {
	PaymentID uuid.UUID `json:"payment_id"`
}

// Enqueuer submits tasks to the queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, task string, payload any) error
}

// Queue is the Redis Streams producer side of the job queue.
type Queue struct {
	client *redis.Client
	stream string
}

// NewQueue creates a Queue writing to the default task stream.
func NewQueue(client *redis.Client) *Queue {
	return &Queue{client: client, stream: TaskStream}
}

// Enqueue submits a task with its JSON-encoded payload.
func (q *Queue) Enqueue(ctx context.Context, task string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal task payload: %w", err)
	}
	return q.add(ctx, task, body, 1)
}

func (q *Queue) add(ctx context.Context, task string, payload []byte, attempt int) error {
	err := q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: q.stream,
		Values: map[string]any{
			"task":      task,
			"payload":   string(payload),
			"attempt":   attempt,
			"timestamp": time.Now().Unix(),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("enqueue task %s: %w", task, err)
	}
	return nil
}
