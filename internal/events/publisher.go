package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/DmitryDubovikov/tutors-backend/internal/domain/outbox"
	"github.com/DmitryDubovikov/tutors-backend/internal/infrastructure/observability"
	"github.com/rs/zerolog"
)

// BrokerProducer is the broker side of the publisher. The Kafka producer
// implements it; tests substitute an in-memory fake.
type BrokerProducer interface {
	Send(ctx context.Context, topic, key string, value []byte) error
}

// Publisher drains the outbox and ships events to the broker. Events are
// published oldest first and keyed by aggregate id, so consumers see a
// best-effort causal order per aggregate. Delivery is at-least-once: an
// event is marked published only after a successful send, and a failed
// send leaves the row untouched for the next cycle.
type Publisher struct {
	repo      outbox.Repository
	producer  BrokerProducer
	batchSize int
	logger    zerolog.Logger
	metrics   *observability.Metrics
}

// NewPublisher creates a Publisher. Metrics may be nil.
func NewPublisher(repo outbox.Repository, producer BrokerProducer, batchSize int, logger zerolog.Logger, metrics *observability.Metrics) *Publisher {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Publisher{
		repo:      repo,
		producer:  producer,
		batchSize: batchSize,
		logger:    logger,
		metrics:   metrics,
	}
}

// message is the wire format consumed from the aggregate topics.
type message struct {
	EventID       string         `json:"event_id"`
	EventType     string         `json:"event_type"`
	AggregateType string         `json:"aggregate_type"`
	AggregateID   string         `json:"aggregate_id"`
	Payload       map[string]any `json:"payload"`
	CreatedAt     time.Time      `json:"created_at"`
}

// Topic derives the broker topic for an aggregate type.
func Topic(aggregateType string) string {
	return strings.ToLower(aggregateType) + "-events"
}

// Drain publishes one batch of unpublished events. A failure to deliver
// one event is logged and does not abort the batch; the event stays
// unpublished and is retried on the next cycle. Returns the number of
// events published.
func (p *Publisher) Drain(ctx context.Context, now time.Time) (int, error) {
	events, err := p.repo.GetUnpublished(ctx, p.batchSize)
	if err != nil {
		return 0, fmt.Errorf("load unpublished events: %w", err)
	}

	published := 0
	for _, event := range events {
		if err := p.publishOne(ctx, event, now); err != nil {
			p.logger.Error().Err(err).
				Str("event_id", event.ID.String()).
				Str("event_type", event.EventType).
				Msg("Failed to publish outbox event")
			if p.metrics != nil {
				p.metrics.OutboxPublishFailures.Inc()
			}
			continue
		}
		published++
		if p.metrics != nil {
			p.metrics.OutboxPublishedTotal.Inc()
		}
	}

	if published > 0 {
		p.logger.Info().Int("count", published).Msg("Published outbox events")
	}
	return published, nil
}

func (p *Publisher) publishOne(ctx context.Context, event *outbox.Event, now time.Time) error {
	body, err := json.Marshal(message{
		EventID:       event.ID.String(),
		EventType:     event.EventType,
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		Payload:       event.Payload,
		CreatedAt:     event.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := p.producer.Send(ctx, Topic(event.AggregateType), event.AggregateID, body); err != nil {
		return err
	}

	// Send-then-mark: a crash here re-delivers the event next cycle,
	// which is the accepted at-least-once window.
	if err := p.repo.MarkPublished(ctx, event.ID, now); err != nil {
		return fmt.Errorf("mark published: %w", err)
	}
	return nil
}

// Run drains the outbox on a fixed interval until ctx is cancelled.
func (p *Publisher) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		if _, err := p.Drain(ctx, time.Now()); err != nil {
			p.logger.Error().Err(err).Msg("Outbox drain cycle failed")
		}
	}
}
