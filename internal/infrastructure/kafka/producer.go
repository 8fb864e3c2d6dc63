package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/DmitryDubovikov/tutors-backend/internal/infrastructure/config"
	"github.com/DmitryDubovikov/tutors-backend/pkg/retry"
	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker/v2"
)

// Producer is the process-wide broker client. One instance is constructed
// at startup, injected into the event publisher, and closed at shutdown.
// Messages are keyed, and the hash balancer keeps all messages for an
// aggregate on the same partition.
type Producer struct {
	writer   *kafka.Writer
	breaker  *gobreaker.CircuitBreaker[any]
	retryCfg retry.Config
}

// NewProducer creates a Producer for the given brokers.
func NewProducer(cfg *config.KafkaConfig) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		WriteTimeout:           cfg.WriteTimeout,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}

	breaker := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "kafka-producer",
		MaxRequests: 10,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.6
		},
	})

	attempts := cfg.SendRetries
	if attempts == 0 {
		attempts = 3
	}

	return &Producer{
		writer:  writer,
		breaker: breaker,
		retryCfg: retry.Config{
			MaxAttempts:  attempts,
			InitialDelay: 100 * time.Millisecond,
			MaxDelay:     1 * time.Second,
			Multiplier:   2.0,
		},
	}
}

// Send publishes a single keyed message to a topic.
func (p *Producer) Send(ctx context.Context, topic, key string, value []byte) error {
	_, err := p.breaker.Execute(func() (any, error) {
		err := retry.Do(ctx, p.retryCfg, func() error {
			return p.writer.WriteMessages(ctx, kafka.Message{
				Topic: topic,
				Key:   []byte(key),
				Value: value,
			})
		})
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("send to topic %s: %w", topic, err)
	}
	return nil
}

// Close flushes pending messages and releases the connection.
func (p *Producer) Close() error {
	return p.writer.Close()
}
