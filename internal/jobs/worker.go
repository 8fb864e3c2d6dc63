package jobs

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/DmitryDubovikov/tutors-backend/internal/infrastructure/observability"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// HandlerFunc processes a single task payload. A returned error counts as
// an infrastructure failure and triggers a bounded retry; handlers signal
// business-level no-ops by returning nil.
type HandlerFunc func(ctx context.Context, payload []byte) error

// WorkerConfig tunes the consumer pool.
type WorkerConfig struct {
	Group         string
	Consumer      string
	Concurrency   int
	BatchSize     int64
	BlockDuration time.Duration
	MaxAttempts   int
}

// Worker consumes tasks from the queue and dispatches them to registered
// handlers. Failed tasks are re-enqueued with an incremented attempt
// counter; once MaxAttempts is exhausted they go to the DLQ stream.
type Worker struct {
	client   *redis.Client
	queue    *Queue
	cfg      WorkerConfig
	handlers map[string]HandlerFunc
	logger   zerolog.Logger
	metrics  *observability.Metrics
}

// NewWorker creates a Worker. Metrics may be nil.
func NewWorker(client *redis.Client, cfg WorkerConfig, logger zerolog.Logger, metrics *observability.Metrics) *Worker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.BlockDuration <= 0 {
		cfg.BlockDuration = time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	return &Worker{
		client:   client,
		queue:    NewQueue(client),
		cfg:      cfg,
		handlers: make(map[string]HandlerFunc),
		logger:   logger,
		metrics:  metrics,
	}
}

// Register binds a handler to a task name. Must be called before Run.
func (w *Worker) Register(task string, h HandlerFunc) {
	w.handlers[task] = h
}

// Run consumes the task stream until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.createGroup(ctx); err != nil {
		return err
	}

	g, gCtx := errgroup.WithContext(ctx)
	for i := 0; i < w.cfg.Concurrency; i++ {
		g.Go(func() error {
			return w.consumeLoop(gCtx)
		})
	}
	return g.Wait()
}

func (w *Worker) createGroup(ctx context.Context) error {
	const busyGroupMsg = "BUSYGROUP"
	err := w.client.XGroupCreateMkStream(ctx, TaskStream, w.cfg.Group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), busyGroupMsg) {
		return fmt.Errorf("create consumer group: %w", err)
	}
	return nil
}

func (w *Worker) consumeLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		streams, err := w.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    w.cfg.Group,
			Consumer: w.cfg.Consumer,
			Streams:  []string{TaskStream, ">"},
			Count:    w.cfg.BatchSize,
			Block:    w.cfg.BlockDuration,
		}).Result()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			if ctx.Err() != nil {
				return nil
			}
			w.logger.Error().Err(err).Msg("Failed to read from task stream")
			time.Sleep(time.Second)
			continue
		}

		for _, stream := range streams {
			for _, msg := range stream.Messages {
				w.process(ctx, msg)
				if err := w.client.XAck(ctx, TaskStream, w.cfg.Group, msg.ID).Err(); err != nil {
					w.logger.Error().Err(err).Str("message_id", msg.ID).Msg("Failed to ack task")
				}
			}
		}
	}
}

func (w *Worker) process(ctx context.Context, msg redis.XMessage) {
	task, _ := msg.Values["task"].(string)
	payload, _ := msg.Values["payload"].(string)
	attempt := parseAttempt(msg.Values["attempt"])

	handler, ok := w.handlers[task]
	if !ok {
		w.logger.Error().Str("task", task).Str("message_id", msg.ID).Msg("No handler registered for task")
		w.deadLetter(ctx, task, payload, attempt, "no handler registered")
		return
	}

	start := time.Now()
	err := handler(ctx, []byte(payload))
	if w.metrics != nil {
		w.metrics.WorkerTaskDuration.WithLabelValues(task).Observe(time.Since(start).Seconds())
	}

	if err == nil {
		if w.metrics != nil {
			w.metrics.WorkerTasksProcessed.WithLabelValues(task, "success").Inc()
		}
		return
	}

	w.logger.Error().Err(err).
		Str("task", task).
		Int("attempt", attempt).
		Msg("Task failed")
	if w.metrics != nil {
		w.metrics.WorkerTasksProcessed.WithLabelValues(task, "error").Inc()
	}

	if attempt >= w.cfg.MaxAttempts {
		w.deadLetter(ctx, task, payload, attempt, err.Error())
		return
	}

	if reErr := w.queue.add(ctx, task, []byte(payload), attempt+1); reErr != nil {
		w.logger.Error().Err(reErr).Str("task", task).Msg("Failed to re-enqueue task")
	}
}

func (w *Worker) deadLetter(ctx context.Context, task, payload string, attempt int, reason string) {
	err := w.client.XAdd(ctx, &redis.XAddArgs{
		Stream: DLQStream,
		Values: map[string]any{
			"task":      task,
			"payload":   payload,
			"attempt":   attempt,
			"reason":    reason,
			"timestamp": time.Now().Unix(),
		},
	}).Err()
	if err != nil {
		w.logger.Error().Err(err).Str("task", task).Msg("Failed to write task to DLQ")
		return
	}
	if w.metrics != nil {
		w.metrics.WorkerTasksProcessed.WithLabelValues(task, "dead_letter").Inc()
	}
}

func parseAttempt(v any) int {
	switch n := v.(type) {
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 1
		}
		return i
	case int64:
		return int(n)
	default:
		return 1
	}
}
