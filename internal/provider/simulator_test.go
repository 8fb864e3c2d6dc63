package provider_test

import (
	"context"
	"testing"
	"time"

	"github.com/DmitryDubovikov/tutors-backend/internal/domain/payment"
	"github.com/DmitryDubovikov/tutors-backend/internal/jobs"
	"github.com/DmitryDubovikov/tutors-backend/internal/provider"
	"github.com/DmitryDubovikov/tutors-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func newFastSimulator(payments *testutil.MockPaymentRepository, queue *testutil.MockEnqueuer, opts ...provider.SimulatorOption) *provider.Simulator {
	opts = append([]provider.SimulatorOption{provider.WithDelayRange(0, 0)}, opts...)
	return provider.NewSimulator(payments, queue, zerolog.Nop(), opts...)
}

func TestDecideOutcome_DeterministicCards(t *testing.T) {
	s := newFastSimulator(testutil.NewMockPaymentRepository(), &testutil.MockEnqueuer{})

	tests := []struct {
		card     string
		expected string
	}{
		{provider.TestCardSuccess, payment.EventSucceeded},
		{provider.TestCardDeclined, payment.EventFailed},
		{provider.TestCardInsufficient, payment.EventFailed},
		{"", payment.EventSucceeded},
	}

	for _, tt := range tests {
		// The decision must not depend on randomness for these cards.
		for i := 0; i < 20; i++ {
			if got := s.DecideOutcome(tt.card); got != tt.expected {
				t.Fatalf("card %q: expected %s, got %s", tt.card, tt.expected, got)
			}
		}
	}
}

func TestDecideOutcome_UnknownCardUsesRand(t *testing.T) {
	success := newFastSimulator(testutil.NewMockPaymentRepository(), &testutil.MockEnqueuer{},
		provider.WithRandFunc(func() float64 { return 0.1 }))
	if got := success.DecideOutcome("5555555555554444"); got != payment.EventSucceeded {
		t.Errorf("low roll: expected success, got %s", got)
	}

	fail := newFastSimulator(testutil.NewMockPaymentRepository(), &testutil.MockEnqueuer{},
		provider.WithRandFunc(func() float64 { return 0.9 }))
	if got := fail.DecideOutcome("5555555555554444"); got != payment.EventFailed {
		t.Errorf("high roll: expected failure, got %s", got)
	}
}

func TestSimulate_EnqueuesWebhook(t *testing.T) {
	ctx := context.Background()
	paymentRepo := testutil.NewMockPaymentRepository()
	queue := &testutil.MockEnqueuer{}

	p := testutil.NewTestPayment(uuid.New(), uuid.New(), 10000, payment.StatusProcessing)
	paymentRepo.Create(ctx, p)

	s := newFastSimulator(paymentRepo, queue)

	if err := s.Simulate(ctx, p.ID, provider.TestCardDeclined); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tasks := queue.TasksNamed(jobs.TaskProcessWebhook)
	if len(tasks) != 1 {
		t.Fatalf("expected one webhook task, got %d", len(tasks))
	}
	payload := tasks[0].Payload.(jobs.ProcessWebhookPayload)
	if payload.PaymentIntentID != p.PaymentIntentID {
		t.Errorf("expected intent %s, got %s", p.PaymentIntentID, payload.PaymentIntentID)
	}
	if payload.EventType != payment.EventFailed {
		t.Errorf("expected failed event for declined card, got %s", payload.EventType)
	}
}

func TestSimulate_MissingPaymentIsTerminalNoOp(t *testing.T) {
	ctx := context.Background()
	queue := &testutil.MockEnqueuer{}

	s := newFastSimulator(testutil.NewMockPaymentRepository(), queue)

	// Missing payment must not error: an error would trigger a pointless
	// retry of a job that can never succeed.
	if err := s.Simulate(ctx, uuid.New(), provider.TestCardSuccess); err != nil {
		t.Fatalf("expected nil for missing payment, got %v", err)
	}
	if len(queue.Tasks()) != 0 {
		t.Error("missing payment must not produce a webhook")
	}
}

func TestSimulate_ContextCancelledDuringDelay(t *testing.T) {
	paymentRepo := testutil.NewMockPaymentRepository()
	queue := &testutil.MockEnqueuer{}

	s := provider.NewSimulator(paymentRepo, queue, zerolog.Nop(),
		provider.WithDelayRange(time.Hour, time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Simulate(ctx, uuid.New(), ""); err == nil {
		t.Fatal("expected context error")
	}
	if len(queue.Tasks()) != 0 {
		t.Error("cancelled simulation must not produce a webhook")
	}
}
