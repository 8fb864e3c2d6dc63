package webhook_test

import (
	"context"
	"testing"

	webhookApp "github.com/DmitryDubovikov/tutors-backend/internal/application/webhook"
	"github.com/DmitryDubovikov/tutors-backend/internal/domain/payment"
	"github.com/DmitryDubovikov/tutors-backend/internal/jobs"
	"github.com/DmitryDubovikov/tutors-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func TestProcessWebhook_Succeeded(t *testing.T) {
	ctx := context.Background()
	paymentRepo := testutil.NewMockPaymentRepository()
	queue := &testutil.MockEnqueuer{}

	p := testutil.NewTestPayment(uuid.New(), uuid.New(), 10000, payment.StatusProcessing)
	paymentRepo.Create(ctx, p)

	uc := webhookApp.NewProcessWebhookUseCase(paymentRepo, queue, zerolog.Nop())

	resp, err := uc.Execute(ctx, webhookApp.ProcessWebhookRequest{
		EventType:       payment.EventSucceeded,
		PaymentIntentID: p.PaymentIntentID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Processed || resp.Status != payment.StatusSucceeded {
		t.Errorf("expected processed succeeded, got %+v", resp)
	}

	stored, _ := paymentRepo.GetByID(ctx, p.ID)
	if stored.Status != payment.StatusSucceeded {
		t.Errorf("expected persisted succeeded, got %s", stored.Status)
	}

	if len(queue.TasksNamed(jobs.TaskConfirmBooking)) != 1 {
		t.Error("expected booking confirmation to be scheduled")
	}
}

func TestProcessWebhook_Failed(t *testing.T) {
	ctx := context.Background()
	paymentRepo := testutil.NewMockPaymentRepository()
	queue := &testutil.MockEnqueuer{}

	p := testutil.NewTestPayment(uuid.New(), uuid.New(), 10000, payment.StatusProcessing)
	paymentRepo.Create(ctx, p)

	uc := webhookApp.NewProcessWebhookUseCase(paymentRepo, queue, zerolog.Nop())

	resp, err := uc.Execute(ctx, webhookApp.ProcessWebhookRequest{
		EventType:       payment.EventFailed,
		PaymentIntentID: p.PaymentIntentID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != payment.StatusFailed {
		t.Errorf("expected failed, got %s", resp.Status)
	}
	if len(queue.Tasks()) != 0 {
		t.Error("failed payment must not schedule booking confirmation")
	}
}

func TestProcessWebhook_Redelivery(t *testing.T) {
	ctx := context.Background()
	paymentRepo := testutil.NewMockPaymentRepository()
	queue := &testutil.MockEnqueuer{}

	p := testutil.NewTestPayment(uuid.New(), uuid.New(), 10000, payment.StatusProcessing)
	paymentRepo.Create(ctx, p)

	uc := webhookApp.NewProcessWebhookUseCase(paymentRepo, queue, zerolog.Nop())

	req := webhookApp.ProcessWebhookRequest{
		EventType:       payment.EventSucceeded,
		PaymentIntentID: p.PaymentIntentID,
	}

	if _, err := uc.Execute(ctx, req); err != nil {
		t.Fatalf("first delivery: %v", err)
	}

	resp, err := uc.Execute(ctx, req)
	if err != nil {
		t.Fatalf("re-delivery: %v", err)
	}
	if resp.Processed {
		t.Error("re-delivery must report not processed")
	}
	if resp.Status != payment.StatusSucceeded {
		t.Errorf("expected succeeded after re-delivery, got %s", resp.Status)
	}

	// The side-effect job is scheduled again; confirmation itself is
	// idempotent, so duplicates are harmless.
	if len(queue.TasksNamed(jobs.TaskConfirmBooking)) != 2 {
		t.Errorf("expected confirmation scheduled per delivery, got %d",
			len(queue.TasksNamed(jobs.TaskConfirmBooking)))
	}
}

func TestProcessWebhook_UnknownIntentIsSwallowed(t *testing.T) {
	ctx := context.Background()
	queue := &testutil.MockEnqueuer{}

	uc := webhookApp.NewProcessWebhookUseCase(testutil.NewMockPaymentRepository(), queue, zerolog.Nop())

	resp, err := uc.Execute(ctx, webhookApp.ProcessWebhookRequest{
		EventType:       payment.EventSucceeded,
		PaymentIntentID: "pi_ghost",
	})
	if err != nil {
		t.Fatalf("unknown intent must not error: %v", err)
	}
	if resp.Processed {
		t.Error("unknown intent must report not processed")
	}
	if len(queue.Tasks()) != 0 {
		t.Error("unknown intent must not schedule anything")
	}
}

func TestProcessWebhook_EventForPendingPayment(t *testing.T) {
	ctx := context.Background()
	paymentRepo := testutil.NewMockPaymentRepository()

	p := testutil.NewTestPayment(uuid.New(), uuid.New(), 10000, payment.StatusPending)
	paymentRepo.Create(ctx, p)

	uc := webhookApp.NewProcessWebhookUseCase(paymentRepo, &testutil.MockEnqueuer{}, zerolog.Nop())

	_, err := uc.Execute(ctx, webhookApp.ProcessWebhookRequest{
		EventType:       payment.EventSucceeded,
		PaymentIntentID: p.PaymentIntentID,
	})
	if err == nil {
		t.Fatal("expected invalid transition error for pending payment")
	}

	stored, _ := paymentRepo.GetByID(ctx, p.ID)
	if stored.Status != payment.StatusPending {
		t.Errorf("payment must stay pending, got %s", stored.Status)
	}
}
