package payment_test

import (
	"context"
	"errors"
	"testing"

	paymentApp "github.com/DmitryDubovikov/tutors-backend/internal/application/payment"
	domainErrors "github.com/DmitryDubovikov/tutors-backend/internal/domain/errors"
	"github.com/DmitryDubovikov/tutors-backend/internal/domain/payment"
	"github.com/DmitryDubovikov/tutors-backend/internal/jobs"
	"github.com/DmitryDubovikov/tutors-backend/internal/testutil"
	"github.com/google/uuid"
)

func TestConfirmPayment_PendingMovesToProcessing(t *testing.T) {
	ctx := context.Background()
	paymentRepo := testutil.NewMockPaymentRepository()
	queue := &testutil.MockEnqueuer{}

	userID := uuid.New()
	p := testutil.NewTestPayment(uuid.New(), userID, 10000, payment.StatusPending)
	paymentRepo.Create(ctx, p)

	uc := paymentApp.NewConfirmPaymentUseCase(paymentRepo, queue)

	resp, err := uc.Execute(ctx, paymentApp.ConfirmPaymentRequest{
		PaymentIntentID: p.PaymentIntentID,
		UserID:          userID,
		CardNumber:      "4242424242424242",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != payment.StatusProcessing {
		t.Errorf("expected processing, got %s", resp.Status)
	}

	stored, _ := paymentRepo.GetByID(ctx, p.ID)
	if stored.Status != payment.StatusProcessing {
		t.Errorf("expected persisted status processing, got %s", stored.Status)
	}

	tasks := queue.TasksNamed(jobs.TaskSimulateProvider)
	if len(tasks) != 1 {
		t.Fatalf("expected one simulation task, got %d", len(tasks))
	}
	payload := tasks[0].Payload.(jobs.SimulateProviderPayload)
	if payload.PaymentID != p.ID || payload.CardNumber != "4242424242424242" {
		t.Errorf("unexpected task payload: %+v", payload)
	}
}

func TestConfirmPayment_NonPendingIsNoOp(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	for _, status := range []payment.Status{
		payment.StatusProcessing, payment.StatusSucceeded, payment.StatusFailed,
	} {
		paymentRepo := testutil.NewMockPaymentRepository()
		queue := &testutil.MockEnqueuer{}

		p := testutil.NewTestPayment(uuid.New(), userID, 10000, status)
		paymentRepo.Create(ctx, p)

		uc := paymentApp.NewConfirmPaymentUseCase(paymentRepo, queue)

		resp, err := uc.Execute(ctx, paymentApp.ConfirmPaymentRequest{
			PaymentIntentID: p.PaymentIntentID,
			UserID:          userID,
		})
		if err != nil {
			t.Fatalf("status %s: unexpected error: %v", status, err)
		}
		if resp.Status != status {
			t.Errorf("status %s: expected current status back, got %s", status, resp.Status)
		}
		if len(queue.Tasks()) != 0 {
			t.Errorf("status %s: repeated confirm must not schedule another simulation", status)
		}
	}
}

func TestConfirmPayment_UnknownIntent(t *testing.T) {
	ctx := context.Background()
	uc := paymentApp.NewConfirmPaymentUseCase(testutil.NewMockPaymentRepository(), &testutil.MockEnqueuer{})

	_, err := uc.Execute(ctx, paymentApp.ConfirmPaymentRequest{
		PaymentIntentID: "pi_does_not_exist",
		UserID:          uuid.New(),
	})
	if !errors.Is(err, domainErrors.ErrPaymentNotFound) {
		t.Fatalf("expected ErrPaymentNotFound, got %v", err)
	}
}

func TestConfirmPayment_ForeignPayment(t *testing.T) {
	ctx := context.Background()
	paymentRepo := testutil.NewMockPaymentRepository()

	p := testutil.NewTestPayment(uuid.New(), uuid.New(), 10000, payment.StatusPending)
	paymentRepo.Create(ctx, p)

	uc := paymentApp.NewConfirmPaymentUseCase(paymentRepo, &testutil.MockEnqueuer{})

	_, err := uc.Execute(ctx, paymentApp.ConfirmPaymentRequest{
		PaymentIntentID: p.PaymentIntentID,
		UserID:          uuid.New(),
	})
	if !errors.Is(err, domainErrors.ErrPaymentNotFound) {
		t.Fatalf("expected ErrPaymentNotFound for foreign payment, got %v", err)
	}
}
