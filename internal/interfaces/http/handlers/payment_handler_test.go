package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	paymentApp "github.com/DmitryDubovikov/tutors-backend/internal/application/payment"
	"github.com/DmitryDubovikov/tutors-backend/internal/domain/payment"
	"github.com/DmitryDubovikov/tutors-backend/internal/interfaces/http/dto"
	"github.com/DmitryDubovikov/tutors-backend/internal/jobs"
	"github.com/DmitryDubovikov/tutors-backend/internal/middleware"
	"github.com/DmitryDubovikov/tutors-backend/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const testJWTSecret = "0123456789abcdef0123456789abcdef"

type paymentTestEnv struct {
	router      http.Handler
	paymentRepo *testutil.MockPaymentRepository
	bookingRepo *testutil.MockBookingRepository
	queue       *testutil.MockEnqueuer
}

func newPaymentTestEnv() *paymentTestEnv {
	paymentRepo := testutil.NewMockPaymentRepository()
	bookingRepo := testutil.NewMockBookingRepository()
	queue := &testutil.MockEnqueuer{}

	handler := NewPaymentHandler(
		paymentApp.NewCreateIntentUseCase(paymentRepo, bookingRepo),
		paymentApp.NewConfirmPaymentUseCase(paymentRepo, queue),
		paymentApp.NewGetStatusUseCase(paymentRepo),
		paymentApp.NewListPaymentsUseCase(paymentRepo),
	)

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(testJWTSecret))
		r.Post("/api/v1/payments/intents", handler.CreateIntent)
		r.Post("/api/v1/payments/intents/{intent_id}/confirm", handler.ConfirmPayment)
		r.Get("/api/v1/payments/intents/{intent_id}", handler.GetStatus)
		r.Get("/api/v1/payments", handler.ListPayments)
	})

	return &paymentTestEnv{router: r, paymentRepo: paymentRepo, bookingRepo: bookingRepo, queue: queue}
}

func bearerToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.Claims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return "Bearer " + signed
}

func (env *paymentTestEnv) do(t *testing.T, method, target, auth, idemKey string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	if idemKey != "" {
		req.Header.Set("Idempotency-Key", idemKey)
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func TestPaymentHandler_CreateIntent(t *testing.T) {
	env := newPaymentTestEnv()
	userID := uuid.New()
	auth := bearerToken(t, userID)

	b := testutil.NewTestBooking(uuid.New(), userID, 15000)
	env.bookingRepo.Create(context.Background(), b)

	body := dto.CreateIntentRequest{BookingID: b.ID.String(), Amount: 150.0, Currency: "RUB"}
	key := uuid.New().String()

	rec := env.do(t, http.MethodPost, "/api/v1/payments/intents", auth, key, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.IntentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Status != string(payment.StatusPending) || !resp.Created {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.ClientSecret == "" {
		t.Error("client secret must be returned on creation")
	}

	// Replaying the same key returns the original intent with 200.
	rec = env.do(t, http.MethodPost, "/api/v1/payments/intents", auth, key, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on replay, got %d: %s", rec.Code, rec.Body.String())
	}
	var replay dto.IntentResponse
	json.Unmarshal(rec.Body.Bytes(), &replay)
	if replay.PaymentIntentID != resp.PaymentIntentID || replay.Created {
		t.Errorf("replay must return the original intent: %+v", replay)
	}
	if replay.ClientSecret != resp.ClientSecret {
		t.Error("replay must return the original client secret")
	}
	if env.paymentRepo.Count() != 1 {
		t.Errorf("expected a single payment, got %d", env.paymentRepo.Count())
	}
}

func TestPaymentHandler_CreateIntent_MissingIdempotencyKey(t *testing.T) {
	env := newPaymentTestEnv()
	userID := uuid.New()

	b := testutil.NewTestBooking(uuid.New(), userID, 15000)
	env.bookingRepo.Create(context.Background(), b)

	body := dto.CreateIntentRequest{BookingID: b.ID.String(), Amount: 150.0}
	rec := env.do(t, http.MethodPost, "/api/v1/payments/intents", bearerToken(t, userID), "", body)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestPaymentHandler_CreateIntent_Unauthenticated(t *testing.T) {
	env := newPaymentTestEnv()

	rec := env.do(t, http.MethodPost, "/api/v1/payments/intents", "", uuid.New().String(),
		dto.CreateIntentRequest{BookingID: uuid.New().String(), Amount: 10})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestPaymentHandler_CreateIntent_UnknownBooking(t *testing.T) {
	env := newPaymentTestEnv()

	body := dto.CreateIntentRequest{BookingID: uuid.New().String(), Amount: 150.0}
	rec := env.do(t, http.MethodPost, "/api/v1/payments/intents", bearerToken(t, uuid.New()), uuid.New().String(), body)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestPaymentHandler_ConfirmPayment(t *testing.T) {
	env := newPaymentTestEnv()
	userID := uuid.New()

	p := testutil.NewTestPayment(uuid.New(), userID, 15000, payment.StatusPending)
	env.paymentRepo.Create(context.Background(), p)

	target := fmt.Sprintf("/api/v1/payments/intents/%s/confirm", p.PaymentIntentID)
	rec := env.do(t, http.MethodPost, target, bearerToken(t, userID), "",
		dto.ConfirmPaymentRequest{CardNumber: "4242424242424242"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp dto.StatusResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Status != string(payment.StatusProcessing) {
		t.Errorf("expected processing, got %s", resp.Status)
	}
	if len(env.queue.TasksNamed(jobs.TaskSimulateProvider)) != 1 {
		t.Error("expected a simulation task to be enqueued")
	}
}

func TestPaymentHandler_ConfirmPayment_ForeignIntent(t *testing.T) {
	env := newPaymentTestEnv()

	p := testutil.NewTestPayment(uuid.New(), uuid.New(), 15000, payment.StatusPending)
	env.paymentRepo.Create(context.Background(), p)

	target := fmt.Sprintf("/api/v1/payments/intents/%s/confirm", p.PaymentIntentID)
	rec := env.do(t, http.MethodPost, target, bearerToken(t, uuid.New()), "", nil)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("another user's intent must look missing, got %d", rec.Code)
	}
	if len(env.queue.Tasks()) != 0 {
		t.Error("no task must be enqueued")
	}
}

func TestPaymentHandler_GetStatus(t *testing.T) {
	env := newPaymentTestEnv()
	userID := uuid.New()

	p := testutil.NewTestPayment(uuid.New(), userID, 15000, payment.StatusSucceeded)
	env.paymentRepo.Create(context.Background(), p)

	rec := env.do(t, http.MethodGet, "/api/v1/payments/intents/"+p.PaymentIntentID, bearerToken(t, userID), "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp dto.StatusResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Status != string(payment.StatusSucceeded) {
		t.Errorf("status = %s", resp.Status)
	}
}

func TestPaymentHandler_ListPayments(t *testing.T) {
	env := newPaymentTestEnv()
	userID := uuid.New()

	env.paymentRepo.Create(context.Background(), testutil.NewTestPayment(uuid.New(), userID, 10000, payment.StatusSucceeded))
	env.paymentRepo.Create(context.Background(), testutil.NewTestPayment(uuid.New(), userID, 20000, payment.StatusPending))
	env.paymentRepo.Create(context.Background(), testutil.NewTestPayment(uuid.New(), uuid.New(), 30000, payment.StatusPending))

	rec := env.do(t, http.MethodGet, "/api/v1/payments", bearerToken(t, userID), "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp []dto.PaymentResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp) != 2 {
		t.Fatalf("expected caller's 2 payments, got %d", len(resp))
	}
}
