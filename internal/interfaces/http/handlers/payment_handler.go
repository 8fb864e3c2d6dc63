package handlers

import (
	"math"
	"net/http"
	"strconv"

	paymentApp "github.com/DmitryDubovikov/tutors-backend/internal/application/payment"
	domainErrors "github.com/DmitryDubovikov/tutors-backend/internal/domain/errors"
	"github.com/DmitryDubovikov/tutors-backend/internal/interfaces/http/dto"
	"github.com/DmitryDubovikov/tutors-backend/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// PaymentHandler handles payment-related HTTP requests.
type PaymentHandler struct {
	createUC  *paymentApp.CreateIntentUseCase
	confirmUC *paymentApp.ConfirmPaymentUseCase
	statusUC  *paymentApp.GetStatusUseCase
	listUC    *paymentApp.ListPaymentsUseCase
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(
	createUC *paymentApp.CreateIntentUseCase,
	confirmUC *paymentApp.ConfirmPaymentUseCase,
	statusUC *paymentApp.GetStatusUseCase,
	listUC *paymentApp.ListPaymentsUseCase,
) *PaymentHandler {
	return &PaymentHandler{
		createUC:  createUC,
		confirmUC: confirmUC,
		statusUC:  statusUC,
		listUC:    listUC,
	}
}

// floatToCents converts a float64 amount to int64 cents.
func floatToCents(f float64) int64 {
	return int64(math.Round(f * 100))
}

// CreateIntent handles POST /api/v1/payments/intents
func (h *PaymentHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, domainErrors.ErrUnauthorized)
		return
	}

	var req dto.CreateIntentRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	idempotencyKey := r.Header.Get("Idempotency-Key")
	if idempotencyKey == "" {
		writeError(w, domainErrors.NewValidationError("Idempotency-Key", "header is required"))
		return
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "invalid booking_id", Code: "invalid_id"})
		return
	}

	resp, err := h.createUC.Execute(r.Context(), paymentApp.CreateIntentRequest{
		IdempotencyKey: idempotencyKey,
		BookingID:      bookingID,
		UserID:         userID,
		AmountCents:    floatToCents(req.Amount),
		Currency:       req.Currency,
		Metadata:       req.Metadata,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusOK
	if resp.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, dto.FromPaymentIntent(resp.Payment, resp.Created))
}

// ConfirmPayment handles POST /api/v1/payments/intents/{intent_id}/confirm
func (h *PaymentHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, domainErrors.ErrUnauthorized)
		return
	}

	var req dto.ConfirmPaymentRequest
	if r.ContentLength > 0 {
		if err := decodeAndValidate(r, &req); err != nil {
			writeError(w, err)
			return
		}
	}

	resp, err := h.confirmUC.Execute(r.Context(), paymentApp.ConfirmPaymentRequest{
		PaymentIntentID: chi.URLParam(r, "intent_id"),
		UserID:          userID,
		CardNumber:      req.CardNumber,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatusResponse{
		PaymentIntentID: resp.PaymentIntentID,
		Status:          string(resp.Status),
	})
}

// GetStatus handles GET /api/v1/payments/intents/{intent_id}
func (h *PaymentHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, domainErrors.ErrUnauthorized)
		return
	}

	p, err := h.statusUC.Execute(r.Context(), chi.URLParam(r, "intent_id"), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatusResponse{
		PaymentIntentID: p.PaymentIntentID,
		Status:          string(p.Status),
	})
}

// ListPayments handles GET /api/v1/payments
func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, domainErrors.ErrUnauthorized)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	payments, err := h.listUC.Execute(r.Context(), userID, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]*dto.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		resp = append(resp, dto.FromPayment(p))
	}
	writeJSON(w, http.StatusOK, resp)
}
