package handlers

import (
	"net/http"

	webhookApp "github.com/DmitryDubovikov/tutors-backend/internal/application/webhook"
	"github.com/DmitryDubovikov/tutors-backend/internal/domain/payment"
	"github.com/DmitryDubovikov/tutors-backend/internal/interfaces/http/dto"
)

// WebhookHandler handles the admin-only webhook simulation endpoint. It
// feeds events straight into the same use case the worker runs, so a
// simulated webhook is indistinguishable from one produced by the
// provider simulator.
type WebhookHandler struct {
	processUC *webhookApp.ProcessWebhookUseCase
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(processUC *webhookApp.ProcessWebhookUseCase) *WebhookHandler {
	return &WebhookHandler{processUC: processUC}
}

// SimulateWebhook handles POST /api/v1/admin/webhooks/simulate
func (h *WebhookHandler) SimulateWebhook(w http.ResponseWriter, r *http.Request) {
	var req dto.SimulateWebhookRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	eventType := payment.EventSucceeded
	if req.EventType == "failed" {
		eventType = payment.EventFailed
	}

	resp, err := h.processUC.Execute(r.Context(), webhookApp.ProcessWebhookRequest{
		EventType:       eventType,
		PaymentIntentID: req.PaymentIntentID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.WebhookResultResponse{
		Processed:     resp.Processed,
		PaymentStatus: string(resp.Status),
	})
}
