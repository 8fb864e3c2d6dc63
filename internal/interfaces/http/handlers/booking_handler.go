package handlers

import (
	"net/http"
	"strconv"
	"time"

	bookingApp "github.com/DmitryDubovikov/tutors-backend/internal/application/booking"
	domainErrors "github.com/DmitryDubovikov/tutors-backend/internal/domain/errors"
	"github.com/DmitryDubovikov/tutors-backend/internal/interfaces/http/dto"
	"github.com/DmitryDubovikov/tutors-backend/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// BookingHandler handles booking-related HTTP requests.
type BookingHandler struct {
	createUC *bookingApp.CreateBookingUseCase
	getUC    *bookingApp.GetBookingUseCase
	listUC   *bookingApp.ListBookingsUseCase
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(
	createUC *bookingApp.CreateBookingUseCase,
	getUC *bookingApp.GetBookingUseCase,
	listUC *bookingApp.ListBookingsUseCase,
) *BookingHandler {
	return &BookingHandler{
		createUC: createUC,
		getUC:    getUC,
		listUC:   listUC,
	}
}

// CreateBooking handles POST /api/v1/bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, domainErrors.ErrUnauthorized)
		return
	}

	var req dto.CreateBookingRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	tutorID, err := uuid.Parse(req.TutorID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "invalid tutor_id", Code: "invalid_id"})
		return
	}

	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		writeError(w, domainErrors.NewValidationError("scheduled_at", "must be RFC3339"))
		return
	}

	b, err := h.createUC.Execute(r.Context(), bookingApp.CreateBookingRequest{
		TutorID:         tutorID,
		StudentID:       userID,
		ScheduledAt:     scheduledAt,
		DurationMinutes: req.DurationMinutes,
		PriceCents:      floatToCents(req.Price),
		Currency:        req.Currency,
		Notes:           req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.FromBooking(b))
}

// GetBooking handles GET /api/v1/bookings/{id}
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, domainErrors.ErrUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "invalid booking id", Code: "invalid_id"})
		return
	}

	b, err := h.getUC.Execute(r.Context(), id, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromBooking(b))
}

// ListBookings handles GET /api/v1/bookings
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, domainErrors.ErrUnauthorized)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	bookings, err := h.listUC.Execute(r.Context(), userID, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]*dto.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		resp = append(resp, dto.FromBooking(b))
	}
	writeJSON(w, http.StatusOK, resp)
}
