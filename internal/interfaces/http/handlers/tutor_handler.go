package handlers

import (
	"net/http"
	"strconv"

	tutorApp "github.com/DmitryDubovikov/tutors-backend/internal/application/tutor"
	domainErrors "github.com/DmitryDubovikov/tutors-backend/internal/domain/errors"
	"github.com/DmitryDubovikov/tutors-backend/internal/interfaces/http/dto"
	"github.com/DmitryDubovikov/tutors-backend/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// TutorHandler handles tutor profile HTTP requests.
type TutorHandler struct {
	manageUC *tutorApp.ManageTutorUseCase
}

// NewTutorHandler creates a new TutorHandler.
func NewTutorHandler(manageUC *tutorApp.ManageTutorUseCase) *TutorHandler {
	return &TutorHandler{manageUC: manageUC}
}

// CreateTutor handles POST /api/v1/tutors
func (h *TutorHandler) CreateTutor(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, domainErrors.ErrUnauthorized)
		return
	}

	var req dto.CreateTutorRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	t, err := h.manageUC.Create(r.Context(), tutorApp.CreateTutorRequest{
		UserID:          userID,
		Name:            req.Name,
		Bio:             req.Bio,
		Subjects:        req.Subjects,
		HourlyRateCents: floatToCents(req.HourlyRate),
		Currency:        req.Currency,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.FromTutor(t))
}

// UpdateTutor handles PUT /api/v1/tutors/{id}
func (h *TutorHandler) UpdateTutor(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "invalid tutor id", Code: "invalid_id"})
		return
	}

	var req dto.UpdateTutorRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	t, err := h.manageUC.Update(r.Context(), tutorApp.UpdateTutorRequest{
		ID:              id,
		Name:            req.Name,
		Bio:             req.Bio,
		Subjects:        req.Subjects,
		HourlyRateCents: floatToCents(req.HourlyRate),
		Currency:        req.Currency,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromTutor(t))
}

// DeleteTutor handles DELETE /api/v1/tutors/{id}
func (h *TutorHandler) DeleteTutor(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "invalid tutor id", Code: "invalid_id"})
		return
	}

	if err := h.manageUC.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetTutor handles GET /api/v1/tutors/{id}
func (h *TutorHandler) GetTutor(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "invalid tutor id", Code: "invalid_id"})
		return
	}

	t, err := h.manageUC.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromTutor(t))
}

// ListTutors handles GET /api/v1/tutors
func (h *TutorHandler) ListTutors(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	tutors, err := h.manageUC.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]*dto.TutorResponse, 0, len(tutors))
	for _, t := range tutors {
		resp = append(resp, dto.FromTutor(t))
	}
	writeJSON(w, http.StatusOK, resp)
}
