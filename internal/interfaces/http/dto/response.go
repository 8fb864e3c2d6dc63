package dto

import (
	"time"

	"github.com/DmitryDubovikov/tutors-backend/internal/domain/booking"
	"github.com/DmitryDubovikov/tutors-backend/internal/domain/payment"
	"github.com/DmitryDubovikov/tutors-backend/internal/domain/tutor"
	"github.com/google/uuid"
)

// IntentResponse is the HTTP response for payment intent creation.
type IntentResponse struct {
	PaymentIntentID string  `json:"payment_intent_id"`
	ClientSecret    string  `json:"client_secret"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	Status          string  `json:"status"`
	Created         bool    `json:"created"`
}

// FromPaymentIntent maps a domain Payment to an IntentResponse.
func FromPaymentIntent(p *payment.Payment, created bool) *IntentResponse {
	return &IntentResponse{
		PaymentIntentID: p.PaymentIntentID,
		ClientSecret:    p.ClientSecret,
		Amount:          centsToFloat(p.Amount.ValueCents),
		Currency:        p.Amount.Currency,
		Status:          string(p.Status),
		Created:         created,
	}
}

// StatusResponse is the HTTP response for confirm and status queries.
type StatusResponse struct {
	PaymentIntentID string `json:"payment_intent_id"`
	Status          string `json:"status"`
}

// PaymentResponse is the full HTTP representation of a payment.
type PaymentResponse struct {
	ID              uuid.UUID `json:"id"`
	PaymentIntentID string    `json:"payment_intent_id"`
	BookingID       uuid.UUID `json:"booking_id"`
	Amount          float64   `json:"amount"`
	Currency        string    `json:"currency"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// FromPayment maps a domain Payment to a PaymentResponse.
func FromPayment(p *payment.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:              p.ID,
		PaymentIntentID: p.PaymentIntentID,
		BookingID:       p.BookingID,
		Amount:          centsToFloat(p.Amount.ValueCents),
		Currency:        p.Amount.Currency,
		Status:          string(p.Status),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// WebhookResultResponse is the HTTP response for the admin webhook endpoint.
type WebhookResultResponse struct {
	Processed     bool   `json:"processed"`
	PaymentStatus string `json:"payment_status"`
}

// BookingResponse is the HTTP response for a booking.
type BookingResponse struct {
	ID              uuid.UUID `json:"id"`
	TutorID         uuid.UUID `json:"tutor_id"`
	StudentID       uuid.UUID `json:"student_id"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Status          string    `json:"status"`
	Price           float64   `json:"price"`
	Currency        string    `json:"currency"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// FromBooking maps a domain Booking to a BookingResponse.
func FromBooking(b *booking.Booking) *BookingResponse {
	return &BookingResponse{
		ID:              b.ID,
		TutorID:         b.TutorID,
		StudentID:       b.StudentID,
		ScheduledAt:     b.ScheduledAt,
		DurationMinutes: b.DurationMinutes,
		Status:          string(b.Status),
		Price:           centsToFloat(b.Price.ValueCents),
		Currency:        b.Price.Currency,
		Notes:           b.Notes,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// TutorResponse is the HTTP response for a tutor profile.
type TutorResponse struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Name       string    `json:"name"`
	Bio        string    `json:"bio,omitempty"`
	Subjects   []string  `json:"subjects"`
	HourlyRate float64   `json:"hourly_rate"`
	Currency   string    `json:"currency"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// FromTutor maps a domain Tutor to a TutorResponse.
func FromTutor(t *tutor.Tutor) *TutorResponse {
	return &TutorResponse{
		ID:         t.ID,
		UserID:     t.UserID,
		Name:       t.Name,
		Bio:        t.Bio,
		Subjects:   t.Subjects,
		HourlyRate: centsToFloat(t.HourlyRate.ValueCents),
		Currency:   t.HourlyRate.Currency,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// centsToFloat converts int64 cents to float64 for JSON output.
func centsToFloat(cents int64) float64 {
	return float64(cents) / 100.0
}
