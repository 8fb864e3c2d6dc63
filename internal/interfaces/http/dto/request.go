package dto

// CreateIntentRequest is the HTTP request for creating a payment intent.
type CreateIntentRequest struct {
	BookingID string         `json:"booking_id" validate:"required,uuid4"`
	Amount    float64        `json:"amount" validate:"required,gt=0"`
	Currency  string         `json:"currency" validate:"omitempty,len=3"`
	Metadata  map[string]any `json:"metadata"`
}

// ConfirmPaymentRequest is the HTTP request for confirming a payment intent.
type ConfirmPaymentRequest struct {
	CardNumber string `json:"card_number" validate:"omitempty,numeric"`
}

// SimulateWebhookRequest is the admin-only request for injecting a provider
// webhook event.
type SimulateWebhookRequest struct {
	EventType       string `json:"event_type" validate:"required,oneof=succeeded failed"`
	PaymentIntentID string `json:"payment_intent_id" validate:"required"`
}

// CreateBookingRequest is the HTTP request for creating a booking.
type CreateBookingRequest struct {
	TutorID         string  `json:"tutor_id" validate:"required,uuid4"`
	ScheduledAt     string  `json:"scheduled_at" validate:"required"`
	DurationMinutes int     `json:"duration_minutes" validate:"required,gt=0"`
	Price           float64 `json:"price" validate:"required,gt=0"`
	Currency        string  `json:"currency" validate:"omitempty,len=3"`
	Notes           string  `json:"notes"`
}

// CreateTutorRequest is the HTTP request for creating a tutor profile.
type CreateTutorRequest struct {
	Name       string   `json:"name" validate:"required"`
	Bio        string   `json:"bio"`
	Subjects   []string `json:"subjects"`
	HourlyRate float64  `json:"hourly_rate" validate:"required,gt=0"`
	Currency   string   `json:"currency" validate:"omitempty,len=3"`
}

// UpdateTutorRequest is the HTTP request for updating a tutor profile.
type UpdateTutorRequest struct {
	Name       string   `json:"name"`
	Bio        string   `json:"bio"`
	Subjects   []string `json:"subjects"`
	HourlyRate float64  `json:"hourly_rate" validate:"omitempty,gt=0"`
	Currency   string   `json:"currency" validate:"omitempty,len=3"`
}
