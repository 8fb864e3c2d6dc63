package testutil

import (
	"time"

	"github.com/DmitryDubovikov/tutors-backend/internal/domain/booking"
	"github.com/DmitryDubovikov/tutors-backend/internal/domain/payment"
	"github.com/DmitryDubovikov/tutors-backend/internal/domain/tutor"
	"github.com/google/uuid"
)

func NewTestTutor(name string, rateCents int64) *tutor.Tutor {
	now := time.Now()
	return &tutor.Tutor{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		Name:       name,
		Bio:        "test bio",
		Subjects:   []string{"math"},
		HourlyRate: payment.Amount{ValueCents: rateCents, Currency: payment.DefaultCurrency},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func NewTestBooking(tutorID, studentID uuid.UUID, priceCents int64) *booking.Booking {
	now := time.Now()
	return &booking.Booking{
		ID:              uuid.New(),
		TutorID:         tutorID,
		StudentID:       studentID,
		ScheduledAt:     now.Add(24 * time.Hour),
		DurationMinutes: 60,
		Status:          booking.StatusPending,
		Price:           payment.Amount{ValueCents: priceCents, Currency: payment.DefaultCurrency},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func NewTestPayment(bookingID, userID uuid.UUID, amountCents int64, status payment.Status) *payment.Payment {
	now := time.Now()
	intentID := payment.GenerateIntentID()
	return &payment.Payment{
		ID:              uuid.New(),
		PaymentIntentID: intentID,
		ClientSecret:    payment.GenerateClientSecret(intentID),
		IdempotencyKey:  uuid.New().String(),
		Amount:          payment.Amount{ValueCents: amountCents, Currency: payment.DefaultCurrency},
		Status:          status,
		BookingID:       bookingID,
		UserID:          userID,
		Metadata:        make(map[string]any),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
