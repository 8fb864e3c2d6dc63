package postgres

import (
	"context"
	"fmt"

	"github.com/DmitryDubovikov/tutors-backend/internal/domain/booking"
	domainErrors "github.com/DmitryDubovikov/tutors-backend/internal/domain/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookingColumns = `id, tutor_id, student_id, scheduled_at, duration_minutes, status,
	        price, currency, notes, created_at, updated_at`

// BookingRepository implements booking.Repository using PostgreSQL.
type BookingRepository struct {
	pool *pgxpool.Pool
}

// NewBookingRepository creates a new BookingRepository.
func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

func (r *BookingRepository) db(ctx context.Context) DBTX {
	return ConnFromCtx(ctx, r.pool)
}

// Create inserts a new booking.
func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	_, err := r.db(ctx).Exec(ctx,
		`INSERT INTO bookings
		 (id, tutor_id, student_id, scheduled_at, duration_minutes, status, price, currency, notes, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		b.ID, b.TutorID, b.StudentID, b.ScheduledAt, b.DurationMinutes, string(b.Status),
		centsToNumericString(b.Price.ValueCents), b.Price.Currency, b.Notes, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

// GetByID retrieves a booking by its ID.
func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	return r.scanBooking(r.db(ctx).QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id))
}

// GetByIDForStudent retrieves a booking by ID scoped to the owning student.
func (r *BookingRepository) GetByIDForStudent(ctx context.Context, id, studentID uuid.UUID) (*booking.Booking, error) {
	return r.scanBooking(r.db(ctx).QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1 AND student_id = $2`, id, studentID))
}

// Update updates an existing booking.
func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	tag, err := r.db(ctx).Exec(ctx,
		`UPDATE bookings SET scheduled_at=$1, duration_minutes=$2, status=$3, notes=$4, updated_at=$5
		 WHERE id=$6`,
		b.ScheduledAt, b.DurationMinutes, string(b.Status), b.Notes, b.UpdatedAt, b.ID,
	)
	if err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrBookingNotFound
	}
	return nil
}

// ListByStudent lists a student's bookings, newest first.
func (r *BookingRepository) ListByStudent(ctx context.Context, studentID uuid.UUID, limit, offset int) ([]*booking.Booking, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db(ctx).Query(ctx,
		`SELECT `+bookingColumns+` FROM bookings
		 WHERE student_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		studentID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*booking.Booking
	for rows.Next() {
		b, err := r.scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *BookingRepository) scanBooking(s scanner) (*booking.Booking, error) {
	b := &booking.Booking{}
	var (
		status   string
		priceStr string
	)
	err := s.Scan(
		&b.ID, &b.TutorID, &b.StudentID, &b.ScheduledAt, &b.DurationMinutes, &status,
		&priceStr, &b.Price.Currency, &b.Notes, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domainErrors.ErrBookingNotFound
		}
		return nil, fmt.Errorf("scan booking: %w", err)
	}

	cents, err := numericStringToCents(priceStr)
	if err != nil {
		return nil, fmt.Errorf("parse price: %w", err)
	}
	b.Price.ValueCents = cents
	b.Status = booking.Status(status)
	return b, nil
}
