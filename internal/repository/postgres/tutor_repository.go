package postgres

import (
	"context"
	"fmt"

	domainErrors "github.com/DmitryDubovikov/tutors-backend/internal/domain/errors"
	"github.com/DmitryDubovikov/tutors-backend/internal/domain/tutor"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const tutorColumns = `id, user_id, name, bio, subjects, hourly_rate, currency, created_at, updated_at`

// TutorRepository implements tutor.Repository using PostgreSQL.
type TutorRepository struct {
	pool *pgxpool.Pool
}

// NewTutorRepository creates a new TutorRepository.
func NewTutorRepository(pool *pgxpool.Pool) *TutorRepository {
	return &TutorRepository{pool: pool}
}

func (r *TutorRepository) db(ctx context.Context) DBTX {
	return ConnFromCtx(ctx, r.pool)
}

func (r *TutorRepository) Create(ctx context.Context, t *tutor.Tutor) error {
	_, err := r.db(ctx).Exec(ctx,
		`INSERT INTO tutors (id, user_id, name, bio, subjects, hourly_rate, currency, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		t.ID, t.UserID, t.Name, t.Bio, t.Subjects,
		centsToNumericString(t.HourlyRate.ValueCents), t.HourlyRate.Currency, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert tutor: %w", err)
	}
	return nil
}

func (r *TutorRepository) GetByID(ctx context.Context, id uuid.UUID) (*tutor.Tutor, error) {
	return r.scanTutor(r.db(ctx).QueryRow(ctx,
		`SELECT `+tutorColumns+` FROM tutors WHERE id = $1`, id))
}

func (r *TutorRepository) Update(ctx context.Context, t *tutor.Tutor) error {
	tag, err := r.db(ctx).Exec(ctx,
		`UPDATE tutors SET name=$1, bio=$2, subjects=$3, hourly_rate=$4, currency=$5, updated_at=$6
		 WHERE id=$7`,
		t.Name, t.Bio, t.Subjects, centsToNumericString(t.HourlyRate.ValueCents),
		t.HourlyRate.Currency, t.UpdatedAt, t.ID,
	)
	if err != nil {
		return fmt.Errorf("update tutor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrTutorNotFound
	}
	return nil
}

func (r *TutorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db(ctx).Exec(ctx, `DELETE FROM tutors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tutor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrTutorNotFound
	}
	return nil
}

func (r *TutorRepository) List(ctx context.Context, limit, offset int) ([]*tutor.Tutor, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db(ctx).Query(ctx,
		`SELECT `+tutorColumns+` FROM tutors ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list tutors: %w", err)
	}
	defer rows.Close()

	var tutors []*tutor.Tutor
	for rows.Next() {
		t, err := r.scanTutor(rows)
		if err != nil {
			return nil, err
		}
		tutors = append(tutors, t)
	}
	return tutors, rows.Err()
}

func (r *TutorRepository) scanTutor(s scanner) (*tutor.Tutor, error) {
	t := &tutor.Tutor{}
	var rateStr string
	err := s.Scan(
		&t.ID, &t.UserID, &t.Name, &t.Bio, &t.Subjects,
		&rateStr, &t.HourlyRate.Currency, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domainErrors.ErrTutorNotFound
		}
		return nil, fmt.Errorf("scan tutor: %w", err)
	}

	cents, err := numericStringToCents(rateStr)
	if err != nil {
		return nil, fmt.Errorf("parse hourly rate: %w", err)
	}
	t.HourlyRate.ValueCents = cents
	return t, nil
}
