package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zvrva/skyfare/internal/domain"
)

type AttemptRepository interface {
	Insert(ctx context.Context, attempt *domain.Attempt) error
	CountSince(ctx context.Context, userID, flightID string, since time.Time) (int, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type PGAttemptRepository struct {
	db *pgxpool.Pool
}

func NewAttemptRepository(db *pgxpool.Pool) AttemptRepository {
	return &PGAttemptRepository{db: db}
}

func (r *PGAttemptRepository) Insert(ctx context.Context, attempt *domain.Attempt) error {
	_, err := r.db.Exec(ctx, `INSERT INTO booking_attempts (user_id, flight_id, attempted_at) VALUES ($1, $2, $3)`, attempt.UserID, attempt.FlightID, attempt.AttemptedAt)
	return err
}

func (r *PGAttemptRepository) CountSince(ctx context.Context, userID, flightID string, since time.Time) (int, error) {
	row := r.db.QueryRow(ctx, `SELECT count(*) FROM booking_attempts WHERE user_id=$1 AND flight_id=$2 AND attempted_at >= $3`, userID, flightID, since)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PGAttemptRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.Exec(ctx, `DELETE FROM booking_attempts WHERE attempted_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}

var _ AttemptRepository = (*PGAttemptRepository)(nil)
