package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zvrva/skyfare/internal/domain"
)

type SurgeRepository interface {
	Upsert(ctx context.Context, state *domain.SurgeState) error
	// GetActive returns the live surge record for a flight, or nil when no
	// record exists or the record has expired.
	GetActive(ctx context.Context, flightID string, now time.Time) (*domain.SurgeState, error)
	PurgeExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type PGSurgeRepository struct {
	db *pgxpool.Pool
}

func NewSurgeRepository(db *pgxpool.Pool) SurgeRepository {
	return &PGSurgeRepository{db: db}
}

func (r *PGSurgeRepository) Upsert(ctx context.Context, state *domain.SurgeState) error {
	_, err := r.db.Exec(ctx, `INSERT INTO flight_surges (flight_id, multiplier, last_triggered_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (flight_id) DO UPDATE SET multiplier=$2, last_triggered_at=$3, expires_at=$4`,
		state.FlightID, state.Multiplier, state.LastTriggeredAt, state.ExpiresAt)
	return err
}

func (r *PGSurgeRepository) GetActive(ctx context.Context, flightID string, now time.Time) (*domain.SurgeState, error) {
	row := r.db.QueryRow(ctx, `SELECT flight_id, multiplier, last_triggered_at, expires_at FROM flight_surges WHERE flight_id=$1 AND expires_at > $2`, flightID, now)
	var s domain.SurgeState
	if err := row.Scan(&s.FlightID, &s.Multiplier, &s.LastTriggeredAt, &s.ExpiresAt); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGSurgeRepository) PurgeExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.Exec(ctx, `DELETE FROM flight_surges WHERE expires_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}

var _ SurgeRepository = (*PGSurgeRepository)(nil)
