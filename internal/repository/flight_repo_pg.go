package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zvrva/skyfare/internal/domain"
)

type FlightRepository interface {
	GetByFlightID(ctx context.Context, flightID string) (*domain.Flight, error)
	Sample(ctx context.Context, n int) ([]domain.Flight, error)
	Upsert(ctx context.Context, flight *domain.Flight) error
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

func (r *PGFlightRepository) GetByFlightID(ctx context.Context, flightID string) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT flight_id, airline, departure_city, arrival_city, base_price, created_at, updated_at FROM flights WHERE flight_id=$1`, flightID)
	var f domain.Flight
	if err := row.Scan(&f.FlightID, &f.Airline, &f.DepartureCity, &f.ArrivalCity, &f.BasePrice, &f.CreatedAt, &f.UpdatedAt); err != nil {
		if isNoRows(err) {
			return nil, domain.ErrFlightNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *PGFlightRepository) Sample(ctx context.Context, n int) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT flight_id, airline, departure_city, arrival_city, base_price, created_at, updated_at FROM flights ORDER BY random() LIMIT $1`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := rows.Scan(&f.FlightID, &f.Airline, &f.DepartureCity, &f.ArrivalCity, &f.BasePrice, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) Upsert(ctx context.Context, flight *domain.Flight) error {
	_, err := r.db.Exec(ctx, `INSERT INTO flights (flight_id, airline, departure_city, arrival_city, base_price)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (flight_id) DO UPDATE SET airline=$2, departure_city=$3, arrival_city=$4, base_price=$5, updated_at=now()`,
		flight.FlightID, flight.Airline, flight.DepartureCity, flight.ArrivalCity, flight.BasePrice)
	return err
}

var _ FlightRepository = (*PGFlightRepository)(nil)
