package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zvrva/skyfare/internal/domain"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	_, err := r.db.Exec(ctx, `INSERT INTO bookings
		(id, user_id, flight_id, airline, departure_city, arrival_city, passenger_name, base_price, final_price, pnr, transaction_id, ticket_ref, booking_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		booking.ID, booking.UserID, booking.FlightID, booking.Airline, booking.DepartureCity, booking.ArrivalCity,
		booking.PassengerName, booking.BasePrice, booking.FinalPrice, booking.PNR, booking.TransactionID,
		booking.TicketRef, booking.BookingDate)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateBooking
		}
		return err
	}
	return nil
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT id, user_id, flight_id, airline, departure_city, arrival_city, passenger_name, base_price, final_price, pnr, transaction_id, ticket_ref, booking_date FROM bookings WHERE id=$1`, id)
	var b domain.Booking
	if err := scanBooking(row, &b); err != nil {
		if isNoRows(err) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT id, user_id, flight_id, airline, departure_city, arrival_city, passenger_name, base_price, final_price, pnr, transaction_id, ticket_ref, booking_date FROM bookings WHERE user_id=$1 ORDER BY booking_date DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner, b *domain.Booking) error {
	return row.Scan(&b.ID, &b.UserID, &b.FlightID, &b.Airline, &b.DepartureCity, &b.ArrivalCity,
		&b.PassengerName, &b.BasePrice, &b.FinalPrice, &b.PNR, &b.TransactionID, &b.TicketRef, &b.BookingDate)
}

var _ BookingRepository = (*PGBookingRepository)(nil)
