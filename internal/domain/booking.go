package domain

import "time"

type Booking struct {
	ID            string
	UserID        string
	FlightID      string
	Airline       string
	DepartureCity string
	ArrivalCity   string
	PassengerName string
	BasePrice     int64
	FinalPrice    int64
	PNR           string
	TransactionID string
	TicketRef     string
	BookingDate   time.Time
}
