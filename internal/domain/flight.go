package domain

import "time"

type Flight struct {
	FlightID      string
	Airline       string
	DepartureCity string
	ArrivalCity   string
	BasePrice     int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
