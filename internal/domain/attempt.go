package domain

import "time"

// Attempt is a booking-attempt signal, distinct from a completed booking.
// Attempts only drive surge detection and expire after a retention window.
type Attempt struct {
	UserID      string
	FlightID    string
	AttemptedAt time.Time
}
