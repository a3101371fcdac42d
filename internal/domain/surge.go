package domain

import "time"

// SurgeState holds the live surge record for a flight. At most one row per
// flight exists at a time; re-triggering refreshes ExpiresAt instead of
// stacking multipliers.
type SurgeState struct {
	FlightID        string
	Multiplier      float64
	LastTriggeredAt time.Time
	ExpiresAt       time.Time
}

// PriceQuote is the result of a price computation for a flight. The same
// computation backs both the quote shown before confirmation and the amount
// charged at confirmation.
type PriceQuote struct {
	Price          int64
	BasePrice      int64
	Surged         bool
	Multiplier     float64
	SurgeExpiresAt *time.Time
}
