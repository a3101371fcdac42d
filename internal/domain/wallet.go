package domain

import "time"

type Wallet struct {
	UserID      string
	Balance     int64
	Currency    string
	LastUpdated time.Time
}
