package domain

import (
	"errors"
	"fmt"
)

var (
	ErrFlightNotFound   = errors.New("flight not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrTicketNotFound   = errors.New("ticket file not found")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrDuplicateBooking = errors.New("booking with this PNR already exists")
)

// InsufficientFundsError is returned when a deduction is refused because the
// wallet balance is too low. It carries the balance observed after the refusal
// for user-facing messaging. No mutation has happened when it is returned.
type InsufficientFundsError struct {
	Balance int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient wallet balance: current balance %d", e.Balance)
}

// IsNotFound reports whether err is one of the not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrFlightNotFound) ||
		errors.Is(err, ErrBookingNotFound) ||
		errors.Is(err, ErrTicketNotFound)
}
