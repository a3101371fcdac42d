package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/zvrva/skyfare/internal/domain"
	"github.com/zvrva/skyfare/internal/repository"
)

// AttemptTracker records booking-attempt signals and answers how many a
// (user, flight) pair produced inside the analysis window. Records outlive
// the window by a retention margin and are swept by the background worker;
// CountRecent filters by timestamp, so a late sweep never inflates counts.
type AttemptTracker struct {
	attempts  repository.AttemptRepository
	window    time.Duration
	retention time.Duration
}

func NewAttemptTracker(attempts repository.AttemptRepository, window, retention time.Duration) *AttemptTracker {
	return &AttemptTracker{attempts: attempts, window: window, retention: retention}
}

func (t *AttemptTracker) Record(ctx context.Context, userID, flightID string) error {
	attempt := &domain.Attempt{UserID: userID, FlightID: flightID, AttemptedAt: time.Now()}
	if err := t.attempts.Insert(ctx, attempt); err != nil {
		return fmt.Errorf("record attempt: %w", err)
	}
	return nil
}

func (t *AttemptTracker) CountRecent(ctx context.Context, userID, flightID string) (int, error) {
	since := time.Now().Add(-t.window)
	count, err := t.attempts.CountSince(ctx, userID, flightID, since)
	if err != nil {
		return 0, fmt.Errorf("count recent attempts: %w", err)
	}
	return count, nil
}

// SweepExpired removes attempts past the retention window.
func (t *AttemptTracker) SweepExpired(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-t.retention)
	return t.attempts.DeleteOlderThan(ctx, cutoff)
}
