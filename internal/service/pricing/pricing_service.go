package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/zvrva/skyfare/internal/domain"
	"github.com/zvrva/skyfare/internal/kafka"
	"github.com/zvrva/skyfare/internal/repository"
)

type PricingUseCase interface {
	RecordAttempt(ctx context.Context, userID, flightID string) (*SurgeDecision, error)
	CurrentPrice(ctx context.Context, flight *domain.Flight) (*domain.PriceQuote, error)
}

type SurgeDecision struct {
	Surged     bool    `json:"surged"`
	Multiplier float64 `json:"multiplier"`
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// SurgeEngine owns per-flight surge state. A flight is Surged while a live
// SurgeState exists with expires_at in the future, Normal otherwise; expiry is
// purely time-based and needs no transition call.
type SurgeEngine struct {
	surges     repository.SurgeRepository
	tracker    *AttemptTracker
	producer   Producer
	eventTopic string
	logger     *logrus.Logger

	threshold  int
	multiplier float64
	surgeTTL   time.Duration
}

type SurgeEngineOption func(*SurgeEngine)

func WithEventPublisher(producer Producer, topic string) SurgeEngineOption {
	return func(e *SurgeEngine) {
		e.producer = producer
		e.eventTopic = topic
	}
}

func NewSurgeEngine(
	surges repository.SurgeRepository,
	tracker *AttemptTracker,
	threshold int,
	multiplier float64,
	surgeTTL time.Duration,
	logger *logrus.Logger,
	opts ...SurgeEngineOption,
) *SurgeEngine {
	engine := &SurgeEngine{
		surges:     surges,
		tracker:    tracker,
		threshold:  threshold,
		multiplier: multiplier,
		surgeTTL:   surgeTTL,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// RecordAttempt stores the attempt and escalates to Surged when the recent
// count reaches the threshold. Re-triggering while already Surged refreshes
// expires_at; the multiplier never compounds.
func (e *SurgeEngine) RecordAttempt(ctx context.Context, userID, flightID string) (*SurgeDecision, error) {
	if err := e.tracker.Record(ctx, userID, flightID); err != nil {
		return nil, err
	}

	count, err := e.tracker.CountRecent(ctx, userID, flightID)
	if err != nil {
		return nil, err
	}

	if count < e.threshold {
		return &SurgeDecision{Surged: false, Multiplier: 1.0}, nil
	}

	now := time.Now()
	state := &domain.SurgeState{
		FlightID:        flightID,
		Multiplier:      e.multiplier,
		LastTriggeredAt: now,
		ExpiresAt:       now.Add(e.surgeTTL),
	}
	if err := e.surges.Upsert(ctx, state); err != nil {
		return nil, fmt.Errorf("activate surge: %w", err)
	}

	e.logger.WithFields(logrus.Fields{
		"flight_id":  flightID,
		"user_id":    userID,
		"attempts":   count,
		"multiplier": e.multiplier,
		"expires_at": state.ExpiresAt,
	}).Info("surge pricing activated")

	if e.producer != nil && e.eventTopic != "" {
		event := kafka.SurgeEvent{
			Type:       "surge_activated",
			FlightID:   flightID,
			UserID:     userID,
			Multiplier: e.multiplier,
			ExpiresAt:  state.ExpiresAt,
		}
		if err := e.producer.Publish(ctx, e.eventTopic, flightID, event); err != nil {
			e.logger.WithError(err).Warn("failed to publish surge event")
		}
	}

	return &SurgeDecision{Surged: true, Multiplier: e.multiplier}, nil
}

// CurrentPrice computes the price to quote and to charge. Both call sites use
// this same function against current state, so a surge flipping between quote
// and charge legitimately changes the charged amount.
func (e *SurgeEngine) CurrentPrice(ctx context.Context, flight *domain.Flight) (*domain.PriceQuote, error) {
	state, err := e.surges.GetActive(ctx, flight.FlightID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("read surge state: %w", err)
	}

	if state == nil {
		return &domain.PriceQuote{
			Price:      flight.BasePrice,
			BasePrice:  flight.BasePrice,
			Surged:     false,
			Multiplier: 1.0,
		}, nil
	}

	price := surgedPrice(flight.BasePrice, state.Multiplier)
	expiresAt := state.ExpiresAt
	return &domain.PriceQuote{
		Price:          price,
		BasePrice:      flight.BasePrice,
		Surged:         true,
		Multiplier:     state.Multiplier,
		SurgeExpiresAt: &expiresAt,
	}, nil
}

// PurgeExpired deletes surge rows that have been inert for at least the
// buffer, leaving recently-expired rows readable for debugging.
func (e *SurgeEngine) PurgeExpired(ctx context.Context, buffer time.Duration) (int64, error) {
	return e.surges.PurgeExpiredBefore(ctx, time.Now().Add(-buffer))
}

// surgedPrice rounds to the nearest currency unit, ties up.
func surgedPrice(basePrice int64, multiplier float64) int64 {
	return decimal.NewFromInt(basePrice).
		Mul(decimal.NewFromFloat(multiplier)).
		Round(0).
		IntPart()
}

var _ PricingUseCase = (*SurgeEngine)(nil)
