package flights

import (
	"context"

	"github.com/zvrva/skyfare/internal/domain"
	"github.com/zvrva/skyfare/internal/repository"
)

type FlightUseCase interface {
	Sample(ctx context.Context, n int) ([]domain.Flight, error)
	GetByFlightID(ctx context.Context, flightID string) (*domain.Flight, error)
}

type FlightCache interface {
	GetFlightSample(ctx context.Context) ([]domain.Flight, error)
	SetFlightSample(ctx context.Context, flights []domain.Flight) error
}

type FlightService struct {
	repo  repository.FlightRepository
	cache FlightCache
}

func NewFlightService(repo repository.FlightRepository, cache FlightCache) *FlightService {
	return &FlightService{repo: repo, cache: cache}
}

func (s *FlightService) Sample(ctx context.Context, n int) ([]domain.Flight, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetFlightSample(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	flights, err := s.repo.Sample(ctx, n)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetFlightSample(ctx, flights)
	}
	return flights, nil
}

func (s *FlightService) GetByFlightID(ctx context.Context, flightID string) (*domain.Flight, error) {
	return s.repo.GetByFlightID(ctx, flightID)
}

var _ FlightUseCase = (*FlightService)(nil)
