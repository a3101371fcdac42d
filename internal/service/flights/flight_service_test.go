package flights

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/zvrva/skyfare/internal/domain"
)

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) GetByFlightID(ctx context.Context, flightID string) (*domain.Flight, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) Sample(ctx context.Context, n int) ([]domain.Flight, error) {
	args := m.Called(ctx, n)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) Upsert(ctx context.Context, flight *domain.Flight) error {
	args := m.Called(ctx, flight)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetFlightSample(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockCache) SetFlightSample(ctx context.Context, flights []domain.Flight) error {
	args := m.Called(ctx, flights)
	return args.Error(0)
}

func TestFlightService_Sample_CacheHit(t *testing.T) {
	repo := &MockFlightRepository{}
	cache := &MockCache{}
	service := NewFlightService(repo, cache)

	ctx := context.Background()
	cached := []domain.Flight{{FlightID: "FL001"}}
	cache.On("GetFlightSample", ctx).Return(cached, nil).Once()

	flights, err := service.Sample(ctx, 10)

	assert.NoError(t, err)
	assert.Equal(t, cached, flights)
	repo.AssertNotCalled(t, "Sample")
}

func TestFlightService_Sample_CacheMiss(t *testing.T) {
	repo := &MockFlightRepository{}
	cache := &MockCache{}
	service := NewFlightService(repo, cache)

	ctx := context.Background()
	fromDB := []domain.Flight{{FlightID: "FL001"}, {FlightID: "FL002"}}
	cache.On("GetFlightSample", ctx).Return(nil, nil).Once()
	repo.On("Sample", ctx, 10).Return(fromDB, nil).Once()
	cache.On("SetFlightSample", ctx, fromDB).Return(nil).Once()

	flights, err := service.Sample(ctx, 10)

	assert.NoError(t, err)
	assert.Equal(t, fromDB, flights)
	cache.AssertExpectations(t)
}

func TestFlightService_Sample_NoCache(t *testing.T) {
	repo := &MockFlightRepository{}
	service := NewFlightService(repo, nil)

	ctx := context.Background()
	fromDB := []domain.Flight{{FlightID: "FL003"}}
	repo.On("Sample", ctx, 10).Return(fromDB, nil).Once()

	flights, err := service.Sample(ctx, 10)

	assert.NoError(t, err)
	assert.Equal(t, fromDB, flights)
}

func TestFlightService_Sample_RepoError(t *testing.T) {
	repo := &MockFlightRepository{}
	service := NewFlightService(repo, nil)

	ctx := context.Background()
	repo.On("Sample", ctx, 10).Return([]domain.Flight(nil), errors.New("db down")).Once()

	flights, err := service.Sample(ctx, 10)

	assert.Error(t, err)
	assert.Nil(t, flights)
}

func TestFlightService_GetByFlightID(t *testing.T) {
	repo := &MockFlightRepository{}
	service := NewFlightService(repo, nil)

	ctx := context.Background()
	flight := &domain.Flight{FlightID: "FL001", BasePrice: 2500}
	repo.On("GetByFlightID", ctx, "FL001").Return(flight, nil).Once()
	repo.On("GetByFlightID", ctx, "FL999").Return(nil, domain.ErrFlightNotFound).Once()

	got, err := service.GetByFlightID(ctx, "FL001")
	assert.NoError(t, err)
	assert.Equal(t, flight, got)

	_, err = service.GetByFlightID(ctx, "FL999")
	assert.ErrorIs(t, err, domain.ErrFlightNotFound)
}
