package booking

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/zvrva/skyfare/internal/domain"
	"github.com/zvrva/skyfare/internal/service/wallet"
	"github.com/zvrva/skyfare/internal/ticket"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

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

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) GetOrCreate(ctx context.Context, userID string) (*domain.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockLedger) Deduct(ctx context.Context, userID string, amount int64) (*wallet.DeductionResult, error) {
	args := m.Called(ctx, userID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.DeductionResult), args.Error(1)
}

type MockPricer struct {
	mock.Mock
}

func (m *MockPricer) CurrentPrice(ctx context.Context, flight *domain.Flight) (*domain.PriceQuote, error) {
	args := m.Called(ctx, flight)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PriceQuote), args.Error(1)
}

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(facts ticket.Facts) ([]byte, error) {
	args := m.Called(facts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type MockArtifactStore struct {
	mock.Mock
}

func (m *MockArtifactStore) Save(name string, data []byte) (string, error) {
	args := m.Called(name, data)
	return args.String(0), args.Error(1)
}

func (m *MockArtifactStore) Load(name string) ([]byte, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

type testMocks struct {
	bookings *MockBookingRepository
	flights  *MockFlightRepository
	ledger   *MockLedger
	pricer   *MockPricer
	renderer *MockRenderer
	store    *MockArtifactStore
}

func newTestService(opts ...BookingServiceOption) (*BookingService, *testMocks) {
	m := &testMocks{
		bookings: &MockBookingRepository{},
		flights:  &MockFlightRepository{},
		ledger:   &MockLedger{},
		pricer:   &MockPricer{},
		renderer: &MockRenderer{},
		store:    &MockArtifactStore{},
	}
	service := NewBookingService(m.bookings, m.flights, m.ledger, m.pricer, m.renderer, m.store, newTestLogger(), opts...)
	return service, m
}

var testFlight = &domain.Flight{
	FlightID:      "FL001",
	Airline:       "Air India",
	DepartureCity: "Mumbai",
	ArrivalCity:   "Delhi",
	BasePrice:     2500,
}

func TestBookingService_CreateBooking_Success(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()

	m.flights.On("GetByFlightID", ctx, "FL001").Return(testFlight, nil).Once()
	m.pricer.On("CurrentPrice", ctx, testFlight).Return(&domain.PriceQuote{
		Price: 2750, BasePrice: 2500, Surged: true, Multiplier: 1.10,
	}, nil).Once()
	m.ledger.On("Deduct", ctx, "userA", int64(2750)).Return(&wallet.DeductionResult{
		NewBalance: 47250, TransactionID: "txn_abc",
	}, nil).Once()
	m.renderer.On("Render", mock.AnythingOfType("ticket.Facts")).Return([]byte("ticket body"), nil).Once()
	m.store.On("Save", "txn_abc.txt", []byte("ticket body")).Return("txn_abc.txt", nil).Once()
	m.bookings.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil).Once()

	booking, err := service.CreateBooking(ctx, CreateBookingInput{
		UserID:        "userA",
		FlightID:      "FL001",
		PassengerName: "Asha Rao",
	})

	assert.NoError(t, err)
	assert.NotNil(t, booking)
	assert.Equal(t, "userA", booking.UserID)
	assert.Equal(t, "FL001", booking.FlightID)
	assert.Equal(t, int64(2500), booking.BasePrice)
	assert.Equal(t, int64(2750), booking.FinalPrice)
	assert.Equal(t, "txn_abc", booking.TransactionID)
	assert.Equal(t, "txn_abc.txt", booking.TicketRef)
	assert.NotEmpty(t, booking.PNR)
	assert.NotEmpty(t, booking.ID)

	m.bookings.AssertExpectations(t)
	m.ledger.AssertExpectations(t)
	m.store.AssertExpectations(t)
}

func TestBookingService_CreateBooking_ValidationErrors(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()

	_, err := service.CreateBooking(ctx, CreateBookingInput{FlightID: "FL001"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "userId is required")

	_, err = service.CreateBooking(ctx, CreateBookingInput{UserID: "userA"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "flightId is required")

	m.flights.AssertNotCalled(t, "GetByFlightID")
	m.ledger.AssertNotCalled(t, "Deduct")
}

func TestBookingService_CreateBooking_DefaultPassengerName(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()

	m.flights.On("GetByFlightID", ctx, "FL001").Return(testFlight, nil).Once()
	m.pricer.On("CurrentPrice", ctx, testFlight).Return(&domain.PriceQuote{Price: 2500, BasePrice: 2500, Multiplier: 1.0}, nil).Once()
	m.ledger.On("Deduct", ctx, "userA", int64(2500)).Return(&wallet.DeductionResult{NewBalance: 47500, TransactionID: "txn_1"}, nil).Once()
	m.renderer.On("Render", mock.Anything).Return([]byte("t"), nil).Once()
	m.store.On("Save", mock.Anything, mock.Anything).Return("txn_1.txt", nil).Once()
	m.bookings.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil).Once()

	booking, err := service.CreateBooking(ctx, CreateBookingInput{UserID: "userA", FlightID: "FL001"})

	assert.NoError(t, err)
	assert.Equal(t, "Guest Passenger", booking.PassengerName)
}

func TestBookingService_CreateBooking_FlightNotFound(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()

	m.flights.On("GetByFlightID", ctx, "FL999").Return(nil, domain.ErrFlightNotFound).Once()

	booking, err := service.CreateBooking(ctx, CreateBookingInput{UserID: "userA", FlightID: "FL999"})

	assert.Nil(t, booking)
	assert.ErrorIs(t, err, domain.ErrFlightNotFound)
	m.ledger.AssertNotCalled(t, "Deduct")
	m.bookings.AssertNotCalled(t, "Create")
}

func TestBookingService_CreateBooking_InsufficientFunds(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()

	m.flights.On("GetByFlightID", ctx, "FL001").Return(testFlight, nil).Once()
	m.pricer.On("CurrentPrice", ctx, testFlight).Return(&domain.PriceQuote{Price: 2500, BasePrice: 2500, Multiplier: 1.0}, nil).Once()
	m.ledger.On("Deduct", ctx, "userA", int64(2500)).Return(nil, &domain.InsufficientFundsError{Balance: 1000}).Once()

	booking, err := service.CreateBooking(ctx, CreateBookingInput{UserID: "userA", FlightID: "FL001"})

	assert.Nil(t, booking)
	var insufficient *domain.InsufficientFundsError
	assert.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(1000), insufficient.Balance)
	m.renderer.AssertNotCalled(t, "Render")
	m.bookings.AssertNotCalled(t, "Create")
}

func TestBookingService_CreateBooking_RenderFailureIsNonFatal(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()

	m.flights.On("GetByFlightID", ctx, "FL001").Return(testFlight, nil).Once()
	m.pricer.On("CurrentPrice", ctx, testFlight).Return(&domain.PriceQuote{Price: 2500, BasePrice: 2500, Multiplier: 1.0}, nil).Once()
	m.ledger.On("Deduct", ctx, "userA", int64(2500)).Return(&wallet.DeductionResult{NewBalance: 47500, TransactionID: "txn_2"}, nil).Once()
	m.renderer.On("Render", mock.Anything).Return(nil, errors.New("render crashed")).Once()
	m.bookings.On("Create", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.TicketRef == "" && b.TransactionID == "txn_2"
	})).Return(nil).Once()

	booking, err := service.CreateBooking(ctx, CreateBookingInput{UserID: "userA", FlightID: "FL001"})

	assert.NoError(t, err)
	assert.NotNil(t, booking)
	assert.Empty(t, booking.TicketRef)
	assert.NotEmpty(t, booking.PNR)
	m.store.AssertNotCalled(t, "Save")
	m.ledger.AssertExpectations(t)
	m.bookings.AssertExpectations(t)
}

func TestBookingService_CreateBooking_SaveFailureIsNonFatal(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()

	m.flights.On("GetByFlightID", ctx, "FL001").Return(testFlight, nil).Once()
	m.pricer.On("CurrentPrice", ctx, testFlight).Return(&domain.PriceQuote{Price: 2500, BasePrice: 2500, Multiplier: 1.0}, nil).Once()
	m.ledger.On("Deduct", ctx, "userA", int64(2500)).Return(&wallet.DeductionResult{NewBalance: 47500, TransactionID: "txn_3"}, nil).Once()
	m.renderer.On("Render", mock.Anything).Return([]byte("t"), nil).Once()
	m.store.On("Save", "txn_3.txt", []byte("t")).Return("", errors.New("disk full")).Once()
	m.bookings.On("Create", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.TicketRef == ""
	})).Return(nil).Once()

	booking, err := service.CreateBooking(ctx, CreateBookingInput{UserID: "userA", FlightID: "FL001"})

	assert.NoError(t, err)
	assert.Empty(t, booking.TicketRef)
}

func TestBookingService_CreateBooking_DuplicatePNR(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()

	m.flights.On("GetByFlightID", ctx, "FL001").Return(testFlight, nil).Once()
	m.pricer.On("CurrentPrice", ctx, testFlight).Return(&domain.PriceQuote{Price: 2500, BasePrice: 2500, Multiplier: 1.0}, nil).Once()
	m.ledger.On("Deduct", ctx, "userA", int64(2500)).Return(&wallet.DeductionResult{NewBalance: 47500, TransactionID: "txn_4"}, nil).Once()
	m.renderer.On("Render", mock.Anything).Return([]byte("t"), nil).Once()
	m.store.On("Save", mock.Anything, mock.Anything).Return("txn_4.txt", nil).Once()
	m.bookings.On("Create", ctx, mock.Anything).Return(domain.ErrDuplicateBooking).Once()

	booking, err := service.CreateBooking(ctx, CreateBookingInput{UserID: "userA", FlightID: "FL001"})

	assert.Nil(t, booking)
	assert.ErrorIs(t, err, domain.ErrDuplicateBooking)
	// Deduction happened exactly once and is not reversed.
	m.ledger.AssertNumberOfCalls(t, "Deduct", 1)
}

func TestBookingService_CreateBooking_PublishesEvent(t *testing.T) {
	producer := &MockProducer{}
	service, m := newTestService(WithEventPublisher(producer, "booking_events"), WithNotificationsTopic("notifications"))
	ctx := context.Background()

	m.flights.On("GetByFlightID", ctx, "FL001").Return(testFlight, nil).Once()
	m.pricer.On("CurrentPrice", ctx, testFlight).Return(&domain.PriceQuote{Price: 2500, BasePrice: 2500, Multiplier: 1.0}, nil).Once()
	m.ledger.On("Deduct", ctx, "userA", int64(2500)).Return(&wallet.DeductionResult{NewBalance: 47500, TransactionID: "txn_5"}, nil).Once()
	m.renderer.On("Render", mock.Anything).Return([]byte("t"), nil).Once()
	m.store.On("Save", mock.Anything, mock.Anything).Return("txn_5.txt", nil).Once()
	m.bookings.On("Create", ctx, mock.Anything).Return(nil).Once()
	producer.On("Publish", ctx, "booking_events", mock.Anything, mock.Anything).Return(nil).Once()
	producer.On("Publish", ctx, "notifications", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := service.CreateBooking(ctx, CreateBookingInput{UserID: "userA", FlightID: "FL001"})

	assert.NoError(t, err)
	producer.AssertExpectations(t)
}

func TestBookingService_History(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()

	newer := domain.Booking{ID: "b2", BookingDate: time.Now()}
	older := domain.Booking{ID: "b1", BookingDate: time.Now().Add(-time.Hour)}
	m.bookings.On("ListByUser", ctx, "userA").Return([]domain.Booking{newer, older}, nil).Once()

	bookings, err := service.History(ctx, "userA")

	assert.NoError(t, err)
	assert.Len(t, bookings, 2)
	assert.Equal(t, "b2", bookings[0].ID)
}

func TestBookingService_Ticket_Success(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()

	m.bookings.On("GetByID", ctx, "b1").Return(&domain.Booking{ID: "b1", PNR: "PNRX", TicketRef: "txn_9.txt"}, nil).Once()
	m.store.On("Load", "txn_9.txt").Return([]byte("ticket body"), nil).Once()

	booking, data, err := service.Ticket(ctx, "b1")

	assert.NoError(t, err)
	assert.Equal(t, "PNRX", booking.PNR)
	assert.Equal(t, []byte("ticket body"), data)
}

func TestBookingService_Ticket_NotFound(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()

	m.bookings.On("GetByID", ctx, "missing").Return(nil, domain.ErrBookingNotFound).Once()

	_, _, err := service.Ticket(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestBookingService_Ticket_NoArtifact(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()

	m.bookings.On("GetByID", ctx, "b1").Return(&domain.Booking{ID: "b1", PNR: "PNRX"}, nil).Once()

	_, _, err := service.Ticket(ctx, "b1")
	assert.ErrorIs(t, err, domain.ErrTicketNotFound)
	m.store.AssertNotCalled(t, "Load")
}

func TestGeneratePNR(t *testing.T) {
	pattern := regexp.MustCompile(`^PNR[0-9A-Z]+$`)

	for i := 0; i < 50; i++ {
		pnr := GeneratePNR()
		assert.Regexp(t, pattern, pnr)
		assert.GreaterOrEqual(t, len(pnr), 10)
	}
}
