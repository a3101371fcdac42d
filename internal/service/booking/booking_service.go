package booking

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/zvrva/skyfare/internal/domain"
	"github.com/zvrva/skyfare/internal/kafka"
	"github.com/zvrva/skyfare/internal/repository"
	"github.com/zvrva/skyfare/internal/service/wallet"
	"github.com/zvrva/skyfare/internal/ticket"
)

const defaultPassengerName = "Guest Passenger"

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	History(ctx context.Context, userID string) ([]domain.Booking, error)
	Ticket(ctx context.Context, bookingID string) (*domain.Booking, []byte, error)
}

type CreateBookingInput struct {
	UserID        string `json:"userId"`
	FlightID      string `json:"flightId"`
	PassengerName string `json:"passengerName"`
}

// Pricer quotes the amount to charge right now; the booking pipeline charges
// whatever it returns at confirmation time, which may differ from what a
// client saw earlier if a surge started or ended in between.
type Pricer interface {
	CurrentPrice(ctx context.Context, flight *domain.Flight) (*domain.PriceQuote, error)
}

type Renderer interface {
	Render(facts ticket.Facts) ([]byte, error)
}

type ArtifactStore interface {
	Save(name string, data []byte) (string, error)
	Load(name string) ([]byte, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// BookingService sequences price lookup, funds deduction, ticket rendering
// and record creation without a cross-entity transaction. Flight lookup and
// deduction failures abort with nothing persisted; render and artifact-save
// failures are non-fatal and leave TicketRef empty; a persistence failure
// after deduction surfaces as an error with the funds already moved.
type BookingService struct {
	bookings           repository.BookingRepository
	flights            repository.FlightRepository
	ledger             wallet.LedgerUseCase
	pricer             Pricer
	renderer           Renderer
	store              ArtifactStore
	producer           Producer
	eventTopic         string
	notificationsTopic string
	logger             *logrus.Logger
}

type BookingServiceOption func(*BookingService)

func WithEventPublisher(producer Producer, topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.eventTopic = topic
	}
}

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	flights repository.FlightRepository,
	ledger wallet.LedgerUseCase,
	pricer Pricer,
	renderer Renderer,
	store ArtifactStore,
	logger *logrus.Logger,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings: bookings,
		flights:  flights,
		ledger:   ledger,
		pricer:   pricer,
		renderer: renderer,
		store:    store,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if input.UserID == "" {
		return nil, errors.New("userId is required")
	}
	if input.FlightID == "" {
		return nil, errors.New("flightId is required")
	}
	passengerName := input.PassengerName
	if passengerName == "" {
		passengerName = defaultPassengerName
	}

	flight, err := s.flights.GetByFlightID(ctx, input.FlightID)
	if err != nil {
		return nil, err
	}

	quote, err := s.pricer.CurrentPrice(ctx, flight)
	if err != nil {
		return nil, err
	}

	deduction, err := s.ledger.Deduct(ctx, input.UserID, quote.Price)
	if err != nil {
		return nil, err
	}

	pnr := GeneratePNR()
	now := time.Now()

	// Money has moved. From here on, only the booking insert may fail the
	// call; the ticket artifact is best-effort.
	ticketRef := ""
	data, err := s.renderer.Render(ticket.Facts{
		PNR:           pnr,
		PassengerName: passengerName,
		Airline:       flight.Airline,
		FlightID:      flight.FlightID,
		DepartureCity: flight.DepartureCity,
		ArrivalCity:   flight.ArrivalCity,
		BasePrice:     flight.BasePrice,
		FinalPrice:    quote.Price,
		BookingDate:   now,
	})
	if err != nil {
		s.logger.WithError(err).WithField("pnr", pnr).Warn("ticket render failed, booking continues without artifact")
	} else {
		name := deduction.TransactionID + ".txt"
		ref, err := s.store.Save(name, data)
		if err != nil {
			s.logger.WithError(err).WithField("pnr", pnr).Warn("ticket save failed, booking continues without artifact")
		} else {
			ticketRef = ref
		}
	}

	booking := &domain.Booking{
		ID:            uuid.NewString(),
		UserID:        input.UserID,
		FlightID:      flight.FlightID,
		Airline:       flight.Airline,
		DepartureCity: flight.DepartureCity,
		ArrivalCity:   flight.ArrivalCity,
		PassengerName: passengerName,
		BasePrice:     flight.BasePrice,
		FinalPrice:    quote.Price,
		PNR:           pnr,
		TransactionID: deduction.TransactionID,
		TicketRef:     ticketRef,
		BookingDate:   now,
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		// Funds stay deducted; transaction_id is the audit trail for
		// support to reconcile.
		s.logger.WithError(err).WithFields(logrus.Fields{
			"user_id":        input.UserID,
			"transaction_id": deduction.TransactionID,
			"pnr":            pnr,
		}).Error("booking persistence failed after deduction")
		return nil, err
	}

	if err := s.publish(ctx, "booking_created", booking); err != nil {
		s.logger.WithError(err).WithField("pnr", pnr).Warn("failed to publish booking event")
	}

	return booking, nil
}

func (s *BookingService) History(ctx context.Context, userID string) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

func (s *BookingService) Ticket(ctx context.Context, bookingID string) (*domain.Booking, []byte, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	if booking.TicketRef == "" {
		return nil, nil, domain.ErrTicketNotFound
	}

	data, err := s.store.Load(booking.TicketRef)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, domain.ErrTicketNotFound
		}
		return nil, nil, fmt.Errorf("load ticket: %w", err)
	}
	return booking, data, nil
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) error {
	if s.producer == nil || s.eventTopic == "" {
		return nil
	}
	event := kafka.BookingEvent{
		Type:          eventType,
		BookingID:     booking.ID,
		PNR:           booking.PNR,
		UserID:        booking.UserID,
		FlightID:      booking.FlightID,
		PassengerName: booking.PassengerName,
		FinalPrice:    booking.FinalPrice,
		BookingDate:   booking.BookingDate,
	}
	if err := s.producer.Publish(ctx, s.eventTopic, booking.PNR, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, booking.PNR, event)
	}
	return nil
}

const pnrAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GeneratePNR builds a short uppercase confirmation code: a time-based prefix
// for rough ordering plus a random suffix. Global uniqueness is enforced by
// the unique index on bookings.pnr, not here.
func GeneratePNR() string {
	prefix := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = pnrAlphabet[rand.Intn(len(pnrAlphabet))]
	}
	return "PNR" + prefix + string(suffix)
}

var _ BookingUseCase = (*BookingService)(nil)
