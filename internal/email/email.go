package email

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/zvrva/skyfare/internal/kafka"
)

type Sender struct {
	logger *logrus.Logger
}

func NewSender(logger *logrus.Logger) *Sender {
	return &Sender{logger: logger}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	s.logger.WithFields(logrus.Fields{
		"user_id":   event.UserID,
		"pnr":       event.PNR,
		"flight_id": event.FlightID,
		"type":      event.Type,
	}).Info("sending booking confirmation")
	return nil
}
