package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Consumer reads booking events off a topic and delivers them decoded. A
// payload that does not decode is logged and skipped so one bad message
// cannot wedge the consumer group.
type Consumer struct {
	reader messageReader
	logger *logrus.Logger
}

func NewConsumer(brokers []string, groupID, topic string, logger *logrus.Logger) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
		logger: logger,
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume blocks, delivering events to handler until the context is canceled,
// the reader fails, or the handler returns an error.
func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, BookingEvent) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		var event BookingEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			c.logger.WithError(err).WithFields(logrus.Fields{
				"topic":  msg.Topic,
				"offset": msg.Offset,
			}).Warn("skipping undecodable booking event")
			continue
		}

		if err := handler(ctx, event); err != nil {
			return err
		}
	}
}
