package events

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Shiggorat/shareit/internal/common/kafka"
)

// BookingEventHandler reacts to one decoded booking lifecycle event.
type BookingEventHandler interface {
	OnRequested(ctx context.Context, evt BookingRequestedEvent) error
	OnDecided(ctx context.Context, evt BookingDecidedEvent) error
}

// BookingEventConsumer decodes booking.events for downstream listeners.
type BookingEventConsumer struct {
	consumer *kafka.Consumer
	handler  BookingEventHandler
	logger   *zap.Logger
}

// NewBookingEventConsumer creates a new BookingEventConsumer.
func NewBookingEventConsumer(
	brokers []string,
	groupID string,
	handler BookingEventHandler,
	logger *zap.Logger,
) *BookingEventConsumer {
	return &BookingEventConsumer{
		consumer: kafka.NewConsumer(brokers, groupID, TopicBookingEvents, logger),
		handler:  handler,
		logger:   logger,
	}
}

// Start begins consuming booking events. This blocks until the context is cancelled.
func (c *BookingEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *BookingEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *BookingEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from booking topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case BookingRequested:
		var evt BookingRequestedEvent
		if err := cloudEvent.ParseData(&evt); err != nil {
			c.logger.Error("failed to parse BookingRequestedEvent data", zap.Error(err))
			return nil
		}
		return c.handler.OnRequested(ctx, evt)
	case BookingApproved, BookingRejected:
		var evt BookingDecidedEvent
		if err := cloudEvent.ParseData(&evt); err != nil {
			c.logger.Error("failed to parse BookingDecidedEvent data", zap.Error(err))
			return nil
		}
		return c.handler.OnDecided(ctx, evt)
	default:
		c.logger.Debug("ignoring unhandled booking event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}
