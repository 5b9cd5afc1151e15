package events

import (
	"context"

	"go.uber.org/zap"

	"github.com/Shiggorat/shareit/internal/common/kafka"
)

// LogPublisher stands in for the Kafka producer when publishing is disabled.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// PublishEvent logs the event instead of sending it.
func (p *LogPublisher) PublishEvent(_ context.Context, topic string, event kafka.CloudEvent) error {
	p.logger.Info("event not published, kafka disabled",
		zap.String("topic", topic),
		zap.String("type", event.Type),
		zap.String("subject", event.Subject),
	)
	return nil
}
