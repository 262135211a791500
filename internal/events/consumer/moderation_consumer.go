package consumer

import (
	"context"
	"encoding/json"
	"errors"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/archway-discovery/service-routes/internal/application"
	"github.com/archway-discovery/service-routes/internal/domain"
	"github.com/archway-discovery/service-routes/internal/events"
	"github.com/archway-discovery/service-routes/internal/platform/kafka"
)

// ModerationEventConsumer listens to moderation decisions and applies them to
// pending routes.
type ModerationEventConsumer struct {
	consumer *kafka.Consumer
	service  *application.RouteService
	logger   *zap.Logger
}

// NewModerationEventConsumer creates a new ModerationEventConsumer.
func NewModerationEventConsumer(
	brokers []string,
	groupID string,
	service *application.RouteService,
	logger *zap.Logger,
) *ModerationEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, events.TopicModerationEvents, logger)
	return &ModerationEventConsumer{
		consumer: consumer,
		service:  service,
		logger:   logger,
	}
}

// Start begins consuming moderation events. Blocks until the context is
// cancelled.
func (c *ModerationEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *ModerationEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *ModerationEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	var cloudEvent kafka.CloudEvent
	if err := json.Unmarshal(msg.Value, &cloudEvent); err != nil {
		c.logger.Error("failed to parse cloud event from moderation topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case events.ModerationDecided:
		return c.handleDecision(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled moderation event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *ModerationEventConsumer) handleDecision(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt events.ModerationDecidedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse ModerationDecidedEvent data",
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}

	c.logger.Info("processing moderation decision",
		zap.String("route_id", evt.RouteID.String()),
		zap.String("decision", evt.Decision),
	)

	var err error
	switch evt.Decision {
	case events.DecisionPublish:
		_, err = c.service.PublishRoute(ctx, evt.RouteID)
	case events.DecisionReject:
		_, err = c.service.RejectRoute(ctx, evt.RouteID, evt.Reason)
	default:
		c.logger.Warn("unknown moderation decision",
			zap.String("route_id", evt.RouteID.String()),
			zap.String("decision", evt.Decision),
		)
		return nil
	}

	if err != nil {
		// A decision for a route that already left the pending state is
		// stale, not retryable.
		var domainErr *domain.Error
		if errors.As(err, &domainErr) {
			c.logger.Warn("moderation decision not applicable",
				zap.String("route_id", evt.RouteID.String()),
				zap.String("decision", evt.Decision),
				zap.Error(err),
			)
			return nil
		}

		c.logger.Error("failed to apply moderation decision",
			zap.String("route_id", evt.RouteID.String()),
			zap.Error(err),
		)
		return err
	}

	c.logger.Info("moderation decision applied",
		zap.String("route_id", evt.RouteID.String()),
		zap.String("decision", evt.Decision),
	)
	return nil
}
