package services

import (
	"context"

	"go.uber.org/zap"
)

// Routing keys for domain events.
const (
	TopicEventStarted            = "event.started"
	TopicEventEnded              = "event.ended"
	TopicJoinRequestCreated      = "join_request.created"
	TopicJoinRequestStatusChange = "join_request.status_changed"
)

// EventPublisher emits domain events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

type noopPublisher struct{}

// NewNoopPublisher is used when no broker is configured.
func NewNoopPublisher() EventPublisher { return noopPublisher{} }

func (noopPublisher) Publish(context.Context, string, any) error { return nil }

// publishBestEffort never fails the calling operation.
func publishBestEffort(ctx context.Context, publisher EventPublisher, log *zap.Logger, routingKey string, payload any) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, routingKey, payload); err != nil {
		log.Warn("failed to publish domain event", zap.String("routing_key", routingKey), zap.Error(err))
	}
}
