//go:build integration

package main_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	routeEvents "github.com/archway-discovery/service-routes/internal/events"
)

// TestModerationPublish_PublishesRoute verifies that when a publish decision
// arrives on moderation.events, the service picks it up, transitions the
// pending route to "published" and announces it on route.events.
func TestModerationPublish_PublishesRoute(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupRouteStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()
	defer func() { _ = stack.Consumer.Close() }()

	// Seed a route awaiting moderation.
	routeID := uuid.New()
	creatorID := uuid.New()
	seedRouteInPendingState(t, infra.DB, routeID, creatorID)

	// Start the consumer.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = stack.Consumer.Start(ctx) }()
	time.Sleep(3 * time.Second) // Wait for consumer group join.

	// Publish the moderation decision.
	evt := routeEvents.ModerationDecidedEvent{
		RouteID:     routeID,
		Decision:    routeEvents.DecisionPublish,
		ModeratorID: uuid.New(),
		OccurredAt:  time.Now().UTC(),
	}
	publishTestEvent(t, infra.KafkaBrokers, routeEvents.TopicModerationEvents,
		"service-moderation", routeEvents.ModerationDecided, evt)

	// Assert: route transitions to "published" and becomes publicly visible.
	model := waitForRouteStatus(t, infra.DB, routeID, "published", 15*time.Second)
	assert.Equal(t, "public", model.Visibility)
	assert.Equal(t, int64(3), model.Version)

	// Assert: RoutePublishedEvent on route.events.
	ce := consumeOneEvent(t, infra.KafkaBrokers, routeEvents.TopicRouteEvents,
		routeEvents.RoutePublished, 15*time.Second)

	var published routeEvents.RoutePublishedEvent
	require.NoError(t, ce.ParseData(&published))
	assert.Equal(t, routeID, published.RouteID)
	assert.Equal(t, "Barcelona", published.City)
}

// TestModerationReject_RejectsRoute verifies the reject path end to end.
func TestModerationReject_RejectsRoute(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupRouteStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()
	defer func() { _ = stack.Consumer.Close() }()

	routeID := uuid.New()
	creatorID := uuid.New()
	seedRouteInPendingState(t, infra.DB, routeID, creatorID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = stack.Consumer.Start(ctx) }()
	time.Sleep(3 * time.Second)

	evt := routeEvents.ModerationDecidedEvent{
		RouteID:     routeID,
		Decision:    routeEvents.DecisionReject,
		ModeratorID: uuid.New(),
		Reason:      "duplicate of an existing route",
		OccurredAt:  time.Now().UTC(),
	}
	publishTestEvent(t, infra.KafkaBrokers, routeEvents.TopicModerationEvents,
		"service-moderation", routeEvents.ModerationDecided, evt)

	model := waitForRouteStatus(t, infra.DB, routeID, "rejected", 15*time.Second)
	assert.Equal(t, "private", model.Visibility)

	ce := consumeOneEvent(t, infra.KafkaBrokers, routeEvents.TopicRouteEvents,
		routeEvents.RouteRejected, 15*time.Second)

	var rejected routeEvents.RouteRejectedEvent
	require.NoError(t, ce.ParseData(&rejected))
	assert.Equal(t, routeID, rejected.RouteID)
	assert.Equal(t, "duplicate of an existing route", rejected.Reason)
}
