package events

import (
	"time"

	"github.com/google/uuid"
)

// Topics used by the routes service.
const (
	TopicRouteEvents      = "route.events"
	TopicModerationEvents = "moderation.events"
)

// Event types published on route.events.
const (
	RouteCreated   = "route.created"
	RouteSubmitted = "route.submitted"
	RouteGenerated = "route.generated"
	RoutePublished = "route.published"
	RouteRejected  = "route.rejected"
	RouteArchived  = "route.archived"
)

// ModerationDecided is consumed from moderation.events; the moderation
// pipeline itself lives outside this service.
const ModerationDecided = "moderation.decided"

// Moderation decisions.
const (
	DecisionPublish = "publish"
	DecisionReject  = "reject"
)

// RouteCreatedEvent is published when a user saves a new draft route.
type RouteCreatedEvent struct {
	RouteID    uuid.UUID `json:"route_id"`
	CreatorID  uuid.UUID `json:"creator_id"`
	Title      string    `json:"title"`
	City       string    `json:"city"`
	Source     string    `json:"source"`
	Transport  string    `json:"transport"`
	OccurredAt time.Time `json:"occurred_at"`
}

// RouteSubmittedEvent is published when a route enters the moderation queue.
type RouteSubmittedEvent struct {
	RouteID    uuid.UUID `json:"route_id"`
	CreatorID  uuid.UUID `json:"creator_id"`
	City       string    `json:"city"`
	OccurredAt time.Time `json:"occurred_at"`
}

// RouteGeneratedEvent is published when the AI pipeline materializes a route.
type RouteGeneratedEvent struct {
	RouteID    uuid.UUID `json:"route_id"`
	CreatorID  uuid.UUID `json:"creator_id"`
	City       string    `json:"city"`
	StopCount  int       `json:"stop_count"`
	Transport  string    `json:"transport"`
	Fallback   bool      `json:"fallback"`
	OccurredAt time.Time `json:"occurred_at"`
}

// RoutePublishedEvent is published when moderation approves a route.
type RoutePublishedEvent struct {
	RouteID    uuid.UUID `json:"route_id"`
	City       string    `json:"city"`
	OccurredAt time.Time `json:"occurred_at"`
}

// RouteRejectedEvent is published when moderation declines a route.
type RouteRejectedEvent struct {
	RouteID    uuid.UUID `json:"route_id"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}

// RouteArchivedEvent is published when a route is retired.
type RouteArchivedEvent struct {
	RouteID    uuid.UUID `json:"route_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ModerationDecidedEvent carries an external moderation decision.
type ModerationDecidedEvent struct {
	RouteID     uuid.UUID `json:"route_id"`
	Decision    string    `json:"decision"`
	ModeratorID uuid.UUID `json:"moderator_id"`
	Reason      string    `json:"reason,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}
