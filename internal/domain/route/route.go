package route

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/archway-discovery/service-routes/internal/domain"
)

// Route is the aggregate root for a persisted travel route between
// architectural landmarks.
type Route struct {
	id          uuid.UUID
	title       string
	description string
	city        string
	country     string
	creatorID   uuid.UUID

	visibility    Visibility
	featuredUntil *time.Time
	status        Status
	source        Source
	priorityScore int

	transport  TransportProfile
	difficulty Difficulty

	geometry *Geometry
	metrics  *Metrics
	stops    []Waypoint

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewRoute creates a new draft route with validated fields. The priority
// score is derived from the source tier.
func NewRoute(
	creatorID uuid.UUID,
	title, description, city, country string,
	source Source,
	transport TransportProfile,
	difficulty Difficulty,
	stops []Waypoint,
) (*Route, error) {
	if creatorID == uuid.Nil {
		return nil, domain.NewValidationError("creator ID is required")
	}
	if title == "" {
		return nil, domain.NewValidationError("route title is required")
	}
	if city == "" {
		return nil, domain.NewValidationError("route city is required")
	}
	if !source.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid route source: %s", source))
	}
	if !transport.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid transport profile: %s", transport))
	}
	if difficulty != "" && !difficulty.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid difficulty: %s", difficulty))
	}
	if len(stops) < 2 {
		return nil, domain.NewValidationError("a route needs at least two stops")
	}

	now := time.Now().UTC()
	return &Route{
		id:            uuid.New(),
		title:         title,
		description:   description,
		city:          city,
		country:       country,
		creatorID:     creatorID,
		visibility:    VisibilityPrivate,
		status:        StatusDraft,
		source:        source,
		priorityScore: source.BasePriority(),
		transport:     transport,
		difficulty:    difficulty,
		stops:         stops,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// Reconstruct rebuilds a Route from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	title, description, city, country string,
	creatorID uuid.UUID,
	visibility Visibility,
	featuredUntil *time.Time,
	status Status,
	source Source,
	priorityScore int,
	transport TransportProfile,
	difficulty Difficulty,
	geometry *Geometry,
	metrics *Metrics,
	stops []Waypoint,
	version int64,
	createdAt, updatedAt time.Time,
) *Route {
	return &Route{
		id:            id,
		title:         title,
		description:   description,
		city:          city,
		country:       country,
		creatorID:     creatorID,
		visibility:    visibility,
		featuredUntil: featuredUntil,
		status:        status,
		source:        source,
		priorityScore: priorityScore,
		transport:     transport,
		difficulty:    difficulty,
		geometry:      geometry,
		metrics:       metrics,
		stops:         stops,
		version:       version,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// --- Getters ---

// ID returns the route's unique identifier.
func (r *Route) ID() uuid.UUID { return r.id }

// Title returns the human-readable route title.
func (r *Route) Title() string { return r.title }

// Description returns the route description.
func (r *Route) Description() string { return r.description }

// City returns the city the route belongs to.
func (r *Route) City() string { return r.city }

// Country returns the country the route belongs to.
func (r *Route) Country() string { return r.country }

// CreatorID returns the creating user's ID.
func (r *Route) CreatorID() uuid.UUID { return r.creatorID }

// Visibility returns the visibility tier.
func (r *Route) Visibility() Visibility { return r.visibility }

// FeaturedUntil returns the featured expiry, or nil if not featured.
func (r *Route) FeaturedUntil() *time.Time { return r.featuredUntil }

// Status returns the publication status.
func (r *Route) Status() Status { return r.status }

// Source returns the source tag.
func (r *Route) Source() Source { return r.source }

// PriorityScore returns the stored baseline relevance score.
func (r *Route) PriorityScore() int { return r.priorityScore }

// Transport returns the transport profile.
func (r *Route) Transport() TransportProfile { return r.transport }

// Difficulty returns the difficulty grade.
func (r *Route) Difficulty() Difficulty { return r.difficulty }

// Geometry returns the stored path geometry, or nil if not materialized.
func (r *Route) Geometry() *Geometry { return r.geometry }

// Metrics returns the stored distance/duration metrics, or nil.
func (r *Route) Metrics() *Metrics { return r.metrics }

// Stops returns the ordered stop points.
func (r *Route) Stops() []Waypoint { return r.stops }

// Version returns the entity version for optimistic locking.
func (r *Route) Version() int64 { return r.version }

// CreatedAt returns the creation timestamp.
func (r *Route) CreatedAt() time.Time { return r.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (r *Route) UpdatedAt() time.Time { return r.updatedAt }

// IsOwnedBy checks if the route belongs to the given user.
func (r *Route) IsOwnedBy(userID uuid.UUID) bool {
	return r.creatorID == userID
}

// IsFeatured reports whether the route is featured at the given time,
// honoring the featured expiry.
func (r *Route) IsFeatured(now time.Time) bool {
	if r.visibility != VisibilityFeatured {
		return false
	}
	if r.featuredUntil != nil && now.After(*r.featuredUntil) {
		return false
	}
	return true
}

// --- Behavior ---

// Submit moves the route into the moderation queue.
func (r *Route) Submit() error {
	if !r.status.CanTransitionTo(StatusPending) {
		return domain.NewInvalidStateError(string(r.status), string(StatusPending))
	}
	r.status = StatusPending
	r.updatedAt = time.Now().UTC()
	return nil
}

// Publish makes a pending route publicly visible.
func (r *Route) Publish() error {
	if !r.status.CanTransitionTo(StatusPublished) {
		return domain.NewInvalidStateError(string(r.status), string(StatusPublished))
	}
	r.status = StatusPublished
	if r.visibility == VisibilityPrivate {
		r.visibility = VisibilityPublic
	}
	r.updatedAt = time.Now().UTC()
	return nil
}

// Reject declines a pending route during moderation.
func (r *Route) Reject() error {
	if !r.status.CanTransitionTo(StatusRejected) {
		return domain.NewInvalidStateError(string(r.status), string(StatusRejected))
	}
	r.status = StatusRejected
	r.updatedAt = time.Now().UTC()
	return nil
}

// Archive retires the route from circulation.
func (r *Route) Archive() error {
	if !r.status.CanTransitionTo(StatusArchived) {
		return domain.NewInvalidStateError(string(r.status), string(StatusArchived))
	}
	r.status = StatusArchived
	r.updatedAt = time.Now().UTC()
	return nil
}

// Feature promotes the route to the featured tier until the given time and
// lifts its baseline priority accordingly.
func (r *Route) Feature(until time.Time) error {
	if r.status != StatusPublished {
		return domain.NewInvalidStateError(string(r.status), "featured")
	}
	r.visibility = VisibilityFeatured
	r.featuredUntil = &until
	r.priorityScore = featuredBasePriority
	r.updatedAt = time.Now().UTC()
	return nil
}

// SetGeometry attaches materialized geometry and metrics.
func (r *Route) SetGeometry(geometry *Geometry, metrics *Metrics) {
	r.geometry = geometry
	r.metrics = metrics
	r.updatedAt = time.Now().UTC()
}

// IncrementVersion bumps the version for optimistic locking.
func (r *Route) IncrementVersion() {
	r.version++
	r.updatedAt = time.Now().UTC()
}
