package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/archway-discovery/service-routes/internal/directions"
	"github.com/archway-discovery/service-routes/internal/domain"
	routeDomain "github.com/archway-discovery/service-routes/internal/domain/route"
	"github.com/archway-discovery/service-routes/internal/events"
	"github.com/archway-discovery/service-routes/internal/platform/auth"
	"github.com/archway-discovery/service-routes/internal/platform/kafka"
)

const eventSource = "service-routes"

// RouteBuilder materializes geometry and metrics for an ordered waypoint
// list. Satisfied by directions.Client.
type RouteBuilder interface {
	BuildRoute(ctx context.Context, waypoints []routeDomain.Waypoint, opts directions.BuildOptions) (*directions.Result, error)
}

// PreviewRequest holds the data needed to build an ephemeral route preview.
type PreviewRequest struct {
	Stops        []routeDomain.Waypoint `json:"stops" binding:"required"`
	Transport    string                 `json:"transport" binding:"required"`
	AvoidTolls   bool                   `json:"avoid_tolls"`
	AvoidFerries bool                   `json:"avoid_ferries"`
	PreferGreen  bool                   `json:"prefer_green"`
}

// CreateRouteRequest holds the data needed to save a new draft route.
type CreateRouteRequest struct {
	Title        string                 `json:"title" binding:"required"`
	Description  string                 `json:"description"`
	City         string                 `json:"city" binding:"required"`
	Country      string                 `json:"country"`
	Transport    string                 `json:"transport" binding:"required"`
	Difficulty   string                 `json:"difficulty"`
	Stops        []routeDomain.Waypoint `json:"stops" binding:"required"`
	AvoidTolls   bool                   `json:"avoid_tolls"`
	AvoidFerries bool                   `json:"avoid_ferries"`
	PreferGreen  bool                   `json:"prefer_green"`
}

// PreviewDTO is the response representation of an unsaved route build.
type PreviewDTO struct {
	Stops           []routeDomain.Waypoint    `json:"stops"`
	Geometry        routeDomain.Geometry      `json:"geometry"`
	DistanceMeters  float64                   `json:"distance_meters"`
	DurationSeconds float64                   `json:"duration_seconds"`
	DistanceText    string                    `json:"distance_text"`
	DurationText    string                    `json:"duration_text"`
	Instructions    []routeDomain.Instruction `json:"instructions"`
	Summary         string                    `json:"summary,omitempty"`
	Fallback        bool                      `json:"fallback"`
	Truncated       bool                      `json:"truncated"`
	Warnings        []string                  `json:"warnings,omitempty"`
}

// RouteDTO is the response representation of a persisted route.
type RouteDTO struct {
	ID            uuid.UUID                 `json:"id"`
	Title         string                    `json:"title"`
	Description   string                    `json:"description,omitempty"`
	City          string                    `json:"city"`
	Country       string                    `json:"country,omitempty"`
	CreatorID     uuid.UUID                 `json:"creator_id"`
	Visibility    string                    `json:"visibility"`
	FeaturedUntil *time.Time                `json:"featured_until,omitempty"`
	Status        string                    `json:"status"`
	Source        string                    `json:"source"`
	PriorityScore int                       `json:"priority_score"`
	Transport     string                    `json:"transport"`
	Difficulty    string                    `json:"difficulty,omitempty"`
	Geometry      *routeDomain.Geometry     `json:"geometry,omitempty"`
	Metrics       *routeDomain.Metrics      `json:"metrics,omitempty"`
	DistanceText  string                    `json:"distance_text,omitempty"`
	DurationText  string                    `json:"duration_text,omitempty"`
	Stops         []routeDomain.Waypoint    `json:"stops"`
	Version       int64                     `json:"version"`
	CreatedAt     time.Time                 `json:"created_at"`
	UpdatedAt     time.Time                 `json:"updated_at"`
}

// RouteService is the application service orchestrating route use cases.
type RouteService struct {
	repo     routeDomain.Repository
	builder  RouteBuilder
	producer *kafka.Producer
	logger   *zap.Logger
}

// NewRouteService creates a new RouteService.
func NewRouteService(
	repo routeDomain.Repository,
	builder RouteBuilder,
	producer *kafka.Producer,
	logger *zap.Logger,
) *RouteService {
	return &RouteService{
		repo:     repo,
		builder:  builder,
		producer: producer,
		logger:   logger,
	}
}

// PreviewRoute builds geometry and metrics for the given stops without
// persisting anything.
func (s *RouteService) PreviewRoute(ctx context.Context, req PreviewRequest) (*PreviewDTO, error) {
	transport, err := routeDomain.ParseTransportProfile(req.Transport)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	result, err := s.build(ctx, req.Stops, transport, req.AvoidTolls, req.AvoidFerries, req.PreferGreen)
	if err != nil {
		return nil, err
	}

	dto := toPreviewDTO(req.Stops, result)
	return &dto, nil
}

// ReorderRoute reorders the interior stops by distance from the start, then
// builds a preview over the new order. Sequences outside the reorder band
// come back unchanged.
func (s *RouteService) ReorderRoute(ctx context.Context, req PreviewRequest) (*PreviewDTO, error) {
	transport, err := routeDomain.ParseTransportProfile(req.Transport)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	reordered := routeDomain.GreedyReorder(req.Stops)

	result, err := s.build(ctx, reordered, transport, req.AvoidTolls, req.AvoidFerries, req.PreferGreen)
	if err != nil {
		return nil, err
	}

	dto := toPreviewDTO(reordered, result)
	return &dto, nil
}

// CreateRoute saves a new draft route for the given creator, materializing
// its geometry before persisting.
func (s *RouteService) CreateRoute(ctx context.Context, creatorID uuid.UUID, req CreateRouteRequest) (*RouteDTO, error) {
	transport, err := routeDomain.ParseTransportProfile(req.Transport)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	rt, err := routeDomain.NewRoute(
		creatorID,
		req.Title,
		req.Description,
		req.City,
		req.Country,
		routeDomain.SourceUser,
		transport,
		routeDomain.Difficulty(req.Difficulty),
		req.Stops,
	)
	if err != nil {
		return nil, err
	}

	result, err := s.build(ctx, req.Stops, transport, req.AvoidTolls, req.AvoidFerries, req.PreferGreen)
	if err != nil {
		return nil, err
	}
	geometry := result.Geometry
	rt.SetGeometry(&geometry, result.Metrics())

	if err := s.repo.Save(ctx, rt); err != nil {
		return nil, fmt.Errorf("failed to save route: %w", err)
	}

	evt := events.RouteCreatedEvent{
		RouteID:    rt.ID(),
		CreatorID:  rt.CreatorID(),
		Title:      rt.Title(),
		City:       rt.City(),
		Source:     string(rt.Source()),
		Transport:  string(rt.Transport()),
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicRouteEvents, events.RouteCreated, evt)

	dto := toRouteDTO(rt)
	return &dto, nil
}

// GetRoute retrieves a single route, enforcing visibility: unpublished or
// private routes are visible only to their creator, editors and admins.
func (s *RouteService) GetRoute(ctx context.Context, routeID, requesterID uuid.UUID, role auth.Role) (*RouteDTO, error) {
	rt, err := s.repo.FindByID(ctx, routeID)
	if err != nil {
		return nil, err
	}

	if !canViewRoute(rt, requesterID, role) {
		return nil, domain.NewForbiddenError("route is not visible to this user")
	}

	dto := toRouteDTO(rt)
	return &dto, nil
}

// GetCreatorRoutes retrieves paginated routes owned by a specific creator.
func (s *RouteService) GetCreatorRoutes(ctx context.Context, creatorID uuid.UUID, page, limit int) (*domain.PaginatedResult[RouteDTO], error) {
	routes, total, err := s.repo.FindByCreatorID(ctx, creatorID, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]RouteDTO, len(routes))
	for i, rt := range routes {
		dtos[i] = toRouteDTO(rt)
	}

	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// SubmitRoute moves an owned route into the moderation queue.
func (s *RouteService) SubmitRoute(ctx context.Context, routeID, userID uuid.UUID) (*RouteDTO, error) {
	rt, err := s.repo.FindByID(ctx, routeID)
	if err != nil {
		return nil, err
	}

	if !rt.IsOwnedBy(userID) {
		return nil, domain.NewForbiddenError("route does not belong to this user")
	}

	if err := rt.Submit(); err != nil {
		return nil, err
	}

	rt.IncrementVersion()
	if err := s.repo.Update(ctx, rt); err != nil {
		return nil, err
	}

	evt := events.RouteSubmittedEvent{
		RouteID:    rt.ID(),
		CreatorID:  rt.CreatorID(),
		City:       rt.City(),
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicRouteEvents, events.RouteSubmitted, evt)

	dto := toRouteDTO(rt)
	return &dto, nil
}

// ArchiveRoute retires a route. Only the owner or an admin may archive.
func (s *RouteService) ArchiveRoute(ctx context.Context, routeID, userID uuid.UUID, role auth.Role) (*RouteDTO, error) {
	rt, err := s.repo.FindByID(ctx, routeID)
	if err != nil {
		return nil, err
	}

	if !rt.IsOwnedBy(userID) && role != auth.RoleAdmin {
		return nil, domain.NewForbiddenError("route does not belong to this user")
	}

	if err := rt.Archive(); err != nil {
		return nil, err
	}

	rt.IncrementVersion()
	if err := s.repo.Update(ctx, rt); err != nil {
		return nil, err
	}

	evt := events.RouteArchivedEvent{
		RouteID:    rt.ID(),
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicRouteEvents, events.RouteArchived, evt)

	dto := toRouteDTO(rt)
	return &dto, nil
}

// PublishRoute approves a pending route and makes it publicly visible.
// Called by admins and by the moderation event consumer.
func (s *RouteService) PublishRoute(ctx context.Context, routeID uuid.UUID) (*RouteDTO, error) {
	rt, err := s.repo.FindByID(ctx, routeID)
	if err != nil {
		return nil, err
	}

	if err := rt.Publish(); err != nil {
		return nil, err
	}

	rt.IncrementVersion()
	if err := s.repo.Update(ctx, rt); err != nil {
		return nil, err
	}

	evt := events.RoutePublishedEvent{
		RouteID:    rt.ID(),
		City:       rt.City(),
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicRouteEvents, events.RoutePublished, evt)

	dto := toRouteDTO(rt)
	return &dto, nil
}

// RejectRoute declines a pending route during moderation.
func (s *RouteService) RejectRoute(ctx context.Context, routeID uuid.UUID, reason string) (*RouteDTO, error) {
	rt, err := s.repo.FindByID(ctx, routeID)
	if err != nil {
		return nil, err
	}

	if err := rt.Reject(); err != nil {
		return nil, err
	}

	rt.IncrementVersion()
	if err := s.repo.Update(ctx, rt); err != nil {
		return nil, err
	}

	evt := events.RouteRejectedEvent{
		RouteID:    rt.ID(),
		Reason:     reason,
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicRouteEvents, events.RouteRejected, evt)

	dto := toRouteDTO(rt)
	return &dto, nil
}

// FeatureRoute promotes a published route to the featured tier until the
// given time (admin).
func (s *RouteService) FeatureRoute(ctx context.Context, routeID uuid.UUID, until time.Time) (*RouteDTO, error) {
	rt, err := s.repo.FindByID(ctx, routeID)
	if err != nil {
		return nil, err
	}

	if err := rt.Feature(until); err != nil {
		return nil, err
	}

	rt.IncrementVersion()
	if err := s.repo.Update(ctx, rt); err != nil {
		return nil, err
	}

	dto := toRouteDTO(rt)
	return &dto, nil
}

// --- Admin methods ---

// RouteStatsDTO holds route statistics for the admin dashboard.
type RouteStatsDTO struct {
	TotalRoutes int64            `json:"total_routes"`
	ByStatus    map[string]int64 `json:"by_status"`
}

// ListAllRoutes returns a paginated list of all routes (admin).
func (s *RouteService) ListAllRoutes(ctx context.Context, page, limit int) ([]RouteDTO, int64, error) {
	routes, total, err := s.repo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list routes: %w", err)
	}

	dtos := make([]RouteDTO, len(routes))
	for i, rt := range routes {
		dtos[i] = toRouteDTO(rt)
	}
	return dtos, total, nil
}

// GetRouteStats returns aggregate route statistics (admin).
func (s *RouteService) GetRouteStats(ctx context.Context) (*RouteStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get route stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &RouteStatsDTO{
		TotalRoutes: total,
		ByStatus:    counts,
	}, nil
}

// --- Helpers ---

func (s *RouteService) build(
	ctx context.Context,
	stops []routeDomain.Waypoint,
	transport routeDomain.TransportProfile,
	avoidTolls, avoidFerries, preferGreen bool,
) (*directions.Result, error) {
	result, err := s.builder.BuildRoute(ctx, stops, directions.BuildOptions{
		Transport:    transport,
		AvoidTolls:   avoidTolls,
		AvoidFerries: avoidFerries,
		PreferGreen:  preferGreen,
	})
	if err != nil {
		// Too few waypoints is caller input, not an internal failure.
		var insufficient *directions.InsufficientWaypointsError
		if errors.As(err, &insufficient) {
			return nil, domain.NewValidationError(err.Error())
		}
		return nil, err
	}
	return result, nil
}

func canViewRoute(rt *routeDomain.Route, requesterID uuid.UUID, role auth.Role) bool {
	if rt.Status() == routeDomain.StatusPublished && rt.Visibility() != routeDomain.VisibilityPrivate {
		return true
	}
	if rt.IsOwnedBy(requesterID) {
		return true
	}
	return role == auth.RoleEditor || role == auth.RoleAdmin
}

func toPreviewDTO(stops []routeDomain.Waypoint, result *directions.Result) PreviewDTO {
	return PreviewDTO{
		Stops:           stops,
		Geometry:        result.Geometry,
		DistanceMeters:  result.DistanceMeters,
		DurationSeconds: result.DurationSeconds,
		DistanceText:    routeDomain.FormatDistance(result.DistanceMeters),
		DurationText:    routeDomain.FormatDuration(result.DurationSeconds),
		Instructions:    result.Instructions,
		Summary:         result.Summary,
		Fallback:        result.Fallback,
		Truncated:       result.Truncated,
		Warnings:        result.Warnings,
	}
}

func toRouteDTO(rt *routeDomain.Route) RouteDTO {
	dto := RouteDTO{
		ID:            rt.ID(),
		Title:         rt.Title(),
		Description:   rt.Description(),
		City:          rt.City(),
		Country:       rt.Country(),
		CreatorID:     rt.CreatorID(),
		Visibility:    string(rt.Visibility()),
		FeaturedUntil: rt.FeaturedUntil(),
		Status:        string(rt.Status()),
		Source:        string(rt.Source()),
		PriorityScore: rt.PriorityScore(),
		Transport:     string(rt.Transport()),
		Difficulty:    string(rt.Difficulty()),
		Geometry:      rt.Geometry(),
		Metrics:       rt.Metrics(),
		Stops:         rt.Stops(),
		Version:       rt.Version(),
		CreatedAt:     rt.CreatedAt(),
		UpdatedAt:     rt.UpdatedAt(),
	}
	if m := rt.Metrics(); m != nil {
		dto.DistanceText = routeDomain.FormatDistance(m.DistanceMeters)
		dto.DurationText = routeDomain.FormatDuration(m.DurationSeconds)
	}
	return dto
}

func (s *RouteService) publishEvent(ctx context.Context, topic, eventType string, data interface{}) {
	cloudEvent, err := kafka.NewCloudEvent(eventSource, eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.producer.PublishEvent(ctx, topic, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
