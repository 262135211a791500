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
	"github.com/archway-discovery/service-routes/internal/platform/kafka"
	"github.com/archway-discovery/service-routes/internal/suggest"
)

const (
	defaultGenerationPoints = 5
	maxGenerationPoints     = 12
)

// GenerateRouteRequest holds the data needed to generate a route.
type GenerateRouteRequest struct {
	City               string  `json:"city" binding:"required"`
	Country            string  `json:"country"`
	Title              string  `json:"title"`
	PointCount         int     `json:"point_count"`
	Transport          string  `json:"transport"`
	Difficulty         string  `json:"difficulty"`
	Style              string  `json:"style"`
	MaxDurationMinutes int     `json:"max_duration_minutes"`
	RadiusKm           float64 `json:"radius_km"`
}

// GenerationService produces complete draft routes from a city description:
// it asks the point suggester for landmarks, materializes geometry over them
// and saves the result as an ai_generated draft.
type GenerationService struct {
	repo      routeDomain.Repository
	builder   RouteBuilder
	suggester suggest.PointSuggester
	producer  *kafka.Producer
	logger    *zap.Logger
}

// NewGenerationService creates a new GenerationService.
func NewGenerationService(
	repo routeDomain.Repository,
	builder RouteBuilder,
	suggester suggest.PointSuggester,
	producer *kafka.Producer,
	logger *zap.Logger,
) *GenerationService {
	return &GenerationService{
		repo:      repo,
		builder:   builder,
		suggester: suggester,
		producer:  producer,
		logger:    logger,
	}
}

// GenerateRoute generates and saves a draft route for the given creator.
// Inputs are validated before the expensive suggestion call is made.
func (s *GenerationService) GenerateRoute(ctx context.Context, creatorID uuid.UUID, req GenerateRouteRequest) (*RouteDTO, error) {
	if req.City == "" {
		return nil, domain.NewValidationError("city is required")
	}

	transport := routeDomain.TransportWalking
	if req.Transport != "" {
		parsed, err := routeDomain.ParseTransportProfile(req.Transport)
		if err != nil {
			return nil, domain.NewValidationError(err.Error())
		}
		transport = parsed
	}

	difficulty := routeDomain.Difficulty(req.Difficulty)
	if difficulty != "" && !difficulty.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid difficulty: %s", difficulty))
	}

	pointCount := req.PointCount
	if pointCount <= 0 {
		pointCount = defaultGenerationPoints
	}
	if pointCount > maxGenerationPoints {
		pointCount = maxGenerationPoints
	}

	stops, err := s.suggester.SuggestPoints(ctx, suggest.Params{
		City:               req.City,
		Country:            req.Country,
		PointCount:         pointCount,
		Transport:          transport,
		Difficulty:         difficulty,
		Style:              req.Style,
		MaxDurationMinutes: req.MaxDurationMinutes,
		RadiusKm:           req.RadiusKm,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to suggest route points: %w", err)
	}

	result, err := s.builder.BuildRoute(ctx, stops, directions.BuildOptions{Transport: transport})
	if err != nil {
		var insufficient *directions.InsufficientWaypointsError
		if errors.As(err, &insufficient) {
			return nil, domain.NewValidationError(err.Error())
		}
		return nil, err
	}

	title := req.Title
	if title == "" {
		title = generatedTitle(req.City, req.Style)
	}

	rt, err := routeDomain.NewRoute(
		creatorID,
		title,
		"",
		req.City,
		req.Country,
		routeDomain.SourceAIGenerated,
		transport,
		difficulty,
		stops,
	)
	if err != nil {
		return nil, err
	}

	geometry := result.Geometry
	rt.SetGeometry(&geometry, result.Metrics())

	if err := s.repo.Save(ctx, rt); err != nil {
		return nil, fmt.Errorf("failed to save generated route: %w", err)
	}

	s.logger.Info("route generated",
		zap.String("route_id", rt.ID().String()),
		zap.String("city", rt.City()),
		zap.Int("stops", len(stops)),
		zap.Bool("fallback", result.Fallback),
	)

	evt := events.RouteGeneratedEvent{
		RouteID:    rt.ID(),
		CreatorID:  rt.CreatorID(),
		City:       rt.City(),
		StopCount:  len(stops),
		Transport:  string(rt.Transport()),
		Fallback:   result.Fallback,
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicRouteEvents, events.RouteGenerated, evt)

	dto := toRouteDTO(rt)
	return &dto, nil
}

func generatedTitle(city, style string) string {
	if style != "" {
		return fmt.Sprintf("%s architecture in %s", style, city)
	}
	return fmt.Sprintf("Architectural highlights of %s", city)
}

func (s *GenerationService) publishEvent(ctx context.Context, topic, eventType string, data interface{}) {
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
