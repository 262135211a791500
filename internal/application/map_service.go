package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/archway-discovery/service-routes/internal/domain"
	routeDomain "github.com/archway-discovery/service-routes/internal/domain/route"
	"github.com/archway-discovery/service-routes/internal/platform/cache"
)

// mapCacheTTL bounds how stale a cached map selection may be.
const mapCacheTTL = 60 * time.Second

// MapQuery holds the inputs for a map route selection.
type MapQuery struct {
	City         string                    `json:"city"`
	MaxRoutes    int                       `json:"max_routes,omitempty"`
	UserLocation *routeDomain.UserLocation `json:"user_location,omitempty"`
	Preferences  *routeDomain.Preferences  `json:"preferences,omitempty"`
	Bounds       *routeDomain.Bounds       `json:"bounds,omitempty"`
}

// MapRouteDTO is a scored route as served to map clients.
type MapRouteDTO struct {
	RouteDTO
	Score             int      `json:"score"`
	DistanceFromUserM *float64 `json:"distance_from_user_m,omitempty"`
}

// MapSelectionDTO is the full map view response.
type MapSelectionDTO struct {
	City     string        `json:"city"`
	Routes   []MapRouteDTO `json:"routes"`
	Degraded bool          `json:"degraded"`
}

// MapService selects and ranks published routes for map display, with a
// short-lived Redis cache in front of the database.
type MapService struct {
	repo   routeDomain.Repository
	cache  *cache.Cache
	logger *zap.Logger
}

// NewMapService creates a new MapService. The cache may be nil, in which case
// every query hits the database.
func NewMapService(repo routeDomain.Repository, c *cache.Cache, logger *zap.Logger) *MapService {
	return &MapService{repo: repo, cache: c, logger: logger}
}

// SelectRoutes returns the ranked route subset for a city map view. The full
// query falls back to a basic one without geometry when the primary read
// fails, so a degraded database still yields a usable map.
func (s *MapService) SelectRoutes(ctx context.Context, query MapQuery) (*MapSelectionDTO, error) {
	if query.City == "" {
		return nil, domain.NewValidationError("city is required")
	}

	key := mapCacheKey(query)
	if s.cache != nil {
		var cached MapSelectionDTO
		if s.cache.GetJSON(ctx, key, &cached) {
			return &cached, nil
		}
	}

	degraded := false
	pool, err := s.repo.FindForMap(ctx, query.City)
	if err != nil {
		s.logger.Warn("map query failed, retrying without geometry",
			zap.String("city", query.City),
			zap.Error(err),
		)
		pool, err = s.repo.FindForMapBasic(ctx, query.City)
		if err != nil {
			return nil, fmt.Errorf("failed to load map routes: %w", err)
		}
		degraded = true
	}

	scored := routeDomain.SelectForMap(pool, routeDomain.MapSelection{
		MaxRoutes:    query.MaxRoutes,
		UserLocation: query.UserLocation,
		Preferences:  query.Preferences,
		Bounds:       query.Bounds,
	})

	dtos := make([]MapRouteDTO, len(scored))
	for i, sr := range scored {
		dtos[i] = MapRouteDTO{
			RouteDTO:          toRouteDTO(sr.Route),
			Score:             sr.Score,
			DistanceFromUserM: sr.DistanceFromUser,
		}
	}

	result := &MapSelectionDTO{
		City:     query.City,
		Routes:   dtos,
		Degraded: degraded,
	}

	if s.cache != nil && !degraded {
		s.cache.SetJSON(ctx, key, result, mapCacheTTL)
	}
	return result, nil
}

// mapCacheKey derives a stable cache key from the full query shape.
func mapCacheKey(query MapQuery) string {
	raw, _ := json.Marshal(query)
	sum := sha256.Sum256(raw)
	return "map:routes:" + hex.EncodeToString(sum[:16])
}
