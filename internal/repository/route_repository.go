package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/archway-discovery/service-routes/internal/domain"
	routeDomain "github.com/archway-discovery/service-routes/internal/domain/route"
)

// RouteModel is the GORM model for the routes table.
type RouteModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Title         string          `gorm:"not null;size:200"`
	Description   string          `gorm:"size:2000"`
	City          string          `gorm:"not null;size:100;index"`
	Country       string          `gorm:"size:100"`
	CreatorID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	Visibility    string          `gorm:"not null;size:20;index"`
	FeaturedUntil *time.Time      `gorm:""`
	Status        string          `gorm:"not null;size:20;index"`
	Source        string          `gorm:"not null;size:30"`
	PriorityScore int             `gorm:"not null;default:50"`
	Transport     string          `gorm:"not null;size:20"`
	Difficulty    string          `gorm:"size:20"`
	Geometry      json.RawMessage `gorm:"type:jsonb"`
	Metrics       json.RawMessage `gorm:"type:jsonb"`
	Stops         json.RawMessage `gorm:"type:jsonb;not null"`
	Version       int64           `gorm:"not null;default:1"`
	CreatedAt     time.Time       `gorm:"not null"`
	UpdatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (RouteModel) TableName() string {
	return "routes"
}

// GormRouteRepository is the GORM-based implementation of route.Repository.
type GormRouteRepository struct {
	db *gorm.DB
}

// NewGormRouteRepository creates a new GormRouteRepository.
func NewGormRouteRepository(db *gorm.DB) *GormRouteRepository {
	return &GormRouteRepository{db: db}
}

// FindByID retrieves a route by its unique identifier.
func (r *GormRouteRepository) FindByID(ctx context.Context, id uuid.UUID) (*routeDomain.Route, error) {
	var model RouteModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Route", id.String())
		}
		return nil, fmt.Errorf("failed to find route by ID: %w", err)
	}
	return toDomainRoute(&model)
}

// FindByCreatorID retrieves routes for a specific creator with pagination.
func (r *GormRouteRepository) FindByCreatorID(ctx context.Context, creatorID uuid.UUID, page, limit int) ([]*routeDomain.Route, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&RouteModel{}).Where("creator_id = ?", creatorID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count creator routes: %w", err)
	}

	var models []RouteModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where("creator_id = ?", creatorID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find creator routes: %w", err)
	}

	routes, err := toDomainRoutes(models)
	if err != nil {
		return nil, 0, err
	}
	return routes, total, nil
}

// Save persists a new route.
func (r *GormRouteRepository) Save(ctx context.Context, rt *routeDomain.Route) error {
	model, err := toRouteModel(rt)
	if err != nil {
		return fmt.Errorf("failed to convert route to model: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save route: %w", err)
	}
	return nil
}

// Update persists changes to an existing route with optimistic locking.
func (r *GormRouteRepository) Update(ctx context.Context, rt *routeDomain.Route) error {
	model, err := toRouteModel(rt)
	if err != nil {
		return fmt.Errorf("failed to convert route to model: %w", err)
	}

	// Only update if the version matches (current version - 1, since
	// IncrementVersion was called before Update).
	expectedVersion := rt.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&RouteModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"title":          model.Title,
			"description":    model.Description,
			"city":           model.City,
			"country":        model.Country,
			"visibility":     model.Visibility,
			"featured_until": model.FeaturedUntil,
			"status":         model.Status,
			"source":         model.Source,
			"priority_score": model.PriorityScore,
			"transport":      model.Transport,
			"difficulty":     model.Difficulty,
			"geometry":       model.Geometry,
			"metrics":        model.Metrics,
			"stops":          model.Stops,
			"version":        model.Version,
			"updated_at":     model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update route: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("route was modified by another transaction")
	}
	return nil
}

// ListAll retrieves all routes with pagination (admin).
func (r *GormRouteRepository) ListAll(ctx context.Context, page, limit int) ([]*routeDomain.Route, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&RouteModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count routes: %w", err)
	}

	var models []RouteModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list routes: %w", err)
	}

	routes, err := toDomainRoutes(models)
	if err != nil {
		return nil, 0, err
	}
	return routes, total, nil
}

// CountByStatus returns route counts grouped by status (admin).
func (r *GormRouteRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&RouteModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// FindForMap retrieves published, publicly visible routes for a city,
// including stored geometry, metrics and stops.
func (r *GormRouteRepository) FindForMap(ctx context.Context, city string) ([]*routeDomain.Route, error) {
	var models []RouteModel
	if err := r.db.WithContext(ctx).
		Where("city = ? AND status = ? AND visibility IN ?",
			city, string(routeDomain.StatusPublished),
			[]string{string(routeDomain.VisibilityPublic), string(routeDomain.VisibilityFeatured)}).
		Order("priority_score DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to query map routes: %w", err)
	}
	return toDomainRoutes(models)
}

// FindForMapBasic is the simplified fallback query: same visibility
// predicate but without the heavy jsonb columns, so a degraded database can
// still serve a map view.
func (r *GormRouteRepository) FindForMapBasic(ctx context.Context, city string) ([]*routeDomain.Route, error) {
	var models []RouteModel
	if err := r.db.WithContext(ctx).
		Select("id", "title", "description", "city", "country", "creator_id",
			"visibility", "featured_until", "status", "source", "priority_score",
			"transport", "difficulty", "stops", "version", "created_at", "updated_at").
		Where("city = ? AND status = ? AND visibility IN ?",
			city, string(routeDomain.StatusPublished),
			[]string{string(routeDomain.VisibilityPublic), string(routeDomain.VisibilityFeatured)}).
		Order("priority_score DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to query map routes (basic): %w", err)
	}
	return toDomainRoutes(models)
}

// --- Conversion Helpers ---

func toRouteModel(rt *routeDomain.Route) (*RouteModel, error) {
	stopsJSON, err := json.Marshal(rt.Stops())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal stops: %w", err)
	}

	var geometryJSON json.RawMessage
	if rt.Geometry() != nil {
		data, err := json.Marshal(rt.Geometry())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal geometry: %w", err)
		}
		geometryJSON = data
	}

	var metricsJSON json.RawMessage
	if rt.Metrics() != nil {
		data, err := json.Marshal(rt.Metrics())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metrics: %w", err)
		}
		metricsJSON = data
	}

	return &RouteModel{
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
		Geometry:      geometryJSON,
		Metrics:       metricsJSON,
		Stops:         stopsJSON,
		Version:       rt.Version(),
		CreatedAt:     rt.CreatedAt(),
		UpdatedAt:     rt.UpdatedAt(),
	}, nil
}

func toDomainRoute(m *RouteModel) (*routeDomain.Route, error) {
	var stops []routeDomain.Waypoint
	if len(m.Stops) > 0 {
		if err := json.Unmarshal(m.Stops, &stops); err != nil {
			return nil, fmt.Errorf("failed to unmarshal stops: %w", err)
		}
	}

	var geometry *routeDomain.Geometry
	if len(m.Geometry) > 0 {
		var g routeDomain.Geometry
		if err := json.Unmarshal(m.Geometry, &g); err != nil {
			return nil, fmt.Errorf("failed to unmarshal geometry: %w", err)
		}
		geometry = &g
	}

	var metrics *routeDomain.Metrics
	if len(m.Metrics) > 0 {
		var mt routeDomain.Metrics
		if err := json.Unmarshal(m.Metrics, &mt); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metrics: %w", err)
		}
		metrics = &mt
	}

	status, err := routeDomain.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}

	return routeDomain.Reconstruct(
		m.ID,
		m.Title,
		m.Description,
		m.City,
		m.Country,
		m.CreatorID,
		routeDomain.Visibility(m.Visibility),
		m.FeaturedUntil,
		status,
		routeDomain.Source(m.Source),
		m.PriorityScore,
		routeDomain.TransportProfile(m.Transport),
		routeDomain.Difficulty(m.Difficulty),
		geometry,
		metrics,
		stops,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainRoutes(models []RouteModel) ([]*routeDomain.Route, error) {
	routes := make([]*routeDomain.Route, len(models))
	for i, m := range models {
		rt, err := toDomainRoute(&m)
		if err != nil {
			return nil, err
		}
		routes[i] = rt
	}
	return routes, nil
}
