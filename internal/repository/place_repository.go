package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/archway-discovery/service-routes/internal/domain"
	placeDomain "github.com/archway-discovery/service-routes/internal/domain/place"
)

// PlaceModel is the GORM model for the places table.
type PlaceModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"not null;size:200"`
	City        string    `gorm:"not null;size:100;index"`
	Country     string    `gorm:"size:100"`
	Lat         float64   `gorm:"not null"`
	Lng         float64   `gorm:"not null"`
	Architect   string    `gorm:"size:200"`
	Style       string    `gorm:"size:100"`
	YearBuilt   int       `gorm:""`
	Description string    `gorm:"size:2000"`
	ImageURL    string    `gorm:"size:500"`
	Status      string    `gorm:"not null;size:20;index"`
	Version     int64     `gorm:"not null;default:1"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (PlaceModel) TableName() string {
	return "places"
}

// GormPlaceRepository is the GORM-based implementation of place.Repository.
type GormPlaceRepository struct {
	db *gorm.DB
}

// NewGormPlaceRepository creates a new GormPlaceRepository.
func NewGormPlaceRepository(db *gorm.DB) *GormPlaceRepository {
	return &GormPlaceRepository{db: db}
}

// FindByID retrieves a place by its unique identifier.
func (r *GormPlaceRepository) FindByID(ctx context.Context, id uuid.UUID) (*placeDomain.Place, error) {
	var model PlaceModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Place", id.String())
		}
		return nil, fmt.Errorf("failed to find place by ID: %w", err)
	}
	return toDomainPlace(&model), nil
}

// FindByCity retrieves active places in a city with pagination.
func (r *GormPlaceRepository) FindByCity(ctx context.Context, city string, page, limit int) ([]*placeDomain.Place, int64, error) {
	query := r.db.WithContext(ctx).Model(&PlaceModel{}).
		Where("city = ? AND status = ?", city, string(placeDomain.PlaceStatusActive))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count places: %w", err)
	}

	var models []PlaceModel
	offset := (page - 1) * limit
	if err := query.
		Order("name ASC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find places by city: %w", err)
	}

	places := make([]*placeDomain.Place, len(models))
	for i, m := range models {
		places[i] = toDomainPlace(&m)
	}
	return places, total, nil
}

// Save persists a new place.
func (r *GormPlaceRepository) Save(ctx context.Context, p *placeDomain.Place) error {
	model := toPlaceModel(p)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save place: %w", err)
	}
	return nil
}

// Update persists changes to an existing place with optimistic locking.
func (r *GormPlaceRepository) Update(ctx context.Context, p *placeDomain.Place) error {
	model := toPlaceModel(p)

	expectedVersion := p.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&PlaceModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"name":        model.Name,
			"country":     model.Country,
			"architect":   model.Architect,
			"style":       model.Style,
			"year_built":  model.YearBuilt,
			"description": model.Description,
			"image_url":   model.ImageURL,
			"status":      model.Status,
			"version":     model.Version,
			"updated_at":  model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update place: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("place was modified by another transaction")
	}
	return nil
}

// Delete removes a place by ID.
func (r *GormPlaceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&PlaceModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete place: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Place", id.String())
	}
	return nil
}

// --- Conversion Helpers ---

func toPlaceModel(p *placeDomain.Place) *PlaceModel {
	return &PlaceModel{
		ID:          p.ID(),
		Name:        p.Name(),
		City:        p.City(),
		Country:     p.Country(),
		Lat:         p.Lat(),
		Lng:         p.Lng(),
		Architect:   p.Architect(),
		Style:       p.Style(),
		YearBuilt:   p.YearBuilt(),
		Description: p.Description(),
		ImageURL:    p.ImageURL(),
		Status:      string(p.Status()),
		Version:     p.Version(),
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
	}
}

func toDomainPlace(m *PlaceModel) *placeDomain.Place {
	return placeDomain.Reconstruct(
		m.ID,
		m.Name,
		m.City,
		m.Country,
		m.Lat,
		m.Lng,
		m.Architect,
		m.Style,
		m.YearBuilt,
		m.Description,
		m.ImageURL,
		placeDomain.PlaceStatus(m.Status),
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
