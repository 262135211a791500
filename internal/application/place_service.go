package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/archway-discovery/service-routes/internal/domain"
	placeDomain "github.com/archway-discovery/service-routes/internal/domain/place"
)

// CreatePlaceRequest is the request DTO for adding a landmark.
type CreatePlaceRequest struct {
	Name        string  `json:"name" binding:"required"`
	City        string  `json:"city" binding:"required"`
	Country     string  `json:"country"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Architect   string  `json:"architect"`
	Style       string  `json:"style"`
	YearBuilt   int     `json:"year_built"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
}

// UpdatePlaceRequest is the request DTO for updating a landmark.
type UpdatePlaceRequest struct {
	Name        string `json:"name"`
	Country     string `json:"country"`
	Architect   string `json:"architect"`
	Style       string `json:"style"`
	YearBuilt   int    `json:"year_built"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

// PlaceDTO is the API response representation of a landmark.
type PlaceDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	City        string    `json:"city"`
	Country     string    `json:"country,omitempty"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	Architect   string    `json:"architect,omitempty"`
	Style       string    `json:"style,omitempty"`
	YearBuilt   int       `json:"year_built,omitempty"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PlaceService implements use cases for landmark catalog management.
type PlaceService struct {
	repo   placeDomain.Repository
	logger *zap.Logger
}

// NewPlaceService creates a new PlaceService.
func NewPlaceService(repo placeDomain.Repository, logger *zap.Logger) *PlaceService {
	return &PlaceService{repo: repo, logger: logger}
}

// CreatePlace adds a new landmark to the catalog.
func (s *PlaceService) CreatePlace(ctx context.Context, req CreatePlaceRequest) (*PlaceDTO, error) {
	p, err := placeDomain.NewPlace(
		req.Name, req.City, req.Country,
		req.Lat, req.Lng,
		req.Architect, req.Style, req.YearBuilt,
		req.Description, req.ImageURL,
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, p); err != nil {
		s.logger.Error("failed to create place", zap.Error(err))
		return nil, fmt.Errorf("failed to create place: %w", err)
	}

	s.logger.Info("place created",
		zap.String("place_id", p.ID().String()),
		zap.String("city", p.City()),
	)
	result := toPlaceDTO(p)
	return &result, nil
}

// GetPlace returns a single landmark by ID.
func (s *PlaceService) GetPlace(ctx context.Context, placeID uuid.UUID) (*PlaceDTO, error) {
	p, err := s.repo.FindByID(ctx, placeID)
	if err != nil {
		return nil, err
	}
	result := toPlaceDTO(p)
	return &result, nil
}

// GetCityPlaces returns paginated active landmarks for a city.
func (s *PlaceService) GetCityPlaces(ctx context.Context, city string, page, limit int) (*domain.PaginatedResult[PlaceDTO], error) {
	places, total, err := s.repo.FindByCity(ctx, city, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get places: %w", err)
	}

	dtos := make([]PlaceDTO, len(places))
	for i, p := range places {
		dtos[i] = toPlaceDTO(p)
	}

	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// UpdatePlace updates an existing landmark (editor or admin).
func (s *PlaceService) UpdatePlace(ctx context.Context, placeID uuid.UUID, req UpdatePlaceRequest) (*PlaceDTO, error) {
	p, err := s.repo.FindByID(ctx, placeID)
	if err != nil {
		return nil, err
	}

	p.Update(req.Name, req.Country, req.Architect, req.Style, req.Description, req.ImageURL, req.YearBuilt)

	if err := s.repo.Update(ctx, p); err != nil {
		s.logger.Error("failed to update place", zap.Error(err))
		return nil, fmt.Errorf("failed to update place: %w", err)
	}

	s.logger.Info("place updated", zap.String("place_id", placeID.String()))
	result := toPlaceDTO(p)
	return &result, nil
}

// ArchivePlace retires a landmark from the catalog (editor or admin).
func (s *PlaceService) ArchivePlace(ctx context.Context, placeID uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, placeID)
	if err != nil {
		return err
	}

	p.Archive()
	if err := s.repo.Update(ctx, p); err != nil {
		s.logger.Error("failed to archive place", zap.Error(err))
		return fmt.Errorf("failed to archive place: %w", err)
	}

	s.logger.Info("place archived", zap.String("place_id", placeID.String()))
	return nil
}

func toPlaceDTO(p *placeDomain.Place) PlaceDTO {
	return PlaceDTO{
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
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
	}
}
