package place

import (
	"time"

	"github.com/google/uuid"

	"github.com/archway-discovery/service-routes/internal/domain"
)

// PlaceStatus represents the lifecycle state of a landmark entry.
type PlaceStatus string

const (
	PlaceStatusActive   PlaceStatus = "active"
	PlaceStatusArchived PlaceStatus = "archived"
)

// Place is the aggregate root for an architectural landmark that routes can
// reference as a stop.
type Place struct {
	id          uuid.UUID
	name        string
	city        string
	country     string
	lat         float64
	lng         float64
	architect   string
	style       string
	yearBuilt   int
	description string
	imageURL    string
	status      PlaceStatus
	version     int64
	createdAt   time.Time
	updatedAt   time.Time
}

// NewPlace creates a new active landmark entry with validated fields.
func NewPlace(
	name, city, country string,
	lat, lng float64,
	architect, style string,
	yearBuilt int,
	description, imageURL string,
) (*Place, error) {
	if name == "" {
		return nil, domain.NewValidationError("place name is required")
	}
	if city == "" {
		return nil, domain.NewValidationError("place city is required")
	}
	if lat < -90 || lat > 90 {
		return nil, domain.NewValidationError("latitude out of range")
	}
	if lng < -180 || lng > 180 {
		return nil, domain.NewValidationError("longitude out of range")
	}

	now := time.Now().UTC()
	return &Place{
		id:          uuid.New(),
		name:        name,
		city:        city,
		country:     country,
		lat:         lat,
		lng:         lng,
		architect:   architect,
		style:       style,
		yearBuilt:   yearBuilt,
		description: description,
		imageURL:    imageURL,
		status:      PlaceStatusActive,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstruct rebuilds a Place from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	name, city, country string,
	lat, lng float64,
	architect, style string,
	yearBuilt int,
	description, imageURL string,
	status PlaceStatus,
	version int64,
	createdAt, updatedAt time.Time,
) *Place {
	return &Place{
		id:          id,
		name:        name,
		city:        city,
		country:     country,
		lat:         lat,
		lng:         lng,
		architect:   architect,
		style:       style,
		yearBuilt:   yearBuilt,
		description: description,
		imageURL:    imageURL,
		status:      status,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// --- Getters ---

func (p *Place) ID() uuid.UUID       { return p.id }
func (p *Place) Name() string        { return p.name }
func (p *Place) City() string        { return p.city }
func (p *Place) Country() string     { return p.country }
func (p *Place) Lat() float64        { return p.lat }
func (p *Place) Lng() float64        { return p.lng }
func (p *Place) Architect() string   { return p.architect }
func (p *Place) Style() string       { return p.style }
func (p *Place) YearBuilt() int      { return p.yearBuilt }
func (p *Place) Description() string { return p.description }
func (p *Place) ImageURL() string    { return p.imageURL }
func (p *Place) Status() PlaceStatus { return p.status }
func (p *Place) Version() int64      { return p.version }
func (p *Place) CreatedAt() time.Time { return p.createdAt }
func (p *Place) UpdatedAt() time.Time { return p.updatedAt }

// --- Behavior ---

// Update applies partial updates to the landmark entry.
func (p *Place) Update(name, country, architect, style, description, imageURL string, yearBuilt int) {
	if name != "" {
		p.name = name
	}
	if country != "" {
		p.country = country
	}
	if architect != "" {
		p.architect = architect
	}
	if style != "" {
		p.style = style
	}
	if description != "" {
		p.description = description
	}
	if imageURL != "" {
		p.imageURL = imageURL
	}
	if yearBuilt > 0 {
		p.yearBuilt = yearBuilt
	}
	p.version++
	p.updatedAt = time.Now().UTC()
}

// Archive marks the landmark entry as archived.
func (p *Place) Archive() {
	p.status = PlaceStatusArchived
	p.version++
	p.updatedAt = time.Now().UTC()
}

// IsActive returns true if the landmark entry is active.
func (p *Place) IsActive() bool {
	return p.status == PlaceStatusActive
}
