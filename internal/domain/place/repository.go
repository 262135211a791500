package place

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for landmarks.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Place, error)
	FindByCity(ctx context.Context, city string, page, limit int) ([]*Place, int64, error)
	Save(ctx context.Context, p *Place) error
	Update(ctx context.Context, p *Place) error
	Delete(ctx context.Context, id uuid.UUID) error
}
