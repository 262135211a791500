package route

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for routes.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Route, error)
	FindByCreatorID(ctx context.Context, creatorID uuid.UUID, page, limit int) ([]*Route, int64, error)
	Save(ctx context.Context, r *Route) error
	Update(ctx context.Context, r *Route) error
	ListAll(ctx context.Context, page, limit int) ([]*Route, int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// FindForMap returns published, publicly visible routes for a city with
	// their stop points. FindForMapBasic is the simplified fallback query
	// used when the full query fails: same visibility predicate, no stops.
	FindForMap(ctx context.Context, city string) ([]*Route, error)
	FindForMapBasic(ctx context.Context, city string) ([]*Route, error)
}
