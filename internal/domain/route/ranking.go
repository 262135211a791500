package route

import (
	"sort"
	"time"
)

// DefaultMaxMapRoutes bounds how many routes are surfaced on a map view.
const DefaultMaxMapRoutes = 30

// Preferences narrows the route pool to what the user asked for. Non-empty
// lists act as hard filters, not scoring adjustments.
type Preferences struct {
	TransportModes   []TransportProfile `json:"transport_modes"`
	DifficultyLevels []Difficulty       `json:"difficulty_levels"`
}

// UserLocation is the viewer's position, used for proximity bonuses.
type UserLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// MapSelection holds the inputs for SelectForMap.
type MapSelection struct {
	MaxRoutes    int
	UserLocation *UserLocation
	Preferences  *Preferences
	Bounds       *Bounds

	// Now anchors featured-expiry checks; the zero value means time.Now().
	Now time.Time
}

// ScoredRoute is a route decorated with its computed relevance score. It is
// a per-request projection and is never persisted.
type ScoredRoute struct {
	Route            *Route
	Score            int
	DistanceFromUser *float64
}

// SelectForMap scores and filters a pool of routes (already restricted to
// published, visible routes by the data store) and returns a bounded,
// descending-ranked subset for map display. Deterministic, in-memory, never
// fails.
func SelectForMap(pool []*Route, opts MapSelection) []ScoredRoute {
	now := opts.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	maxRoutes := opts.MaxRoutes
	if maxRoutes <= 0 {
		maxRoutes = DefaultMaxMapRoutes
	}

	scored := make([]ScoredRoute, 0, len(pool))
	for _, r := range pool {
		if opts.Preferences != nil {
			if !matchesTransport(r, opts.Preferences.TransportModes) {
				continue
			}
			if !matchesDifficulty(r, opts.Preferences.DifficultyLevels) {
				continue
			}
		}
		if opts.Bounds != nil && !intersectsBounds(r, *opts.Bounds) {
			continue
		}

		score := r.PriorityScore()

		var distance *float64
		if opts.UserLocation != nil {
			if d, ok := distanceFromUser(r, *opts.UserLocation); ok {
				distance = &d
				score += proximityBonus(d)
			}
		}

		if opts.Preferences != nil && containsTransport(opts.Preferences.TransportModes, r.Transport()) {
			score += 10
		}

		if r.IsFeatured(now) {
			score += 30
		}

		scored = append(scored, ScoredRoute{Route: r, Score: score, DistanceFromUser: distance})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		if scored[i].Route.PriorityScore() != scored[j].Route.PriorityScore() {
			return scored[i].Route.PriorityScore() > scored[j].Route.PriorityScore()
		}
		return scored[i].Route.ID().String() < scored[j].Route.ID().String()
	})

	if len(scored) > maxRoutes {
		scored = scored[:maxRoutes]
	}
	return scored
}

// proximityBonus returns the tiered score bonus for a route whose start is
// the given distance in meters from the user.
func proximityBonus(meters float64) int {
	switch {
	case meters < 1000:
		return 20
	case meters < 3000:
		return 15
	case meters < 5000:
		return 10
	case meters < 10000:
		return 5
	default:
		return 0
	}
}

// distanceFromUser measures to the route's first geometry coordinate, or its
// first stop point when no geometry is stored.
func distanceFromUser(r *Route, loc UserLocation) (float64, bool) {
	if g := r.Geometry(); g != nil && len(g.Coordinates) > 0 {
		first := g.Coordinates[0]
		return DistanceMeters(loc.Lat, loc.Lng, first.Lat(), first.Lng()), true
	}
	if stops := r.Stops(); len(stops) > 0 {
		return DistanceMeters(loc.Lat, loc.Lng, stops[0].Lat, stops[0].Lng), true
	}
	return 0, false
}

// intersectsBounds keeps routes with at least one stored coordinate inside
// the box; routes without stored geometry pass unfiltered.
func intersectsBounds(r *Route, b Bounds) bool {
	g := r.Geometry()
	if g == nil || len(g.Coordinates) == 0 {
		return true
	}
	for _, c := range g.Coordinates {
		if b.Contains(c.Lat(), c.Lng()) {
			return true
		}
	}
	return false
}

func matchesTransport(r *Route, modes []TransportProfile) bool {
	if len(modes) == 0 {
		return true
	}
	return containsTransport(modes, r.Transport())
}

func matchesDifficulty(r *Route, levels []Difficulty) bool {
	if len(levels) == 0 {
		return true
	}
	for _, l := range levels {
		if r.Difficulty() == l {
			return true
		}
	}
	return false
}

func containsTransport(modes []TransportProfile, mode TransportProfile) bool {
	for _, m := range modes {
		if m == mode {
			return true
		}
	}
	return false
}
