package route

import "github.com/google/uuid"

// Waypoint is a geographic point to visit. Ordering within a sequence is
// significant; a waypoint may reference a stored place (landmark).
type Waypoint struct {
	Lat     float64    `json:"lat"`
	Lng     float64    `json:"lng"`
	Title   string     `json:"title,omitempty"`
	PlaceID *uuid.UUID `json:"place_id,omitempty"`
}

// Position returns the waypoint as a [lng, lat] coordinate pair.
func (w Waypoint) Position() Position {
	return Position{w.Lng, w.Lat}
}

// DistanceTo returns the haversine distance in meters to another waypoint.
func (w Waypoint) DistanceTo(other Waypoint) float64 {
	return DistanceMeters(w.Lat, w.Lng, other.Lat, other.Lng)
}
