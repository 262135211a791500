package route

// Position is a single [longitude, latitude] coordinate pair, matching
// GeoJSON axis order.
type Position [2]float64

// Lng returns the longitude component.
func (p Position) Lng() float64 { return p[0] }

// Lat returns the latitude component.
func (p Position) Lat() float64 { return p[1] }

// Geometry is the path to draw on a map, as a GeoJSON LineString. It is
// either provider-sourced (road-following) or synthesized as straight
// segments between consecutive waypoints.
type Geometry struct {
	Type        string     `json:"type"`
	Coordinates []Position `json:"coordinates"`
}

// NewLineString creates a LineString geometry over the given positions.
func NewLineString(coords []Position) Geometry {
	return Geometry{Type: "LineString", Coordinates: coords}
}

// Instruction is a single turn-by-turn step.
type Instruction struct {
	Text            string  `json:"text"`
	Maneuver        string  `json:"maneuver"`
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// Metrics summarizes a built route.
type Metrics struct {
	DistanceMeters  float64       `json:"distance_meters"`
	DurationSeconds float64       `json:"duration_seconds"`
	Instructions    []Instruction `json:"instructions"`
}

// Bounds is a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLat float64 `json:"max_lat"`
	MaxLng float64 `json:"max_lng"`
}

// Contains reports whether the point lies inside the box.
func (b Bounds) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}
