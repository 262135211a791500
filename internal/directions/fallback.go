package directions

import (
	"fmt"

	"github.com/archway-discovery/service-routes/internal/domain/route"
)

// buildFallback synthesizes a straight-segment route over the waypoints in
// input order. Distance is the pairwise haversine sum; duration assumes the
// profile's average travel speed; exactly one instruction covers the whole
// route. The output is a pure function of its inputs.
func buildFallback(waypoints []route.Waypoint, transport route.TransportProfile) *Result {
	coords := make([]route.Position, len(waypoints))
	for i, w := range waypoints {
		coords[i] = w.Position()
	}

	var distance float64
	for i := 0; i < len(waypoints)-1; i++ {
		distance += waypoints[i].DistanceTo(waypoints[i+1])
	}

	duration := distance / 1000 / transport.AvgSpeedKmh() * 3600

	destination := waypoints[len(waypoints)-1].Title
	if destination == "" {
		destination = "destination"
	}

	instruction := route.Instruction{
		Text:            fmt.Sprintf("Head to %s (%s)", destination, route.FormatDistance(distance)),
		Maneuver:        "depart",
		DistanceMeters:  distance,
		DurationSeconds: duration,
	}

	return &Result{
		Geometry:        route.NewLineString(coords),
		DistanceMeters:  distance,
		DurationSeconds: duration,
		Instructions:    []route.Instruction{instruction},
		Summary:         "straight-line approximation",
		Fallback:        true,
	}
}
