package directions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archway-discovery/service-routes/internal/domain/route"
)

func TestBuildFallback_StraightLineMetrics(t *testing.T) {
	// Two points one degree of latitude apart: ~111.2 km.
	wps := []route.Waypoint{
		{Lat: 0, Lng: 0, Title: "origin"},
		{Lat: 1, Lng: 0, Title: "target"},
	}

	res := buildFallback(wps, route.TransportWalking)

	assert.True(t, res.Fallback)
	assert.InDelta(t, 111194.9, res.DistanceMeters, 1.0)
	// Walking at 5 km/h.
	assert.InDelta(t, res.DistanceMeters/1000/5*3600, res.DurationSeconds, 0.001)
	assert.Equal(t, "straight-line approximation", res.Summary)

	require.Len(t, res.Geometry.Coordinates, 2)
	assert.Equal(t, route.Position{0, 0}, res.Geometry.Coordinates[0])
	assert.Equal(t, route.Position{0, 1}, res.Geometry.Coordinates[1])

	require.Len(t, res.Instructions, 1)
	assert.Equal(t, "depart", res.Instructions[0].Maneuver)
	assert.Contains(t, res.Instructions[0].Text, "target")
}

func TestBuildFallback_SpeedPerProfile(t *testing.T) {
	wps := []route.Waypoint{{Lat: 0, Lng: 0}, {Lat: 0.1, Lng: 0}}

	walking := buildFallback(wps, route.TransportWalking)
	cycling := buildFallback(wps, route.TransportCycling)
	driving := buildFallback(wps, route.TransportDriving)
	transit := buildFallback(wps, route.TransportTransit)

	assert.Equal(t, walking.DistanceMeters, cycling.DistanceMeters)
	// Faster profiles produce proportionally shorter durations.
	assert.InDelta(t, walking.DurationSeconds/3, cycling.DurationSeconds, 0.001)
	assert.InDelta(t, walking.DurationSeconds/8, driving.DurationSeconds, 0.001)
	assert.InDelta(t, walking.DurationSeconds/4, transit.DurationSeconds, 0.001)
}

func TestBuildFallback_MultiLegDistanceSums(t *testing.T) {
	wps := []route.Waypoint{
		{Lat: 0, Lng: 0},
		{Lat: 0.01, Lng: 0},
		{Lat: 0.02, Lng: 0},
	}

	res := buildFallback(wps, route.TransportWalking)
	pairwise := wps[0].DistanceTo(wps[1]) + wps[1].DistanceTo(wps[2])
	assert.InDelta(t, pairwise, res.DistanceMeters, 0.001)
}

func TestBuildFallback_UntitledDestination(t *testing.T) {
	wps := []route.Waypoint{{Lat: 0, Lng: 0}, {Lat: 0.01, Lng: 0}}

	res := buildFallback(wps, route.TransportWalking)
	assert.Contains(t, res.Instructions[0].Text, "destination")
}

func TestBuildFallback_Deterministic(t *testing.T) {
	wps := testWaypoints(5)

	first := buildFallback(wps, route.TransportCycling)
	second := buildFallback(wps, route.TransportCycling)

	assert.Equal(t, first, second)
}
