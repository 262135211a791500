package route

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rankRouteParams struct {
	priority      int
	transport     TransportProfile
	difficulty    Difficulty
	visibility    Visibility
	featuredUntil *time.Time
	startLat      float64
	startLng      float64
	geometry      *Geometry
}

func rankRoute(p rankRouteParams) *Route {
	if p.transport == "" {
		p.transport = TransportWalking
	}
	if p.visibility == "" {
		p.visibility = VisibilityPublic
	}
	now := time.Now().UTC()
	stops := []Waypoint{
		{Lat: p.startLat, Lng: p.startLng, Title: "start"},
		{Lat: p.startLat + 0.01, Lng: p.startLng, Title: "end"},
	}
	return Reconstruct(
		uuid.New(), "test route", "", "Barcelona", "Spain", uuid.New(),
		p.visibility, p.featuredUntil, StatusPublished, SourceUser,
		p.priority, p.transport, p.difficulty,
		p.geometry, nil, stops, 1, now, now,
	)
}

func TestSelectForMap_ProximityTiers(t *testing.T) {
	user := &UserLocation{Lat: 0, Lng: 0}

	cases := []struct {
		latOffset float64
		bonus     int
	}{
		{0.005, 20}, // ~550 m
		{0.02, 15},  // ~2.2 km
		{0.04, 10},  // ~4.4 km
		{0.08, 5},   // ~8.9 km
		{0.2, 0},    // ~22 km
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("offset_%v", tc.latOffset), func(t *testing.T) {
			r := rankRoute(rankRouteParams{priority: 50, startLat: tc.latOffset})

			scored := SelectForMap([]*Route{r}, MapSelection{UserLocation: user})

			require.Len(t, scored, 1)
			assert.Equal(t, 50+tc.bonus, scored[0].Score)
			require.NotNil(t, scored[0].DistanceFromUser)
		})
	}
}

func TestSelectForMap_NoLocationNoProximityBonus(t *testing.T) {
	r := rankRoute(rankRouteParams{priority: 70})

	scored := SelectForMap([]*Route{r}, MapSelection{})

	require.Len(t, scored, 1)
	assert.Equal(t, 70, scored[0].Score)
	assert.Nil(t, scored[0].DistanceFromUser)
}

func TestSelectForMap_TransportMatchBonus(t *testing.T) {
	r := rankRoute(rankRouteParams{priority: 50, transport: TransportCycling})
	prefs := &Preferences{TransportModes: []TransportProfile{TransportCycling}}

	scored := SelectForMap([]*Route{r}, MapSelection{Preferences: prefs})

	require.Len(t, scored, 1)
	assert.Equal(t, 60, scored[0].Score)
}

func TestSelectForMap_PreferencesAreHardFilters(t *testing.T) {
	walking := rankRoute(rankRouteParams{priority: 90, transport: TransportWalking})
	cycling := rankRoute(rankRouteParams{priority: 50, transport: TransportCycling})
	prefs := &Preferences{TransportModes: []TransportProfile{TransportCycling}}

	scored := SelectForMap([]*Route{walking, cycling}, MapSelection{Preferences: prefs})

	require.Len(t, scored, 1)
	assert.Equal(t, cycling.ID(), scored[0].Route.ID())
}

func TestSelectForMap_DifficultyFilter(t *testing.T) {
	easy := rankRoute(rankRouteParams{priority: 50, difficulty: DifficultyEasy})
	hard := rankRoute(rankRouteParams{priority: 50, difficulty: DifficultyHard})
	prefs := &Preferences{DifficultyLevels: []Difficulty{DifficultyEasy}}

	scored := SelectForMap([]*Route{easy, hard}, MapSelection{Preferences: prefs})

	require.Len(t, scored, 1)
	assert.Equal(t, easy.ID(), scored[0].Route.ID())
}

func TestSelectForMap_FeaturedBonus(t *testing.T) {
	until := time.Now().UTC().Add(24 * time.Hour)
	featured := rankRoute(rankRouteParams{priority: 100, visibility: VisibilityFeatured, featuredUntil: &until})

	scored := SelectForMap([]*Route{featured}, MapSelection{})

	require.Len(t, scored, 1)
	assert.Equal(t, 130, scored[0].Score)
}

func TestSelectForMap_ExpiredFeaturedGetsNoBonus(t *testing.T) {
	until := time.Now().UTC().Add(-time.Hour)
	expired := rankRoute(rankRouteParams{priority: 100, visibility: VisibilityFeatured, featuredUntil: &until})

	scored := SelectForMap([]*Route{expired}, MapSelection{})

	require.Len(t, scored, 1)
	assert.Equal(t, 100, scored[0].Score)
}

func TestSelectForMap_BoundsFilter(t *testing.T) {
	inside := rankRoute(rankRouteParams{
		priority: 50,
		geometry: &Geometry{Type: "LineString", Coordinates: []Position{{2.17, 41.40}}},
	})
	outside := rankRoute(rankRouteParams{
		priority: 50,
		geometry: &Geometry{Type: "LineString", Coordinates: []Position{{-3.70, 40.41}}},
	})
	noGeometry := rankRoute(rankRouteParams{priority: 50})

	bounds := &Bounds{MinLat: 41.0, MinLng: 2.0, MaxLat: 42.0, MaxLng: 2.5}

	scored := SelectForMap([]*Route{inside, outside, noGeometry}, MapSelection{Bounds: bounds})

	ids := make(map[uuid.UUID]bool)
	for _, s := range scored {
		ids[s.Route.ID()] = true
	}
	assert.True(t, ids[inside.ID()])
	assert.False(t, ids[outside.ID()])
	assert.True(t, ids[noGeometry.ID()], "routes without geometry pass the bounds filter")
}

func TestSelectForMap_BoundedAndSortedDescending(t *testing.T) {
	pool := make([]*Route, 0, 40)
	for i := 0; i < 40; i++ {
		pool = append(pool, rankRoute(rankRouteParams{priority: i}))
	}

	scored := SelectForMap(pool, MapSelection{})

	assert.Len(t, scored, DefaultMaxMapRoutes)
	for i := 1; i < len(scored); i++ {
		assert.GreaterOrEqual(t, scored[i-1].Score, scored[i].Score)
	}
}

func TestSelectForMap_ExplicitMaxRoutes(t *testing.T) {
	pool := []*Route{
		rankRoute(rankRouteParams{priority: 80}),
		rankRoute(rankRouteParams{priority: 70}),
		rankRoute(rankRouteParams{priority: 60}),
	}

	scored := SelectForMap(pool, MapSelection{MaxRoutes: 2})

	require.Len(t, scored, 2)
	assert.Equal(t, 80, scored[0].Score)
	assert.Equal(t, 70, scored[1].Score)
}

func TestSelectForMap_TieBreakIsDeterministic(t *testing.T) {
	a := rankRoute(rankRouteParams{priority: 50})
	b := rankRoute(rankRouteParams{priority: 50})

	first := SelectForMap([]*Route{a, b}, MapSelection{})
	second := SelectForMap([]*Route{b, a}, MapSelection{})

	require.Len(t, first, 2)
	require.Len(t, second, 2)
	assert.Equal(t, first[0].Route.ID(), second[0].Route.ID())
	assert.Equal(t, first[1].Route.ID(), second[1].Route.ID())
}

func TestSelectForMap_EmptyPool(t *testing.T) {
	scored := SelectForMap(nil, MapSelection{})
	assert.Empty(t, scored)
}
