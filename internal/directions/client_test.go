package directions

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/archway-discovery/service-routes/internal/domain/route"
)

func testWaypoints(n int) []route.Waypoint {
	wps := make([]route.Waypoint, n)
	for i := range wps {
		wps[i] = route.Waypoint{
			Lat:   41.40 + float64(i)*0.01,
			Lng:   2.17,
			Title: fmt.Sprintf("stop %d", i),
		}
	}
	return wps
}

const directionsBody = `{
	"routes": [{
		"geometry": {
			"type": "LineString",
			"coordinates": [[2.1744, 41.4036], [2.1650, 41.4090], [2.1527, 41.4145]]
		},
		"distance": 2470.5,
		"duration": 1778.2,
		"legs": [{
			"summary": "Carrer de Mallorca",
			"steps": [
				{"distance": 1200, "duration": 860, "maneuver": {"instruction": "Head west", "type": "depart"}},
				{"distance": 1270.5, "duration": 918.2, "maneuver": {"instruction": "Arrive at Park Guell", "type": "arrive"}}
			]
		}]
	}]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-token", srv.Client(), zap.NewNop()), srv
}

func TestBuildRoute_ParsesProviderResponse(t *testing.T) {
	var gotPath, gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(directionsBody))
	})

	res, err := client.BuildRoute(context.Background(), testWaypoints(3), BuildOptions{Transport: route.TransportWalking})
	require.NoError(t, err)

	assert.False(t, res.Fallback)
	assert.Nil(t, res.FallbackCause)
	assert.Equal(t, 2470.5, res.DistanceMeters)
	assert.Equal(t, 1778.2, res.DurationSeconds)
	assert.Equal(t, "LineString", res.Geometry.Type)
	assert.Len(t, res.Geometry.Coordinates, 3)
	require.Len(t, res.Instructions, 2)
	assert.Equal(t, "Head west", res.Instructions[0].Text)
	assert.Equal(t, "depart", res.Instructions[0].Maneuver)
	assert.Equal(t, "Carrer de Mallorca", res.Summary)

	assert.Contains(t, gotPath, "/walking/")
	assert.Contains(t, gotQuery, "access_token=test-token")
	assert.Contains(t, gotQuery, "geometries=geojson")
	assert.Contains(t, gotQuery, "steps=true")
}

func TestBuildRoute_TransitUsesWalkingProfile(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(directionsBody))
	})

	_, err := client.BuildRoute(context.Background(), testWaypoints(2), BuildOptions{Transport: route.TransportTransit})
	require.NoError(t, err)
	assert.Contains(t, gotPath, "/walking/")
}

func TestBuildRoute_DrivingExcludes(t *testing.T) {
	var gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(directionsBody))
	})

	_, err := client.BuildRoute(context.Background(), testWaypoints(2), BuildOptions{
		Transport:    route.TransportDriving,
		AvoidTolls:   true,
		AvoidFerries: true,
	})
	require.NoError(t, err)
	assert.Contains(t, gotQuery, "exclude=toll%2Cferry")
}

func TestBuildRoute_ProviderFailureClassification(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrInvalidCredential},
		{http.StatusUnprocessableEntity, ErrUnroutable},
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusInternalServerError, ErrProviderUnavailable},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("status_%d", tc.status), func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			})

			res, err := client.BuildRoute(context.Background(), testWaypoints(3), BuildOptions{Transport: route.TransportWalking})
			require.NoError(t, err, "provider failures resolve to fallback, not errors")

			assert.True(t, res.Fallback)
			assert.ErrorIs(t, res.FallbackCause, tc.want)
			assert.NotEmpty(t, res.Geometry.Coordinates)
			assert.Greater(t, res.DistanceMeters, 0.0)
		})
	}
}

func TestBuildRoute_MalformedResponseFallsBack(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"routes": []}`))
	})

	res, err := client.BuildRoute(context.Background(), testWaypoints(2), BuildOptions{Transport: route.TransportWalking})
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.ErrorIs(t, res.FallbackCause, ErrProviderUnavailable)
}

func TestBuildRoute_NoCredentialSkipsProvider(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", srv.Client(), zap.NewNop())

	res, err := client.BuildRoute(context.Background(), testWaypoints(2), BuildOptions{Transport: route.TransportWalking})
	require.NoError(t, err)

	assert.False(t, called, "no outbound request without a credential")
	assert.True(t, res.Fallback)
	assert.Nil(t, res.FallbackCause)
}

func TestBuildRoute_InsufficientWaypoints(t *testing.T) {
	client := NewClient("http://unused.invalid", "token", nil, zap.NewNop())

	for _, n := range []int{0, 1} {
		_, err := client.BuildRoute(context.Background(), testWaypoints(n), BuildOptions{Transport: route.TransportWalking})
		var insufficientErr *InsufficientWaypointsError
		require.ErrorAs(t, err, &insufficientErr)
		assert.Equal(t, n, insufficientErr.Count)
	}
}

func TestBuildRoute_TruncatesToProviderLimit(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(directionsBody))
	})

	res, err := client.BuildRoute(context.Background(), testWaypoints(30), BuildOptions{Transport: route.TransportWalking})
	require.NoError(t, err)

	assert.True(t, res.Truncated)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "25")

	// Only 25 coordinate pairs reached the provider.
	coordSegment := strings.TrimPrefix(gotPath, "/walking/")
	assert.Len(t, strings.Split(coordSegment, ";"), 25)
}

func TestBuildRoute_AtLimitNotTruncated(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(directionsBody))
	})

	res, err := client.BuildRoute(context.Background(), testWaypoints(25), BuildOptions{Transport: route.TransportWalking})
	require.NoError(t, err)
	assert.False(t, res.Truncated)
	assert.Empty(t, res.Warnings)
}
