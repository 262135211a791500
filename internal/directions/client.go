package directions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/archway-discovery/service-routes/internal/domain/route"
)

// maxProviderWaypoints is the provider's per-request waypoint limit. Larger
// inputs are cut to this size and the result is marked Truncated so callers
// can surface the loss instead of discovering it later.
const maxProviderWaypoints = 25

// BuildOptions tunes a single route build.
type BuildOptions struct {
	Transport    route.TransportProfile
	AvoidTolls   bool // driving only
	AvoidFerries bool // driving only

	// PreferGreen applies to cycling. The provider exposes no equivalent
	// request option, so it is carried for API parity and ignored.
	PreferGreen bool
}

// Result is a fully populated route build outcome. Fallback marks geometry
// that was synthesized as straight segments rather than provider-routed;
// FallbackCause carries the classified provider error when one occurred, so
// callers can distinguish retryable conditions without the build failing.
type Result struct {
	Geometry        route.Geometry      `json:"geometry"`
	DistanceMeters  float64             `json:"distance_meters"`
	DurationSeconds float64             `json:"duration_seconds"`
	Instructions    []route.Instruction `json:"instructions"`
	Summary         string              `json:"summary"`

	Fallback      bool     `json:"fallback"`
	FallbackCause error    `json:"-"`
	Truncated     bool     `json:"truncated"`
	Warnings      []string `json:"warnings,omitempty"`
}

// Metrics converts the result into stored route metrics.
func (r *Result) Metrics() *route.Metrics {
	return &route.Metrics{
		DistanceMeters:  r.DistanceMeters,
		DurationSeconds: r.DurationSeconds,
		Instructions:    r.Instructions,
	}
}

// Client turns an ordered waypoint list into drawable geometry and metrics
// via the Mapbox Directions API, with deterministic straight-line fallback.
type Client struct {
	baseURL     string
	accessToken string
	hc          *http.Client
	logger      *zap.Logger
}

// NewClient creates a directions client. An empty access token is valid and
// puts the client in permanent fallback mode. If httpClient is nil a default
// with a timeout is used.
func NewClient(baseURL, accessToken string, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
		hc:          httpClient,
		logger:      logger,
	}
}

// BuildRoute builds a route over the waypoints in order. It always returns a
// fully populated result; provider failures are classified, logged and
// resolved through fallback. The only returned error is
// *InsufficientWaypointsError for fewer than two waypoints.
//
// At most one outbound HTTP request is made per invocation and no retries
// are performed internally.
func (c *Client) BuildRoute(ctx context.Context, waypoints []route.Waypoint, opts BuildOptions) (*Result, error) {
	if len(waypoints) < 2 {
		return nil, &InsufficientWaypointsError{Count: len(waypoints)}
	}
	if !opts.Transport.IsValid() {
		opts.Transport = route.TransportWalking
	}

	truncated := false
	var warnings []string
	if len(waypoints) > maxProviderWaypoints {
		waypoints = waypoints[:maxProviderWaypoints]
		truncated = true
		warnings = append(warnings,
			fmt.Sprintf("waypoint list exceeds the provider limit; only the first %d were routed", maxProviderWaypoints))
	}

	if c.accessToken == "" {
		c.logger.Debug("no directions credential configured, using straight-line geometry")
		res := buildFallback(waypoints, opts.Transport)
		res.Truncated = truncated
		res.Warnings = append(warnings, res.Warnings...)
		return res, nil
	}

	res, err := c.requestDirections(ctx, waypoints, opts)
	if err != nil {
		c.logProviderFailure(err)
		fb := buildFallback(waypoints, opts.Transport)
		fb.FallbackCause = err
		fb.Truncated = truncated
		fb.Warnings = append(warnings, fb.Warnings...)
		return fb, nil
	}

	res.Truncated = truncated
	res.Warnings = warnings
	return res, nil
}

// logProviderFailure logs credential problems distinctly from routing
// failures: a bad token is a deployment issue, not a transient one.
func (c *Client) logProviderFailure(err error) {
	switch err {
	case ErrInvalidCredential:
		c.logger.Error("directions credential rejected, check deployment configuration", zap.Error(err))
	case ErrRateLimited:
		c.logger.Warn("directions provider rate limited", zap.Error(err))
	case ErrUnroutable:
		c.logger.Info("waypoints unroutable, serving straight-line geometry", zap.Error(err))
	default:
		c.logger.Warn("directions provider unavailable", zap.Error(err))
	}
}

// directionsResponse mirrors the provider's JSON shape.
type directionsResponse struct {
	Routes []struct {
		Geometry struct {
			Type        string       `json:"type"`
			Coordinates [][2]float64 `json:"coordinates"`
		} `json:"geometry"`
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Legs     []struct {
			Summary string `json:"summary"`
			Steps   []struct {
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
				Maneuver struct {
					Instruction string `json:"instruction"`
					Type        string `json:"type"`
				} `json:"maneuver"`
			} `json:"steps"`
		} `json:"legs"`
	} `json:"routes"`
}

func (c *Client) requestDirections(ctx context.Context, waypoints []route.Waypoint, opts BuildOptions) (*Result, error) {
	reqURL := c.requestURL(waypoints, opts)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, ErrProviderUnavailable
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, ErrProviderUnavailable
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return nil, ErrInvalidCredential
	case http.StatusUnprocessableEntity:
		return nil, ErrUnroutable
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, ErrProviderUnavailable
	}

	var body directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, ErrProviderUnavailable
	}
	if len(body.Routes) == 0 {
		return nil, ErrProviderUnavailable
	}

	r := body.Routes[0]

	coords := make([]route.Position, len(r.Geometry.Coordinates))
	for i, c := range r.Geometry.Coordinates {
		coords[i] = route.Position(c)
	}

	var instructions []route.Instruction
	var summaries []string
	for _, leg := range r.Legs {
		if leg.Summary != "" {
			summaries = append(summaries, leg.Summary)
		}
		for _, step := range leg.Steps {
			instructions = append(instructions, route.Instruction{
				Text:            step.Maneuver.Instruction,
				Maneuver:        step.Maneuver.Type,
				DistanceMeters:  step.Distance,
				DurationSeconds: step.Duration,
			})
		}
	}

	return &Result{
		Geometry:        route.NewLineString(coords),
		DistanceMeters:  r.Distance,
		DurationSeconds: r.Duration,
		Instructions:    instructions,
		Summary:         strings.Join(summaries, ", "),
	}, nil
}

// requestURL builds the provider request: waypoints as lon,lat pairs joined
// by semicolons, with steps and full GeoJSON geometry.
func (c *Client) requestURL(waypoints []route.Waypoint, opts BuildOptions) string {
	coords := make([]string, len(waypoints))
	for i, w := range waypoints {
		coords[i] = fmt.Sprintf("%f,%f", w.Lng, w.Lat)
	}

	q := url.Values{}
	q.Set("access_token", c.accessToken)
	q.Set("steps", "true")
	q.Set("geometries", "geojson")
	q.Set("overview", "full")
	q.Set("annotations", "duration,distance")

	if opts.Transport == route.TransportDriving {
		var excludes []string
		if opts.AvoidTolls {
			excludes = append(excludes, "toll")
		}
		if opts.AvoidFerries {
			excludes = append(excludes, "ferry")
		}
		if len(excludes) > 0 {
			q.Set("exclude", strings.Join(excludes, ","))
		}
	}

	return fmt.Sprintf("%s/%s/%s?%s",
		c.baseURL,
		opts.Transport.DirectionsProfile(),
		strings.Join(coords, ";"),
		q.Encode(),
	)
}
