package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/archway-discovery/service-routes/internal/application"
	routeDomain "github.com/archway-discovery/service-routes/internal/domain/route"
	"github.com/archway-discovery/service-routes/internal/platform/response"
)

// MapHandler serves the public map route selection.
type MapHandler struct {
	service *application.MapService
}

// NewMapHandler creates a new MapHandler.
func NewMapHandler(service *application.MapService) *MapHandler {
	return &MapHandler{service: service}
}

// RegisterRoutes registers the public map endpoints. No auth: the selection
// only ever exposes published routes.
func (h *MapHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/api/v1/map/routes", h.MapRoutes)
}

// MapRoutes handles GET /api/v1/map/routes.
//
// Query parameters: city (required), max_routes, lat, lng,
// transport (comma-separated), difficulty (comma-separated),
// bounds (min_lat,min_lng,max_lat,max_lng).
func (h *MapHandler) MapRoutes(c *gin.Context) {
	query := application.MapQuery{
		City: c.Query("city"),
	}

	if raw := c.Query("max_routes"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(c, "invalid max_routes")
			return
		}
		query.MaxRoutes = n
	}

	if latRaw, lngRaw := c.Query("lat"), c.Query("lng"); latRaw != "" && lngRaw != "" {
		lat, latErr := strconv.ParseFloat(latRaw, 64)
		lng, lngErr := strconv.ParseFloat(lngRaw, 64)
		if latErr != nil || lngErr != nil {
			response.BadRequest(c, "invalid lat/lng")
			return
		}
		query.UserLocation = &routeDomain.UserLocation{Lat: lat, Lng: lng}
	}

	prefs := parsePreferences(c)
	if prefs != nil {
		query.Preferences = prefs
	}

	if raw := c.Query("bounds"); raw != "" {
		bounds, err := parseBounds(raw)
		if err != nil {
			response.BadRequest(c, "invalid bounds, expected min_lat,min_lng,max_lat,max_lng")
			return
		}
		query.Bounds = bounds
	}

	result, err := h.service.SelectRoutes(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

func parsePreferences(c *gin.Context) *routeDomain.Preferences {
	var prefs routeDomain.Preferences

	if raw := c.Query("transport"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			mode := routeDomain.TransportProfile(strings.TrimSpace(part))
			if mode.IsValid() {
				prefs.TransportModes = append(prefs.TransportModes, mode)
			}
		}
	}
	if raw := c.Query("difficulty"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			level := routeDomain.Difficulty(strings.TrimSpace(part))
			if level.IsValid() {
				prefs.DifficultyLevels = append(prefs.DifficultyLevels, level)
			}
		}
	}

	if len(prefs.TransportModes) == 0 && len(prefs.DifficultyLevels) == 0 {
		return nil
	}
	return &prefs
}

func parseBounds(raw string) (*routeDomain.Bounds, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return nil, strconv.ErrSyntax
	}

	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}

	return &routeDomain.Bounds{
		MinLat: vals[0],
		MinLng: vals[1],
		MaxLat: vals[2],
		MaxLng: vals[3],
	}, nil
}
