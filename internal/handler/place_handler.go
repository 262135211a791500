package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/archway-discovery/service-routes/internal/application"
	"github.com/archway-discovery/service-routes/internal/platform/auth"
	"github.com/archway-discovery/service-routes/internal/platform/middleware"
	"github.com/archway-discovery/service-routes/internal/platform/response"
)

// PlaceHandler handles HTTP requests for the landmark catalog.
type PlaceHandler struct {
	service *application.PlaceService
}

// NewPlaceHandler creates a new PlaceHandler.
func NewPlaceHandler(service *application.PlaceService) *PlaceHandler {
	return &PlaceHandler{service: service}
}

// RegisterRoutes registers landmark endpoints. Reads are public; writes
// require the editor role.
func (h *PlaceHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	places := r.Group("/api/v1/places")
	{
		places.GET("", h.ListPlaces)
		places.GET("/:id", h.GetPlace)
	}

	editors := r.Group("/api/v1/places")
	editors.Use(middleware.AuthMiddleware(jwtManager), middleware.RequireRole(auth.RoleEditor))
	{
		editors.POST("", h.CreatePlace)
		editors.PUT("/:id", h.UpdatePlace)
		editors.DELETE("/:id", h.ArchivePlace)
	}
}

// ListPlaces handles GET /api/v1/places?city=...
func (h *PlaceHandler) ListPlaces(c *gin.Context) {
	city := c.Query("city")
	if city == "" {
		response.BadRequest(c, "city is required")
		return
	}

	page, limit := parsePagination(c)

	result, err := h.service.GetCityPlaces(c.Request.Context(), city, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetPlace handles GET /api/v1/places/:id.
func (h *PlaceHandler) GetPlace(c *gin.Context) {
	placeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid place ID")
		return
	}

	result, err := h.service.GetPlace(c.Request.Context(), placeID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CreatePlace handles POST /api/v1/places.
func (h *PlaceHandler) CreatePlace(c *gin.Context) {
	var req application.CreatePlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreatePlace(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// UpdatePlace handles PUT /api/v1/places/:id.
func (h *PlaceHandler) UpdatePlace(c *gin.Context) {
	placeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid place ID")
		return
	}

	var req application.UpdatePlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdatePlace(c.Request.Context(), placeID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ArchivePlace handles DELETE /api/v1/places/:id.
func (h *PlaceHandler) ArchivePlace(c *gin.Context) {
	placeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid place ID")
		return
	}

	if err := h.service.ArchivePlace(c.Request.Context(), placeID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"archived": true})
}
