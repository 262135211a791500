package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/archway-discovery/service-routes/internal/application"
	"github.com/archway-discovery/service-routes/internal/platform/auth"
	"github.com/archway-discovery/service-routes/internal/platform/middleware"
	"github.com/archway-discovery/service-routes/internal/platform/response"
)

// RouteHandler handles HTTP requests for route operations.
type RouteHandler struct {
	service    *application.RouteService
	generation *application.GenerationService
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(service *application.RouteService, generation *application.GenerationService) *RouteHandler {
	return &RouteHandler{service: service, generation: generation}
}

// RegisterRoutes registers all route endpoints on the given router group.
func (h *RouteHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	routes := r.Group("/api/v1/routes")
	routes.Use(authMW)
	{
		routes.POST("/preview", h.PreviewRoute)
		routes.POST("/reorder", h.ReorderRoute)
		routes.POST("/generate", h.GenerateRoute)
		routes.POST("", h.CreateRoute)
		routes.GET("", h.ListMyRoutes)
		routes.GET("/:id", h.GetRoute)
		routes.POST("/:id/submit", h.SubmitRoute)
		routes.POST("/:id/archive", h.ArchiveRoute)
	}
}

// PreviewRoute handles POST /api/v1/routes/preview.
func (h *RouteHandler) PreviewRoute(c *gin.Context) {
	var req application.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.PreviewRoute(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ReorderRoute handles POST /api/v1/routes/reorder.
func (h *RouteHandler) ReorderRoute(c *gin.Context) {
	var req application.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.ReorderRoute(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GenerateRoute handles POST /api/v1/routes/generate.
func (h *RouteHandler) GenerateRoute(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.GenerateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.generation.GenerateRoute(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// CreateRoute handles POST /api/v1/routes.
func (h *RouteHandler) CreateRoute(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.CreateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateRoute(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListMyRoutes handles GET /api/v1/routes. Returns the caller's own routes.
func (h *RouteHandler) ListMyRoutes(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	page, limit := parsePagination(c)

	result, err := h.service.GetCreatorRoutes(c.Request.Context(), userID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetRoute handles GET /api/v1/routes/:id.
func (h *RouteHandler) GetRoute(c *gin.Context) {
	routeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid route ID")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	role, _ := middleware.GetUserRole(c)

	result, err := h.service.GetRoute(c.Request.Context(), routeID, userID, role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// SubmitRoute handles POST /api/v1/routes/:id/submit.
func (h *RouteHandler) SubmitRoute(c *gin.Context) {
	routeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid route ID")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.service.SubmitRoute(c.Request.Context(), routeID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ArchiveRoute handles POST /api/v1/routes/:id/archive.
func (h *RouteHandler) ArchiveRoute(c *gin.Context) {
	routeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid route ID")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	role, _ := middleware.GetUserRole(c)

	result, err := h.service.ArchiveRoute(c.Request.Context(), routeID, userID, role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// parsePagination extracts page and limit query parameters with defaults.
func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	return page, limit
}
