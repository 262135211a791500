package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/archway-discovery/service-routes/internal/application"
	"github.com/archway-discovery/service-routes/internal/platform/auth"
	"github.com/archway-discovery/service-routes/internal/platform/middleware"
	"github.com/archway-discovery/service-routes/internal/platform/response"
)

// AdminRouteHandler handles moderation and catalog-wide route management.
type AdminRouteHandler struct {
	service *application.RouteService
}

// NewAdminRouteHandler creates a new AdminRouteHandler.
func NewAdminRouteHandler(service *application.RouteService) *AdminRouteHandler {
	return &AdminRouteHandler{service: service}
}

// RegisterRoutes registers admin route endpoints. Moderation actions are open
// to editors; featuring and stats are admin only.
func (h *AdminRouteHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	admin := r.Group("/api/v1/admin")
	admin.Use(authMW)
	{
		editors := admin.Group("", middleware.RequireRole(auth.RoleEditor))
		{
			editors.GET("/routes", h.ListRoutes)
			editors.POST("/routes/:id/publish", h.PublishRoute)
			editors.POST("/routes/:id/reject", h.RejectRoute)
		}

		admins := admin.Group("", middleware.RequireRole(auth.RoleAdmin))
		{
			admins.POST("/routes/:id/feature", h.FeatureRoute)
			admins.GET("/stats/routes", h.RouteStats)
		}
	}
}

// ListRoutes handles GET /api/v1/admin/routes.
func (h *AdminRouteHandler) ListRoutes(c *gin.Context) {
	page, limit := parsePagination(c)

	routes, total, err := h.service.ListAllRoutes(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, routes, total, page, limit)
}

// PublishRoute handles POST /api/v1/admin/routes/:id/publish.
func (h *AdminRouteHandler) PublishRoute(c *gin.Context) {
	routeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid route ID")
		return
	}

	result, err := h.service.PublishRoute(c.Request.Context(), routeID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// RejectRoute handles POST /api/v1/admin/routes/:id/reject.
func (h *AdminRouteHandler) RejectRoute(c *gin.Context) {
	routeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid route ID")
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&body)

	result, err := h.service.RejectRoute(c.Request.Context(), routeID, body.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// FeatureRoute handles POST /api/v1/admin/routes/:id/feature.
func (h *AdminRouteHandler) FeatureRoute(c *gin.Context) {
	routeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid route ID")
		return
	}

	var body struct {
		FeaturedUntil string `json:"featured_until"`
	}
	_ = c.ShouldBindJSON(&body)

	until, err := parseFeatureUntil(body.FeaturedUntil)
	if err != nil {
		response.BadRequest(c, "invalid featured_until, expected RFC 3339")
		return
	}

	result, err := h.service.FeatureRoute(c.Request.Context(), routeID, until)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// RouteStats handles GET /api/v1/admin/stats/routes.
func (h *AdminRouteHandler) RouteStats(c *gin.Context) {
	stats, err := h.service.GetRouteStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}

// parseFeatureUntil reads an RFC 3339 featured-until value, defaulting to 30
// days from now when absent.
func parseFeatureUntil(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now().UTC().Add(30 * 24 * time.Hour), nil
	}
	return time.Parse(time.RFC3339, raw)
}
