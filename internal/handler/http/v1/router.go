package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/shenikar/field_dispatch/internal/models"
)

// RegisterRoutes регистрирует все маршруты API v1.
// Дополнительные обработчики (например, WebSocket) подключаются к защищенной группе через extra.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup, extra ...func(secured *gin.RouterGroup)) {
	// Маршрут Health-check без аутентификации
	api.GET("/system/health", h.healthCheck)

	secured := api.Group("")
	secured.Use(BearerAuthMiddleware(h.cfg, h.logger))

	incidents := secured.Group("/incidents")
	{
		incidents.POST("", h.reportIncident)
		incidents.GET("", h.listIncidents)
		incidents.GET("/nearby", h.nearbyIncidents)
		incidents.GET("/:id", h.getIncident)
		incidents.POST("/:id/claim", h.claimIncident)
		incidents.POST("/:id/complete", h.completeIncident)
	}

	officers := secured.Group("/officers")
	{
		officers.POST("/me/status", h.setStatus)
		officers.POST("/me/heartbeat", h.heartbeat)
		officers.POST("/me/logout", h.logout)
		officers.GET("/by-status", h.officersByStatus)
		officers.GET("/online", h.onlineOfficers)
		officers.POST("/me/location", h.updateLocation)
		officers.GET("/locations", h.liveLocations)
		officers.GET("", RequireCapability(models.CapListOfficers), h.listOfficers)
		officers.PUT("/:id", RequireCapability(models.CapEditProfiles), h.updateOfficer)
	}

	messages := secured.Group("/messages")
	{
		messages.POST("", h.postMessage)
		messages.GET("", h.listMessages)
	}

	secured.GET("/admin/stats", RequireCapability(models.CapViewStats), h.getStats)

	for _, register := range extra {
		register(secured)
	}
}
