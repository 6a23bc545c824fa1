package handlers

import (
	"floorwatch/internal/logger"
	"floorwatch/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Versioned API endpoints
	h.registerAPIRoutes(router)

	// Dashboard push stream (HTTP upgrade) — same port
	router.GET("/ws", h.wsDashboard)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		h.registerEquipmentRoutes(api)
		h.registerMappingRoutes(api)
	}
}

func (h *Handler) registerEquipmentRoutes(api *gin.RouterGroup) {
	equipment := api.Group("/equipment")
	{
		equipment.GET("", h.listEquipment)
		equipment.GET("/statistics", h.getStatistics)
		equipment.GET("/:id", h.getEquipment)
	}
	api.GET("/connection", h.getConnection)
}

func (h *Handler) registerMappingRoutes(api *gin.RouterGroup) {
	mappings := api.Group("/mappings")
	{
		mappings.GET("", h.listMappings)
		// Body example: {"linked":true}
		mappings.PUT("/:id", h.setMapping)
	}
}
