package handlers

import (
	"net/http"

	"floorwatch/internal/models"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK = "ok"

	errEquipmentNotFound = "equipment not found"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      List equipment statuses
// @Tags         equipment
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "equipment"
// @Router       /api/v1/equipment [get]
func (h *Handler) listEquipment(c *gin.Context) {
	views := h.services.Monitoring.Snapshot()
	c.JSON(http.StatusOK, gin.H{"equipment": views, "count": len(views)})
}

// @Summary      Get one equipment status
// @Tags         equipment
// @Produce      json
// @Param        id   path      string  true  "frontend id"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/equipment/{id} [get]
func (h *Handler) getEquipment(c *gin.Context) {
	id := models.EquipmentID(c.Param("id"))
	view, ok := h.services.Monitoring.Equipment(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": errEquipmentNotFound})
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary      Per-status equipment counts
// @Tags         equipment
// @Produce      json
// @Success      200  {object}  map[string]int
// @Router       /api/v1/equipment/statistics [get]
func (h *Handler) getStatistics(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Monitoring.Statistics())
}

// @Summary      Upstream stream connection state
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/connection [get]
func (h *Handler) getConnection(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Monitoring.Connection())
}
