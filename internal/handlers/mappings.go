package handlers

import (
	"net/http"

	"floorwatch/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	statusMappingSet = "mapping_set"

	errSetMapping      = "failed to persist mapping"
	errInvalidBodyPref = "invalid body: "
)

// Request DTO for linking/unlinking an equipment.
type mappingRequest struct {
	Linked *bool `json:"linked" binding:"required"`
}

// SetMappingRequest is an exported model for Swagger docs of the setMapping payload.
type SetMappingRequest struct {
	// Whether the frontend equipment slot is linked to a backend record
	Linked bool `json:"linked" example:"true"`
}

// @Summary      List equipment mappings
// @Tags         mappings
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/mappings [get]
func (h *Handler) listMappings(c *gin.Context) {
	rows := h.services.Mappings.All()
	c.JSON(http.StatusOK, gin.H{"mappings": rows, "count": len(rows)})
}

// @Summary      Link or unlink an equipment
// @Description  Linking resets the equipment to OFF until a fresh status arrives; unlinking disables it
// @Tags         mappings
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "frontend id"
// @Param        body  body  SetMappingRequest  true  "Mapping payload"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/mappings/{id} [put]
func (h *Handler) setMapping(c *gin.Context) {
	var req mappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	id := models.EquipmentID(c.Param("id"))

	if err := h.services.Mappings.Set(c.Request.Context(), id, *req.Linked); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errSetMapping, "mapping_set_failed", err, "frontend_id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":      statusMappingSet,
		"frontend_id": id,
		"linked":      *req.Linked,
	})
}
