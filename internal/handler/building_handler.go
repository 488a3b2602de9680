package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/szu-oia/campus-checkin-api/internal/service"
	"github.com/szu-oia/campus-checkin-api/pkg/response"
)

// BuildingHandler exposes campus building endpoints.
type BuildingHandler struct {
	buildings *service.BuildingService
}

// NewBuildingHandler constructs BuildingHandler.
func NewBuildingHandler(buildings *service.BuildingService) *BuildingHandler {
	return &BuildingHandler{buildings: buildings}
}

// List godoc
// @Summary List campus buildings
// @Tags Buildings
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /buildings [get]
func (h *BuildingHandler) List(c *gin.Context) {
	buildings, err := h.buildings.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, buildings, nil)
}

// Get godoc
// @Summary Get one campus building
// @Tags Buildings
// @Produce json
// @Param id path string true "Building ID"
// @Success 200 {object} response.Envelope
// @Router /buildings/{id} [get]
func (h *BuildingHandler) Get(c *gin.Context) {
	building, err := h.buildings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, building, nil)
}
