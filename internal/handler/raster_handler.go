package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/terrisol/watergap-backend-go/internal/models"
	"github.com/terrisol/watergap-backend-go/internal/service"
	"github.com/terrisol/watergap-backend-go/pkg/response"
)

// RasterHandler handles HTTP requests for interpolated rasters
type RasterHandler struct {
	service *service.RasterService
}

// NewRasterHandler creates a new raster handler
func NewRasterHandler(service *service.RasterService) *RasterHandler {
	return &RasterHandler{service: service}
}

// GetRaster handles GET /api/v1/raster
func (h *RasterHandler) GetRaster(c *gin.Context) {
	var filter models.RasterFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}
	if filter.Metric == "" {
		filter.Metric = models.MetricGap.Key()
	}

	raster, err := h.service.BuildRaster(filter)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, raster)
}

// GetLegend handles GET /api/v1/legend
func (h *RasterHandler) GetLegend(c *gin.Context) {
	var filter models.LegendFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}
	if filter.Metric == "" {
		filter.Metric = models.MetricGap.Key()
	}

	legend, err := h.service.Legend(filter)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, legend)
}
