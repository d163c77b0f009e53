package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/terrisol/watergap-backend-go/internal/models"
	"github.com/terrisol/watergap-backend-go/internal/service"
	"github.com/terrisol/watergap-backend-go/pkg/response"
)

// DatasetHandler handles HTTP requests for dataset metadata and raw points
type DatasetHandler struct {
	service *service.DatasetService
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(service *service.DatasetService) *DatasetHandler {
	return &DatasetHandler{service: service}
}

// GetMetrics handles GET /api/v1/metrics
func (h *DatasetHandler) GetMetrics(c *gin.Context) {
	response.Success(c, gin.H{
		"metrics": h.service.Metrics(),
	})
}

// GetLevels handles GET /api/v1/levels
func (h *DatasetHandler) GetLevels(c *gin.Context) {
	levels, err := h.service.Levels()
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{
		"levels": levels,
		"count":  len(levels),
	})
}

// GetPoints handles GET /api/v1/points
func (h *DatasetHandler) GetPoints(c *gin.Context) {
	var filter models.PointsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}
	if filter.Metric == "" {
		filter.Metric = models.MetricGap.Key()
	}

	points, err := h.service.Points(filter)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{
		"points": points,
		"count":  len(points),
	})
}

// ReloadDataset handles POST /api/v1/admin/reload
func (h *DatasetHandler) ReloadDataset(c *gin.Context) {
	h.service.Reload()
	response.Success(c, gin.H{"reloaded": true})
}
