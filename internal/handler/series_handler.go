package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/terrisol/watergap-backend-go/internal/models"
	"github.com/terrisol/watergap-backend-go/internal/service"
	"github.com/terrisol/watergap-backend-go/pkg/response"
)

// SeriesHandler handles HTTP requests for per-point time series
type SeriesHandler struct {
	service *service.SeriesService
}

// NewSeriesHandler creates a new series handler
func NewSeriesHandler(service *service.SeriesService) *SeriesHandler {
	return &SeriesHandler{service: service}
}

// GetSeries handles GET /api/v1/series/:pointID
func (h *SeriesHandler) GetSeries(c *gin.Context) {
	pointID, season, ok := h.bindParams(c)
	if !ok {
		return
	}

	series, err := h.service.Series(pointID, season)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, series)
}

// GetSeriesChart handles GET /api/v1/series/:pointID/chart.png
func (h *SeriesHandler) GetSeriesChart(c *gin.Context) {
	pointID, season, ok := h.bindParams(c)
	if !ok {
		return
	}

	png, err := h.service.Chart(pointID, season)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (h *SeriesHandler) bindParams(c *gin.Context) (int64, models.SeasonFilter, bool) {
	pointID, err := strconv.ParseInt(c.Param("pointID"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid point id")
		return 0, 0, false
	}

	var filter models.SeriesFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return 0, 0, false
	}
	season, err := models.ParseSeason(filter.Season)
	if err != nil {
		response.BadRequest(c, err.Error())
		return 0, 0, false
	}
	return pointID, season, true
}
