package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/terrisol/watergap-backend-go/internal/config"
	"github.com/terrisol/watergap-backend-go/internal/handler"
	"github.com/terrisol/watergap-backend-go/internal/middleware"
)

// Handlers bundles the wired handlers for router setup.
type Handlers struct {
	Dataset *handler.DatasetHandler
	Raster  *handler.RasterHandler
	Series  *handler.SeriesHandler
}

// SetupRouter wires middleware and routes.
func SetupRouter(cfg *config.Config, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// CORS: the viewer is served from a separate origin in development.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Watergap API is running",
		})
	})

	limiter := middleware.NewRateLimiter(cfg.RateLimit, time.Minute)

	api := r.Group("/api/v1")
	api.Use(limiter.Middleware())
	{
		api.GET("/metrics", h.Dataset.GetMetrics)
		api.GET("/levels", h.Dataset.GetLevels)
		api.GET("/points", h.Dataset.GetPoints)

		api.GET("/raster", h.Raster.GetRaster)
		api.GET("/legend", h.Raster.GetLegend)

		series := api.Group("/series")
		{
			series.GET("/:pointID", h.Series.GetSeries)
			series.GET("/:pointID/chart.png", h.Series.GetSeriesChart)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.JWTAuth(cfg.JWTSecret))
		{
			admin.POST("/reload", h.Dataset.ReloadDataset)
		}
	}

	return r
}
