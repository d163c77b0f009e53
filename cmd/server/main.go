package main

import (
	"log"

	"github.com/terrisol/watergap-backend-go/internal/api"
	"github.com/terrisol/watergap-backend-go/internal/config"
	"github.com/terrisol/watergap-backend-go/internal/database"
	"github.com/terrisol/watergap-backend-go/internal/handler"
	"github.com/terrisol/watergap-backend-go/internal/repository"
	"github.com/terrisol/watergap-backend-go/internal/service"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(database.Config{Path: cfg.DBPath})
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	repo := repository.NewDatasetRepository(db)
	rasterSvc := service.NewRasterService(repo)
	seriesSvc := service.NewSeriesService(repo)
	datasetSvc := service.NewDatasetService(repo, rasterSvc)

	router := api.SetupRouter(cfg, api.Handlers{
		Dataset: handler.NewDatasetHandler(datasetSvc),
		Raster:  handler.NewRasterHandler(rasterSvc),
		Series:  handler.NewSeriesHandler(seriesSvc),
	})

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
