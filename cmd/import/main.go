package main

import (
	"flag"
	"log"

	"github.com/terrisol/watergap-backend-go/internal/config"
	"github.com/terrisol/watergap-backend-go/internal/database"
	"github.com/terrisol/watergap-backend-go/internal/ingest"
)

func main() {
	cfg := config.Load()
	dataDir := flag.String("data", cfg.DataDir, "directory containing level_*_weekly.json files")
	flag.Parse()

	db, err := database.Open(database.Config{Path: cfg.DBPath})
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	if err := ingest.ImportDir(db, *dataDir); err != nil {
		log.Fatal("Import failed:", err)
	}
	log.Println("Import complete")
}
