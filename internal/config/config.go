package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration, resolved from the environment.
type Config struct {
	Port      string
	DBPath    string
	JWTSecret string
	DataDir   string // directory holding the exporter's level_*.json files
	RateLimit int    // requests per minute per client
}

// Load reads the optional .env file and resolves every setting with a
// development default.
func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./data/watergap.db"
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "./data/spatial_scales"
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "your-secret-key-change-in-production"
	}

	rateLimit := 300
	if raw := os.Getenv("RATE_LIMIT"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			rateLimit = n
		}
	}

	return &Config{
		Port:      port,
		DBPath:    dbPath,
		JWTSecret: jwtSecret,
		DataDir:   dataDir,
		RateLimit: rateLimit,
	}
}
