package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config carries everything the process reads from the environment.
type Config struct {
	Port string

	// Hosted backend endpoints
	RemoteURL    string // base URL of the hosted backend (auth + row API)
	FunctionsURL string // base URL for serverless function invocation
	APIKey       string // public api key sent alongside every remote call
	JWTSecret    string // secret used to verify the provider's HS256 tokens

	// Local audit database
	DatabaseDSN string

	// Refresh token persisted from a previous run, restored on startup
	InitialRefreshToken string

	// Delay applied to search-input driven list loads
	SearchDebounce time.Duration
}

// Load reads configs/.env if present and assembles the Config with
// development fallbacks matching local docker defaults.
func Load() Config {
	if err := godotenv.Load("configs/.env"); err != nil {
		logrus.Println("No configs/.env file found or error loading it")
	}

	cfg := Config{
		Port:                getEnv("PORT", "8080"),
		RemoteURL:           getEnv("REMOTE_URL", "http://localhost:54321"),
		FunctionsURL:        getEnv("FUNCTIONS_URL", "http://localhost:54321/functions/v1"),
		APIKey:              os.Getenv("REMOTE_API_KEY"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		InitialRefreshToken: os.Getenv("REMOTE_REFRESH_TOKEN"),
		SearchDebounce:      300 * time.Millisecond,
	}

	if cfg.JWTSecret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			logrus.Fatal("JWT_SECRET environment variable is required in production mode")
		}
		cfg.JWTSecret = "default_super_secret_key" // Development fallback only — DO NOT use in production
	}

	if d, err := time.ParseDuration(os.Getenv("SEARCH_DEBOUNCE")); err == nil && d > 0 {
		cfg.SearchDebounce = d
	}

	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "postgres")
	dbPassword := getEnv("DB_PASSWORD", "postgres")
	dbName := getEnv("DB_NAME", "postgres")
	dbSslMode := getEnv("DB_SSLMODE", "disable")
	cfg.DatabaseDSN = "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
