// Package main provides the currents API HTTP server.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"go.ngs.io/currents-api/internal/adapter/source"
	httpHandler "go.ngs.io/currents-api/internal/http"
	"go.ngs.io/currents-api/internal/usecase"
)

const version = "0.1.0"

func main() {
	// Parse command-line flags.
	showHelp := flag.Bool("help", false, "Show usage information")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showHelp {
		printUsage()
		return
	}

	if *showVersion {
		fmt.Printf("currents-api version %s\n", version)
		return
	}

	// Load configuration from environment.
	port := getEnv("PORT", "8080")
	mainPath := os.Getenv("MAIN_DATASET_PATH")
	anglePath := os.Getenv("ANGLE_DATASET_PATH")
	if mainPath == "" || anglePath == "" {
		log.Fatalf("MAIN_DATASET_PATH and ANGLE_DATASET_PATH must be set")
	}

	cfg := usecase.DefaultConfig()
	cfg.MaxCellDistanceDeg = getEnvFloat("MAX_CELL_DISTANCE_DEG", cfg.MaxCellDistanceDeg)
	cfg.AngleIndexOffset = getEnvInt("ANGLE_INDEX_OFFSET", cfg.AngleIndexOffset)
	cfg.FetchTimeout = getEnvDuration("FETCH_TIMEOUT", cfg.FetchTimeout)
	cfg.TimeUnits = getEnv("TIME_UNITS", cfg.TimeUnits)

	retries := uint64(getEnvInt("FETCH_RETRIES", 3))
	retryInterval := getEnvDuration("FETCH_RETRY_INTERVAL", 200*time.Millisecond)

	log.Printf("Starting Currents API server...")
	log.Printf("Port: %s", port)
	log.Printf("Main dataset: %s", mainPath)
	log.Printf("Angle dataset: %s", anglePath)
	log.Printf("Max cell distance: %.3f deg", cfg.MaxCellDistanceDeg)
	log.Printf("Fetch timeout: %s, retries: %d", cfg.FetchTimeout, retries)

	// Initialize data sources with retry wrappers.
	mainSource := source.WithRetry(source.NewNetCDF(mainPath), retries, retryInterval)
	angleSource := source.WithRetry(source.NewNetCDF(anglePath), retries, retryInterval)

	// Initialize the extraction use case.
	extractor, err := usecase.NewExtractor(mainSource, angleSource, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize extractor: %v", err)
	}

	// Setup router.
	router := httpHandler.SetupRouter(extractor)

	// Start server.
	addr := fmt.Sprintf(":%s", port)
	log.Printf("Server listening on %s", addr)
	log.Printf("Health check: http://localhost:%s/health", port)
	log.Printf("API endpoints:")
	log.Printf("  - GET /v1/currents/extract")
	log.Printf("  - GET /v1/currents/coverage")

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		log.Printf("Warning: ignoring invalid %s=%q", key, value)
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Warning: ignoring invalid %s=%q", key, value)
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Warning: ignoring invalid %s=%q", key, value)
	}
	return defaultValue
}

// printUsage prints usage information.
func printUsage() {
	fmt.Printf("Currents API Server v%s\n\n", version)
	fmt.Println("USAGE:")
	fmt.Println("  currents-api [flags]")
	fmt.Println()
	fmt.Println("FLAGS:")
	fmt.Println("  -help          Show this help message")
	fmt.Println("  -version       Show version information")
	fmt.Println()
	fmt.Println("ENVIRONMENT VARIABLES:")
	fmt.Println("  PORT                    Server port (default: 8080)")
	fmt.Println("  MAIN_DATASET_PATH       Path to the circulation model NetCDF file (required)")
	fmt.Println("  ANGLE_DATASET_PATH      Path to the grid-angle NetCDF file (required)")
	fmt.Println("  CORS_ALLOWED_ORIGINS    Comma-separated list of allowed origins (default: all origins)")
	fmt.Println("  MAX_CELL_DISTANCE_DEG   Nearest-cell acceptance threshold in degrees (default: 0.25, <=0 disables)")
	fmt.Println("  ANGLE_INDEX_OFFSET      Index-origin offset of the angle dataset (default: 1)")
	fmt.Println("  FETCH_TIMEOUT           Per-fetch timeout (default: 30s)")
	fmt.Println("  FETCH_RETRIES           Retry attempts for transient fetch failures (default: 3)")
	fmt.Println("  FETCH_RETRY_INTERVAL    Initial backoff interval (default: 200ms)")
	fmt.Println("  TIME_UNITS              CF-style time axis units (default: \"seconds since 1970-01-01T00:00:00Z\")")
	fmt.Println()
	fmt.Println("API ENDPOINTS:")
	fmt.Println("  GET /health                    Health check")
	fmt.Println("  GET /v1/currents/extract       Extract a point velocity time series")
	fmt.Println("  GET /v1/currents/coverage      Dataset time span, depth levels, grid shape")
	fmt.Println()
}
