package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	DBPath          string
	ArchivesDir     string
	OldFilesLog     string
	DecodeWorkers   int
	DecodeBatchSize int
	LogLevel        slog.Level
	LogFormat       string
	APIPort         string
	// IngestInterval is how often serve re-runs ingestion. Zero runs it once.
	IngestInterval time.Duration
}

// Load reads configuration from environment variables and returns a Config struct.
// If a .env file exists in the current directory or a parent, it is loaded first.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		DBPath:      getEnv("DB_PATH", "./data/legi.sqlite"),
		ArchivesDir: getEnv("ARCHIVES_DIR", ""),
		LogFormat:   strings.ToLower(getEnv("LOG_FORMAT", "text")),
		APIPort:     getEnv("API_PORT", "9000"),
	}
	cfg.OldFilesLog = getEnv("OLD_FILES_LOG", cfg.DBPath+".old_files.dat")

	if cfg.DecodeWorkers, err = getInt("DECODE_WORKERS", runtime.NumCPU()); err != nil {
		return nil, err
	}
	if cfg.DecodeBatchSize, err = getInt("DECODE_BATCH_SIZE", 256); err != nil {
		return nil, err
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL is invalid: %w", err)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	interval := getEnv("INGEST_INTERVAL", "0")
	if cfg.IngestInterval, err = time.ParseDuration(interval); err != nil {
		return nil, fmt.Errorf("INGEST_INTERVAL must be a duration: %w", err)
	}
	if cfg.IngestInterval < 0 {
		return nil, fmt.Errorf("INGEST_INTERVAL must not be negative")
	}

	// Create the database directory if it doesn't exist
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getInt parses a positive integer environment variable.
func getInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}
	return n, nil
}
