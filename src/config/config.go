package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port         string
	DatabasePath string
	LogLevel     string

	JWTSecret         string
	AccessTokenExpiry time.Duration

	// Bcrypt hash of the shared family password. When empty, the login
	// endpoint is disabled and the API runs unauthenticated.
	FamilyPasswordHash string

	MaxImportSizeBytes int64

	ReportCacheExpiry  time.Duration
	ReportCacheCleanup time.Duration
}

var Cfg *AppConfig

func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		log.Println("Info: No .env file found, relying on OS environment variables and defaults. Error (if any):", errEnv)
	} else {
		log.Println(".env file loaded successfully.")
	}

	jwtSecret := getEnv("JWT_SECRET", "change-me-to-a-long-random-secret-of-32-bytes-min")
	if jwtSecret == "change-me-to-a-long-random-secret-of-32-bytes-min" {
		log.Println("WARNING: Using default insecure JWT_SECRET. Set JWT_SECRET environment variable for production.")
	}

	accessTokenExpiryStr := getEnv("ACCESS_TOKEN_EXPIRY", "720h")
	accessTokenExpiry, err := time.ParseDuration(accessTokenExpiryStr)
	if err != nil {
		log.Printf("WARNING: Invalid ACCESS_TOKEN_EXPIRY format '%s'. Using default 720h. Error: %v", accessTokenExpiryStr, err)
		accessTokenExpiry = 720 * time.Hour
	}

	maxImportSizeBytesStr := getEnv("MAX_IMPORT_SIZE_BYTES", "5242880")
	maxImportSizeBytes, err := strconv.ParseInt(maxImportSizeBytesStr, 10, 64)
	if err != nil {
		log.Printf("WARNING: Invalid MAX_IMPORT_SIZE_BYTES format '%s'. Using default 5MB. Error: %v", maxImportSizeBytesStr, err)
		maxImportSizeBytes = 5 * 1024 * 1024
	}

	Cfg = &AppConfig{
		Port:         getEnv("PORT", "8080"),
		DatabasePath: getEnv("DATABASE_PATH", "./famfolio.db"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),

		JWTSecret:         jwtSecret,
		AccessTokenExpiry: accessTokenExpiry,

		FamilyPasswordHash: getEnv("FAMILY_PASSWORD_HASH", ""),

		MaxImportSizeBytes: maxImportSizeBytes,

		ReportCacheExpiry:  getEnvAsDuration("REPORT_CACHE_EXPIRY", 15*time.Minute),
		ReportCacheCleanup: getEnvAsDuration("REPORT_CACHE_CLEANUP", 30*time.Minute),
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, DBPath=%s",
		Cfg.Port, Cfg.LogLevel, Cfg.DatabasePath)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}
