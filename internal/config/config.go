package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	// Server settings
	ServerPort  string
	FrontendURL string

	// Storage settings
	StorageType string
	DataDir     string
	SQLitePath  string

	// Object storage (S3-compatible) settings
	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3UseSSL    bool

	// Development helpers
	SeedDemoData bool

	// OpenTelemetry settings
	OTLPEndpoint string
	ServiceName  string
	Environment  string
}

// Load returns configuration from environment variables with sensible defaults.
// A .env file in the working directory is honored when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:   getEnv("PORT", "8080"),
		FrontendURL:  getEnv("FRONTEND_URL", ""),
		StorageType:  getEnv("STORAGE_TYPE", "memory"),
		DataDir:      getEnv("DATA_DIR", "./data"),
		SQLitePath:   getEnv("SQLITE_PATH", "./planner.db"),
		S3Endpoint:   getEnv("S3_ENDPOINT", "s3.fr-par.scw.cloud"),
		S3Region:     getEnv("S3_REGION", "fr-par"),
		S3Bucket:     getEnv("S3_BUCKET", "swedish-year-planner"),
		S3AccessKey:  getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:  getEnv("S3_SECRET_KEY", ""),
		S3UseSSL:     getBoolEnv("S3_USE_SSL", true),
		SeedDemoData: getBoolEnv("SEED_DEMO_DATA", false),
		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		ServiceName:  getEnv("OTEL_SERVICE_NAME", "year-planner-api"),
		Environment:  getEnv("ENVIRONMENT", "development"),
	}
}

// AllowedOrigins returns the CORS origin allow-list for the frontend.
func (c *Config) AllowedOrigins() []string {
	origins := []string{
		"http://localhost:3000",
		"http://localhost:8080",
		"https://swedish-year-planner.s3.fr-par.scw.cloud",
	}
	if c.FrontendURL != "" {
		origins = append(origins, c.FrontendURL)
	}
	return origins
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
