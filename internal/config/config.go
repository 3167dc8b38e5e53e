package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Env  string
	Port string

	// Remote category store. Empty serves the hierarchy from the local database.
	StoreURL       string
	RequestTimeout time.Duration

	// Tree cache
	RedisAddr    string
	TreeCacheTTL time.Duration

	// HTTP
	CORSOrigins []string

	// Startup seeding
	SeedFile string

	// Picker
	CloseOnSelect bool

	// Tracing
	OTelEnabled bool
	ServiceName string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8080"),

		StoreURL:       getEnv("STORE_URL", ""),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 30*time.Second),

		RedisAddr:    getEnv("REDIS_ADDR", ""),
		TreeCacheTTL: getDuration("TREE_CACHE_TTL", 5*time.Minute),

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),

		SeedFile: getEnv("SEED_FILE", ""),

		CloseOnSelect: getBool("CLOSE_ON_SELECT", true),

		OTelEnabled: getBool("OTEL_ENABLED", false),
		ServiceName: getEnv("OTEL_SERVICE_NAME", "taxonomy"),
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return d
}

func getBool(key string, defaultValue bool) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %v\n", key, raw, defaultValue)
		return defaultValue
	}
	return b
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
