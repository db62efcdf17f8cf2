package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/ivanovicnikola/shifts-etl/internal/util"
)

// PageSizePolicy controls what happens when a requested page size exceeds
// MaxPageSize: either it is clamped down to the maximum, or the run is refused.
type PageSizePolicy string

const (
	PolicyClamp  PageSizePolicy = "clamp"
	PolicyReject PageSizePolicy = "reject"
)

// Config centralises all environment and runtime configuration.
type Config struct {
	Logger       *log.Logger
	DatabaseURL  string
	ShiftsAPIURL string

	PageSize       int
	MaxPageSize    int
	PageSizePolicy PageSizePolicy

	HTTPAddr string

	AutoMigrate bool
}

// Load builds the Config struct, validating critical env vars.
func Load() *Config {
	logger := util.NewLogger()
	logger.Println("Loading environment configuration...")

	cfg := &Config{
		Logger:         logger,
		DatabaseURL:    getEnvOrFail(logger, "DATABASE_URL"),
		ShiftsAPIURL:   getEnvOrFail(logger, "SHIFTS_API_URL"),
		PageSize:       getEnvIntOrDefault(logger, "PAGE_SIZE", 10),
		MaxPageSize:    getEnvIntOrDefault(logger, "MAX_PAGE_SIZE", 30),
		PageSizePolicy: loadPageSizePolicy(logger),
		HTTPAddr:       getEnvOrDefault("HTTP_ADDR", ":8080"),
		AutoMigrate:    os.Getenv("AUTO_MIGRATE") == "1",
	}

	logger.Printf("✅ Loaded config (page size %d, max %d, policy %s)", cfg.PageSize, cfg.MaxPageSize, cfg.PageSizePolicy)
	return cfg
}

func loadPageSizePolicy(logger *log.Logger) PageSizePolicy {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("PAGE_SIZE_POLICY"))) {
	case "", "clamp":
		return PolicyClamp
	case "reject":
		return PolicyReject
	default:
		logger.Fatalf("❌ PAGE_SIZE_POLICY must be %q or %q", PolicyClamp, PolicyReject)
		return ""
	}
}

// ResolvePageSize validates a requested page size against the configured
// bounds. Zero or negative sizes are refused; callers that allow the size to
// be omitted substitute PageSize before calling. Sizes above MaxPageSize are
// clamped or refused depending on PageSizePolicy.
func (c *Config) ResolvePageSize(requested int) (int, error) {
	size := requested
	if size <= 0 {
		return 0, fmt.Errorf("page size must be positive, got %d", size)
	}
	if size > c.MaxPageSize {
		if c.PageSizePolicy == PolicyReject {
			return 0, fmt.Errorf("page size %d exceeds maximum %d", size, c.MaxPageSize)
		}
		size = c.MaxPageSize
	}
	return size, nil
}

func getEnvOrFail(logger *log.Logger, key string) string {
	val := os.Getenv(key)
	if val == "" {
		logger.Fatalf("❌ Environment variable %s is required but not set", key)
	}
	return val
}

func getEnvOrDefault(key, def string) string {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	return val
}

func getEnvIntOrDefault(logger *log.Logger, key string, def int) int {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		logger.Fatalf("❌ Environment variable %s must be an integer: %v", key, err)
	}
	return n
}
