package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	JWT      JWTConfig
	Activity ActivityConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// CacheConfig holds cache backend configuration and aggregate TTLs
type CacheConfig struct {
	Backend        string // redis or memory
	RedisURL       string
	RedisPassword  string
	BalanceTTL     time.Duration
	TransactionTTL time.Duration
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

// Coverage modes for geo-gated activity rules
const (
	CoverageModeBBox = "bbox"
	CoverageModeAll  = "all"
	// CoverageModeNone rejects every coordinate; deterministic test mode
	// for out-of-coverage behavior.
	CoverageModeNone = "none"
)

// ActivityConfig holds the admission controller configuration
type ActivityConfig struct {
	RulesEnabled bool
	CoverageMode string
	MinLat       float64
	MaxLat       float64
	MinLng       float64
	MaxLng       float64
}

// InCoverage reports whether the coordinates fall inside the service area.
func (c ActivityConfig) InCoverage(lat, lng float64) bool {
	switch c.CoverageMode {
	case CoverageModeAll:
		return true
	case CoverageModeNone:
		return false
	default:
		return lat >= c.MinLat && lat <= c.MaxLat && lng >= c.MinLng && lng <= c.MaxLng
	}
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "loyalty"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Cache: CacheConfig{
			Backend:        getEnv("CACHE_BACKEND", "redis"),
			RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379"),
			RedisPassword:  getEnv("REDIS_PASSWORD", ""),
			BalanceTTL:     getEnvAsDuration("CACHE_BALANCE_TTL", 5*time.Minute),
			TransactionTTL: getEnvAsDuration("CACHE_TRANSACTION_TTL", time.Minute),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "change-this-in-production"),
			Expiry: getEnvAsDuration("JWT_EXPIRY", 15*time.Minute),
		},
		Activity: ActivityConfig{
			RulesEnabled: getEnvAsBool("ACTIVITY_RULES_ENABLED", true),
			CoverageMode: getEnv("ACTIVITY_COVERAGE_MODE", CoverageModeBBox),
			MinLat:       getEnvAsFloat("ACTIVITY_COVERAGE_MIN_LAT", -11.0),
			MaxLat:       getEnvAsFloat("ACTIVITY_COVERAGE_MAX_LAT", 6.5),
			MinLng:       getEnvAsFloat("ACTIVITY_COVERAGE_MIN_LNG", 94.5),
			MaxLng:       getEnvAsFloat("ACTIVITY_COVERAGE_MAX_LNG", 141.5),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
