// internal/fllconfig/config.go
// Application configuration loaded from the environment (plus an optional
// .env for local development), the same shape and loading style as the
// teacher's internal/config, adapted to this service's surface: the HTTP/
// database/auth layers survive, External (Stripe/SendGrid/uploads) does
// not — this engine never touches payments or file uploads — and a new
// Engine section carries the Q-learning defaults so a run can be created
// without the caller repeating every hyperparameter.
package fllconfig

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	Auth        AuthConfig
	Engine      EngineDefaults
	Features    FeatureFlags
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig contains all database connection settings.
type DatabaseConfig struct {
	MySQL   MySQLConfig
	MongoDB MongoDBConfig
	Redis   RedisConfig
}

// MySQLConfig contains MySQL-specific settings. MySQL holds the run
// registry (RunRepository): run id, config, status, timestamps, and the
// evaluator's final scores — small, relational, queried by id.
type MySQLConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// MongoDBConfig contains MongoDB-specific settings. MongoDB holds
// ScheduleRepository documents: the nested per-episode schedule and
// per-entry Q-table dumps, which have no fixed column shape.
type MongoDBConfig struct {
	URI      string
	Database string
}

// RedisConfig contains Redis-specific settings, backing CacheService: the
// live per-run metrics snapshot read by GET /runs/:id, and the rate
// limiter's counters.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AuthConfig contains authentication and authorization settings for the
// single configured operator account (no self-service registration).
type AuthConfig struct {
	JWTSecret     string
	JWTExpiration time.Duration
	BCryptCost    int
	AdminEmail    string
	AdminPassword string
}

// EngineDefaults seeds RunConfig's Q-learning parameters when a caller
// doesn't override them.
type EngineDefaults struct {
	Alpha         float64
	Gamma         float64
	EpsilonStart  float64
	EpsilonEnd    float64
	EpsilonDecay  float64
	Episodes      int
	BenchmarkRuns int
}

// FeatureFlags allows toggling features without code changes.
type FeatureFlags struct {
	EnableWebSocket bool
	MaintenanceMode bool
}

// Load reads configuration from environment variables, falling back to a
// local .env file when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &Config{
		Environment: getEnvOrDefault("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnvOrDefault("PORT", "8080"),
			ReadTimeout:  getDurationOrDefault("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDurationOrDefault("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:  getDurationOrDefault("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			MySQL: MySQLConfig{
				DSN:             getEnvOrDefault("MYSQL_DSN", ""),
				MaxOpenConns:    getIntOrDefault("MYSQL_MAX_OPEN_CONNS", 25),
				MaxIdleConns:    getIntOrDefault("MYSQL_MAX_IDLE_CONNS", 5),
				ConnMaxLifetime: getDurationOrDefault("MYSQL_CONN_MAX_LIFETIME", 5*time.Minute),
			},
			MongoDB: MongoDBConfig{
				URI:      getEnvOrDefault("MONGO_URI", ""),
				Database: getEnvOrDefault("MONGO_DATABASE", "fllc_scheduler"),
			},
			Redis: RedisConfig{
				Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
				Password: getEnvOrDefault("REDIS_PASSWORD", ""),
				DB:       getIntOrDefault("REDIS_DB", 0),
			},
		},
		Auth: AuthConfig{
			JWTSecret:     getEnvOrDefault("JWT_SECRET", ""),
			JWTExpiration: getDurationOrDefault("JWT_EXPIRATION", time.Hour),
			BCryptCost:    getIntOrDefault("BCRYPT_COST", 10),
			AdminEmail:    getEnvOrDefault("ADMIN_EMAIL", ""),
			AdminPassword: getEnvOrDefault("ADMIN_PASSWORD_HASH", ""),
		},
		Engine: EngineDefaults{
			Alpha:         getFloatOrDefault("ENGINE_ALPHA", 0.20),
			Gamma:         getFloatOrDefault("ENGINE_GAMMA", 0.80),
			EpsilonStart:  getFloatOrDefault("ENGINE_EPSILON_START", 1.00),
			EpsilonEnd:    getFloatOrDefault("ENGINE_EPSILON_END", 0.01),
			EpsilonDecay:  getFloatOrDefault("ENGINE_EPSILON_DECAY", 0.995),
			Episodes:      getIntOrDefault("ENGINE_EPISODES", 2000),
			BenchmarkRuns: getIntOrDefault("ENGINE_BENCHMARK_RUNS", 10),
		},
		Features: FeatureFlags{
			EnableWebSocket: getBoolOrDefault("ENABLE_WEBSOCKET", true),
			MaintenanceMode: getBoolOrDefault("MAINTENANCE_MODE", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration is present.
func (c *Config) Validate() error {
	if c.Database.MySQL.DSN == "" {
		return fmt.Errorf("MYSQL_DSN is required")
	}
	if c.Database.MongoDB.URI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Auth.AdminEmail == "" || c.Auth.AdminPassword == "" {
		return fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD_HASH are required")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
