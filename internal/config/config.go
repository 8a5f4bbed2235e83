package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Supported storage backends.
const (
	DriverMongo  = "mongo"
	DriverMySQL  = "mysql"
	DriverMemory = "memory"
)

// Config holds all configuration for our application
type Config struct {
	Port                 string
	Origin               string
	Environment          string
	LogLevel             string
	JWTSecret            string
	JWTExpirationMinutes int
	ShutdownTimeout      time.Duration
	RateLimit            RateLimitConfig
	Database             DatabaseConfig
	Redis                RedisConfig
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Driver string

	// MySQL
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string

	// MongoDB
	MongoURI      string
	MongoDatabase string
}

// RedisConfig holds the optional slot lock backend. An empty Addr disables locking.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	LockTTL  time.Duration
}

// RateLimitConfig throttles the write endpoints per client IP. RPS <= 0 disables it.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	dbConfig := DatabaseConfig{
		Driver:        getEnv("DB_DRIVER", DriverMongo),
		Host:          getEnv("DB_HOST", "localhost"),
		Port:          getEnv("DB_PORT", "3306"),
		Username:      getEnv("DB_USERNAME", "root"),
		Password:      getEnv("DB_PASSWORD", ""),
		Name:          getEnv("DB_NAME", "clinic"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "clinic"),
	}

	switch dbConfig.Driver {
	case DriverMongo, DriverMySQL, DriverMemory:
	default:
		return nil, fmt.Errorf("invalid DB_DRIVER %q (want %s, %s or %s)", dbConfig.Driver, DriverMongo, DriverMySQL, DriverMemory)
	}

	// Dates are stored as UTC midnights, so the session location must be UTC too.
	dbConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name)

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	lockTTL, err := strconv.Atoi(getEnv("SLOT_LOCK_TTL_SECONDS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid SLOT_LOCK_TTL_SECONDS: %w", err)
	}

	redisConfig := RedisConfig{
		Addr:     getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
		LockTTL:  time.Duration(lockTTL) * time.Second,
	}

	jwtExpMinutes, err := strconv.Atoi(getEnv("JWT_EXPIRATION_MINUTES", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_MINUTES: %w", err)
	}

	shutdownSeconds, err := strconv.Atoi(getEnv("SHUTDOWN_TIMEOUT_SECONDS", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT_SECONDS: %w", err)
	}

	rps, err := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}
	burst, err := strconv.Atoi(getEnv("RATE_LIMIT_BURST", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}

	return &Config{
		Port:                 getEnv("PORT", "4000"),
		Origin:               getEnv("ORIGIN", "*"),
		Environment:          getEnv("APP_ENV", "development"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		JWTSecret:            getEnv("JWT_SECRET", "default_jwt_secret"),
		JWTExpirationMinutes: jwtExpMinutes,
		ShutdownTimeout:      time.Duration(shutdownSeconds) * time.Second,
		RateLimit:            RateLimitConfig{RPS: rps, Burst: burst},
		Database:             dbConfig,
		Redis:                redisConfig,
	}, nil
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
