package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

const defaultJWTSecret = "default_secret_CHANGE_ME"

type Config struct {
	Port          string
	Env           string
	LogLevel      string
	JWTSecret     string
	AllowedOrigin string
	// Record store
	StoreDriver       string
	DBUrl             string
	DBMaxConns        int32
	DBMinConns        int32
	DBMaxConnIdleTime time.Duration
	SQLitePath        string
	// Vendors
	VendorRegistryFile string
	Vendors            []string
	VendorCacheTTL     time.Duration
	// Courier tracking
	TrackingProviderURL string
	TrackingTimeout     time.Duration
	TrackingPrefix      string
	// Notifications
	AMQPUrl      string
	AMQPExchange string
	NotifyBuffer int
	// Confirmation flow
	ConfirmationTTL time.Duration
	Require2FA      bool
	TwoFactorURL    string
	// Rate limiting
	RateLimitRPS   float64
	RateLimitBurst int
}

func LoadConfig() (*Config, error) {
	// 1. Check if a specific config file is requested via env var
	configFile := os.Getenv("CONFIG_FILE")
	if configFile != "" {
		if err := godotenv.Load(configFile); err != nil {
			log.Printf("Warning: Failed to load config file '%s': %v", configFile, err)
		} else {
			log.Printf("Loaded configuration from %s", configFile)
		}
	} else {
		// 2. Default fallback: Try loading .env (standard local dev)
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found or error loading it, relying on system env vars")
		}
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv reads the process environment without loading any file.
func FromEnv() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		JWTSecret:     getEnv("JWT_SECRET", defaultJWTSecret),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),

		StoreDriver:       strings.ToLower(getEnv("STORE_DRIVER", StoreMemory)),
		DBUrl:             getEnv("DB_DSN", ""),
		DBMaxConns:        getInt32Env("DB_MAX_CONNS", 20),
		DBMinConns:        getInt32Env("DB_MIN_CONNS", 2),
		DBMaxConnIdleTime: getDurationEnv("DB_MAX_CONN_IDLE_TIME", time.Minute*15),
		SQLitePath:        getEnv("SQLITE_PATH", "orderdesk.db"),

		VendorRegistryFile: getEnv("VENDOR_REGISTRY_FILE", ""),
		Vendors:            getListEnv("VENDORS", []string{"ven 1", "ven 2", "ven 3"}),
		VendorCacheTTL:     getDurationEnv("VENDOR_CACHE_TTL", 5*time.Minute),

		TrackingProviderURL: getEnv("TRACKING_PROVIDER_URL", ""),
		TrackingTimeout:     getDurationEnv("TRACKING_TIMEOUT", 5*time.Second),
		TrackingPrefix:      getEnv("TRACKING_PREFIX", "TRK"),

		AMQPUrl:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "orderdesk.events"),
		NotifyBuffer: getIntEnv("NOTIFY_BUFFER", 256),

		ConfirmationTTL: getDurationEnv("CONFIRMATION_TTL", 10*time.Minute),
		Require2FA:      getBoolEnv("REQUIRE_2FA", false),
		TwoFactorURL:    getEnv("TWO_FACTOR_URL", ""),

		RateLimitRPS:   getFloatEnv("RATE_LIMIT_RPS", 50),
		RateLimitBurst: getIntEnv("RATE_LIMIT_BURST", 100),
	}
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreMemory:
	case StoreSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite store")
		}
	case StorePostgres:
		if c.DBUrl == "" {
			return fmt.Errorf("DB_DSN is required for the postgres store")
		}
		if c.DBMinConns > c.DBMaxConns {
			return fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.Require2FA && c.TwoFactorURL == "" {
		return fmt.Errorf("TWO_FACTOR_URL is required when REQUIRE_2FA is set")
	}
	if c.ConfirmationTTL <= 0 {
		return fmt.Errorf("CONFIRMATION_TTL must be positive")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	if c.JWTSecret == defaultJWTSecret {
		if c.IsProduction() {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		log.Println("WARNING: Using default JWT secret. Setting up for failure in production.")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Invalid duration for %s, using fallback", key)
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
		log.Printf("Invalid int for %s, using fallback", key)
	}
	return fallback
}
