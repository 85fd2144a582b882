package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for our application
type Config struct {
	// Server configuration
	Port           string
	GinMode        string
	APIVersion     string
	APIPrefix      string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int

	// Database configuration
	Database DatabaseConfig

	// Redis configuration
	Redis RedisConfig

	// Kafka configuration
	Kafka KafkaConfig

	// Guest session tokens
	Session SessionConfig

	// Seat holds
	Holds HoldConfig

	// Pricing
	Pricing PricingConfig

	// External payment gateway
	Payment PaymentConfig

	// Rate limiting
	RateLimit RateLimitConfig

	// Logging
	LogLevel string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	DSN      string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Addr     string

	// TTL for cached catalog reads
	CacheTTL time.Duration
}

// KafkaConfig holds the notification pipeline configuration
type KafkaConfig struct {
	Brokers           []string
	NotificationTopic string
	ConsumerGroupID   string
	ConsumerWorkers   int
}

// SessionConfig holds guest session token configuration
type SessionConfig struct {
	Secret string
	TTL    time.Duration
}

// HoldConfig holds seat hold configuration
type HoldConfig struct {
	// TTL is fixed per hold at creation time and never extended.
	TTL time.Duration
	// Retention is how long a resolved hold stays queryable before the
	// background sweep drops it from the registry.
	Retention time.Duration
}

// PricingConfig holds pricing rules applied on top of the showtime price
type PricingConfig struct {
	ConvenienceFeePerSeat float64
	Currency              string
}

// PaymentConfig holds external payment gateway configuration
type PaymentConfig struct {
	KeyID     string
	KeySecret string
	Timeout   time.Duration
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled         bool          `json:"enabled"`
	WindowDuration  time.Duration `json:"window_duration"`
	DefaultRequests int           `json:"default_requests"`
	PublicRequests  int           `json:"public_requests"`
	BookingRequests int           `json:"booking_requests"`
	HealthRequests  int           `json:"health_requests"`
	WhitelistedIPs  []string      `json:"whitelisted_ips"`
}

// Load loads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		// Server configuration
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		APIVersion:     getEnv("API_VERSION", "v1"),
		APIPrefix:      getEnv("API_PREFIX", "/api"),
		ReadTimeout:    getDurationEnv("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:   getDurationEnv("WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:    getDurationEnv("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes: getIntEnv("MAX_HEADER_BYTES", 1<<20), // 1 MB

		// Database configuration
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "tickethub_db"),
			User:     getEnv("DB_USER", "tickethub_user"),
			Password: getEnv("DB_PASSWORD", "tickethub_password"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},

		// Redis configuration
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
			CacheTTL: getDurationEnv("REDIS_CACHE_TTL", 1*time.Hour),
		},

		// Kafka configuration
		Kafka: KafkaConfig{
			Brokers:           getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
			NotificationTopic: getEnv("NOTIFICATION_TOPIC", "booking-notifications"),
			ConsumerGroupID:   getEnv("CONSUMER_GROUP_ID", "tickethub-notification-workers"),
			ConsumerWorkers:   getIntEnv("NUM_CONSUMER_WORKERS", 3),
		},

		// Guest session tokens
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", "your-super-secret-session-key"),
			TTL:    getDurationEnv("SESSION_TTL", 24*time.Hour),
		},

		// Seat holds: five minutes per the reservation flow, never renewed
		Holds: HoldConfig{
			TTL:       getDurationEnv("HOLD_TTL", 5*time.Minute),
			Retention: getDurationEnv("HOLD_RETENTION", 10*time.Minute),
		},

		// Pricing
		Pricing: PricingConfig{
			ConvenienceFeePerSeat: getFloatEnv("CONVENIENCE_FEE_PER_SEAT", 20),
			Currency:              getEnv("CURRENCY", "INR"),
		},

		// External payment gateway
		Payment: PaymentConfig{
			KeyID:     getEnv("PAYMENT_KEY_ID", "rzp_test_key"),
			KeySecret: getEnv("PAYMENT_KEY_SECRET", "rzp_test_secret"),
			Timeout:   getDurationEnv("PAYMENT_TIMEOUT", 30*time.Second),
		},

		// Rate limiting
		RateLimit: RateLimitConfig{
			Enabled:         getBoolEnv("RATE_LIMIT_ENABLED", true),
			WindowDuration:  getDurationEnv("RATE_LIMIT_WINDOW_DURATION", 60*time.Second),
			DefaultRequests: getIntEnv("RATE_LIMIT_DEFAULT_REQUESTS", 60),
			PublicRequests:  getIntEnv("RATE_LIMIT_PUBLIC_REQUESTS", 100),
			BookingRequests: getIntEnv("RATE_LIMIT_BOOKING_REQUESTS", 20),
			HealthRequests:  getIntEnv("RATE_LIMIT_HEALTH_REQUESTS", 120),
			WhitelistedIPs:  getStringSliceEnv("RATE_LIMIT_WHITELISTED_IPS", []string{}),
		},

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "debug"),
	}

	// Build composite values
	cfg.Database.DSN = buildDatabaseDSN(cfg.Database)
	cfg.Redis.Addr = cfg.Redis.Host + ":" + cfg.Redis.Port

	return cfg
}

// buildDatabaseDSN builds the database connection string
func buildDatabaseDSN(db DatabaseConfig) string {
	return "host=" + db.Host +
		" port=" + db.Port +
		" user=" + db.User +
		" password=" + db.Password +
		" dbname=" + db.Name +
		" sslmode=" + db.SSLMode
}

// GetServerAddress returns the address the HTTP server binds to
func (c *Config) GetServerAddress() string {
	return ":" + c.Port
}

// GetAPIBasePath returns the versioned API prefix, e.g. /api/v1
func (c *Config) GetAPIBasePath() string {
	return c.APIPrefix + "/" + c.APIVersion
}

// IsDevelopment reports whether the server runs in debug mode
func (c *Config) IsDevelopment() bool {
	return c.GinMode == "debug"
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getIntEnv gets an integer environment variable with a fallback value
func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return fallback
}

// getFloatEnv gets a float environment variable with a fallback value
func getFloatEnv(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return fallback
}

// getBoolEnv gets a boolean environment variable with a fallback value
func getBoolEnv(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

// getDurationEnv gets a duration environment variable with a fallback value
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return fallback
}

// getStringSliceEnv gets a comma-separated string environment variable as a slice
func getStringSliceEnv(key string, fallback []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		var result []string
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
