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
	Port   string
	AppEnv string

	// Backend selects the data source: "database" (GORM) or "rest" (managed backend)
	Backend string

	DBDriver   string // postgres, sqlite
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	BackendURL     string
	BackendAPIKey  string
	BackendTimeout time.Duration

	JWTKey string

	SendgridAPIKey  string
	EmailSender     string
	EmailSenderName string

	CertSweepSpec     string
	HeartbeatInterval time.Duration
	RateLimitMax      int
	LogLevel          string
}

const defaultJWTKey = "defaultSecret"

// LoadConfig loads an optional .env file and builds the configuration from the environment
func LoadConfig(envFiles ...string) *Config {
	if err := godotenv.Load(envFiles...); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	cfg := &Config{
		Port:   getEnv("PORT", "3000"),
		AppEnv: strings.ToLower(getEnv("APP_ENV", "development")),

		Backend: strings.ToLower(getEnv("BACKEND", "database")),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "coursetrack"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "coursetrack.db"),

		BackendURL:     strings.TrimRight(getEnv("BACKEND_URL", ""), "/"),
		BackendAPIKey:  getEnv("BACKEND_API_KEY", ""),
		BackendTimeout: getEnvDuration("BACKEND_TIMEOUT", 10*time.Second),

		JWTKey: getEnv("JWT_SECRET_KEY", defaultJWTKey),

		SendgridAPIKey:  getEnv("SENDGRID_API_KEY", ""),
		EmailSender:     getEnv("EMAIL_SENDER", "noreply@localhost"),
		EmailSenderName: getEnv("EMAIL_SENDER_NAME", "Coursetrack"),

		CertSweepSpec:     getEnv("CERT_SWEEP_SPEC", "@every 15m"),
		HeartbeatInterval: getEnvDuration("HEARTBEAT_INTERVAL", time.Minute),
		RateLimitMax:      getEnvInt("RATE_LIMIT_MAX", 100),
		LogLevel:          strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}

	if cfg.JWTKey == defaultJWTKey {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if cfg.Backend == "rest" && cfg.BackendURL == "" {
		log.Println("Warning: BACKEND=rest but BACKEND_URL is empty.")
	}

	return cfg
}

// IsProduction reports whether the app runs with production settings
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

// getEnvDuration accepts Go duration strings ("90s", "15m") or plain seconds
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Printf("Error converting environment variable %s to duration: %q", key, value)
	return defaultValue
}
