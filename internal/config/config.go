package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
	Identity   IdentityConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// AttendanceConfig holds shift-level policy defaults. Individual shifts
// may override the time-window values; the geofence radius applies when a
// shift does not declare its own.
type AttendanceConfig struct {
	DefaultGeofenceRadiusMeters float64
	DefaultEarlyClockInMinutes  int
	DefaultLateGraceMinutes     int
	LatenessFlagMinutes         int
}

// IdentityConfig holds biometric verification policy.
type IdentityConfig struct {
	BiometricEnabled bool
	MinConfidence    float64
	RequireLiveness  bool
	ProviderTimeout  time.Duration
	ProviderBaseURL  string
	ProviderAPIKey   string
}

func Load() (*Config, error) {
	// Missing .env is fine in deployed environments; real env vars win.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "gigline"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Attendance policy defaults
	geofenceRadius, err := strconv.ParseFloat(getEnv("GEOFENCE_RADIUS_METERS", "100"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid GEOFENCE_RADIUS_METERS: %w", err)
	}
	earlyClockIn, err := strconv.Atoi(getEnv("EARLY_CLOCK_IN_MINUTES", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid EARLY_CLOCK_IN_MINUTES: %w", err)
	}
	lateGrace, err := strconv.Atoi(getEnv("LATE_GRACE_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid LATE_GRACE_MINUTES: %w", err)
	}
	latenessFlag, err := strconv.Atoi(getEnv("LATENESS_FLAG_MINUTES", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid LATENESS_FLAG_MINUTES: %w", err)
	}

	config.Attendance = AttendanceConfig{
		DefaultGeofenceRadiusMeters: geofenceRadius,
		DefaultEarlyClockInMinutes:  earlyClockIn,
		DefaultLateGraceMinutes:     lateGrace,
		LatenessFlagMinutes:         latenessFlag,
	}

	// Identity verification policy
	minConfidence, err := strconv.ParseFloat(getEnv("FACE_MIN_CONFIDENCE", "0.85"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid FACE_MIN_CONFIDENCE: %w", err)
	}
	providerTimeout, err := time.ParseDuration(getEnv("IDENTITY_PROVIDER_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid IDENTITY_PROVIDER_TIMEOUT: %w", err)
	}

	config.Identity = IdentityConfig{
		BiometricEnabled: getEnvBool("BIOMETRIC_ENABLED", true),
		MinConfidence:    minConfidence,
		RequireLiveness:  getEnvBool("REQUIRE_LIVENESS", true),
		ProviderTimeout:  providerTimeout,
		ProviderBaseURL:  getEnv("FACE_ID_BASE_URL", "http://localhost:9500"),
		ProviderAPIKey:   getEnv("FACE_ID_API_KEY", ""),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Attendance.DefaultGeofenceRadiusMeters <= 0 {
		return fmt.Errorf("GEOFENCE_RADIUS_METERS must be positive")
	}
	if c.Identity.MinConfidence < 0 || c.Identity.MinConfidence > 1 {
		return fmt.Errorf("FACE_MIN_CONFIDENCE must be between 0 and 1")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
