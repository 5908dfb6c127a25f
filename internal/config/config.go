package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Insecure fallbacks, acceptable only outside production.
const (
	DefaultSessionSecret = "dev-secret"
	DefaultAdminPassword = "mess123"
)

// App holds the runtime configuration loaded from environment variables.
type App struct {
	Env             string
	HTTPPort        string
	DatabaseURL     string
	RedisAddr       string
	SessionSecret   string
	AdminPassword   string
	SessionIssuer   string
	SessionTTL      time.Duration
	RateLimitPerMin int
	QRHost          string

	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int

	// set when the secret came from a fallback rather than the environment
	defaultSecret   bool
	defaultPassword bool
}

// Load returns application config populated from a .env file (when present)
// and environment variables, with development defaults.
func Load() App {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("ignoring .env: %v", err)
	}

	cfg := App{
		Env:             getEnv("APP_ENV", "dev"),
		HTTPPort:        getEnv("HTTP_PORT", getEnv("PORT", "5000")),
		DatabaseURL:     getEnv("DATABASE_URL", "app.db"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		SessionSecret:   getEnv("SESSION_SECRET", DefaultSessionSecret),
		AdminPassword:   getEnv("ADMIN_PASSWORD", DefaultAdminPassword),
		SessionIssuer:   getEnv("SESSION_ISSUER", "mess-attendance"),
		SessionTTL:      durationEnv("SESSION_TTL", 12*time.Hour),
		RateLimitPerMin: intEnv("RATE_LIMIT_PER_MIN", 120),
		QRHost:          getEnv("QR_HOST", "localhost"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogPath:         getEnv("LOG_PATH", ""),
		LogMaxSizeMB:    intEnv("LOG_MAX_SIZE_MB", 100),
		LogMaxBackups:   intEnv("LOG_MAX_BACKUPS", 3),
		LogMaxAgeDays:   intEnv("LOG_MAX_AGE_DAYS", 7),
	}
	cfg.defaultSecret = os.Getenv("SESSION_SECRET") == ""
	cfg.defaultPassword = os.Getenv("ADMIN_PASSWORD") == ""
	return cfg
}

// Production reports whether APP_ENV names a production deployment.
func (c App) Production() bool {
	return c.Env == "production" || c.Env == "prod"
}

// InsecureDefaults lists the variables that are running on built-in fallbacks.
func (c App) InsecureDefaults() []string {
	var out []string
	if c.defaultSecret || c.SessionSecret == DefaultSessionSecret {
		out = append(out, "SESSION_SECRET")
	}
	if c.defaultPassword || c.AdminPassword == DefaultAdminPassword {
		out = append(out, "ADMIN_PASSWORD")
	}
	return out
}

// Validate refuses to run production on the built-in secrets.
func (c App) Validate() error {
	if c.Production() {
		if missing := c.InsecureDefaults(); len(missing) > 0 {
			return fmt.Errorf("refusing to start in %s with default %v", c.Env, missing)
		}
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using fallback %s", key, err, fallback)
			return fallback
		}
		return d
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var parsed int
		if _, err := fmt.Sscanf(val, "%d", &parsed); err == nil {
			return parsed
		}
		log.Printf("invalid int for %s, using fallback %d", key, fallback)
	}
	return fallback
}
