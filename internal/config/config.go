package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	API         APIConfig
	Database    DatabaseConfig
	Auth        AuthConfig
	Web         WebConfig
	Logging     LoggingConfig
	PostHog     PostHogConfig
	Environment string
}

type APIConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	EnableDocs      bool
	TrustedProxies  []string
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

type AuthConfig struct {
	SessionTTL    time.Duration
	SecureCookies bool
	Google        OAuthProviderConfig
}

type OAuthProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// WebConfig points at the browser frontend. Origin is used both for CORS
// and as the fallback base when an OAuth callback cannot recover the
// origin the flow started from.
type WebConfig struct {
	Origin string
}

type LoggingConfig struct {
	Level  string
	Format string
}

type PostHogConfig struct {
	APIKey   string
	Endpoint string
}

// Validate checks that required configuration fields are set and valid.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Web.Origin == "*" {
		return fmt.Errorf("WEB_ORIGIN must not be '*'")
	}
	if u, err := url.Parse(c.Web.Origin); err != nil || u.Scheme == "" {
		return fmt.Errorf("WEB_ORIGIN must be a valid URL")
	}
	if c.Auth.Google.ClientID == "" || c.Auth.Google.ClientSecret == "" {
		slog.Warn("Google OAuth not configured: AUTH_GOOGLE_CLIENT_ID/AUTH_GOOGLE_CLIENT_SECRET unset")
	}
	return nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func Load() *Config {
	return &Config{
		API: APIConfig{
			Addr:            envOr("API_ADDR", ":8080"),
			ReadTimeout:     envDuration("API_READ_TIMEOUT", 60*time.Second),
			WriteTimeout:    envDuration("API_WRITE_TIMEOUT", 120*time.Second),
			IdleTimeout:     envDuration("API_IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout: envDuration("API_SHUTDOWN_TIMEOUT", 20*time.Second),
			EnableDocs:      envBool("API_ENABLE_DOCS", false),
			TrustedProxies:  envStringSlice("TRUSTED_PROXIES"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 16),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 8),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", time.Hour),
			AutoMigrate:     envBool("DATABASE_AUTO_MIGRATE", false),
		},
		Auth: AuthConfig{
			SessionTTL:    envDuration("AUTH_SESSION_TTL", 168*time.Hour),
			SecureCookies: envBool("AUTH_SECURE_COOKIES", true),
			Google: OAuthProviderConfig{
				ClientID:     os.Getenv("AUTH_GOOGLE_CLIENT_ID"),
				ClientSecret: os.Getenv("AUTH_GOOGLE_CLIENT_SECRET"),
				RedirectURL:  envOr("AUTH_GOOGLE_REDIRECT_URL", "http://localhost:8080/auth/google/callback"),
			},
		},
		Web: WebConfig{
			Origin: envOr("WEB_ORIGIN", "http://localhost:5173"),
		},
		Logging: LoggingConfig{
			Level:  envOr("LOG_LEVEL", "info"),
			Format: envOr("LOG_FORMAT", "text"),
		},
		PostHog: PostHogConfig{
			APIKey:   os.Getenv("POSTHOG_API_KEY"),
			Endpoint: envOr("POSTHOG_ENDPOINT", "https://app.posthog.com"),
		},
		Environment: envOr("ENVIRONMENT", "development"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("invalid integer for env var, using default", "key", key, "value", v, "default", fallback)
			return fallback
		}
		return n
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			slog.Warn("invalid boolean for env var, using default", "key", key, "value", v, "default", fallback)
			return fallback
		}
		return b
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid duration for env var, using default", "key", key, "value", v, "default", fallback)
			return fallback
		}
		return d
	}
	return fallback
}

func envStringSlice(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
