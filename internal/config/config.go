package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr  string
	BaseURL     string
	MetricsAddr string // Separate listener for Prometheus scrapes; empty disables it

	// Database
	DatabaseURL string

	// Redis (optional session backing store)
	RedisURL string

	// Session
	SessionSecret string // Used for signing cookies (min 32 chars)

	// CORS
	CORSOrigins string // Comma-separated allowed origins

	// Tenancy
	MultiTenancy    bool // Hosted multi-tenant instance; signup is always open
	MultiOrgEnabled bool // Self-hosted: allow more than one organization

	// Social login (OIDC)
	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURL  string
	OIDCProviderName string // Provider slug used in /auth/social/:provider and analytics

	// SMTP
	SMTPEnabled  bool
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string
	SMTPTLS      string // "tls", "starttls" or "none"

	// Analytics event capture
	AnalyticsEndpoint string // e.g. "https://events.example.com/capture"
	AnalyticsAPIKey   string

	// Background jobs
	InviteSweepInterval time.Duration

	// Site Branding
	SiteTitle string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:           getEnv("ENV", "development"),
		ServerAddr:    getEnv("SERVER_ADDR", ":3000"),
		BaseURL:       getEnv("BASE_URL", "http://localhost:3000"),
		MetricsAddr:   getEnv("METRICS_ADDR", ":9090"),
		DatabaseURL:   getEnv("DATABASE_URL", "postgres://localhost:5432/crewbase?sslmode=disable"),
		RedisURL:      getEnv("REDIS_URL", ""),
		SessionSecret: getEnv("SESSION_SECRET", "change-me-in-production-min-32-chars"),
		CORSOrigins:   getEnv("CORS_ORIGINS", ""),

		MultiTenancy:    getEnv("MULTI_TENANCY", "") != "",
		MultiOrgEnabled: getEnv("MULTI_ORG_ENABLED", "") != "",

		OIDCIssuer:       getEnv("OIDC_ISSUER", ""),
		OIDCClientID:     getEnv("OIDC_CLIENT_ID", ""),
		OIDCClientSecret: getEnv("OIDC_CLIENT_SECRET", ""),
		OIDCRedirectURL:  getEnv("OIDC_REDIRECT_URL", "http://localhost:3000/complete/google-oauth2/"),
		OIDCProviderName: getEnv("OIDC_PROVIDER_NAME", "google-oauth2"),

		SMTPEnabled:  getEnv("SMTP_ENABLED", "") != "",
		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", ""),
		SMTPFromName: getEnv("SMTP_FROM_NAME", ""),
		SMTPTLS:      getEnv("SMTP_TLS", "starttls"),

		AnalyticsEndpoint: getEnv("ANALYTICS_ENDPOINT", ""),
		AnalyticsAPIKey:   getEnv("ANALYTICS_API_KEY", ""),

		InviteSweepInterval: getEnvDuration("INVITE_SWEEP_INTERVAL", 6*time.Hour),

		SiteTitle: getEnv("SITE_TITLE", "Crewbase"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// IsEmailEnabled returns true if SMTP is configured well enough to send.
func (c *Config) IsEmailEnabled() bool {
	return c.SMTPEnabled && c.SMTPHost != "" && c.SMTPFrom != ""
}

// Realm describes the deployment flavor reported in analytics events.
func (c *Config) Realm() string {
	if c.MultiTenancy {
		return "cloud"
	}
	return "hosted"
}
