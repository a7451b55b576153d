// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// AuthServiceConfig provides settings needed by the staff auth service.
type AuthServiceConfig interface {
	JWTConfig
	GetJWTRefreshSecret() string
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
}

// OfferTokenConfig provides settings for the customer access token service.
type OfferTokenConfig interface {
	GetOfferTokenSecret() string
	GetOfferTokenTTL() time.Duration
	IsOfferTokenDebugEnabled() bool
	IsPublicFallbackEnabled() bool
	GetEnv() string
}

// PricingConfig provides the operator's standard prices and VAT rates.
// These are operator-configured defaults, never hardcoded constants.
type PricingConfig interface {
	GetVATRateDomestic() float64
	GetVATRateInternational() float64
	GetStandardKmRate() float64
	GetStandardDayRate() float64
	GetStandardEveningRate() float64
	GetStandardWeekendRate() float64
}

// EmailConfig provides settings for email sending.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
}

// NotificationConfig provides settings for building customer-facing links.
type NotificationConfig interface {
	GetAppBaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// SchedulerConfig provides settings for the asynq scheduler and worker.
type SchedulerConfig interface {
	GetRedisURL() string
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetReminderLeadTime() time.Duration
}

// StorageConfig provides settings for MinIO S3-compatible storage.
type StorageConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinioBucketOfferDocuments() string
	IsMinIOEnabled() bool
}

// EconomyConfig provides settings for the financial rollup.
type EconomyConfig interface {
	GetRedisURL() string
	GetEconomyCacheTTL() time.Duration
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                       string
	HTTPAddr                  string
	DatabaseURL               string
	JWTAccessSecret           string
	JWTRefreshSecret          string
	AccessTokenTTL            time.Duration
	RefreshTokenTTL           time.Duration
	OfferTokenSecret          string
	OfferTokenTTL             time.Duration
	OfferTokenDebug           bool
	OfferPublicFallback       bool
	VATRateDomestic           float64
	VATRateInternational      float64
	StandardKmRate            float64
	StandardDayRate           float64
	StandardEveningRate       float64
	StandardWeekendRate       float64
	CORSAllowAll              bool
	CORSOrigins               []string
	CORSAllowCreds            bool
	AppBaseURL                string
	EmailEnabled              bool
	SMTPHost                  string
	SMTPPort                  int
	SMTPUsername              string
	SMTPPassword              string
	EmailFromName             string
	EmailFromAddress          string
	RedisURL                  string
	AsynqQueueName            string
	AsynqConcurrency          int
	ReminderLeadTime          time.Duration
	EconomyCacheTTL           time.Duration
	MinIOEndpoint             string
	MinIOAccessKey            string
	MinIOSecretKey            string
	MinIOUseSSL               bool
	MinioBucketOfferDocuments string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// AuthServiceConfig implementation
func (c *Config) GetJWTRefreshSecret() string       { return c.JWTRefreshSecret }
func (c *Config) GetAccessTokenTTL() time.Duration  { return c.AccessTokenTTL }
func (c *Config) GetRefreshTokenTTL() time.Duration { return c.RefreshTokenTTL }

// OfferTokenConfig implementation
func (c *Config) GetOfferTokenSecret() string     { return c.OfferTokenSecret }
func (c *Config) GetOfferTokenTTL() time.Duration { return c.OfferTokenTTL }
func (c *Config) IsOfferTokenDebugEnabled() bool  { return c.OfferTokenDebug }
func (c *Config) IsPublicFallbackEnabled() bool   { return c.OfferPublicFallback }
func (c *Config) GetEnv() string                  { return c.Env }

// PricingConfig implementation
func (c *Config) GetVATRateDomestic() float64      { return c.VATRateDomestic }
func (c *Config) GetVATRateInternational() float64 { return c.VATRateInternational }
func (c *Config) GetStandardKmRate() float64       { return c.StandardKmRate }
func (c *Config) GetStandardDayRate() float64      { return c.StandardDayRate }
func (c *Config) GetStandardEveningRate() float64  { return c.StandardEveningRate }
func (c *Config) GetStandardWeekendRate() float64  { return c.StandardWeekendRate }

// EmailConfig implementation
func (c *Config) GetEmailEnabled() bool      { return c.EmailEnabled }
func (c *Config) GetSMTPHost() string        { return c.SMTPHost }
func (c *Config) GetSMTPPort() int           { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string    { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string    { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string   { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }

// NotificationConfig implementation
func (c *Config) GetAppBaseURL() string { return c.AppBaseURL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string               { return c.RedisURL }
func (c *Config) GetAsynqQueueName() string         { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int          { return c.AsynqConcurrency }
func (c *Config) GetReminderLeadTime() time.Duration { return c.ReminderLeadTime }

// EconomyConfig implementation
func (c *Config) GetEconomyCacheTTL() time.Duration { return c.EconomyCacheTTL }

// StorageConfig implementation
func (c *Config) GetMinIOEndpoint() string             { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string            { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string            { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool                 { return c.MinIOUseSSL }
func (c *Config) GetMinioBucketOfferDocuments() string { return c.MinioBucketOfferDocuments }
func (c *Config) IsMinIOEnabled() bool                 { return c.MinIOEndpoint != "" }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                       getEnv("APP_ENV", "development"),
		HTTPAddr:                  getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:               getEnv("DATABASE_URL", ""),
		JWTAccessSecret:           getEnv("JWT_ACCESS_SECRET", ""),
		JWTRefreshSecret:          getEnv("JWT_REFRESH_SECRET", ""),
		AccessTokenTTL:            mustDuration(getEnv("JWT_ACCESS_TTL", "15m")),
		RefreshTokenTTL:           mustDuration(getEnv("JWT_REFRESH_TTL", "720h")),
		OfferTokenSecret:          getEnv("OFFER_TOKEN_SECRET", ""),
		OfferTokenTTL:             mustDuration(getEnv("OFFER_TOKEN_TTL", "336h")),
		OfferTokenDebug:           strings.EqualFold(getEnv("OFFER_TOKEN_DEBUG", "false"), "true"),
		OfferPublicFallback:       strings.EqualFold(getEnv("OFFER_PUBLIC_FALLBACK", "false"), "true"),
		VATRateDomestic:           mustFloat(getEnv("VAT_RATE_DOMESTIC", "0.06")),
		VATRateInternational:      mustFloat(getEnv("VAT_RATE_INTERNATIONAL", "0")),
		StandardKmRate:            mustFloat(getEnv("STANDARD_KM_RATE", "10.90")),
		StandardDayRate:           mustFloat(getEnv("STANDARD_DAY_RATE", "300")),
		StandardEveningRate:       mustFloat(getEnv("STANDARD_EVENING_RATE", "400")),
		StandardWeekendRate:       mustFloat(getEnv("STANDARD_WEEKEND_RATE", "500")),
		CORSAllowAll:              corsAllowAll,
		CORSOrigins:               corsOrigins,
		CORSAllowCreds:            strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		AppBaseURL:                getEnv("APP_BASE_URL", "http://localhost:4200"),
		EmailEnabled:              strings.EqualFold(getEnv("EMAIL_ENABLED", "false"), "true"),
		SMTPHost:                  getEnv("SMTP_HOST", ""),
		SMTPPort:                  int(mustInt64(getEnv("SMTP_PORT", "587"))),
		SMTPUsername:              getEnv("SMTP_USERNAME", ""),
		SMTPPassword:              getEnv("SMTP_PASSWORD", ""),
		EmailFromName:             getEnv("EMAIL_FROM_NAME", "Charter Desk"),
		EmailFromAddress:          getEnv("EMAIL_FROM_ADDRESS", ""),
		RedisURL:                  getEnv("REDIS_URL", ""),
		AsynqQueueName:            getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:          int(mustInt64(getEnv("ASYNQ_CONCURRENCY", "10"))),
		ReminderLeadTime:          mustDuration(getEnv("REMINDER_LEAD_TIME", "48h")),
		EconomyCacheTTL:           mustDuration(getEnv("ECONOMY_CACHE_TTL", "10m")),
		MinIOEndpoint:             getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:            getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:            getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:               strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinioBucketOfferDocuments: getEnv("MINIO_BUCKET_OFFER_DOCUMENTS", "offer-documents"),
	}

	isProduction := strings.EqualFold(cfg.Env, "production")

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" || cfg.JWTRefreshSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET are required")
	}
	// Customer token signing fails closed: production never runs without a
	// secret and never runs with the debug token.
	if isProduction && cfg.OfferTokenSecret == "" {
		return nil, fmt.Errorf("OFFER_TOKEN_SECRET is required in production")
	}
	if isProduction && cfg.OfferTokenDebug {
		return nil, fmt.Errorf("OFFER_TOKEN_DEBUG cannot be enabled in production")
	}
	if cfg.OfferTokenSecret == "" && !cfg.OfferTokenDebug {
		return nil, fmt.Errorf("OFFER_TOKEN_SECRET is required unless OFFER_TOKEN_DEBUG is enabled")
	}
	if cfg.VATRateDomestic < 0 || cfg.VATRateDomestic > 1 || cfg.VATRateInternational < 0 || cfg.VATRateInternational > 1 {
		return nil, fmt.Errorf("VAT rates must be fractions between 0 and 1")
	}
	if cfg.EmailEnabled && (cfg.SMTPHost == "" || cfg.EmailFromAddress == "") {
		return nil, fmt.Errorf("SMTP_HOST and EMAIL_FROM_ADDRESS are required when EMAIL_ENABLED is true")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt64(value string) int64 {
	result, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
