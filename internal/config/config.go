package config

import (
	"fmt"
	"strings"

	pkgconfig "github.com/michaelpizzardello/outsider-site-sub000/pkg/config"
)

// Config holds all configuration for the storefront API.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8000"`

	// Public site address, used for sitemap URLs.
	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:3000"`

	// Shopify Storefront API
	ShopDomain      string `env:"SHOPIFY_SHOP_DOMAIN"`
	ShopAPIVersion  string `env:"SHOPIFY_API_VERSION" envDefault:"2024-10"`
	StorefrontToken string `env:"SHOPIFY_STOREFRONT_TOKEN"`

	// CRM
	CRMBaseURL string `env:"CRM_BASE_URL"`
	CRMAPIKey  string `env:"CRM_API_KEY"`

	// Mailing list
	MailingBaseURL string `env:"MAILING_BASE_URL"`
	MailingAPIKey  string `env:"MAILING_API_KEY"`
	MailingListID  string `env:"MAILING_LIST_ID"`

	// Transactional email
	MailerBaseURL  string `env:"MAILER_BASE_URL"`
	MailerAPIKey   string `env:"MAILER_API_KEY"`
	LeadNotifyFrom string `env:"LEAD_NOTIFY_FROM" envDefault:"website@outsider.gallery"`
	LeadNotifyTo   string `env:"LEAD_NOTIFY_TO" envDefault:"info@outsider.gallery"`

	// Redis content cache
	RedisAddr       string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass       string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB         int    `env:"REDIS_DB" envDefault:"0"`
	ContentCacheTTL int    `env:"CONTENT_CACHE_TTL_SECONDS" envDefault:"300"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// CORS and cookies
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`
	SecureCookies  bool     `env:"SECURE_COOKIES" envDefault:"false"`

	// Sitemap response caching
	SitemapMaxAge int `env:"SITEMAP_MAX_AGE_SECONDS" envDefault:"3600"`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// Pprof debug endpoints (IP allowlist in CIDR notation)
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"10.0.0.0/8,172.16.0.0/12,192.168.0.0/16,127.0.0.0/8,::1/128" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}
	if cfg.ShopDomain == "" {
		return nil, fmt.Errorf("SHOPIFY_SHOP_DOMAIN is required")
	}
	if strings.Contains(cfg.ShopDomain, "/") {
		return nil, fmt.Errorf("SHOPIFY_SHOP_DOMAIN must be a bare host, got %q", cfg.ShopDomain)
	}
	if cfg.StorefrontToken == "" {
		return nil, fmt.Errorf("SHOPIFY_STOREFRONT_TOKEN is required")
	}
	if cfg.CRMBaseURL == "" {
		return nil, fmt.Errorf("CRM_BASE_URL is required")
	}
	if cfg.CRMAPIKey == "" {
		return nil, fmt.Errorf("CRM_API_KEY is required")
	}
	if cfg.ContentCacheTTL < 0 {
		return nil, fmt.Errorf("CONTENT_CACHE_TTL_SECONDS must not be negative, got %d", cfg.ContentCacheTTL)
	}
	if len(cfg.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS is required")
	}
	if cfg.OTELSampleRate < 0 || cfg.OTELSampleRate > 1.0 {
		return nil, fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", cfg.OTELSampleRate)
	}
	return cfg, nil
}
