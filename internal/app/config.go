package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (BAKERY_ prefix), flags, or YAML config files.
type Config struct {
	Addr          string `default:"0.0.0.0:8080" usage:"API server listen address"`
	DatabaseURL   string `usage:"PostgreSQL connection URL (BAKERY_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	RedisURL      string `default:"" usage:"Redis URL for sessions and carts; empty uses the in-process store" flag:"redis-url"`
	NatsURL       string `default:"" usage:"NATS URL for order events; empty disables publishing" flag:"nats-url"`
	SessionPepper string `usage:"HMAC pepper for session token hashing (BAKERY_SESSION_PEPPER)" flag:"session-pepper"`
	Session       SessionConfig
	Bootstrap     BootstrapConfig
	RateLimit     RateLimitConfig
	CORS          CORSConfig
	Graceful      GracefulConfig
}

// SessionConfig controls session and cart lifetimes in the session store.
type SessionConfig struct {
	TTL     time.Duration `default:"24h" usage:"Session lifetime" flag:"session-ttl"`
	CartTTL time.Duration `default:"72h" usage:"Cart lifetime" flag:"cart-ttl"`
}

// BootstrapConfig optionally creates an approved admin account at startup,
// solving the chicken-and-egg problem of an empty database: someone has to
// approve the first registration.
type BootstrapConfig struct {
	AdminPhone     string `default:"" usage:"Phone of the admin account to ensure at startup" flag:"bootstrap-admin-phone"`
	AdminFirstName string `default:"Admin" usage:"First name for the bootstrap admin" flag:"bootstrap-admin-first-name"`
	AdminLastName  string `default:"Admin" usage:"Last name for the bootstrap admin" flag:"bootstrap-admin-last-name"`
}

// RateLimitConfig controls the per-client sliding window rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "BAKERY",
		Files:     []string{"config.yaml", "/etc/bakehouse/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.DatabaseURL == "" {
		return nil, errors.New("database URL is required: set BAKERY_DATABASE_URL or DATABASE_URL")
	}
	if cfg.SessionPepper == "" {
		return nil, errors.New("session pepper is required: set BAKERY_SESSION_PEPPER")
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables (Railway,
// Render, etc.) that use standard names like DATABASE_URL and PORT to the
// application's BAKERY_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
	if c.RedisURL == "" {
		if v := os.Getenv("REDIS_URL"); v != "" {
			c.RedisURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
