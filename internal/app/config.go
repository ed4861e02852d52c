package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (ECHEM_ prefix), flags, or YAML config files.
type Config struct {
	Addr      string `default:"0.0.0.0:8080" usage:"API server listen address"`
	Storage   StorageConfig
	Admin     AdminConfig
	Email     EmailConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Graceful  GracefulConfig
}

// StorageConfig selects the order store backend.
type StorageConfig struct {
	// Mode is file, memory, or auto. Auto probes the environment once at
	// startup: a serverless flag or an unwritable data directory selects
	// memory; anything ambiguous also selects memory, trading persistence
	// for availability.
	Mode string `default:"auto" usage:"Order store backend (auto|file|memory)"`
	// Path is the order document location for the file backend.
	Path string `default:"data/orders.json" usage:"Order document path (file backend)" flag:"storage-path"`
}

// AdminConfig controls the admin endpoint stub check.
type AdminConfig struct {
	// Token gates /api/admin routes via the X-Admin-Token header. Empty
	// leaves them open; this is a stub, not an auth system.
	Token string `usage:"Shared token for admin endpoints (ECHEM_ADMIN_TOKEN)" flag:"admin-token"`
}

// EmailConfig configures the payment-instruction email provider.
type EmailConfig struct {
	APIKey  string `usage:"Email provider API key; empty disables delivery" flag:"email-api-key"`
	BaseURL string `default:"" usage:"Email provider API base URL override" flag:"email-base-url"`
	From    string `default:"EnhancedChem <orders@enhancedchem.com>" usage:"Sender address" flag:"email-from"`
}

// RedisConfig points at the optional cache probed by the redis-check
// diagnostic. The order lifecycle never depends on it.
type RedisConfig struct {
	URL string `usage:"Redis connection URL for the redis-check diagnostic" flag:"redis-url"`
}

// RateLimitConfig controls the per-client rate limiter.
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
// files, and applies platform defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "ECHEM",
		Files:     []string{"config.yaml", "/etc/enhancedchem/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	switch cfg.Storage.Mode {
	case "auto", "file", "memory":
	default:
		return nil, errors.Errorf("invalid storage mode %q: want auto, file, or memory", cfg.Storage.Mode)
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables
// (Railway, Render, etc.) onto the ECHEM_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
