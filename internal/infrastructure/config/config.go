package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// envFiles are loaded, if present, before the environment is read. Variables
// already set in the environment win.
var envFiles = []string{".env", "config/config.env"}

type Config struct {
	Port     string `env:"PORT,      default=4000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT,  default=10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	Auth      AuthConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	Mail      MailConfig
	RateLimit RateLimitConfig
}

type AuthConfig struct {
	JWTSecret     string        `env:"JWT_SECRET"`
	JWTExpire     time.Duration `env:"JWT_EXPIRE,      default=120h"`
	CookieName    string        `env:"COOKIE_NAME,     default=token"`
	CookieSecure  bool          `env:"COOKIE_SECURE,   default=false"`
	ResetTokenTTL time.Duration `env:"RESET_TOKEN_TTL, default=15m"`
	// ResetURLBase overrides the reset link prefix; when empty it is derived
	// from the incoming request.
	ResetURLBase string `env:"RESET_URL_BASE"`
}

type MongoConfig struct {
	URI      string        `env:"MONGO_URI,     default=mongodb://localhost:27017"`
	Database string        `env:"MONGO_DB,      default=ecommerce"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=10s"`
}

type RedisConfig struct {
	Enabled  bool   `env:"REDIS_ENABLED,  default=true"`
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type MailConfig struct {
	Enabled bool   `env:"MAIL_ENABLED,     default=false"`
	Domain  string `env:"MAILGUN_DOMAIN"`
	APIKey  string `env:"MAILGUN_API_KEY"`
	APIBase string `env:"MAILGUN_API_BASE"`
	Sender  string `env:"MAIL_SENDER,      default=Ecommerce <no-reply@example.com>"`
	Workers int    `env:"MAIL_WORKERS,     default=4"`
}

type RateLimitConfig struct {
	AuthMax    int           `env:"RATE_LIMIT_AUTH_MAX,    default=10"`
	AuthWindow time.Duration `env:"RATE_LIMIT_AUTH_WINDOW, default=1m"`
	APIMax     int           `env:"RATE_LIMIT_API_MAX,     default=300"`
	APIWindow  time.Duration `env:"RATE_LIMIT_API_WINDOW,  default=1m"`
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Mail.Enabled && (c.Mail.Domain == "" || c.Mail.APIKey == "") {
		errs = append(errs, errors.New("MAILGUN_DOMAIN and MAILGUN_API_KEY are required when MAIL_ENABLED=true"))
	}
	if c.RateLimit.AuthMax <= 0 || c.RateLimit.APIMax <= 0 {
		errs = append(errs, errors.New("rate limit maximums must be positive"))
	}
	if c.RateLimit.AuthWindow <= 0 || c.RateLimit.APIWindow <= 0 {
		errs = append(errs, errors.New("rate limit windows must be positive"))
	}
	return errors.Join(errs...)
}

// Load reads .env files, then configuration from environment variables using
// go-envconfig, and validates the result.
func Load(ctx context.Context) (*Config, error) {
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
