package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port           string `env:"PORT,            default=8080"`
	Env            string `env:"ENV,             default=development"`
	LogLevel       string `env:"LOG_LEVEL,       default=info"`
	ClinicTimezone string `env:"CLINIC_TIMEZONE, default=UTC"`
	CookieSecure   bool   `env:"COOKIE_SECURE,   default=false"`

	Gateway GatewayConfig
	Redis   RedisConfig
	Mongo   MongoConfig
}

type GatewayConfig struct {
	URL            string        `env:"GATEWAY_URL, required"`
	AnonKey        string        `env:"GATEWAY_ANON_KEY, required"`
	ServiceRoleKey string        `env:"GATEWAY_SERVICE_ROLE_KEY"`
	JWTSecret      string        `env:"GATEWAY_JWT_SECRET"`
	Timeout        time.Duration `env:"GATEWAY_TIMEOUT, default=10s"`
}

type RedisConfig struct {
	Addr       string        `env:"REDIS_ADDR,  default=localhost:6379"`
	DB         int           `env:"REDIS_DB,    default=0"`
	SessionTTL time.Duration `env:"SESSION_TTL, default=168h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI,     default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,      default=clinic"`
	Enabled  bool   `env:"AUDIT_ENABLED, default=false"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Location resolves CLINIC_TIMEZONE. Day and month boundaries on the
// dashboard are computed in this zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.ClinicTimezone)
	if err != nil {
		return nil, fmt.Errorf("config: CLINIC_TIMEZONE %q: %w", c.ClinicTimezone, err)
	}
	return loc, nil
}

// Development reports whether ENV is development.
func (c *Config) Development() bool { return c.Env == "development" }
