package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`
	SPARoot   string `env:"SPA_ROOT"`

	Auth  AuthConfig
	Store StoreConfig
	Mongo MongoConfig
	SQL   SQLConfig
	Redis RedisConfig
	Admin AdminConfig
}

// AuthConfig holds the token signing settings.
type AuthConfig struct {
	Secret        string `env:"AUTH_SECRET, required"`
	Issuer        string `env:"AUTH_ISSUER,         default=http://localhost:8080"`
	Audience      string `env:"AUTH_AUDIENCE,       default=http://localhost:8080"`
	ExpireMinutes int    `env:"AUTH_EXPIRE_MINUTES, default=90"`
}

// TokenTTL converts ExpireMinutes to a duration.
func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.ExpireMinutes) * time.Minute
}

type StoreConfig struct {
	Driver string `env:"STORE_DRIVER, default=mongo"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=storefront"`
}

type SQLConfig struct {
	DSN string `env:"SQL_DSN, default=storefront.db"`
}

type RedisConfig struct {
	Enabled  bool          `env:"REDIS_ENABLED,     default=true"`
	Addr     string        `env:"REDIS_ADDR,        default=localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,          default=0"`
	CacheTTL time.Duration `env:"PRODUCT_CACHE_TTL, default=5m"`
}

// AdminConfig describes the optional bootstrap administrator.
type AdminConfig struct {
	Username string `env:"ADMIN_USERNAME"`
	Email    string `env:"ADMIN_EMAIL"`
	Password string `env:"ADMIN_PASSWORD"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration from the given lookuper.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case DriverMongo, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	if c.Auth.ExpireMinutes <= 0 {
		return errors.New("AUTH_EXPIRE_MINUTES must be positive")
	}
	if c.Admin.Username != "" && c.Admin.Password == "" {
		return errors.New("ADMIN_PASSWORD is required when ADMIN_USERNAME is set")
	}
	return nil
}
