package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"AUTH_SECRET": "s3cret",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("port: got %q", cfg.Port)
	}
	if cfg.Store.Driver != DriverMongo {
		t.Errorf("driver: got %q", cfg.Store.Driver)
	}
	if cfg.Auth.TokenTTL() != 90*time.Minute {
		t.Errorf("ttl: got %v", cfg.Auth.TokenTTL())
	}
	if !cfg.Redis.Enabled || cfg.Redis.CacheTTL != 5*time.Minute {
		t.Errorf("redis: got %+v", cfg.Redis)
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"AUTH_SECRET":         "s3cret",
		"AUTH_ISSUER":         "https://shop.example",
		"AUTH_AUDIENCE":       "https://app.example",
		"AUTH_EXPIRE_MINUTES": "15",
		"STORE_DRIVER":        "sqlite",
		"SQL_DSN":             "file::memory:",
		"REDIS_ENABLED":       "false",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Auth.Issuer != "https://shop.example" || cfg.Auth.Audience != "https://app.example" {
		t.Errorf("auth: got %+v", cfg.Auth)
	}
	if cfg.Auth.TokenTTL() != 15*time.Minute {
		t.Errorf("ttl: got %v", cfg.Auth.TokenTTL())
	}
	if cfg.Store.Driver != DriverSQLite || cfg.SQL.DSN != "file::memory:" {
		t.Errorf("store: got %+v %+v", cfg.Store, cfg.SQL)
	}
	if cfg.Redis.Enabled {
		t.Error("redis should be disabled")
	}
}

func TestLoad_Errors(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret": {},
		"bad driver":     {"AUTH_SECRET": "s", "STORE_DRIVER": "oracle"},
		"bad expiry":     {"AUTH_SECRET": "s", "AUTH_EXPIRE_MINUTES": "0"},
		"admin no pass":  {"AUTH_SECRET": "s", "ADMIN_USERNAME": "root"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadWith(context.Background(), envconfig.MapLookuper(env))
			if err == nil || !strings.HasPrefix(err.Error(), "config:") {
				t.Fatalf("expected config error, got %v", err)
			}
		})
	}
}
