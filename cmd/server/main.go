// @title                       Storefront API
// @version                     1.0
// @description                 Account registration and login with bearer tokens, and role-gated product inventory.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ngcore/storefront-api/internal/api"
	"github.com/ngcore/storefront-api/internal/core/ports"
	"github.com/ngcore/storefront-api/internal/core/service"
	"github.com/ngcore/storefront-api/internal/infrastructure/config"
	"github.com/ngcore/storefront-api/internal/infrastructure/db/mongo"
	"github.com/ngcore/storefront-api/internal/infrastructure/db/redis"
	"github.com/ngcore/storefront-api/internal/infrastructure/db/sqlstore"
	"github.com/ngcore/storefront-api/internal/infrastructure/http/handlers"
	"github.com/ngcore/storefront-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// stores groups the repositories of whichever backend STORE_DRIVER selects.
type stores struct {
	users    ports.AuthRepository
	roles    ports.RoleRepository
	products ports.ProductRepository
	check    handlers.Check
	close    func(context.Context) error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "storefront-api",
		Env:     cfg.Env,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.close(closeCtx); err != nil {
			log.Warn().Err(err).Msg("store close failed")
		}
	}()
	log.Info().Str("driver", cfg.Store.Driver).Msg("store connected")

	seeder := service.NewSeeder(st.roles, st.users, log)
	if err := seeder.EnsureRoles(ctx); err != nil {
		return err
	}
	if err := seeder.EnsureAdmin(ctx, service.AdminAccount{
		Username: cfg.Admin.Username,
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
	}); err != nil {
		return err
	}

	checks := []handlers.Check{st.check}

	var cache ports.ProductCache
	if cfg.Redis.Enabled {
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		cache = redis.NewProductCache(rdb, cfg.Redis.CacheTTL)
		checks = append(checks, handlers.Check{
			Name: "redis",
			Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
		log.Info().Str("addr", cfg.Redis.Addr).Msg("product cache enabled")
	}

	tokens, err := service.NewJWTIssuer(service.TokenConfig{
		Secret:   cfg.Auth.Secret,
		Issuer:   cfg.Auth.Issuer,
		Audience: cfg.Auth.Audience,
		TTL:      cfg.Auth.TokenTTL(),
	})
	if err != nil {
		return err
	}

	e := api.NewRouter(api.Deps{
		AuthService:    service.NewAuthService(st.users, tokens, log),
		ProductService: service.NewProductService(st.products, cache, log),
		Tokens:         tokens,
		Checks:         checks,
		Logger:         log,
		SPARoot:        cfg.SPARoot,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres, config.DriverSQLite:
		db, err := sqlstore.Open(sqlstore.Config{
			Driver: cfg.Store.Driver,
			DSN:    cfg.SQL.DSN,
			Debug:  cfg.LogLevel == "debug",
		})
		if err != nil {
			return nil, err
		}
		return &stores{
			users:    sqlstore.NewUserRepository(db),
			roles:    sqlstore.NewRoleRepository(db),
			products: sqlstore.NewProductRepository(db),
			check: handlers.Check{
				Name: cfg.Store.Driver,
				Ping: func(ctx context.Context) error { return sqlstore.Ping(ctx, db) },
			},
			close: func(context.Context) error { return sqlstore.Close(db) },
		}, nil

	default:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &stores{
			users:    mongo.NewAuthRepository(db),
			roles:    mongo.NewRoleRepository(db),
			products: mongo.NewProductRepository(db),
			check: handlers.Check{
				Name: "mongodb",
				Ping: func(ctx context.Context) error { return mongo.Ping(ctx, db) },
			},
			close: client.Disconnect,
		}, nil
	}
}
