package api

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/ngcore/storefront-api/docs"
	"github.com/ngcore/storefront-api/internal/api/handler"
	"github.com/ngcore/storefront-api/internal/api/middleware"
	"github.com/ngcore/storefront-api/internal/core/ports"
	"github.com/ngcore/storefront-api/internal/infrastructure/http/handlers"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	AuthService    ports.AuthService
	ProductService ports.ProductService
	Tokens         ports.TokenParser
	Checks         []handlers.Check
	Logger         zerolog.Logger

	// Registry receives the HTTP metrics and backs /metrics. Nil means the
	// prometheus default registry.
	Registry *prometheus.Registry

	// SPARoot is the directory of the built front end. Empty disables it.
	SPARoot string
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "storefront",
		Registerer: registerer,
		Skipper:    isHealthOrMetrics,
	}))

	// --- Health checks and tooling (no auth required) ---
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	e.GET("/health/ready", handlers.NewReadinessHandler(d.Checks...).Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Account routes ---
	authHandler := handler.NewAuthHandler(d.AuthService, d.Logger)
	account := e.Group("/api/Account")
	account.POST("/Register", authHandler.Register)
	account.POST("/Login", authHandler.Login)

	// --- Product routes (bearer token required) ---
	// Auth is attached per route: group-level middleware makes echo answer
	// unknown paths under the prefix with 401 instead of 404.
	productHandler := handler.NewProductHandler(d.ProductService, d.Logger)
	auth := middleware.Auth(d.Tokens)
	product := e.Group("/api/Product")
	product.GET("/GetProducts", productHandler.GetProducts, auth, middleware.LoggedIn())
	product.POST("/AddProduct", productHandler.AddProduct, auth, middleware.AdministratorOnly())
	product.PUT("/UpdateProduct/:id", productHandler.UpdateProduct, auth, middleware.AdministratorOnly())
	product.DELETE("/DeleteProduct/:id", productHandler.DeleteProduct, auth, middleware.AdministratorOnly())

	// --- Single-page front end ---
	if d.SPARoot != "" {
		e.Use(echomiddleware.StaticWithConfig(echomiddleware.StaticConfig{
			Root:    d.SPARoot,
			HTML5:   true,
			Skipper: isBackendPath,
		}))
	}

	return e
}

func isHealthOrMetrics(c echo.Context) bool {
	p := c.Request().URL.Path
	return p == "/metrics" || strings.HasPrefix(p, "/health")
}

// isBackendPath reports paths the SPA fallback must never answer.
func isBackendPath(c echo.Context) bool {
	p := c.Request().URL.Path
	for _, prefix := range []string{"/api/", "/swagger/", "/health", "/metrics"} {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}
