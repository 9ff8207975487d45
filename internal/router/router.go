// Package router assembles the echo server: global middleware, the error
// handler and every route of the pizza API.
package router

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/pizza-service/internal/config"
	"github.com/iliyamo/pizza-service/internal/handler"
	"github.com/iliyamo/pizza-service/internal/metrics"
	"github.com/iliyamo/pizza-service/internal/middleware"
)

// Sessions is what the server needs from auth.Manager: the handler side
// (login, issue, logout) and the middleware side (verify, is-active).
type Sessions interface {
	handler.Sessions
	middleware.SessionVerifier
}

// Deps carries everything the routes are built from.  Redis, Events and
// Gatherer are optional.
type Deps struct {
	Cfg        config.Config
	Sessions   Sessions
	Users      handler.UserStore
	Menu       handler.MenuStore
	Orders     handler.OrderStore
	Franchises handler.FranchiseStore
	Factory    handler.Fulfiller
	Events     handler.EventPublisher

	Redis     *redis.Client
	RateLimit config.RateLimitConfig
	Cache     config.CacheConfig

	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}

// New builds the echo instance.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.ErrorHandler(d.Metrics)

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(d.Metrics))
	e.Use(echomw.Recover())
	e.Use(middleware.Authenticate(d.Sessions, d.Cfg.AuthTimeout, d.Metrics))
	e.Use(middleware.RateLimit(d.RateLimit, d.Redis))

	RegisterRoutes(e, d)
	RegisterAuth(e, handler.NewAuthHandler(d.Cfg, d.Sessions, d.Users, d.Metrics), d.Metrics)
	RegisterUser(e, handler.NewUserHandler(d.Cfg, d.Users, d.Sessions), d.Metrics)

	oh := handler.NewOrderHandler(d.Cfg, d.Menu, d.Orders, d.Factory, d.Events, d.Metrics)
	if d.Redis != nil {
		oh.InvalidateMenu = func(ctx context.Context) error {
			return middleware.InvalidateCache(ctx, d.Cache, d.Redis)
		}
	}
	RegisterOrder(e, oh, middleware.ResponseCache(d.Cache, d.Redis), d.Metrics)
	RegisterFranchise(e, handler.NewFranchiseHandler(d.Cfg, d.Franchises), d.Metrics)
	return e
}

// RegisterRoutes registers the unauthenticated service endpoints.
func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/", handler.Welcome(d.Cfg))
	e.GET("/healthz", handler.Health)
	e.GET("/api/docs", handler.Docs(d.Cfg))
	if d.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}
}
