package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/iliyamo/pizza-service/internal/auth"
	"github.com/iliyamo/pizza-service/internal/config"
	"github.com/iliyamo/pizza-service/internal/database"
	"github.com/iliyamo/pizza-service/internal/factory"
	"github.com/iliyamo/pizza-service/internal/metrics"
	"github.com/iliyamo/pizza-service/internal/model"
	"github.com/iliyamo/pizza-service/internal/queue"
	"github.com/iliyamo/pizza-service/internal/repository"
	"github.com/iliyamo/pizza-service/internal/router"
	"github.com/iliyamo/pizza-service/internal/service"
)

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func setupLogging(cfg config.Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)})).
		With("service", appName, "env", cfg.Env)
	slog.SetDefault(logger)
	return logger
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// serve wires the repositories, session manager and router and runs the
// HTTP server until SIGINT/SIGTERM.
func serve(parent context.Context, cfg config.Config) error {
	log := setupLogging(cfg)
	ctx, stop := signalContext(parent)
	defer stop()

	db, err := database.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	creds := repository.NewCredentials(users, repository.NewTokenRepo(db))

	codec, err := auth.NewCodec([]byte(cfg.JWTSecret))
	if err != nil {
		return err
	}
	sessions, err := auth.NewManager(codec, creds, cfg.BcryptCost)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(cfg.MetricsEnabled, reg)

	rdb := config.NewRedisClient(ctx)
	if rdb != nil {
		defer rdb.Close()
	}

	deps := router.Deps{
		Cfg:        cfg,
		Sessions:   sessions,
		Users:      users,
		Menu:       repository.NewMenuRepo(db),
		Orders:     repository.NewOrderRepo(db),
		Franchises: repository.NewFranchiseRepo(db),
		Factory:    factory.New(cfg.FactoryURL, cfg.FactoryAPIKey),
		Events:     service.NewPublisher(config.AMQPURL()),
		Redis:      rdb,
		RateLimit:  config.LoadRateLimitConfig(),
		Cache:      config.LoadCacheConfig(),
		Metrics:    m,
	}
	if cfg.MetricsEnabled {
		deps.Gatherer = reg
	}
	e := router.New(deps)

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", ":"+cfg.Port, "version", cfg.Version)
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
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// consume runs the order.placed consumer until SIGINT/SIGTERM.
func consume(parent context.Context, cfg config.Config) error {
	setupLogging(cfg)
	ctx, stop := signalContext(parent)
	defer stop()

	err := queue.NewConsumer(config.AMQPURL(), os.Getenv("ORDER_LOG_PATH")).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// migrate creates missing tables and, when ADMIN_EMAIL is set, makes sure
// an admin account with that email exists.
func migrate(parent context.Context, cfg config.Config) error {
	log := setupLogging(cfg)
	ctx, stop := signalContext(parent)
	defer stop()

	db, err := database.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}
	log.Info("schema up to date", "operation", "migrate", "outcome", "success")

	if cfg.AdminEmail == "" {
		return nil
	}
	created, err := seedAdmin(ctx, repository.NewUserRepo(db), cfg)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	log.Info("admin account checked", "operation", "seed_admin", "email", cfg.AdminEmail, "created", created)
	return nil
}

type adminSeeder interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, name, email, password string, cost int, roles []model.RoleAssignment) (*model.User, error)
}

func seedAdmin(ctx context.Context, users adminSeeder, cfg config.Config) (bool, error) {
	existing, err := users.FindByEmail(ctx, cfg.AdminEmail)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	_, err = users.Create(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword, cfg.BcryptCost,
		[]model.RoleAssignment{{Role: model.RoleAdmin}})
	if err != nil {
		return false, err
	}
	return true, nil
}
