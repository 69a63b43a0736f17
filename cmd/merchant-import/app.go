package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/JonMunkholm/MerchantImport/internal/config"
	"github.com/JonMunkholm/MerchantImport/internal/core"
	"github.com/JonMunkholm/MerchantImport/internal/event"
	"github.com/JonMunkholm/MerchantImport/internal/logging"
)

// app holds what every database-backed command needs.
type app struct {
	cfg     *config.Config
	pool    *pgxpool.Pool
	service *core.Service
}

// loadConfig reads .env, loads the configuration and sets up logging.
func loadConfig() (*config.Config, error) {
	// Overload overwrites existing env vars
	envErr := godotenv.Overload()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	if envErr != nil {
		slog.Debug("no .env file found, using environment variables")
	} else {
		slog.Debug("loaded .env file")
	}
	return cfg, nil
}

// newApp connects to the database and builds the import service.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if u, err := url.Parse(cfg.Database.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	}

	publisher, err := newPublisher(cfg.Events, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}

	slog.Debug("configuration loaded", "config", cfg.String())

	return &app{
		cfg:     cfg,
		pool:    pool,
		service: core.NewService(pool, publisher, cfg.Import, cfg.Events),
	}, nil
}

func (a *app) Close() {
	a.pool.Close()
}

// newPublisher picks the event transport.
func newPublisher(cfg config.EventsConfig, pool *pgxpool.Pool) (event.Publisher, error) {
	switch cfg.Transport {
	case "log":
		return event.LogPublisher{Logger: slog.Default()}, nil
	case "notify":
		return event.NewNotifyPublisher(pool, cfg.Channel), nil
	default:
		return nil, fmt.Errorf("unknown events transport %q", cfg.Transport)
	}
}
