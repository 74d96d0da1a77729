package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	coreconfig "github.com/parsertg/parsertg/core/config"
	"github.com/parsertg/parsertg/core/database"
	"github.com/parsertg/parsertg/core/health"
	"github.com/parsertg/parsertg/core/logger"
	tg "github.com/parsertg/parsertg/core/telegram"
	"github.com/parsertg/parsertg/core/telegram/middleware"
	botsvc "github.com/parsertg/parsertg/internal/bot"
	"github.com/parsertg/parsertg/internal/catalog"
	"github.com/parsertg/parsertg/internal/export"
	"github.com/parsertg/parsertg/internal/flow"
	"github.com/parsertg/parsertg/internal/session"
	"github.com/parsertg/parsertg/internal/stats"

	"log/slog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", defaultConfigPath(), "path to YAML config")
	flag.Parse()

	// Local development keeps secrets in .env; absence is not an error.
	_ = godotenv.Load()

	cfg, err := coreconfig.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.InitLogger(cfg); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Shutdown() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	statsStore, err := buildStatsStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = statsStore.Close() }()

	if addr := strings.TrimSpace(cfg.Health.Listen); addr != "" {
		health.NewServer(addr).Start(ctx)
	}

	index := catalog.NewIndex(cfg.Dataset.ChatsDir, cfg.Dataset.ChannelsDir, cfg.Dataset.FilePrefix)
	pool := export.NewPool(export.PoolOptions{
		Workers:    cfg.Export.Workers,
		QueueSize:  cfg.Export.QueueSize,
		JobTimeout: time.Duration(cfg.Export.JobTimeoutSeconds) * time.Second,
	})
	defer pool.Close()

	machine := flow.NewMachine(flow.Options{
		Sessions:       session.NewStore(),
		Index:          index,
		Pipeline:       export.NewPipeline(cfg.Export.MaxRows),
		Pool:           pool,
		Stats:          statsStore,
		MaxCustomCount: cfg.Export.MaxCustom,
	})

	service := botsvc.New(machine)
	reg := tg.NewRegistry()
	service.Register(reg)

	middlewares := []tg.Middleware{
		{Name: "activity", Use: middleware.ActivityMiddleware(statsStore)},
	}
	if cfg.RateLimit.IntervalMS > 0 {
		exclude := make(map[string]struct{}, len(cfg.RateLimit.ExcludeUpdates))
		for _, kind := range cfg.RateLimit.ExcludeUpdates {
			exclude[kind] = struct{}{}
		}
		middlewares = append(middlewares, tg.Middleware{
			Name: "rate_limit",
			Use: middleware.RateLimitMiddleware(middleware.RateLimitOptions{
				Interval: time.Duration(cfg.RateLimit.IntervalMS) * time.Millisecond,
				Exclude:  exclude,
			}),
		})
	}

	logger.L.Info("starting",
		slog.String("event", "boot"),
		slog.String("run_mode", cfg.Telegram.RunMode),
		slog.String("stats_backend", cfg.Stats.Backend),
		slog.String("chats_dir", cfg.Dataset.ChatsDir),
		slog.String("channels_dir", cfg.Dataset.ChannelsDir),
	)

	err = tg.RunTelegram(ctx, tg.RunOptions{
		Config:      cfg,
		Registry:    reg,
		Middlewares: middlewares,
		Routes:      service.Routes(reg),
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("telegram: %w", err)
	}

	logger.L.Info("stopped", slog.String("event", "shutdown"))
	return nil
}

func buildStatsStore(cfg *coreconfig.Config) (stats.Store, error) {
	switch cfg.Stats.Backend {
	case coreconfig.StatsBackendPostgres:
		if err := database.RunMigrations(cfg.Database); err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, err
		}
		return stats.NewPostgresStore(db), nil
	case coreconfig.StatsBackendFile:
		return stats.NewFileStore(cfg.Stats.FilePath)
	default:
		return stats.NewMemoryStore(), nil
	}
}

func defaultConfigPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config.yaml"
}
