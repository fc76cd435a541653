// Package app assembles the application from configuration: sources,
// scoring, summarization, storage, notifications, scheduler and HTTP API.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	"infocurator/internal/config"
	"infocurator/internal/infrastructure/llm"
	"infocurator/internal/infrastructure/scheduler"
	"infocurator/internal/infrastructure/storage"
	"infocurator/internal/infrastructure/telegram"
	"infocurator/internal/logging"
	"infocurator/internal/metrics"
	"infocurator/internal/ports"
	"infocurator/internal/scoring"
	"infocurator/internal/source"
	"infocurator/internal/source/collect"
	"infocurator/internal/summarize"
	"infocurator/internal/usecase"
	"infocurator/internal/web"
)

// App is the fully wired application.
type App struct {
	cfg       config.Config
	logger    *slog.Logger
	pipeline  *usecase.Pipeline
	scheduler ports.Scheduler
	server    *web.Server
	db        *sql.DB
}

// New wires every component. It fails fast on invalid configuration, a
// missing summarizer credential or an unwritable data directory.
func New(cfg config.Config) (*App, error) {
	logger := logging.New(cfg.Logging.Level)

	registry, err := buildRegistry(cfg)
	if err != nil {
		return nil, err
	}

	engine := scoring.NewEngine(registry.AllParams(), logger.With("component", "scoring"))

	summarizer, err := llm.NewClient(cfg.Summarizer)
	if err != nil {
		return nil, fmt.Errorf("summarizer: %w", err)
	}
	batcher := summarize.NewBatcher(summarizer,
		cfg.Summarizer.BatchSize, cfg.Summarizer.MaxAttempts, cfg.Summarizer.RetryDelay,
		logger.With("component", "summarizer"))

	store, err := storage.NewFileStore(cfg.Storage.DataDir, cfg.Schedule.Location(),
		logger.With("component", "storage"))
	if err != nil {
		return nil, fmt.Errorf("snapshot store: %w", err)
	}

	var db *sql.DB
	var archive ports.ItemArchive
	if cfg.Database.DSN != "" {
		db, err = sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		archive = storage.NewPostgresArchive(db)
		logger.Info("curated-item archive enabled")
	}

	notifier := telegram.NewNotifier(
		cfg.Notifications.Telegram.BotToken,
		cfg.Notifications.Telegram.ChatID,
		cfg.Server.SiteURL,
		logger)

	m := metrics.New()
	pipeline := usecase.NewPipeline(usecase.Deps{
		Config:   cfg,
		Registry: registry,
		Engine:   engine,
		Batcher:  batcher,
		Store:    store,
		Archive:  archive,
		Notifier: notifier,
		Metrics:  m,
		Logger:   logger,
	})

	return &App{
		cfg:    cfg,
		logger: logger,
		db:     db,
		scheduler: scheduler.NewCron(cfg.Schedule.Morning, cfg.Schedule.Evening,
			cfg.Schedule.Location(), logger),
		server:   web.NewServer(cfg.Server.Port, pipeline, store, m, logger),
		pipeline: pipeline,
	}, nil
}

// buildRegistry registers every configured source with its tuning and
// verifies that all category source references resolve.
func buildRegistry(cfg config.Config) (*source.Registry, error) {
	registry := source.NewRegistry()
	var httpClient *http.Client // each adapter builds its own default

	for name, sc := range cfg.Sources {
		params := source.Params{
			PrimaryBaseline:   sc.PrimaryBaseline,
			SecondaryBaseline: sc.SecondaryBaseline,
			Trust:             sc.Trust,
			SubTrust:          sc.SubTrust,
			FixedEngagement:   sc.FixedEngagement,
		}

		switch name {
		case "hackernews":
			registry.Register(collect.NewHackerNews(httpClient), params)
		case "reddit":
			registry.Register(collect.NewReddit(httpClient, sc.Subreddits), params)
		case "lobsters":
			registry.Register(collect.NewLobsters(httpClient), params)
		case "devto":
			registry.Register(collect.NewDevTo(httpClient), params)
		case "arxiv":
			registry.Register(collect.NewArxiv(httpClient, sc.ArxivCategories), params)
		case "rss":
			registry.Register(collect.NewRSS(httpClient, sc.Feeds), params)
		default:
			return nil, fmt.Errorf("source %q has no collector implementation", name)
		}
	}

	for _, cat := range cfg.Categories {
		if err := registry.Validate(cat.Sources); err != nil {
			return nil, fmt.Errorf("category %q: %w", cat.ID, err)
		}
	}
	return registry, nil
}

// Run starts the scheduler and the HTTP server and blocks until ctx is
// cancelled, then shuts both down.
func (a *App) Run(ctx context.Context) error {
	err := a.scheduler.Start(ctx, func(trigger time.Time, includeWeekly bool) {
		runCtx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
		defer cancel()
		if _, err := a.pipeline.Run(runCtx, usecase.RunOptions{IncludeWeekly: includeWeekly}); err != nil {
			a.logger.Error("scheduled run failed", "trigger", trigger, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- a.server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.scheduler.Stop(shutdownCtx); err != nil {
		a.logger.Warn("scheduler stop", "error", err)
	}
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("server shutdown", "error", err)
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("database close", "error", err)
		}
	}
	return nil
}

// RunOnce executes a single pipeline run and exits; used by the -once flag
// and by external schedulers.
func (a *App) RunOnce(ctx context.Context, categoryID string, includeWeekly bool) error {
	result, err := a.pipeline.Run(ctx, usecase.RunOptions{
		CategoryID:    categoryID,
		IncludeWeekly: includeWeekly,
	})
	if err != nil {
		return err
	}
	a.logger.Info("run finished",
		"collected", result.Collected, "selected", result.Selected,
		"snapshot", result.SnapshotPath, "elapsed", result.Elapsed)
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("database close", "error", err)
		}
	}
	return nil
}
