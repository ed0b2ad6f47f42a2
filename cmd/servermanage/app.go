package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/afero"

	"github.com/edgard/servermanage/internal/bot"
	"github.com/edgard/servermanage/internal/bot/handlers"
	"github.com/edgard/servermanage/internal/bot/tasks"
	"github.com/edgard/servermanage/internal/config"
	"github.com/edgard/servermanage/internal/confirm"
	"github.com/edgard/servermanage/internal/database"
	"github.com/edgard/servermanage/internal/discord"
	"github.com/edgard/servermanage/internal/images"
	"github.com/edgard/servermanage/internal/logger"
	"github.com/edgard/servermanage/internal/platform"
	"github.com/edgard/servermanage/internal/telegram"
)

// transport is a platform connection that also routes messages to the dispatcher.
type transport interface {
	bot.Transport
	RegisterDispatcher(ctx context.Context, d *handlers.Dispatcher)
}

// app holds the wired components of a running servermanage process.
type app struct {
	logger    *slog.Logger
	bot       *bot.Bot
	scheduler *bot.Scheduler
	closers   []func()
}

func loadConfig(configPath string) (*config.Config, *slog.Logger, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", configPath, "error", err)
		return nil, nil, nil, err
	}

	log, closer, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON, cfg.Logger.File)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		return nil, nil, nil, err
	}
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON, "file", cfg.Logger.File)

	return cfg, log, func() { _ = closer.Close() }, nil
}

// newApp initializes every component: config, logger, database, image
// service, platform clients, dispatcher, tasks and scheduler.
func newApp(ctx context.Context, configPath string) (*app, error) {
	cfg, log, closeLog, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	a := &app{logger: log, closers: []func(){closeLog}}

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	a.closers = append(a.closers, func() { database.CloseDB(db) })

	store := database.NewStore(db, log)
	files := images.NewFileStore(afero.NewOsFs(), cfg.Storage.DataDir)
	imageService := images.NewService(store, files, log)

	transports, updaters, err := newTransports(cfg, log)
	if err != nil {
		a.Close()
		return nil, err
	}
	registry := platform.NewRegistry(updaters...)

	hDeps := handlers.HandlerDeps{
		Logger:   log,
		Config:   cfg,
		Images:   imageService,
		Broker:   confirm.NewBroker(cfg.Confirm.Timeout, log),
		Updaters: registry,
	}
	dispatcher := handlers.NewDispatcher(hDeps, handlers.RegisterAllCommands(hDeps))

	botTransports := make([]bot.Transport, 0, len(transports))
	for _, t := range transports {
		t.RegisterDispatcher(ctx, dispatcher)
		botTransports = append(botTransports, t)
	}

	loc, err := cfg.Scheduler.TimeLocation()
	if err != nil {
		a.Close()
		return nil, err
	}
	tDeps := tasks.TaskDeps{
		Logger:   log,
		Store:    store,
		Images:   imageService,
		Updaters: registry,
		Now:      func() time.Time { return time.Now().In(loc) },
	}
	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	a.scheduler = sched
	a.bot = bot.NewBot(log, sched, botTransports...)
	return a, nil
}

// newTransports creates a client for every enabled platform.
func newTransports(cfg *config.Config, log *slog.Logger) ([]transport, []platform.Updater, error) {
	var (
		transports []transport
		updaters   []platform.Updater
	)

	if cfg.Discord.Enabled {
		dc, err := discord.NewClient(cfg, log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create discord client: %w", err)
		}
		transports = append(transports, dc)
		updaters = append(updaters, dc.Updater())
	}

	if cfg.Telegram.Enabled {
		tg, err := telegram.NewClient(cfg, log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create telegram client: %w", err)
		}
		transports = append(transports, tg)
		updaters = append(updaters, tg.Updater())
	}

	return transports, updaters, nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
