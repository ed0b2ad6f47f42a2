// Package bot implements the lifecycle of servermanage: it runs every chat
// transport alongside the task scheduler and shuts them down together.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Transport is a connection to one chat platform.
type Transport interface {
	// Name identifies the transport in logs.
	Name() string
	// Run blocks until ctx is cancelled or the connection fails.
	Run(ctx context.Context) error
}

// Bot represents the main bot application and manages its components' lifecycle.
type Bot struct {
	logger     *slog.Logger
	scheduler  *Scheduler
	transports []Transport
}

// NewBot creates a Bot that runs the given transports and scheduler.
func NewBot(logger *slog.Logger, scheduler *Scheduler, transports ...Transport) *Bot {
	return &Bot{
		logger:     logger.With("component", "bot_orchestrator"),
		scheduler:  scheduler,
		transports: transports,
	}
}

// Run starts every component and blocks until ctx is cancelled or one of them
// fails, in which case the others are stopped and the error is returned.
func (b *Bot) Run(ctx context.Context) error {
	if len(b.transports) == 0 {
		return errors.New("no transports configured")
	}
	b.logger.Info("Starting bot orchestrator...", "transports", len(b.transports))

	g, gCtx := errgroup.WithContext(ctx)

	for _, t := range b.transports {
		t := t
		g.Go(func() error {
			log := b.logger.With("transport", t.Name())
			log.Info("Starting transport...")

			if err := t.Run(gCtx); err != nil {
				log.Error("Transport stopped with error", "error", err)
				return fmt.Errorf("%s transport: %w", t.Name(), err)
			}
			if gCtx.Err() == nil {
				log.Warn("Transport stopped unexpectedly without context cancellation.")
				return fmt.Errorf("%s transport stopped unexpectedly", t.Name())
			}

			log.Info("Transport stopped.")
			return nil
		})
	}

	if b.scheduler != nil {
		g.Go(func() error {
			b.logger.Info("Starting scheduler...")
			if err := b.scheduler.Start(gCtx); err != nil {
				b.logger.Error("Failed to start scheduler", "error", err)
				return fmt.Errorf("failed to start scheduler: %w", err)
			}

			<-gCtx.Done()
			b.logger.Info("Shutdown signal received, stopping scheduler...")

			if err := b.scheduler.Stop(); err != nil {
				b.logger.Error("Error stopping scheduler", "error", err)
			}
			return nil
		})
	}

	b.logger.Info("Bot orchestrator running. Waiting for shutdown signal or error...")
	err := g.Wait()

	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot orchestrator stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Bot orchestrator stopped gracefully.")
	return nil
}
