// Package main contains the entrypoint for servermanage, the bot that rotates
// community icons and banners on Discord and Telegram by calendar date.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/edgard/servermanage/internal/bot/tasks"
	"github.com/edgard/servermanage/internal/database"
	"github.com/edgard/servermanage/internal/images"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Connect to the enabled platforms and run the daily image rotation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBot(cmd.Context(), configPath)
		},
	}

	root := &cobra.Command{
		Use:           "servermanage",
		Short:         "Rotate community icons and banners by calendar date",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runCmd.RunE,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "./config.yaml", "Path to configuration file")

	root.AddCommand(
		runCmd,
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply database migrations and exit",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				return migrateDB(configPath)
			},
		},
		&cobra.Command{
			Use:   "apply",
			Short: "Apply today's scheduled images once and exit",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return applyNow(cmd.Context(), configPath)
			},
		},
		&cobra.Command{
			Use:   "dates",
			Short: "Print every valid date key",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				for _, key := range images.AllDateKeys() {
					human, err := images.HumanDate(key)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", key, human)
				}
				return nil
			},
		},
	)
	return root
}

// runBot starts every enabled transport and the scheduler, and blocks until
// ctx is cancelled or a component fails.
func runBot(ctx context.Context, configPath string) error {
	a, err := newApp(ctx, configPath)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		return err
	}
	defer a.Close()

	log := a.logger
	log.Info("Starting bot...")
	runErr := a.bot.Run(ctx)
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		return runErr
	}

	log.Info("Bot stopped gracefully.")
	return nil
}

// applyNow runs the image rotation once without starting the listeners.
func applyNow(ctx context.Context, configPath string) error {
	a, err := newApp(ctx, configPath)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		return err
	}
	defer a.Close()

	runCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()
	if err := a.scheduler.RunNow(runCtx, tasks.ImageRotation); err != nil {
		a.logger.Error("Image rotation failed", "error", err)
		return err
	}
	return nil
}

func migrateDB(configPath string) error {
	cfg, log, closeLog, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	defer closeLog()

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to migrate database", "path", cfg.Database.Path, "error", err)
		return err
	}
	database.CloseDB(db)
	log.Info("Database is up to date", "path", cfg.Database.Path)
	return nil
}
