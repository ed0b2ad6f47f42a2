package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/edgard/servermanage/internal/bot/tasks"
	"github.com/edgard/servermanage/internal/config"
)

// ErrUnknownTask is returned by RunNow for a task that is not registered.
var ErrUnknownTask = errors.New("unknown task")

// Scheduler manages scheduled tasks using the gocron library.
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *slog.Logger
	cfg       *config.SchedulerConfig
	taskMap   map[string]tasks.ScheduledTaskFunc

	mu      sync.Mutex
	running bool
}

// NewScheduler creates a new scheduler instance using gocron. Jobs fire in
// the configured location, the local time zone by default.
func NewScheduler(logger *slog.Logger, cfg *config.SchedulerConfig, taskMap map[string]tasks.ScheduledTaskFunc) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "scheduler")

	loc, err := cfg.TimeLocation()
	if err != nil {
		return nil, err
	}

	s, err := gocron.NewScheduler(
		gocron.WithLocation(loc),
		gocron.WithLogger(newGocronLogger(log)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	return &Scheduler{
		scheduler: s,
		logger:    log,
		cfg:       cfg,
		taskMap:   taskMap,
	}, nil
}

// Start schedules and starts all enabled tasks. Task runs receive ctx, so
// cancelling it aborts in-flight work.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("scheduler is already running")
	}

	scheduledCount := 0
	for taskName, taskConfig := range s.cfg.Tasks {
		if !taskConfig.Enabled {
			s.logger.Info("Skipping disabled task", "task_name", taskName)
			continue
		}

		taskFunc, exists := s.taskMap[taskName]
		if !exists {
			s.logger.Warn("Scheduled task configured but not found in registry, skipping", "task_name", taskName)
			continue
		}

		opts := []gocron.JobOption{
			gocron.WithName(taskName),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		}
		if taskConfig.RunOnStart {
			opts = append(opts, gocron.WithStartAt(gocron.WithStartImmediately()))
		}

		name := taskName
		_, err := s.scheduler.NewJob(
			gocron.CronJob(taskConfig.Schedule, false),
			gocron.NewTask(func() { _ = s.runTask(ctx, name, taskFunc) }),
			opts...,
		)
		if err != nil {
			s.logger.Error("Failed to schedule task", "task_name", taskName, "schedule", taskConfig.Schedule, "error", err)
			continue
		}

		s.logger.Info("Scheduled task", "task_name", taskName, "schedule", taskConfig.Schedule, "run_on_start", taskConfig.RunOnStart)
		scheduledCount++
	}

	s.scheduler.Start()
	s.running = true
	s.logger.Info("Scheduler initialized and started", "tasks_scheduled", scheduledCount)
	return nil
}

// RunNow runs a registered task once, synchronously, outside the schedule.
func (s *Scheduler) RunNow(ctx context.Context, taskName string) error {
	taskFunc, ok := s.taskMap[taskName]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTask, taskName)
	}
	return s.runTask(ctx, taskName, taskFunc)
}

func (s *Scheduler) runTask(ctx context.Context, name string, taskFunc tasks.ScheduledTaskFunc) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	s.logger.Info("Running scheduled task", "task_name", name)
	startTime := time.Now()

	err := taskFunc(ctx)
	if err != nil {
		s.logger.Error("Scheduled task failed", "task_name", name, "error", err)
	}
	s.logger.Info("Finished scheduled task", "task_name", name, "duration", time.Since(startTime))
	return err
}

// Stop gracefully stops the scheduler, waiting for running jobs to complete.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		s.logger.Info("Scheduler is not running, nothing to stop.")
		return nil
	}

	err := s.scheduler.Shutdown()
	if err != nil {
		s.logger.Error("Error during scheduler shutdown", "error", err)
	} else {
		s.logger.Info("Scheduler stopped gracefully.")
	}

	s.running = false
	return err
}

// gocronLogger forwards gocron's internal logging to slog.
type gocronLogger struct {
	log *slog.Logger
}

func newGocronLogger(log *slog.Logger) gocron.Logger {
	return gocronLogger{log: log.With("source", "gocron")}
}

func (l gocronLogger) Debug(msg string, args ...any) { l.log.Debug(msg, args...) }
func (l gocronLogger) Info(msg string, args ...any)  { l.log.Info(msg, args...) }
func (l gocronLogger) Warn(msg string, args ...any)  { l.log.Warn(msg, args...) }
func (l gocronLogger) Error(msg string, args ...any) { l.log.Error(msg, args...) }
