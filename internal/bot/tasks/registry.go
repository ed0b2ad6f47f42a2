package tasks

import (
	"context"

	"github.com/edgard/servermanage/internal/config"
)

// ScheduledTaskFunc defines the standard signature for all scheduled tasks.
// The context provided by the scheduler should be respected for cancellation.
type ScheduledTaskFunc func(ctx context.Context) error

// Task names, matching the keys of the scheduler.tasks config section.
const (
	ImageRotation  = config.TaskImageRotation
	SQLMaintenance = config.TaskSQLMaintenance
)

// RegisterAllTasks initializes and returns a map of all registered scheduled tasks,
// keyed by the name used for configuration lookup and logging.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	tasks := map[string]ScheduledTaskFunc{
		ImageRotation:  newImageRotationTask(deps),
		SQLMaintenance: newSQLMaintenanceTask(deps),
	}

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
