// Package tasks implements the scheduled tasks of servermanage: the daily
// image rotation and database maintenance.
package tasks

import (
	"log/slog"
	"time"

	"github.com/edgard/servermanage/internal/database"
	"github.com/edgard/servermanage/internal/images"
	"github.com/edgard/servermanage/internal/platform"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger   *slog.Logger
	Store    database.Store
	Images   *images.Service
	Updaters platform.Registry
	// Now returns the current time in the scheduler's location. Defaults to time.Now.
	Now func() time.Time
}

func (d TaskDeps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}
