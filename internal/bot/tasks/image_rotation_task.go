package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/edgard/servermanage/internal/database"
	"github.com/edgard/servermanage/internal/images"
	"github.com/edgard/servermanage/internal/platform"
)

const (
	markerLayout  = "2006-01-02"
	updateTimeout = time.Minute
)

var (
	// ErrNoUpdater is returned for a due asset on a platform that is not running.
	ErrNoUpdater = errors.New("no updater for platform")
	// ErrDanglingSchedule is returned when a schedule entry names an asset that no longer exists.
	ErrDanglingSchedule = errors.New("schedule entry has no asset")
)

// imageRotation applies the icons and banners scheduled for today. It runs at
// most once per calendar day per process.
type imageRotation struct {
	deps TaskDeps
	log  *slog.Logger

	mu          sync.Mutex
	lastChecked string
}

func newImageRotationTask(deps TaskDeps) ScheduledTaskFunc {
	r := &imageRotation{
		deps: deps,
		log:  deps.Logger.With("task", ImageRotation),
	}
	return r.run
}

func (r *imageRotation) run(ctx context.Context) error {
	now := r.deps.now()
	if !r.claim(now.Format(markerLayout)) {
		r.log.DebugContext(ctx, "Already checked today, skipping", "date", now.Format(markerLayout))
		return nil
	}

	key := images.DateKeyFor(now)
	r.log.InfoContext(ctx, "Checking to see if we need to change server images", "date_key", key)

	due, err := r.deps.Images.Due(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to list due images: %w", err)
	}

	var applied, failed int
	for _, d := range due {
		if ctx.Err() != nil {
			r.log.WarnContext(ctx, "Image rotation cancelled", "applied", applied, "remaining", len(due)-applied-failed)
			return ctx.Err()
		}
		if err := r.apply(ctx, d); err != nil {
			failed++
			continue
		}
		applied++
	}

	r.log.InfoContext(ctx, "Image rotation finished", "date_key", key, "due", len(due), "applied", applied, "failed", failed)
	return nil
}

// claim records date as checked and reports whether it was not already.
func (r *imageRotation) claim(date string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lastChecked == date {
		return false
	}
	r.lastChecked = date
	return true
}

// apply pushes one due asset. Every failure is logged here; the caller only counts it.
func (r *imageRotation) apply(ctx context.Context, d database.DueAsset) error {
	log := r.log.With(
		"community", d.Community.String(),
		"category", d.Category,
		"name", d.AssetName,
	)

	category, err := images.ParseCategory(d.Category)
	if err != nil {
		log.ErrorContext(ctx, "Skipping schedule entry with unknown category", "error", err)
		return err
	}
	updater, ok := r.deps.Updaters[d.Platform]
	if !ok {
		log.WarnContext(ctx, "Skipping schedule entry for a platform that is not running")
		return ErrNoUpdater
	}
	if d.Filename == "" {
		log.ErrorContext(ctx, "Skipping schedule entry whose asset no longer exists")
		return ErrDanglingSchedule
	}

	data, err := r.deps.Images.ReadFile(d.Community, category, d.Filename)
	if err != nil {
		log.ErrorContext(ctx, "Could not read scheduled image", "filename", d.Filename, "error", err)
		return err
	}

	// One attempt per entry and day; a failed entry waits for next year's date.
	updateCtx, cancel := context.WithTimeout(ctx, updateTimeout)
	defer cancel()

	err = platform.Apply(updateCtx, updater, category, d.CommunityID, d.Filename, data)
	switch {
	case err == nil:
		log.InfoContext(ctx, fmt.Sprintf("Changed the server %s", category), "filename", d.Filename)
	case errors.Is(err, platform.ErrPermissionDenied):
		log.ErrorContext(ctx, fmt.Sprintf("Could not change %s, ensure the bot has Manage Server permissions", category), "error", err)
	case errors.Is(err, platform.ErrUnsupported):
		log.WarnContext(ctx, fmt.Sprintf("Platform does not support server %s", category.Plural()))
	case errors.Is(err, platform.ErrCommunityUnavailable):
		log.WarnContext(ctx, "Community is no longer reachable", "error", err)
	default:
		log.ErrorContext(ctx, fmt.Sprintf("Failed to change server %s", category), "error", err)
	}
	return err
}
