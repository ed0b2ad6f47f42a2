package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrNoPlatform is returned when neither Discord nor Telegram is enabled.
	ErrNoPlatform = errors.New("at least one of discord or telegram must be enabled")
	// ErrUnknownTask is returned for a scheduler.tasks entry no task is registered for.
	ErrUnknownTask = errors.New("unknown scheduler task")
)

var knownTasks = map[string]bool{
	TaskImageRotation:  true,
	TaskSQLMaintenance: true,
}

// Validate checks struct tags and the rules that span several sections.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if !c.Discord.Enabled && !c.Telegram.Enabled {
		return ErrNoPlatform
	}
	for name := range c.Scheduler.Tasks {
		if !knownTasks[name] {
			return fmt.Errorf("%w: %s", ErrUnknownTask, name)
		}
	}
	if _, err := c.Scheduler.TimeLocation(); err != nil {
		return err
	}
	return nil
}

// TimeLocation returns the scheduler's time zone, the local zone when unset.
func (s SchedulerConfig) TimeLocation() (*time.Location, error) {
	if s.Location == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(s.Location)
	if err != nil {
		return nil, fmt.Errorf("invalid scheduler location %q: %w", s.Location, err)
	}
	return loc, nil
}

// IsDiscordAdmin reports whether userID is listed in discord.admin_user_ids.
func (c *Config) IsDiscordAdmin(userID string) bool {
	for _, id := range c.Discord.AdminUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// IsTelegramAdmin reports whether userID is listed in telegram.admin_user_ids.
func (c *Config) IsTelegramAdmin(userID int64) bool {
	for _, id := range c.Telegram.AdminUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}
