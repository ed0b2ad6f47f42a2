// Package config provides configuration loading, validation, and management
// for servermanage. It reads config.yaml, SERVERMANAGE_* environment variables
// and built-in defaults, and validates the result.
package config

import (
	"errors"
	"time"
)

// ErrConfiguration wraps every error returned by Load.
var ErrConfiguration = errors.New("configuration error")

// Config holds the complete application configuration.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Discord   DiscordConfig   `mapstructure:"discord"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Confirm   ConfirmConfig   `mapstructure:"confirm"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LoggerConfig controls log level, format and an optional log file.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
	File  string `mapstructure:"file"`
}

// DatabaseConfig points at the SQLite database file.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// StorageConfig holds the root directory for uploaded images.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir" validate:"required"`
}

// DiscordConfig configures the Discord transport.
type DiscordConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Token          string        `mapstructure:"token"           validate:"required_if=Enabled true"`
	Prefix         string        `mapstructure:"prefix"          validate:"required_if=Enabled true"`
	AdminUserIDs   []string      `mapstructure:"admin_user_ids"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"min=1s"`
}

// TelegramConfig configures the Telegram transport.
type TelegramConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	Token        string  `mapstructure:"token"          validate:"required_if=Enabled true"`
	AdminUserIDs []int64 `mapstructure:"admin_user_ids"`
}

// ConfirmConfig bounds how long a yes/no prompt waits for its answer.
type ConfirmConfig struct {
	Timeout time.Duration `mapstructure:"timeout" validate:"min=1s,max=10m"`
}

// SchedulerConfig lists the scheduled tasks by name.
type SchedulerConfig struct {
	Location string                `mapstructure:"location"`
	Tasks    map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig configures one scheduled task.
type TaskConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Schedule   string `mapstructure:"schedule"     validate:"required_if=Enabled true"`
	RunOnStart bool   `mapstructure:"run_on_start"`
}

// MessagesConfig holds every user-facing reply. Entries with %s or %d verbs
// are format strings.
type MessagesConfig struct {
	PageLength int `mapstructure:"page_length" validate:"min=200,max=4000"`

	Usage          string `mapstructure:"usage"           validate:"required"`
	NotAuthorized  string `mapstructure:"not_authorized"  validate:"required"`
	GeneralError   string `mapstructure:"general_error"   validate:"required"`
	Unsupported    string `mapstructure:"unsupported"     validate:"required"`
	InvalidName    string `mapstructure:"invalid_name"    validate:"required"`
	AttachOne      string `mapstructure:"attach_one"      validate:"required"`
	NotAnImage     string `mapstructure:"not_an_image"    validate:"required"`
	UnsupportedExt string `mapstructure:"unsupported_ext" validate:"required"`

	OverwritePrompt   string `mapstructure:"overwrite_prompt"   validate:"required"`
	OverwriteTimeout  string `mapstructure:"overwrite_timeout"  validate:"required"`
	OverwriteDeclined string `mapstructure:"overwrite_declined" validate:"required"`
	Saved             string `mapstructure:"saved"              validate:"required"`

	NotFound       string `mapstructure:"not_found"       validate:"required"`
	DeletePrompt   string `mapstructure:"delete_prompt"   validate:"required"`
	DeleteTimeout  string `mapstructure:"delete_timeout"  validate:"required"`
	DeleteDeclined string `mapstructure:"delete_declined" validate:"required"`
	Deleted        string `mapstructure:"deleted"         validate:"required"`
	FileMissing    string `mapstructure:"file_missing"    validate:"required"`

	ListEmpty  string `mapstructure:"list_empty"  validate:"required"`
	ListTitle  string `mapstructure:"list_title"  validate:"required"`
	ListFooter string `mapstructure:"list_footer" validate:"required"`

	InvalidDate      string `mapstructure:"invalid_date"      validate:"required"`
	DateSet          string `mapstructure:"date_set"          validate:"required"`
	DateReset        string `mapstructure:"date_reset"        validate:"required"`
	NothingScheduled string `mapstructure:"nothing_scheduled" validate:"required"`
}
