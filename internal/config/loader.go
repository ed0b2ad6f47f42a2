package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable override,
// e.g. SERVERMANAGE_DISCORD_TOKEN for discord.token.
const EnvPrefix = "SERVERMANAGE"

// Load loads and validates configuration from, in increasing priority:
// 1. Default values
// 2. the YAML file at configPath (optional)
// 3. a .env file in the working directory (optional)
// 4. SERVERMANAGE_* environment variables
func Load(configPath string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			if !isNotFound(err) {
				return nil, fmt.Errorf("%w: failed to read config file: %v", ErrConfiguration, err)
			}
			slog.Info("Configuration file not found, using defaults and environment", "path", configPath)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	slog.Debug("Configuration loaded",
		"config_file", v.ConfigFileUsed(),
		"discord_enabled", cfg.Discord.Enabled,
		"telegram_enabled", cfg.Telegram.Enabled,
		"database_path", cfg.Database.Path,
		"data_dir", cfg.Storage.DataDir)
	return cfg, nil
}

// loadDotEnv exports the variables of a .env file into the process
// environment. Variables already set are not overridden; a missing file is not an error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", path, err)
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

// setDefaults registers every default so that environment variables can
// override keys that config.yaml does not mention.
func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", DefaultLogLevel)
	v.SetDefault("logger.json", DefaultLogJSON)
	v.SetDefault("logger.file", "")

	v.SetDefault("database.path", DefaultDBPath)
	v.SetDefault("storage.data_dir", DefaultDataDir)

	v.SetDefault("discord.enabled", false)
	v.SetDefault("discord.token", "")
	v.SetDefault("discord.prefix", DefaultDiscordPrefix)
	v.SetDefault("discord.admin_user_ids", []string{})
	v.SetDefault("discord.request_timeout", DefaultDiscordRequestTimeout)

	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.admin_user_ids", []int64{})

	v.SetDefault("confirm.timeout", DefaultConfirmTimeout)

	v.SetDefault("scheduler.location", "")
	for name, task := range DefaultTasks {
		prefix := "scheduler.tasks." + name + "."
		v.SetDefault(prefix+"enabled", task.Enabled)
		v.SetDefault(prefix+"schedule", task.Schedule)
		v.SetDefault(prefix+"run_on_start", task.RunOnStart)
	}

	m := DefaultMessages
	v.SetDefault("messages.page_length", m.PageLength)
	v.SetDefault("messages.usage", m.Usage)
	v.SetDefault("messages.not_authorized", m.NotAuthorized)
	v.SetDefault("messages.general_error", m.GeneralError)
	v.SetDefault("messages.unsupported", m.Unsupported)
	v.SetDefault("messages.invalid_name", m.InvalidName)
	v.SetDefault("messages.attach_one", m.AttachOne)
	v.SetDefault("messages.not_an_image", m.NotAnImage)
	v.SetDefault("messages.unsupported_ext", m.UnsupportedExt)
	v.SetDefault("messages.overwrite_prompt", m.OverwritePrompt)
	v.SetDefault("messages.overwrite_timeout", m.OverwriteTimeout)
	v.SetDefault("messages.overwrite_declined", m.OverwriteDeclined)
	v.SetDefault("messages.saved", m.Saved)
	v.SetDefault("messages.not_found", m.NotFound)
	v.SetDefault("messages.delete_prompt", m.DeletePrompt)
	v.SetDefault("messages.delete_timeout", m.DeleteTimeout)
	v.SetDefault("messages.delete_declined", m.DeleteDeclined)
	v.SetDefault("messages.deleted", m.Deleted)
	v.SetDefault("messages.file_missing", m.FileMissing)
	v.SetDefault("messages.list_empty", m.ListEmpty)
	v.SetDefault("messages.list_title", m.ListTitle)
	v.SetDefault("messages.list_footer", m.ListFooter)
	v.SetDefault("messages.invalid_date", m.InvalidDate)
	v.SetDefault("messages.date_set", m.DateSet)
	v.SetDefault("messages.date_reset", m.DateReset)
	v.SetDefault("messages.nothing_scheduled", m.NothingScheduled)
}
