package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/servermanage/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_DefaultsWithDiscordEnabled(t *testing.T) {
	path := writeConfig(t, `
discord:
  enabled: true
  token: abc
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, config.DefaultDBPath, cfg.Database.Path)
	assert.Equal(t, config.DefaultDataDir, cfg.Storage.DataDir)
	assert.Equal(t, "!", cfg.Discord.Prefix)
	assert.Equal(t, 30*time.Second, cfg.Confirm.Timeout)
	assert.Equal(t, 2000, cfg.Messages.PageLength)
	assert.Equal(t, "Please attach one file!", cfg.Messages.AttachOne)

	rotation, ok := cfg.Scheduler.Tasks[config.TaskImageRotation]
	require.True(t, ok)
	assert.True(t, rotation.Enabled)
	assert.True(t, rotation.RunOnStart)
	assert.Equal(t, "0 * * * *", rotation.Schedule)

	maintenance, ok := cfg.Scheduler.Tasks[config.TaskSQLMaintenance]
	require.True(t, ok)
	assert.False(t, maintenance.RunOnStart)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
logger:
  level: debug
  json: true
telegram:
  enabled: true
  token: tg-token
  admin_user_ids: [42, 43]
confirm:
  timeout: 45s
scheduler:
  tasks:
    sql_maintenance:
      enabled: false
messages:
  attach_one: "One file please."
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.True(t, cfg.Logger.JSON)
	assert.Equal(t, []int64{42, 43}, cfg.Telegram.AdminUserIDs)
	assert.True(t, cfg.IsTelegramAdmin(43))
	assert.False(t, cfg.IsTelegramAdmin(44))
	assert.Equal(t, 45*time.Second, cfg.Confirm.Timeout)
	assert.False(t, cfg.Scheduler.Tasks[config.TaskSQLMaintenance].Enabled)
	assert.Equal(t, config.DefaultSQLMaintenanceSchedule, cfg.Scheduler.Tasks[config.TaskSQLMaintenance].Schedule)
	assert.Equal(t, "One file please.", cfg.Messages.AttachOne)
	assert.Equal(t, config.DefaultMessages.NotFound, cfg.Messages.NotFound)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, `
discord:
  enabled: true
  token: from-file
`)
	t.Setenv("SERVERMANAGE_DISCORD_TOKEN", "from-env")
	t.Setenv("SERVERMANAGE_DISCORD_PREFIX", "?")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Discord.Token)
	assert.Equal(t, "?", cfg.Discord.Prefix)
}

func TestLoad_MissingFileUsesEnvironment(t *testing.T) {
	t.Setenv("SERVERMANAGE_TELEGRAM_ENABLED", "true")
	t.Setenv("SERVERMANAGE_TELEGRAM_TOKEN", "tg")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.True(t, cfg.Telegram.Enabled)
	assert.False(t, cfg.Discord.Enabled)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no platform", "logger:\n  level: info\n"},
		{"discord without token", "discord:\n  enabled: true\n"},
		{"telegram without token", "telegram:\n  enabled: true\n"},
		{"bad log level", "logger:\n  level: loud\ndiscord:\n  enabled: true\n  token: x\n"},
		{"confirm timeout too short", "confirm:\n  timeout: 10ms\ndiscord:\n  enabled: true\n  token: x\n"},
		{"unknown task", "scheduler:\n  tasks:\n    nightly_backup:\n      enabled: true\n      schedule: '0 1 * * *'\ndiscord:\n  enabled: true\n  token: x\n"},
		{"bad location", "scheduler:\n  location: Mars/Olympus\ndiscord:\n  enabled: true\n  token: x\n"},
		{"page length too small", "messages:\n  page_length: 10\ndiscord:\n  enabled: true\n  token: x\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.content))
			require.ErrorIs(t, err, config.ErrConfiguration)
		})
	}
}

func TestSchedulerConfig_TimeLocation(t *testing.T) {
	t.Parallel()

	loc, err := config.SchedulerConfig{}.TimeLocation()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	loc, err = config.SchedulerConfig{Location: "UTC"}.TimeLocation()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestConfig_IsDiscordAdmin(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Discord: config.DiscordConfig{AdminUserIDs: []string{"100", "200"}}}
	assert.True(t, cfg.IsDiscordAdmin("200"))
	assert.False(t, cfg.IsDiscordAdmin("300"))
}
