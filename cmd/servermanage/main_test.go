package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatesCommand(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"dates"})
	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 366)
	assert.Equal(t, "01-01\tJanuary 1", lines[0])
	assert.Contains(t, lines, "02-29\tFebruary 29")
	assert.Equal(t, "12-31\tDecember 31", lines[365])
}

func TestMigrateCommand(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "servermanage.db")
	t.Setenv("SERVERMANAGE_DATABASE_PATH", dbPath)
	t.Setenv("SERVERMANAGE_TELEGRAM_ENABLED", "true")
	t.Setenv("SERVERMANAGE_TELEGRAM_TOKEN", "123:abc")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"migrate", "--config", filepath.Join(dir, "missing.yaml")})
	require.NoError(t, cmd.Execute())
	assert.FileExists(t, dbPath)
}

func TestRootRejectsArguments(t *testing.T) {
	t.Parallel()

	cmd := newRootCmd()
	cmd.SetArgs([]string{"dates", "extra"})
	assert.Error(t, cmd.Execute())
}
