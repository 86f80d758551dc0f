package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	manager := NewManager(path)

	cfg, err := manager.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "https://api.vimeo.com", cfg.VimeoBaseURL)
	assert.Equal(t, "America/Chicago", cfg.Timezone)
	assert.Equal(t, 72, cfg.LookbackHours)
	assert.Equal(t, "file", cfg.RegistryBackend)
	assert.Equal(t, "schedule_tracker.json", cfg.RegistryFile)
	assert.True(t, cfg.FallbackOn())
	assert.Len(t, cfg.EventTypes, 5)
	assert.Equal(t, "15749517", cfg.DestinationFolderID("worship_services"))
	assert.True(t, cfg.FolderExcluded("182762"))
	assert.False(t, cfg.FolderExcluded("15749517"))

	// A default config file was written.
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: "9090"
classifier:
  timezone: America/New_York
  lookback_hours: 24
  fallback_enabled: false
registry:
  backend: sqlite
  database_url: sqlite3:./test.db
folders:
  destinations:
    worship_services: "42"
  excluded: ["13"]
event_types:
  - name: Evening Service
    destination: worship_services
    typical_duration_minutes: 75
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := NewManager(path).Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "America/New_York", cfg.Timezone)
	assert.Equal(t, 24, cfg.LookbackHours)
	assert.False(t, cfg.FallbackOn())
	assert.Equal(t, "sqlite", cfg.RegistryBackend)
	assert.Equal(t, "42", cfg.DestinationFolderID("worship_services"))
	assert.True(t, cfg.FolderExcluded("13"))
	assert.Equal(t, "debug", cfg.LogLevel)

	entry := cfg.EventTypeByName("Evening Service")
	require.NotNil(t, entry)
	assert.Equal(t, 75, entry.TypicalDurationMinutes)
	assert.Nil(t, cfg.EventTypeByName("No Such Type"))
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("VIMEO_ACCESS_TOKEN", "env-token")

	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := NewManager(path).Load()
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.VimeoAccessToken)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	manager := NewManager(path)

	cfg, err := manager.Load()
	require.NoError(t, err)

	cfg.CronSchedule = "0 0 * * *"
	require.NoError(t, manager.Save(cfg))

	reloaded, err := NewManager(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "0 0 * * *", reloaded.CronSchedule)
}
