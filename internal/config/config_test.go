package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bnema/visited/internal/config"
	"github.com/bnema/visited/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateXDG points every XDG directory at a per-test temp dir so tests never
// touch the developer's real configuration.
func isolateXDG(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("ENV", "")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	return dir
}

func TestManager_Load_CreatesDefaultConfig(t *testing.T) {
	dir := isolateXDG(t)

	m, err := config.NewManager()
	require.NoError(t, err)
	require.NoError(t, m.Load())

	cfg := m.Get()
	defaults := config.DefaultConfig()
	assert.Equal(t, defaults.History, cfg.History)
	assert.Equal(t, defaults.Search, cfg.Search)
	assert.Equal(t, defaults.Logging, cfg.Logging)

	// First load materializes an editable config file.
	_, err = os.Stat(filepath.Join(dir, "config", "visited", "config.yaml"))
	assert.NoError(t, err)
}

func TestManager_Load_ReadsFileAndKeepsDefaults(t *testing.T) {
	dir := isolateXDG(t)

	configDir := filepath.Join(dir, "config", "visited")
	require.NoError(t, os.MkdirAll(configDir, 0o750))
	content := []byte(`history:
  enabled: false
  retention_days: 7
  ordering: recent
logging:
  level: debug
`)
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), content, 0o644))

	m, err := config.NewManager()
	require.NoError(t, err)
	require.NoError(t, m.Load())

	cfg := m.Get()
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, 7, cfg.History.RetentionDays)
	assert.Equal(t, "recent", cfg.History.Ordering)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Fields the file omits keep their defaults.
	assert.Equal(t, 10000, cfg.History.MaxEntries)
	assert.Equal(t, 150, cfg.Search.DebounceMs)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestProfileDBPath(t *testing.T) {
	dir := isolateXDG(t)

	got, err := config.ProfileDBPath("work")
	require.NoError(t, err)
	want := filepath.Join(dir, "data", "visited", "profile_work", "history.db")
	assert.Equal(t, want, got)
}

func TestHistoryConfig_ManagerConfig(t *testing.T) {
	h := config.HistoryConfig{
		Enabled:                true,
		RetentionDays:          14,
		MaxEntries:             500,
		AutocompleteMaxResults: 5,
		CleanupIntervalMinutes: 30,
		Ordering:               "recent",
		ExcludedSchemes:        []string{"about"},
	}

	cfg := h.ManagerConfig()
	assert.Equal(t, 30*time.Minute, cfg.CleanupInterval)
	assert.Equal(t, entity.OrderByRecent, cfg.Ordering)
	assert.Equal(t, 14, cfg.RetentionDays)
	assert.Equal(t, []string{"about"}, cfg.ExcludedSchemes)
}

func TestHistoryConfig_ManagerConfig_BadOrderingFallsBack(t *testing.T) {
	h := config.HistoryConfig{Ordering: "alphabetical"}
	assert.Equal(t, entity.OrderByVisits, h.ManagerConfig().Ordering)
}

func TestSearchConfig_PipelineOptions(t *testing.T) {
	s := config.SearchConfig{DebounceMs: 150, MinQueryLength: 2, MaxRendered: 10}
	opts := s.PipelineOptions()
	assert.Equal(t, 150*time.Millisecond, opts.Debounce)
	assert.Equal(t, 2, opts.MinQueryLength)
	assert.Equal(t, 10, opts.MaxRendered)
}

func TestHistoryConfig_Update_CoversAllFields(t *testing.T) {
	h := config.DefaultConfig().History
	h.RetentionDays = 90

	u := h.Update()
	require.NotNil(t, u.Enabled)
	require.NotNil(t, u.RetentionDays)
	require.NotNil(t, u.MaxEntries)
	require.NotNil(t, u.AutocompleteMaxResults)
	require.NotNil(t, u.CleanupInterval)
	require.NotNil(t, u.Ordering)
	require.NotNil(t, u.ExcludedSchemes)
	assert.Equal(t, 90, *u.RetentionDays)
	assert.Equal(t, time.Hour, *u.CleanupInterval)
}
