package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bnema/visited/internal/domain/entity"
	"github.com/bnema/visited/internal/history"
	"github.com/bnema/visited/internal/search"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const (
	dirPerm = 0750
)

// Config is the complete application configuration.
type Config struct {
	History HistoryConfig `mapstructure:"history" yaml:"history"`
	Search  SearchConfig  `mapstructure:"search" yaml:"search"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// HistoryConfig holds per-profile history policy.
type HistoryConfig struct {
	Enabled                bool     `mapstructure:"enabled" yaml:"enabled"`
	RetentionDays          int      `mapstructure:"retention_days" yaml:"retention_days"`
	MaxEntries             int      `mapstructure:"max_entries" yaml:"max_entries"`
	AutocompleteMaxResults int      `mapstructure:"autocomplete_max_results" yaml:"autocomplete_max_results"`
	CleanupIntervalMinutes int      `mapstructure:"cleanup_interval_minutes" yaml:"cleanup_interval_minutes"`
	Ordering               string   `mapstructure:"ordering" yaml:"ordering"`
	ExcludedSchemes        []string `mapstructure:"excluded_schemes" yaml:"excluded_schemes"`
}

// SearchConfig tunes the interactive search pipeline.
type SearchConfig struct {
	DebounceMs     int `mapstructure:"debounce_ms" yaml:"debounce_ms"`
	MinQueryLength int `mapstructure:"min_query_length" yaml:"min_query_length"`
	MaxRendered    int `mapstructure:"max_rendered" yaml:"max_rendered"`
}

// PipelineOptions converts the search section into pipeline tuning for an
// autocomplete consumer.
func (s SearchConfig) PipelineOptions() search.Options {
	return search.Options{
		Debounce:       time.Duration(s.DebounceMs) * time.Millisecond,
		MinQueryLength: s.MinQueryLength,
		MaxRendered:    s.MaxRendered,
	}
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// ManagerConfig converts the file-level history section into the history
// package's runtime config. Unknown ordering strings fall back to by-visits.
func (h HistoryConfig) ManagerConfig() history.Config {
	ordering, err := entity.ParseOrdering(h.Ordering)
	if err != nil {
		ordering = entity.OrderByVisits
	}
	return history.Config{
		Enabled:                h.Enabled,
		RetentionDays:          h.RetentionDays,
		MaxEntries:             h.MaxEntries,
		AutocompleteMaxResults: h.AutocompleteMaxResults,
		CleanupInterval:        time.Duration(h.CleanupIntervalMinutes) * time.Minute,
		Ordering:               ordering,
		ExcludedSchemes:        h.ExcludedSchemes,
	}
}

// Update converts the history section into a full-field partial update, for
// re-applying a reloaded config file to a running manager.
func (h HistoryConfig) Update() history.ConfigUpdate {
	cfg := h.ManagerConfig()
	return history.ConfigUpdate{
		Enabled:                &cfg.Enabled,
		RetentionDays:          &cfg.RetentionDays,
		MaxEntries:             &cfg.MaxEntries,
		AutocompleteMaxResults: &cfg.AutocompleteMaxResults,
		CleanupInterval:        &cfg.CleanupInterval,
		Ordering:               &cfg.Ordering,
		ExcludedSchemes:        cfg.ExcludedSchemes,
	}
}

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
}

// NewManager creates a configuration manager reading config.yaml (or json,
// toml) from the XDG config directory, with VISITED_* environment overrides.
func NewManager() (*Manager, error) {
	v := viper.New()
	v.SetConfigName("config")

	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	v.SetEnvPrefix("VISITED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Manager{
		viper:     v,
		callbacks: make([]func(*Config), 0),
	}, nil
}

// Load reads the configuration from file and environment. A missing config
// file is created with the defaults so users have something to edit.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}

	m.setDefaults()

	if err := m.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			if err := m.writeDefaultConfig(); err != nil {
				return fmt.Errorf("failed to create default config: %w", err)
			}
		} else {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	m.config = config
	return nil
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	configCopy := *m.config
	return &configCopy
}

// Watch reloads the configuration when the file changes and notifies
// registered callbacks with the new value.
func (m *Manager) Watch() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.watching {
		return nil
	}

	m.viper.WatchConfig()
	m.viper.OnConfigChange(func(_ fsnotify.Event) {
		if err := m.reload(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to reload config: %v\n", err)
			return
		}

		m.mu.RLock()
		config := m.config
		callbacks := make([]func(*Config), len(m.callbacks))
		copy(callbacks, m.callbacks)
		m.mu.RUnlock()

		for _, callback := range callbacks {
			callback(config)
		}
	})

	m.watching = true
	return nil
}

// OnConfigChange registers a callback invoked after each successful reload.
func (m *Manager) OnConfigChange(callback func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.callbacks = append(m.callbacks, callback)
}

func (m *Manager) reload() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.viper.ReadInConfig(); err != nil {
		return err
	}

	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return err
	}

	m.config = config
	return nil
}

func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	m.viper.SetDefault("history.enabled", defaults.History.Enabled)
	m.viper.SetDefault("history.retention_days", defaults.History.RetentionDays)
	m.viper.SetDefault("history.max_entries", defaults.History.MaxEntries)
	m.viper.SetDefault("history.autocomplete_max_results", defaults.History.AutocompleteMaxResults)
	m.viper.SetDefault("history.cleanup_interval_minutes", defaults.History.CleanupIntervalMinutes)
	m.viper.SetDefault("history.ordering", defaults.History.Ordering)
	m.viper.SetDefault("history.excluded_schemes", defaults.History.ExcludedSchemes)

	m.viper.SetDefault("search.debounce_ms", defaults.Search.DebounceMs)
	m.viper.SetDefault("search.min_query_length", defaults.Search.MinQueryLength)
	m.viper.SetDefault("search.max_rendered", defaults.Search.MaxRendered)

	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)
}

func (m *Manager) writeDefaultConfig() error {
	configDir, err := GetConfigDir()
	if err != nil {
		return err
	}
	return m.viper.SafeWriteConfigAs(filepath.Join(configDir, "config.yaml"))
}
