package history

import (
	"time"

	"github.com/bnema/visited/internal/domain/entity"
)

// Config holds the runtime policy for one profile's history manager. It is
// passed explicitly at construction and merged at runtime via UpdateConfig;
// nothing in this package reads global state.
type Config struct {
	// Enabled gates recording, search and scheduled cleanup.
	Enabled bool
	// RetentionDays bounds entry age; 0 disables age-based cleanup.
	RetentionDays int
	// MaxEntries bounds total entry count; 0 disables count-based cleanup.
	MaxEntries int
	// AutocompleteMaxResults caps SearchHistory result size.
	AutocompleteMaxResults int
	// CleanupInterval is the periodic cleanup cadence; 0 disables the scheduler.
	CleanupInterval time.Duration
	// Ordering ranks search results.
	Ordering entity.Ordering
	// ExcludedSchemes lists URL schemes never recorded (internal pages,
	// embedded data URLs).
	ExcludedSchemes []string
}

// DefaultConfig returns the defaults applied before the owning application's
// settings are loaded.
func DefaultConfig() Config {
	return Config{
		Enabled:                true,
		RetentionDays:          30,
		MaxEntries:             10000,
		AutocompleteMaxResults: 10,
		CleanupInterval:        time.Hour,
		Ordering:               entity.OrderByVisits,
		ExcludedSchemes:        []string{"about", "data"},
	}
}

// ConfigUpdate carries a partial configuration; nil fields leave the current
// value untouched. ExcludedSchemes replaces the whole set when non-nil.
type ConfigUpdate struct {
	Enabled                *bool
	RetentionDays          *int
	MaxEntries             *int
	AutocompleteMaxResults *int
	CleanupInterval        *time.Duration
	Ordering               *entity.Ordering
	ExcludedSchemes        []string
}

// apply merges the update into cfg and reports whether the cleanup interval
// or enabled flag changed, which requires a scheduler restart.
func (c *Config) apply(u ConfigUpdate) (restartScheduler bool) {
	if u.Enabled != nil && *u.Enabled != c.Enabled {
		c.Enabled = *u.Enabled
		restartScheduler = true
	}
	if u.RetentionDays != nil {
		c.RetentionDays = *u.RetentionDays
	}
	if u.MaxEntries != nil {
		c.MaxEntries = *u.MaxEntries
	}
	if u.AutocompleteMaxResults != nil {
		c.AutocompleteMaxResults = *u.AutocompleteMaxResults
	}
	if u.CleanupInterval != nil && *u.CleanupInterval != c.CleanupInterval {
		c.CleanupInterval = *u.CleanupInterval
		restartScheduler = true
	}
	if u.Ordering != nil {
		c.Ordering = *u.Ordering
	}
	if u.ExcludedSchemes != nil {
		c.ExcludedSchemes = u.ExcludedSchemes
	}
	return restartScheduler
}
