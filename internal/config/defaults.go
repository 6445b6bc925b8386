package config

// DefaultConfig returns the configuration used when no file or environment
// override is present.
func DefaultConfig() *Config {
	return &Config{
		History: HistoryConfig{
			Enabled:                true,
			RetentionDays:          30,
			MaxEntries:             10000,
			AutocompleteMaxResults: 10,
			CleanupIntervalMinutes: 60,
			Ordering:               "visits",
			ExcludedSchemes:        []string{"about", "data"},
		},
		Search: SearchConfig{
			DebounceMs:     150,
			MinQueryLength: 1,
			MaxRendered:    10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
