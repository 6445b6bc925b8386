// Package history provides per-profile browsing history management: visit
// recording, autocomplete search, retention cleanup and change notification.
package history

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bnema/visited/internal/domain/entity"
	"github.com/bnema/visited/internal/domain/repository"
	"github.com/bnema/visited/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/visited/internal/logging"
)

const historyFileName = "history.db"

// Statistics is the store's stats enriched with profile identity.
type Statistics struct {
	Profile string `json:"profile"`
	Enabled bool   `json:"enabled"`
	entity.StoreStats
}

// Manager is the profile-scoped policy layer over a visit store. All public
// operations are safe for concurrent use; the internal mutex guards the
// manager's own state (configuration, scheduler), not the store's per-call
// atomicity, which the store guarantees itself.
//
// No error escapes a Manager method that presentation code calls on the hot
// path: failures are logged and collapse to the operation's safe default.
type Manager struct {
	profile string
	store   repository.VisitRepository
	closer  func() error
	ctx     context.Context

	mu        sync.Mutex
	cfg       Config
	schedStop chan struct{}
	closed    bool

	notifier notifier
}

// NewManager builds a manager over an existing store. The context carries the
// logger and outlives individual operations; it is used by the periodic
// cleanup scheduler. The scheduler starts immediately when the config
// enables it.
func NewManager(ctx context.Context, profile string, store repository.VisitRepository, cfg Config) *Manager {
	m := &Manager{
		profile: profile,
		store:   store,
		ctx:     logging.WithProfile(ctx, profile),
		cfg:     cfg,
	}

	m.mu.Lock()
	m.startSchedulerLocked()
	m.mu.Unlock()

	logging.FromContext(m.ctx).Debug().
		Bool("enabled", cfg.Enabled).
		Dur("cleanup_interval", cfg.CleanupInterval).
		Msg("history manager initialized")
	return m
}

// DBPath returns the history database path for a profile under baseDir:
// <baseDir>/profile_<name>/history.db. Every caller that needs the on-disk
// layout goes through here.
func DBPath(baseDir, profile string) string {
	return filepath.Join(baseDir, "profile_"+profile, historyFileName)
}

// OpenProfile opens (creating on first use) the profile's history database
// under baseDir and returns a manager that owns it for the process lifetime.
func OpenProfile(ctx context.Context, baseDir, profile string, cfg Config) (*Manager, error) {
	dbPath := DBPath(baseDir, profile)

	db, err := sqlite.NewConnection(ctx, dbPath)
	if err != nil {
		return nil, err
	}

	m := NewManager(ctx, profile, sqlite.NewVisitRepository(db, dbPath), cfg)
	m.closer = func() error { return sqlite.Close(db) }
	return m, nil
}

// Profile returns the profile name this manager serves.
func (m *Manager) Profile() string {
	return m.profile
}

// Enabled reports whether history recording is currently enabled.
func (m *Manager) Enabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg.Enabled
}

// Config returns a copy of the current configuration.
func (m *Manager) Config() Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg
}

// OnChanged registers a callback invoked after any mutation of the store
// (visit recorded, cleanup that removed entries, clear-all).
func (m *Manager) OnChanged(fn func()) {
	m.notifier.onChanged(fn)
}

// OnCleanup registers a callback invoked with the removed-entry count after a
// cleanup pass that removed at least one entry.
func (m *Manager) OnCleanup(fn func(removed int64)) {
	m.notifier.onCleanup(fn)
}

// RecordVisit records a page visit. It is a silent no-op returning false when
// history is disabled, the URL is empty, or the URL's scheme is excluded.
// Storage failures are logged and reported as false, never raised.
func (m *Manager) RecordVisit(ctx context.Context, rawURL, title string, sessionData []byte) bool {
	cfg := m.Config()
	if !cfg.Enabled {
		return false
	}
	if rawURL == "" || hasExcludedScheme(rawURL, cfg.ExcludedSchemes) {
		return false
	}

	if err := m.store.Upsert(ctx, rawURL, title, sessionData); err != nil {
		logging.FromContext(ctx).Error().Err(err).
			Str("url", logging.TruncateURL(rawURL, 60)).
			Msg("failed to record visit")
		return false
	}

	m.notifier.notifyChanged()
	return true
}

// SearchHistory returns autocomplete-ready suggestions for the query, capped
// at the configured result count and ranked by the configured ordering.
// Disabled history or an empty query yields an empty list.
func (m *Manager) SearchHistory(ctx context.Context, query string) []entity.Suggestion {
	cfg := m.Config()
	if !cfg.Enabled || strings.TrimSpace(query) == "" {
		return []entity.Suggestion{}
	}

	records, err := m.store.Search(ctx, query, cfg.AutocompleteMaxResults, cfg.Ordering)
	if err != nil {
		logging.FromContext(ctx).Error().Err(err).Str("query", query).
			Msg("history search failed")
		return []entity.Suggestion{}
	}

	suggestions := make([]entity.Suggestion, len(records))
	for i, rec := range records {
		suggestions[i] = entity.SuggestionFrom(rec)
	}
	return suggestions
}

// RecentVisits returns the most recently visited pages, empty when disabled.
func (m *Manager) RecentVisits(ctx context.Context, limit int) []*entity.VisitRecord {
	if !m.Enabled() {
		return []*entity.VisitRecord{}
	}

	records, err := m.store.Recent(ctx, limit)
	if err != nil {
		logging.FromContext(ctx).Error().Err(err).Msg("failed to get recent visits")
		return []*entity.VisitRecord{}
	}
	return records
}

// SearchFull searches without the autocomplete result cap, for history-browser
// views that page through larger result sets.
func (m *Manager) SearchFull(ctx context.Context, query string, limit int) []*entity.VisitRecord {
	cfg := m.Config()
	if !cfg.Enabled || strings.TrimSpace(query) == "" {
		return []*entity.VisitRecord{}
	}

	records, err := m.store.Search(ctx, query, limit, cfg.Ordering)
	if err != nil {
		logging.FromContext(ctx).Error().Err(err).Str("query", query).
			Msg("full history search failed")
		return []*entity.VisitRecord{}
	}
	return records
}

// Cleanup runs age-based cleanup followed by count-based limiting and returns
// the number of entries removed. Skipped entirely unless enabled or forced.
// Notifications fire only when entries were actually removed.
func (m *Manager) Cleanup(ctx context.Context, force bool) int64 {
	cfg := m.Config()
	if !cfg.Enabled && !force {
		return 0
	}

	log := logging.FromContext(ctx)
	var removed int64

	if cfg.RetentionDays > 0 {
		n, err := m.store.CleanupByAge(ctx, cfg.RetentionDays)
		if err != nil {
			log.Error().Err(err).Msg("age-based cleanup failed")
		} else {
			removed += n
		}
	}

	if cfg.MaxEntries > 0 {
		n, err := m.store.LimitTotal(ctx, cfg.MaxEntries)
		if err != nil {
			log.Error().Err(err).Msg("count-based cleanup failed")
		} else {
			removed += n
		}
	}

	if removed > 0 {
		log.Info().Int64("removed", removed).Msg("history cleanup completed")
		m.notifier.notifyChanged()
		m.notifier.notifyCleanup(removed)
	}
	return removed
}

// ClearAll removes every history entry for the profile.
func (m *Manager) ClearAll(ctx context.Context) bool {
	if err := m.store.ClearAll(ctx); err != nil {
		logging.FromContext(ctx).Error().Err(err).Msg("failed to clear history")
		return false
	}
	m.notifier.notifyChanged()
	return true
}

// DeleteURL removes a single record. Unlike the recording path this surfaces
// the error: record deletion is user-initiated and the caller is waiting for
// confirmation. It does not emit a change notification; the requesting
// adapter refreshes itself.
func (m *Manager) DeleteURL(ctx context.Context, url string) error {
	return m.store.DeleteByURL(ctx, url)
}

// DeleteURLs removes a bulk selection of records and returns the number
// removed. Errors surface to the caller for the same reason as DeleteURL.
func (m *Manager) DeleteURLs(ctx context.Context, urls []string) (int64, error) {
	return m.store.DeleteURLs(ctx, urls)
}

// Statistics returns store statistics enriched with the profile identity.
// Storage failures collapse to zeroed stats.
func (m *Manager) Statistics(ctx context.Context) Statistics {
	stats := Statistics{Profile: m.profile, Enabled: m.Enabled()}

	storeStats, err := m.store.Stats(ctx)
	if err != nil {
		logging.FromContext(ctx).Error().Err(err).Msg("failed to get history statistics")
		return stats
	}
	stats.StoreStats = *storeStats
	return stats
}

// SetEnabled toggles history recording. Disabling stops the cleanup
// scheduler; enabling restarts it.
func (m *Manager) SetEnabled(enabled bool) {
	m.mu.Lock()
	m.cfg.Enabled = enabled
	if enabled {
		m.startSchedulerLocked()
	} else {
		m.stopSchedulerLocked()
	}
	m.mu.Unlock()

	logging.FromContext(m.ctx).Info().Bool("enabled", enabled).Msg("history toggled")
}

// UpdateConfig merges a partial configuration into the current one. The
// cleanup scheduler restarts when the interval or enabled flag changed.
func (m *Manager) UpdateConfig(update ConfigUpdate) {
	m.mu.Lock()
	if m.cfg.apply(update) {
		m.startSchedulerLocked()
	}
	cfg := m.cfg
	m.mu.Unlock()

	logging.FromContext(m.ctx).Debug().
		Bool("enabled", cfg.Enabled).
		Int("retention_days", cfg.RetentionDays).
		Int("max_entries", cfg.MaxEntries).
		Dur("cleanup_interval", cfg.CleanupInterval).
		Msg("history config updated")
}

// Shutdown stops the scheduler, runs one final forced cleanup pass and closes
// the owned store. Idempotent and safe during process teardown.
func (m *Manager) Shutdown(ctx context.Context) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.stopSchedulerLocked()
	enabled := m.cfg.Enabled
	m.mu.Unlock()

	if enabled {
		m.Cleanup(ctx, true)
	}

	if m.closer != nil {
		if err := m.closer(); err != nil {
			logging.FromContext(ctx).Error().Err(err).Msg("failed to close history store")
		}
	}

	logging.FromContext(m.ctx).Debug().Msg("history manager shut down")
}

// startSchedulerLocked (re)starts the periodic cleanup goroutine. The caller
// holds m.mu. Stopping first makes restart idempotent.
func (m *Manager) startSchedulerLocked() {
	m.stopSchedulerLocked()
	if m.closed || !m.cfg.Enabled || m.cfg.CleanupInterval <= 0 {
		return
	}

	stop := make(chan struct{})
	m.schedStop = stop
	go m.runScheduler(m.cfg.CleanupInterval, stop)

	logging.FromContext(m.ctx).Debug().
		Dur("interval", m.cfg.CleanupInterval).
		Msg("cleanup scheduler started")
}

func (m *Manager) stopSchedulerLocked() {
	if m.schedStop != nil {
		close(m.schedStop)
		m.schedStop = nil
	}
}

func (m *Manager) runScheduler(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			logging.FromContext(m.ctx).Debug().Msg("running periodic history cleanup")
			m.Cleanup(m.ctx, false)
		}
	}
}

// schedulerRunning reports whether the periodic cleanup goroutine is active.
func (m *Manager) schedulerRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.schedStop != nil
}

// hasExcludedScheme reports whether the URL's scheme is in the excluded set.
// URLs that do not parse fall back to a literal "scheme:" prefix check.
func hasExcludedScheme(rawURL string, schemes []string) bool {
	u, err := url.Parse(rawURL)
	for _, s := range schemes {
		if err == nil && u.Scheme != "" {
			if strings.EqualFold(u.Scheme, s) {
				return true
			}
			continue
		}
		if strings.HasPrefix(strings.ToLower(rawURL), strings.ToLower(s)+":") {
			return true
		}
	}
	return false
}
