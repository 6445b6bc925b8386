package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bnema/visited/internal/domain/entity"
	"github.com/bnema/visited/internal/domain/repository/mocks"
	"github.com/bnema/visited/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func managerTestCtx() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

// testConfig returns an enabled config with the scheduler off so tests
// control cleanup explicitly.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.CleanupInterval = 0
	return cfg
}

func TestManager_Disabled_AllOpsAreNoops(t *testing.T) {
	ctx := managerTestCtx()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockVisitRepository(ctrl)
	// No store expectations: any call fails the test.

	cfg := testConfig()
	cfg.Enabled = false
	m := NewManager(ctx, "default", store, cfg)

	assert.False(t, m.RecordVisit(ctx, "https://example.com", "Example", nil))
	assert.Empty(t, m.SearchHistory(ctx, "example"))
	assert.Empty(t, m.RecentVisits(ctx, 10))
	assert.Zero(t, m.Cleanup(ctx, false))
}

func TestManager_Disabled_ForcedCleanupStillRuns(t *testing.T) {
	ctx := managerTestCtx()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockVisitRepository(ctrl)
	store.EXPECT().CleanupByAge(gomock.Any(), 30).Return(int64(2), nil)
	store.EXPECT().LimitTotal(gomock.Any(), 10000).Return(int64(0), nil)

	cfg := testConfig()
	cfg.Enabled = false
	m := NewManager(ctx, "default", store, cfg)

	assert.Equal(t, int64(2), m.Cleanup(ctx, true))
}

func TestManager_RecordVisit_ExcludedSchemes(t *testing.T) {
	ctx := managerTestCtx()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockVisitRepository(ctrl)

	m := NewManager(ctx, "default", store, testConfig())

	assert.False(t, m.RecordVisit(ctx, "about:blank", "blank", nil))
	assert.False(t, m.RecordVisit(ctx, "data:text/html,hello", "", nil))
	assert.False(t, m.RecordVisit(ctx, "", "empty", nil))
}

func TestManager_RecordVisit_ExcludedSchemesConfigurable(t *testing.T) {
	ctx := managerTestCtx()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockVisitRepository(ctrl)
	store.EXPECT().Upsert(ctx, "about:blank", "blank", gomock.Nil()).Return(nil)

	cfg := testConfig()
	cfg.ExcludedSchemes = []string{"chrome"}
	m := NewManager(ctx, "default", store, cfg)

	// about: is no longer excluded, chrome: now is.
	assert.True(t, m.RecordVisit(ctx, "about:blank", "blank", nil))
	assert.False(t, m.RecordVisit(ctx, "chrome://settings", "", nil))
}

func TestManager_RecordVisit_EmitsChanged(t *testing.T) {
	ctx := managerTestCtx()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockVisitRepository(ctrl)
	store.EXPECT().Upsert(ctx, "https://example.com", "Example", gomock.Nil()).Return(nil)

	m := NewManager(ctx, "default", store, testConfig())

	var notified int
	m.OnChanged(func() { notified++ })

	assert.True(t, m.RecordVisit(ctx, "https://example.com", "Example", nil))
	assert.Equal(t, 1, notified)
}

func TestManager_RecordVisit_StorageFailureIsSafe(t *testing.T) {
	ctx := managerTestCtx()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockVisitRepository(ctrl)
	store.EXPECT().Upsert(ctx, "https://example.com", "", gomock.Nil()).
		Return(errors.New("disk full"))

	m := NewManager(ctx, "default", store, testConfig())

	var notified bool
	m.OnChanged(func() { notified = true })

	assert.False(t, m.RecordVisit(ctx, "https://example.com", "", nil))
	assert.False(t, notified, "failed recording must not emit changed")
}

func TestManager_SearchHistory_FormatsSuggestions(t *testing.T) {
	ctx := managerTestCtx()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockVisitRepository(ctrl)
	store.EXPECT().
		Search(ctx, "example", 10, entity.OrderByVisits).
		Return([]*entity.VisitRecord{
			{URL: "https://example.com", Title: "Example Site", VisitCount: 4, LastVisited: 1700000000},
			{URL: "https://example.org/untitled", VisitCount: 1, LastVisited: 1700000100},
		}, nil)

	m := NewManager(ctx, "default", store, testConfig())

	results := m.SearchHistory(ctx, "example")
	require.Len(t, results, 2)

	assert.Equal(t, "https://example.com", results[0].Text)
	assert.Equal(t, "Example Site - https://example.com", results[0].Display)
	assert.Equal(t, int64(4), results[0].VisitCount)

	// Untitled pages fall back to the URL as their label.
	assert.Equal(t, "https://example.org/untitled", results[1].Title)
}

func TestManager_SearchHistory_EmptyQuery(t *testing.T) {
	ctx := managerTestCtx()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockVisitRepository(ctrl)

	m := NewManager(ctx, "default", store, testConfig())

	assert.Empty(t, m.SearchHistory(ctx, ""))
	assert.Empty(t, m.SearchHistory(ctx, "   "))
}

func TestManager_SearchHistory_StorageFailureYieldsEmpty(t *testing.T) {
	ctx := managerTestCtx()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockVisitRepository(ctrl)
	store.EXPECT().
		Search(ctx, "example", 10, entity.OrderByVisits).
		Return(nil, errors.New("corrupt page"))

	m := NewManager(ctx, "default", store, testConfig())

	assert.Empty(t, m.SearchHistory(ctx, "example"))
}

func TestManager_Cleanup_NotifiesOnlyWhenRemoved(t *testing.T) {
	ctx := managerTestCtx()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockVisitRepository(ctrl)

	m := NewManager(ctx, "default", store, testConfig())

	var changed int
	var cleaned []int64
	m.OnChanged(func() { changed++ })
	m.OnCleanup(func(removed int64) { cleaned = append(cleaned, removed) })

	// Nothing removed: no notifications.
	store.EXPECT().CleanupByAge(gomock.Any(), 30).Return(int64(0), nil)
	store.EXPECT().LimitTotal(gomock.Any(), 10000).Return(int64(0), nil)
	assert.Zero(t, m.Cleanup(ctx, false))
	assert.Zero(t, changed)
	assert.Empty(t, cleaned)

	// Entries removed: both notifications fire once.
	store.EXPECT().CleanupByAge(gomock.Any(), 30).Return(int64(3), nil)
	store.EXPECT().LimitTotal(gomock.Any(), 10000).Return(int64(2), nil)
	assert.Equal(t, int64(5), m.Cleanup(ctx, false))
	assert.Equal(t, 1, changed)
	assert.Equal(t, []int64{5}, cleaned)
}

func TestManager_Cleanup_ZeroPoliciesSkipStoreCalls(t *testing.T) {
	ctx := managerTestCtx()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockVisitRepository(ctrl)
	// Neither CleanupByAge nor LimitTotal may be called.

	cfg := testConfig()
	cfg.RetentionDays = 0
	cfg.MaxEntries = 0
	m := NewManager(ctx, "default", store, cfg)

	assert.Zero(t, m.Cleanup(ctx, false))
}

func TestManager_ClearAll_EmitsChanged(t *testing.T) {
	ctx := managerTestCtx()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockVisitRepository(ctrl)
	store.EXPECT().ClearAll(ctx).Return(nil)

	m := NewManager(ctx, "default", store, testConfig())

	var notified bool
	m.OnChanged(func() { notified = true })

	assert.True(t, m.ClearAll(ctx))
	assert.True(t, notified)
}

func TestManager_DeleteURLs_SurfacesError(t *testing.T) {
	ctx := managerTestCtx()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockVisitRepository(ctrl)
	store.EXPECT().DeleteURLs(ctx, []string{"https://a.com"}).
		Return(int64(0), errors.New("locked"))

	m := NewManager(ctx, "default", store, testConfig())

	_, err := m.DeleteURLs(ctx, []string{"https://a.com"})
	require.Error(t, err, "user-initiated bulk delete must surface failures")
}

func TestManager_Statistics_EnrichesStoreStats(t *testing.T) {
	ctx := managerTestCtx()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockVisitRepository(ctrl)
	store.EXPECT().Stats(ctx).Return(&entity.StoreStats{
		TotalEntries: 12,
		UniqueHosts:  4,
	}, nil)

	m := NewManager(ctx, "work", store, testConfig())

	stats := m.Statistics(ctx)
	assert.Equal(t, "work", stats.Profile)
	assert.True(t, stats.Enabled)
	assert.Equal(t, int64(12), stats.TotalEntries)
}

func TestManager_Statistics_FailureYieldsZeroes(t *testing.T) {
	ctx := managerTestCtx()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockVisitRepository(ctrl)
	store.EXPECT().Stats(ctx).Return(nil, errors.New("io error"))

	m := NewManager(ctx, "work", store, testConfig())

	stats := m.Statistics(ctx)
	assert.Equal(t, "work", stats.Profile)
	assert.Zero(t, stats.TotalEntries)
}

func TestManager_SchedulerLifecycle(t *testing.T) {
	ctx := managerTestCtx()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockVisitRepository(ctrl)

	cfg := testConfig()
	cfg.CleanupInterval = time.Hour
	m := NewManager(ctx, "default", store, cfg)

	assert.True(t, m.schedulerRunning(), "scheduler starts with enabled config")

	m.SetEnabled(false)
	assert.False(t, m.schedulerRunning(), "disabling stops the scheduler")

	m.SetEnabled(true)
	assert.True(t, m.schedulerRunning(), "re-enabling restarts the scheduler")

	interval := 30 * time.Minute
	m.UpdateConfig(ConfigUpdate{CleanupInterval: &interval})
	assert.True(t, m.schedulerRunning(), "interval change restarts the scheduler")
	assert.Equal(t, interval, m.Config().CleanupInterval)

	zero := time.Duration(0)
	m.UpdateConfig(ConfigUpdate{CleanupInterval: &zero})
	assert.False(t, m.schedulerRunning(), "zero interval stops the scheduler")
}

func TestManager_SchedulerFiresCleanup(t *testing.T) {
	ctx := managerTestCtx()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockVisitRepository(ctrl)

	fired := make(chan struct{}, 1)
	store.EXPECT().CleanupByAge(gomock.Any(), 30).
		DoAndReturn(func(context.Context, int) (int64, error) {
			select {
			case fired <- struct{}{}:
			default:
			}
			return 0, nil
		}).MinTimes(1)
	store.EXPECT().LimitTotal(gomock.Any(), 10000).Return(int64(0), nil).MinTimes(1)

	cfg := testConfig()
	cfg.CleanupInterval = 20 * time.Millisecond
	m := NewManager(ctx, "default", store, cfg)
	defer m.SetEnabled(false)

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("periodic cleanup never fired")
	}
}

func TestManager_UpdateConfig_PartialMerge(t *testing.T) {
	ctx := managerTestCtx()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockVisitRepository(ctrl)

	m := NewManager(ctx, "default", store, testConfig())

	retention := 7
	ordering := entity.OrderByRecent
	m.UpdateConfig(ConfigUpdate{
		RetentionDays: &retention,
		Ordering:      &ordering,
	})

	cfg := m.Config()
	assert.Equal(t, 7, cfg.RetentionDays)
	assert.Equal(t, entity.OrderByRecent, cfg.Ordering)
	// Untouched fields keep their values.
	assert.Equal(t, 10000, cfg.MaxEntries)
	assert.Equal(t, 10, cfg.AutocompleteMaxResults)
	assert.True(t, cfg.Enabled)
}

func TestManager_Shutdown_Idempotent(t *testing.T) {
	ctx := managerTestCtx()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockVisitRepository(ctrl)
	// Final forced cleanup runs exactly once despite the double shutdown.
	store.EXPECT().CleanupByAge(gomock.Any(), 30).Return(int64(0), nil).Times(1)
	store.EXPECT().LimitTotal(gomock.Any(), 10000).Return(int64(0), nil).Times(1)

	cfg := testConfig()
	cfg.CleanupInterval = time.Hour
	m := NewManager(ctx, "default", store, cfg)

	m.Shutdown(ctx)
	assert.False(t, m.schedulerRunning())
	m.Shutdown(ctx)
}

func TestHasExcludedScheme(t *testing.T) {
	schemes := []string{"about", "data"}

	assert.True(t, hasExcludedScheme("about:blank", schemes))
	assert.True(t, hasExcludedScheme("ABOUT:CONFIG", schemes))
	assert.True(t, hasExcludedScheme("data:text/plain,hi", schemes))
	assert.False(t, hasExcludedScheme("https://example.com", schemes))
	assert.False(t, hasExcludedScheme("https://example.com/about:blank", schemes))
	assert.False(t, hasExcludedScheme("aboutish://x", schemes))
}
