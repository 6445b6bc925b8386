package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Drives a manager over a real on-disk store, end to end: open a fresh
// profile, record visits, search them back. Everything below the manager
// (directory creation, migrations, upsert, LIKE search) runs for real.
func TestOpenProfileRecordAndSearch(t *testing.T) {
	ctx := managerTestCtx()
	baseDir := t.TempDir()

	cfg := DefaultConfig()
	cfg.CleanupInterval = 0 // no scheduler in tests

	m, err := OpenProfile(ctx, baseDir, "integration", cfg)
	require.NoError(t, err)
	defer m.Shutdown(ctx)

	assert.FileExists(t, DBPath(baseDir, "integration"))

	require.True(t, m.RecordVisit(ctx, "https://go.dev/doc", "Documentation", nil))
	require.True(t, m.RecordVisit(ctx, "https://go.dev/doc", "Documentation", nil))
	require.True(t, m.RecordVisit(ctx, "https://pkg.go.dev/net/http", "net/http package", nil))

	suggestions := m.SearchHistory(ctx, "go.dev/doc")
	require.Len(t, suggestions, 1)
	assert.Equal(t, "https://go.dev/doc", suggestions[0].URL)
	assert.Contains(t, suggestions[0].Display, "Documentation")
	assert.Equal(t, int64(2), suggestions[0].VisitCount, "revisits must merge into one record")

	stats := m.Statistics(ctx)
	assert.Equal(t, "integration", stats.Profile)
	assert.Equal(t, int64(2), stats.TotalEntries)
}
