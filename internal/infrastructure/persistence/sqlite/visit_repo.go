package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bnema/visited/internal/domain/entity"
	"github.com/bnema/visited/internal/domain/repository"
	"github.com/bnema/visited/internal/logging"
)

const logURLMaxLen = 60

const visitColumns = "id, url, title, visit_count, first_visited, last_visited, host, session_data"

type visitRepo struct {
	db     *sql.DB
	dbPath string
	now    func() int64
}

// NewVisitRepository creates a SQLite-backed visit repository. dbPath is kept
// for storage-size reporting only; the connection owns the file.
func NewVisitRepository(db *sql.DB, dbPath string) repository.VisitRepository {
	return &visitRepo{
		db:     db,
		dbPath: dbPath,
		now:    func() int64 { return time.Now().Unix() },
	}
}

func (r *visitRepo) Upsert(ctx context.Context, url, title string, sessionData json.RawMessage) error {
	if url == "" {
		return fmt.Errorf("url cannot be empty")
	}

	log := logging.FromContext(ctx)
	log.Debug().Str("url", logging.TruncateURL(url, logURLMaxLen)).Msg("upserting visit")

	now := r.now()
	host := entity.HostOf(url)

	// Single-statement upsert: the count increment and timestamp update are
	// atomic per call. An empty title or nil session payload binds as NULL,
	// which COALESCE resolves to the stored value.
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO visits (url, title, visit_count, first_visited, last_visited, host, session_data)
		VALUES (?, ?, 1, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			visit_count = visit_count + 1,
			last_visited = excluded.last_visited,
			title = COALESCE(excluded.title, visits.title),
			session_data = COALESCE(excluded.session_data, visits.session_data)`,
		url,
		sql.NullString{String: title, Valid: title != ""},
		now,
		now,
		host,
		sql.NullString{String: string(sessionData), Valid: sessionData != nil},
	)
	if err != nil {
		return fmt.Errorf("failed to upsert visit: %w", err)
	}
	return nil
}

func (r *visitRepo) Search(ctx context.Context, query string, limit int, ordering entity.Ordering) ([]*entity.VisitRecord, error) {
	if strings.TrimSpace(query) == "" {
		return []*entity.VisitRecord{}, nil
	}

	var orderClause string
	if ordering == entity.OrderByRecent {
		orderClause = "ORDER BY last_visited DESC, visit_count DESC"
	} else {
		orderClause = "ORDER BY visit_count DESC, last_visited DESC"
	}

	pattern := "%" + escapeLike(query) + "%"
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s FROM visits
		WHERE url LIKE ? ESCAPE '\' OR title LIKE ? ESCAPE '\'
		%s
		LIMIT ?`, visitColumns, orderClause),
		pattern, pattern, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search visits: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanVisits(rows)
}

func (r *visitRepo) Recent(ctx context.Context, limit int) ([]*entity.VisitRecord, error) {
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s FROM visits
		ORDER BY last_visited DESC
		LIMIT ?`, visitColumns),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent visits: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanVisits(rows)
}

func (r *visitRepo) CleanupByAge(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, fmt.Errorf("retention days must be positive, got %d", retentionDays)
	}

	cutoff := r.now() - int64(retentionDays)*86400

	res, err := r.db.ExecContext(ctx, "DELETE FROM visits WHERE last_visited < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old visits: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	if removed > 0 {
		r.vacuum(ctx)
		logging.FromContext(ctx).Info().
			Int64("removed", removed).
			Int("retention_days", retentionDays).
			Msg("cleaned up old visits")
	}
	return removed, nil
}

func (r *visitRepo) LimitTotal(ctx context.Context, maxEntries int) (int64, error) {
	if maxEntries < 0 {
		return 0, fmt.Errorf("max entries must be non-negative, got %d", maxEntries)
	}

	var count int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM visits").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count visits: %w", err)
	}
	if count <= int64(maxEntries) {
		return 0, nil
	}

	excess := count - int64(maxEntries)
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM visits WHERE id IN (
			SELECT id FROM visits ORDER BY last_visited ASC LIMIT ?
		)`, excess)
	if err != nil {
		return 0, fmt.Errorf("failed to limit visits: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	if removed > 0 {
		r.vacuum(ctx)
		logging.FromContext(ctx).Info().
			Int64("removed", removed).
			Int("max_entries", maxEntries).
			Msg("limited total visits")
	}
	return removed, nil
}

func (r *visitRepo) DeleteByURL(ctx context.Context, url string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM visits WHERE url = ?", url); err != nil {
		return fmt.Errorf("failed to delete visit: %w", err)
	}
	return nil
}

func (r *visitRepo) DeleteURLs(ctx context.Context, urls []string) (int64, error) {
	if len(urls) == 0 {
		return 0, nil
	}

	placeholders := strings.Repeat("?,", len(urls))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(urls))
	for i, u := range urls {
		args[i] = u
	}

	res, err := r.db.ExecContext(ctx,
		"DELETE FROM visits WHERE url IN ("+placeholders+")", args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete visits: %w", err)
	}
	return res.RowsAffected()
}

func (r *visitRepo) Stats(ctx context.Context) (*entity.StoreStats, error) {
	stats := &entity.StoreStats{}
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(DISTINCT host),
		       COALESCE(MIN(first_visited), 0),
		       COALESCE(MAX(last_visited), 0)
		FROM visits`).
		Scan(&stats.TotalEntries, &stats.UniqueHosts, &stats.OldestEntry, &stats.NewestEntry)
	if err != nil {
		return nil, fmt.Errorf("failed to get visit stats: %w", err)
	}

	if info, statErr := os.Stat(r.dbPath); statErr == nil {
		stats.StorageSizeBytes = info.Size()
	}
	return stats, nil
}

func (r *visitRepo) ClearAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM visits"); err != nil {
		return fmt.Errorf("failed to clear visits: %w", err)
	}
	r.vacuum(ctx)
	logging.FromContext(ctx).Info().Msg("cleared all visits")
	return nil
}

// vacuum reclaims file space after bulk deletions. Failures are logged and
// swallowed: the deletion itself already succeeded.
func (r *visitRepo) vacuum(ctx context.Context) {
	if _, err := r.db.ExecContext(ctx, "VACUUM"); err != nil {
		logging.FromContext(ctx).Debug().Err(err).Msg("vacuum after cleanup failed")
	}
}

// escapeLike escapes LIKE metacharacters so user queries match literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

func scanVisits(rows *sql.Rows) ([]*entity.VisitRecord, error) {
	records := make([]*entity.VisitRecord, 0)
	for rows.Next() {
		var (
			rec         entity.VisitRecord
			title       sql.NullString
			sessionData sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.URL, &title, &rec.VisitCount,
			&rec.FirstVisited, &rec.LastVisited, &rec.Host, &sessionData); err != nil {
			return nil, fmt.Errorf("failed to scan visit row: %w", err)
		}
		rec.Title = title.String
		if sessionData.Valid {
			rec.SessionData = json.RawMessage(sessionData.String)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
