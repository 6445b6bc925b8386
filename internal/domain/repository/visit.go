package repository

import (
	"context"
	"encoding/json"

	"github.com/bnema/visited/internal/domain/entity"
)

//go:generate mockgen -source=visit.go -destination=mocks/visit_mock.go -package=mocks

// VisitRepository defines durable storage for visit records. One store file
// exists per profile; implementations guarantee per-call atomicity so that
// concurrent upserts to the same URL leave visit_count consistent.
type VisitRepository interface {
	// Upsert records a visit: inserts a new record with visit_count 1, or
	// atomically increments the count and refreshes last_visited. A non-empty
	// title replaces the stored one; a nil sessionData leaves the stored
	// payload untouched.
	Upsert(ctx context.Context, url, title string, sessionData json.RawMessage) error

	// Search returns records whose URL or title contains query
	// (case-insensitive), ranked by ordering and capped at limit.
	// An empty query returns no results.
	Search(ctx context.Context, query string, limit int, ordering entity.Ordering) ([]*entity.VisitRecord, error)

	// Recent returns records ordered by last_visited descending.
	Recent(ctx context.Context, limit int) ([]*entity.VisitRecord, error)

	// CleanupByAge deletes records last visited more than retentionDays ago
	// and returns the number removed.
	CleanupByAge(ctx context.Context, retentionDays int) (int64, error)

	// LimitTotal deletes the oldest records until at most maxEntries remain
	// and returns the number removed.
	LimitTotal(ctx context.Context, maxEntries int) (int64, error)

	// DeleteByURL removes the record for one exact URL.
	DeleteByURL(ctx context.Context, url string) error

	// DeleteURLs removes the records for the given URLs and returns the
	// number removed.
	DeleteURLs(ctx context.Context, urls []string) (int64, error)

	// Stats returns aggregate statistics for the store.
	Stats(ctx context.Context) (*entity.StoreStats, error)

	// ClearAll removes every record.
	ClearAll(ctx context.Context) error
}
