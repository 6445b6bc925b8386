package entity

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"
)

// VisitRecord represents the aggregate history of visits to a single, exact URL.
// URLs are never normalized: two URLs differing by a trailing slash are
// distinct records.
type VisitRecord struct {
	ID           int64           `json:"id"`
	URL          string          `json:"url"`
	Title        string          `json:"title"`
	VisitCount   int64           `json:"visit_count"`
	FirstVisited int64           `json:"first_visited"` // unix seconds, set once
	LastVisited  int64           `json:"last_visited"`  // unix seconds, updated per visit
	Host         string          `json:"host"`
	SessionData  json.RawMessage `json:"session_data,omitempty"`
}

// DisplayTitle returns the title, falling back to the URL for untitled pages.
func (v *VisitRecord) DisplayTitle() string {
	if v.Title != "" {
		return v.Title
	}
	return v.URL
}

// LastVisitedTime returns the last visit as a time.Time.
func (v *VisitRecord) LastVisitedTime() time.Time {
	return time.Unix(v.LastVisited, 0)
}

// HostOf derives the host stored alongside a visit record. It falls back to
// the raw URL when parsing yields no network location, matching what gets
// written at record time (hosts are never recomputed on read).
func HostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}

// Ordering selects how search results are ranked.
type Ordering string

const (
	// OrderByVisits ranks by visit_count desc, then last_visited desc.
	OrderByVisits Ordering = "visits"
	// OrderByRecent ranks by last_visited desc, then visit_count desc.
	OrderByRecent Ordering = "recent"
)

// ParseOrdering validates an ordering string from configuration.
func ParseOrdering(s string) (Ordering, error) {
	switch Ordering(s) {
	case OrderByVisits:
		return OrderByVisits, nil
	case OrderByRecent:
		return OrderByRecent, nil
	}
	return "", fmt.Errorf("unknown ordering %q", s)
}

// Suggestion is a presentation-ready search result for autocomplete and
// history-browser adapters. Text carries the navigable URL; Display carries
// the human-readable label.
type Suggestion struct {
	Text        string `json:"text"`
	Display     string `json:"display"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	VisitCount  int64  `json:"visit_count"`
	LastVisited int64  `json:"last_visited"`
}

// SuggestionFrom formats a visit record for presentation.
func SuggestionFrom(v *VisitRecord) Suggestion {
	return Suggestion{
		Text:        v.URL,
		Display:     v.DisplayTitle() + " - " + v.URL,
		URL:         v.URL,
		Title:       v.DisplayTitle(),
		VisitCount:  v.VisitCount,
		LastVisited: v.LastVisited,
	}
}

// StoreStats contains aggregated statistics for one profile's history store.
type StoreStats struct {
	TotalEntries     int64 `json:"total_entries"`
	UniqueHosts      int64 `json:"unique_hosts"`
	OldestEntry      int64 `json:"oldest_entry"`
	NewestEntry      int64 `json:"newest_entry"`
	StorageSizeBytes int64 `json:"storage_size_bytes"`
}
