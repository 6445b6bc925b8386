package styles

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	cursorSelected = "> "
	cursorEmpty    = "  "
)

// VisitItem represents one history entry in the list.
type VisitItem struct {
	URL         string
	Title       string
	Host        string
	VisitCount  int64
	LastVisited time.Time
	Marked      bool
}

// FilterValue implements list.Item.
func (i VisitItem) FilterValue() string {
	return i.Title + " " + i.URL
}

// TitleValue returns the display title, falling back to the URL.
func (i VisitItem) TitleValue() string {
	if i.Title != "" {
		return i.Title
	}
	return i.URL
}

// VisitDelegate renders visit items with theme styling.
type VisitDelegate struct {
	Theme *Theme
}

// Height returns the height of each item.
func (d VisitDelegate) Height() int { return 2 }

// Spacing returns the spacing between items.
func (d VisitDelegate) Spacing() int { return 0 }

// Update handles item-level events.
func (d VisitDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

// Render renders a single list item.
func (d VisitDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	vi, ok := item.(VisitItem)
	if !ok {
		return
	}

	t := d.Theme
	isSelected := index == m.Index()
	const (
		maxTitleLength = 60
		maxURLLength   = 50
		ellipsisLength = 3
	)

	title := vi.TitleValue()
	if len(title) > maxTitleLength {
		title = title[:maxTitleLength-ellipsisLength] + "..."
	}

	url := vi.URL
	if len(url) > maxURLLength {
		url = url[:maxURLLength-ellipsisLength] + "..."
	}

	visitBadge := t.MutedBadge(fmt.Sprintf("%d", vi.VisitCount))
	timeBadge := t.MutedBadge(RelativeTime(vi.LastVisited))

	cursor := cursorEmpty
	if isSelected {
		cursor = cursorSelected
	}
	mark := "  "
	if vi.Marked {
		mark = t.Highlight.Render("* ")
	}

	titleStyle := t.ListItemTitle
	urlStyle := t.ListItemDesc
	if isSelected {
		titleStyle = titleStyle.Foreground(t.Accent).Bold(true)
		urlStyle = urlStyle.Foreground(t.Text)
	}

	line1 := lipgloss.JoinHorizontal(
		lipgloss.Left,
		t.Highlight.Render(cursor),
		mark,
		titleStyle.Render(title),
	)

	line2 := lipgloss.JoinHorizontal(
		lipgloss.Left,
		strings.Repeat(" ", 4),
		urlStyle.Render(url),
		" ",
		visitBadge,
		" ",
		timeBadge,
	)

	_, _ = fmt.Fprintf(w, "%s\n%s", line1, line2)
}

// NewVisitList creates a themed list for visit items.
func NewVisitList(theme *Theme, items []VisitItem, width, height int) list.Model {
	listItems := make([]list.Item, len(items))
	for i, item := range items {
		listItems[i] = item
	}

	l := list.New(listItems, VisitDelegate{Theme: theme}, width, height)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowFilter(false)
	l.SetShowHelp(false)
	l.SetShowPagination(true)

	l.Styles.PaginationStyle = lipgloss.NewStyle().Foreground(theme.Muted)
	l.Styles.ActivePaginationDot = lipgloss.NewStyle().Foreground(theme.Accent)
	l.Styles.InactivePaginationDot = lipgloss.NewStyle().Foreground(theme.Muted)

	return l
}

// RelativeTime formats a time as a human-readable relative string.
func RelativeTime(tm time.Time) string {
	diff := time.Since(tm)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1h ago"
		}
		return fmt.Sprintf("%dh ago", hours)
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "1d ago"
		}
		return fmt.Sprintf("%dd ago", days)
	default:
		return tm.Format("2006-01-02")
	}
}
