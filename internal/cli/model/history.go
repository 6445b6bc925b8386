// Package model provides Bubble Tea models for CLI commands.
package model

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/visited/internal/cli/styles"
	"github.com/bnema/visited/internal/domain/entity"
	"github.com/bnema/visited/internal/history"
	"github.com/bnema/visited/internal/logging"
	"github.com/bnema/visited/internal/search"
)

const browseResultLimit = 100

// BrowseModel is the Bubble Tea model for the interactive history browser.
// Typing in search mode feeds the debounced pipeline; results arrive
// asynchronously and replace the list only when still current.
type BrowseModel struct {
	list   list.Model
	search textinput.Model
	help   help.Model
	keys   styles.BrowseKeyMap

	items         []styles.VisitItem
	marked        map[string]bool
	searchMode    bool
	searchActive  bool // a search query is currently filtering the list
	showHelp      bool
	confirmDelete bool
	status        string
	width         int
	height        int
	err           error

	ctx      context.Context
	manager  *history.Manager
	pipeline *search.Pipeline
	results  chan searchResultsMsg
	theme    *styles.Theme
}

// recentLoadedMsg is sent when the recent-visits view is loaded.
type recentLoadedMsg struct {
	entries []*entity.VisitRecord
}

// searchResultsMsg is sent when the pipeline delivers results.
type searchResultsMsg struct {
	query   string
	results []entity.Suggestion
}

// visitDeletedMsg is sent after a single or bulk delete completes.
type visitDeletedMsg struct {
	removed int64
	err     error
}

// cleanupDoneMsg is sent after a forced cleanup pass.
type cleanupDoneMsg struct {
	removed int64
}

// NewBrowseModel creates the history browser model. The caller owns the
// manager; the model owns the pipeline and closes it via Close.
func NewBrowseModel(ctx context.Context, theme *styles.Theme, manager *history.Manager, opts search.Options) *BrowseModel {
	results := make(chan searchResultsMsg, 16)

	searchFn := func(sctx context.Context, query string) ([]entity.Suggestion, error) {
		records := manager.SearchFull(sctx, query, browseResultLimit)
		suggestions := make([]entity.Suggestion, len(records))
		for i, rec := range records {
			suggestions[i] = entity.SuggestionFrom(rec)
		}
		return suggestions, nil
	}
	deliver := func(query string, res []entity.Suggestion) {
		results <- searchResultsMsg{query: query, results: res}
	}

	return &BrowseModel{
		search:   styles.NewSearchInput(theme),
		help:     styles.NewStyledHelp(theme),
		keys:     styles.DefaultBrowseKeyMap(),
		marked:   make(map[string]bool),
		ctx:      ctx,
		manager:  manager,
		pipeline: search.NewPipeline(ctx, searchFn, deliver, opts),
		results:  results,
		theme:    theme,
		width:    80,
		height:   24,
	}
}

// Close releases the model's search pipeline.
func (m *BrowseModel) Close() {
	m.pipeline.Close()
}

// Init implements tea.Model.
func (m *BrowseModel) Init() tea.Cmd {
	return tea.Batch(m.loadRecent, m.waitForResults())
}

func (m *BrowseModel) loadRecent() tea.Msg {
	entries := m.manager.RecentVisits(m.ctx, browseResultLimit)
	return recentLoadedMsg{entries: entries}
}

// waitForResults re-arms after each delivery so the channel keeps draining.
func (m *BrowseModel) waitForResults() tea.Cmd {
	return func() tea.Msg {
		return <-m.results
	}
}

// Update implements tea.Model.
func (m *BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.rebuildList()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case recentLoadedMsg:
		m.items = itemsFromRecords(msg.entries)
		m.searchActive = false
		m.rebuildList()
		return m, nil

	case searchResultsMsg:
		cmd := m.waitForResults()
		if msg.query == "" {
			// Cleared search: fall back to the recent view.
			return m, tea.Batch(cmd, m.loadRecent)
		}
		m.items = itemsFromSuggestions(msg.results)
		m.searchActive = true
		m.rebuildList()
		return m, cmd

	case visitDeletedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		if msg.removed == 1 {
			m.status = "entry deleted"
		} else {
			m.status = fmt.Sprintf("%d entries deleted", msg.removed)
		}
		return m, m.refresh()

	case cleanupDoneMsg:
		m.status = fmt.Sprintf("cleanup removed %d entries", msg.removed)
		return m, m.refresh()
	}

	return m, nil
}

func (m *BrowseModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmDelete {
		return m.handleConfirmKey(msg)
	}
	if m.searchMode {
		return m.handleSearchKey(msg)
	}
	return m.handleNormalKey(msg)
}

func (m *BrowseModel) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.confirmDelete = false
		if len(m.marked) > 0 {
			return m, m.deleteMarked()
		}
		return m, m.deleteSelected()
	default:
		m.confirmDelete = false
		return m, nil
	}
}

func (m *BrowseModel) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searchMode = false
		m.search.Blur()
		m.search.SetValue("")
		m.pipeline.Submit("")
		return m, nil
	case "enter":
		m.searchMode = false
		m.search.Blur()
		m.pipeline.Flush()
		return m, nil
	default:
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.pipeline.Submit(m.search.Value())
		return m, cmd
	}
}

func (m *BrowseModel) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.search.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Open):
		if item, ok := m.selectedItem(); ok {
			return m, openURL(m.ctx, item.URL)
		}
		return m, nil

	case key.Matches(msg, m.keys.Mark):
		if item, ok := m.selectedItem(); ok {
			if m.marked[item.URL] {
				delete(m.marked, item.URL)
			} else {
				m.marked[item.URL] = true
			}
			m.rebuildList()
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if len(m.marked) > 0 {
			m.confirmDelete = true
			return m, nil
		}
		if _, ok := m.selectedItem(); ok {
			m.confirmDelete = true
		}
		return m, nil

	case key.Matches(msg, m.keys.Cleanup):
		return m, m.performCleanup()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *BrowseModel) selectedItem() (styles.VisitItem, bool) {
	item := m.list.SelectedItem()
	if item == nil {
		return styles.VisitItem{}, false
	}
	vi, ok := item.(styles.VisitItem)
	return vi, ok
}

func (m *BrowseModel) deleteSelected() tea.Cmd {
	item, ok := m.selectedItem()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		log := logging.FromContext(m.ctx)
		log.Debug().Str("url", logging.TruncateURL(item.URL, 60)).Msg("deleting history entry")
		if err := m.manager.DeleteURL(m.ctx, item.URL); err != nil {
			return visitDeletedMsg{err: err}
		}
		return visitDeletedMsg{removed: 1}
	}
}

func (m *BrowseModel) deleteMarked() tea.Cmd {
	urls := make([]string, 0, len(m.marked))
	for url := range m.marked {
		urls = append(urls, url)
	}
	m.marked = make(map[string]bool)
	return func() tea.Msg {
		logging.FromContext(m.ctx).Debug().Int("count", len(urls)).Msg("deleting marked entries")
		removed, err := m.manager.DeleteURLs(m.ctx, urls)
		return visitDeletedMsg{removed: removed, err: err}
	}
}

func (m *BrowseModel) performCleanup() tea.Cmd {
	return func() tea.Msg {
		return cleanupDoneMsg{removed: m.manager.Cleanup(m.ctx, true)}
	}
}

// refresh re-runs the active search or reloads the recent view.
func (m *BrowseModel) refresh() tea.Cmd {
	if m.searchActive && m.search.Value() != "" {
		query := m.search.Value()
		return func() tea.Msg {
			m.pipeline.Cancel()
			m.pipeline.Submit(query)
			m.pipeline.Flush()
			return nil
		}
	}
	return m.loadRecent
}

func (m *BrowseModel) rebuildList() {
	listHeight := m.height - 8
	if listHeight < 5 {
		listHeight = 5
	}
	items := make([]styles.VisitItem, len(m.items))
	for i, item := range m.items {
		item.Marked = m.marked[item.URL]
		items[i] = item
	}
	idx := m.list.Index()
	m.list = styles.NewVisitList(m.theme, items, m.width, listHeight)
	if idx > 0 && idx < len(items) {
		m.list.Select(idx)
	}
}

// View implements tea.Model.
func (m *BrowseModel) View() string {
	t := m.theme

	header := t.Title.Render("History") + " " +
		t.Subtle.Render(fmt.Sprintf("(%s)", m.manager.Profile()))

	var searchBar string
	switch {
	case m.searchMode:
		searchBar = t.InputBox(m.search.View(), true)
	case m.searchActive:
		searchBar = t.Subtle.Render("Results for: ") + t.Badge.Render(m.search.Value()) +
			t.Subtle.Render(" (esc to clear)")
	default:
		searchBar = t.Subtle.Render("Press / to search, space to mark, d to delete, c to run cleanup")
	}

	listView := m.list.View()
	if m.err != nil {
		listView = t.ErrorStyle.Render("Error: " + m.err.Error())
	}

	statusLine := ""
	switch {
	case m.confirmDelete && len(m.marked) > 0:
		statusLine = t.Highlight.Render(fmt.Sprintf("Delete %d marked entries? (y/n)", len(m.marked)))
	case m.confirmDelete:
		statusLine = t.Highlight.Render("Delete this entry? (y/n)")
	case len(m.marked) > 0:
		statusLine = t.Subtle.Render(fmt.Sprintf("%d marked", len(m.marked)))
	case m.status != "":
		statusLine = t.Subtle.Render(m.status)
	}

	var helpView string
	if m.showHelp {
		helpView = m.help.View(m.keys)
	} else {
		helpView = t.Subtle.Render("? for help • q to quit")
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		"",
		searchBar,
		"",
		listView,
		statusLine,
		helpView,
	)
}

func itemsFromRecords(records []*entity.VisitRecord) []styles.VisitItem {
	items := make([]styles.VisitItem, len(records))
	for i, rec := range records {
		items[i] = styles.VisitItem{
			URL:         rec.URL,
			Title:       rec.Title,
			Host:        rec.Host,
			VisitCount:  rec.VisitCount,
			LastVisited: rec.LastVisitedTime(),
		}
	}
	return items
}

func itemsFromSuggestions(suggestions []entity.Suggestion) []styles.VisitItem {
	items := make([]styles.VisitItem, len(suggestions))
	for i, s := range suggestions {
		items[i] = styles.VisitItem{
			URL:         s.URL,
			Title:       s.Title,
			VisitCount:  s.VisitCount,
			LastVisited: time.Unix(s.LastVisited, 0),
		}
	}
	return items
}

// openURL opens a URL with the desktop handler.
func openURL(ctx context.Context, urlStr string) tea.Cmd {
	return func() tea.Msg {
		logging.FromContext(ctx).Debug().
			Str("url", logging.TruncateURL(urlStr, 60)).Msg("opening URL")
		_ = exec.Command("xdg-open", urlStr).Start()
		return nil
	}
}

var _ tea.Model = (*BrowseModel)(nil)
