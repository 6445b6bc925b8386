package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bnema/visited/internal/cli/model"
	"github.com/bnema/visited/internal/search"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Interactive history browser",
	Long:  `Browse history with live search, per-entry deletion and cleanup.`,
	RunE:  runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(_ *cobra.Command, _ []string) error {
	a := GetApp()

	// The browser view keeps its longer debounce and larger result cap; only
	// the minimum query length follows the search config.
	opts := search.BrowserOptions()
	opts.MinQueryLength = a.Config.Search.PipelineOptions().MinQueryLength

	m := model.NewBrowseModel(a.Ctx(), a.Theme, a.History, opts)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
