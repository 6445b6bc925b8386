package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/visited/internal/config"
	"github.com/bnema/visited/internal/domain/entity"
)

var (
	historyJSON bool
	historyMax  int
	clearYes    bool
)

const defaultHistoryMax = 50

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and manage history",
	Long:  `List, search and clean the profile's browsing history.`,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.PersistentFlags().BoolVar(&historyJSON, "json", false, "output as JSON")
	historyCmd.PersistentFlags().IntVar(&historyMax, "max", defaultHistoryMax, "maximum entries to show")

	historyCmd.AddCommand(listCmd)
	historyCmd.AddCommand(searchCmd)
	historyCmd.AddCommand(statsCmd)
	historyCmd.AddCommand(cleanupCmd)
	historyCmd.AddCommand(clearCmd)
	historyCmd.AddCommand(deleteCmd)

	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "skip confirmation")
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent visits",
	RunE: func(_ *cobra.Command, _ []string) error {
		a := GetApp()
		records := a.History.RecentVisits(a.Ctx(), historyMax)
		return printRecords(records)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search history by URL or title substring",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		a := GetApp()
		records := a.History.SearchFull(a.Ctx(), args[0], historyMax)
		return printRecords(records)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show history statistics",
	RunE: func(_ *cobra.Command, _ []string) error {
		a := GetApp()
		stats := a.History.Statistics(a.Ctx())

		if historyJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(stats)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "Profile:\t%s\n", stats.Profile)
		fmt.Fprintf(w, "Enabled:\t%v\n", stats.Enabled)
		fmt.Fprintf(w, "Entries:\t%d\n", stats.TotalEntries)
		fmt.Fprintf(w, "Unique hosts:\t%d\n", stats.UniqueHosts)
		if stats.TotalEntries > 0 {
			fmt.Fprintf(w, "Oldest:\t%s\n", formatUnix(stats.OldestEntry))
			fmt.Fprintf(w, "Newest:\t%s\n", formatUnix(stats.NewestEntry))
		}
		fmt.Fprintf(w, "Storage:\t%d bytes\n", stats.StorageSizeBytes)
		if dbPath, err := config.ProfileDBPath(stats.Profile); err == nil {
			fmt.Fprintf(w, "Database:\t%s\n", dbPath)
		}
		return w.Flush()
	},
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Run retention cleanup now",
	Long:  `Apply the configured age and count limits immediately.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		a := GetApp()
		removed := a.History.Cleanup(a.Ctx(), true)
		fmt.Printf("Removed %d entries\n", removed)
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all history for the profile",
	RunE: func(_ *cobra.Command, _ []string) error {
		a := GetApp()

		if !clearYes {
			fmt.Printf("Delete ALL history for profile %q? [y/N] ", a.History.Profile())
			var answer string
			_, _ = fmt.Scanln(&answer)
			if answer != "y" && answer != "Y" {
				fmt.Println("Aborted")
				return nil
			}
		}

		if !a.History.ClearAll(a.Ctx()) {
			return fmt.Errorf("failed to clear history")
		}
		fmt.Println("History cleared")
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <url>...",
	Short: "Delete specific URLs from history",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		a := GetApp()

		removed, err := a.History.DeleteURLs(a.Ctx(), args)
		if err != nil {
			return fmt.Errorf("delete: %w", err)
		}
		fmt.Printf("Removed %d entries\n", removed)
		return nil
	},
}

func printRecords(records []*entity.VisitRecord) error {
	if historyJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "VISITS\tLAST VISITED\tTITLE\tURL")
	for _, rec := range records {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			rec.VisitCount,
			formatUnix(rec.LastVisited),
			rec.DisplayTitle(),
			rec.URL,
		)
	}
	return w.Flush()
}

func formatUnix(ts int64) string {
	return time.Unix(ts, 0).Format("2006-01-02 15:04")
}
