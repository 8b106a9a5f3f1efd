package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-nhl-metrics/internal/report"
	"github.com/pable/go-nhl-metrics/internal/storage"
)

var summaryTop int

// summaryCmd is the cobra command for displaying a database-wide overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the database",
	Long: `Display aggregate statistics about all games stored in the database:
team records and per-player stat lines summed across every game.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().IntVar(&summaryTop, "top", 25, "number of players to show")
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	games, err := db.ListGames()
	if err != nil {
		return fmt.Errorf("list games: %w", err)
	}
	if len(games) == 0 {
		fmt.Fprintln(os.Stdout, "No games stored yet. Run 'nhlmetrics scrape <game-id>' to add one.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n=== Database Summary ===\n\n")
	fmt.Fprintf(os.Stdout, "  Games stored : %d\n", len(games))
	fmt.Fprintf(os.Stdout, "  Date range   : %s → %s\n",
		games[len(games)-1].Date, games[0].Date)

	records, err := db.GetTeamRecords()
	if err != nil {
		return fmt.Errorf("get team records: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\nTeam records:\n\n")
	report.PrintTeamRecords(os.Stdout, records)

	aggs, err := db.GetPlayerAggregates()
	if err != nil {
		return fmt.Errorf("get aggregates: %w", err)
	}
	if summaryTop > 0 && len(aggs) > summaryTop {
		aggs = aggs[:summaryTop]
	}
	fmt.Fprintf(os.Stdout, "\nTop players:\n\n")
	report.PrintAggregateTable(os.Stdout, aggs)
	return nil
}
