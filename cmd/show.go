package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-nhl-metrics/internal/report"
	"github.com/pable/go-nhl-metrics/internal/storage"
)

var (
	showPlayerID string
	showEvents   bool
	showChanges  bool
)

var showCmd = &cobra.Command{
	Use:   "show <game-id>",
	Short: "Show stored game stats by game id",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVar(&showPlayerID, "player", "", "highlight a player id (e.g. AUSTON.MATTHEWS)")
	showCmd.Flags().BoolVar(&showEvents, "events", false, "print the reconciled event timeline")
	showCmd.Flags().BoolVar(&showChanges, "changes", false, "include line changes in the timeline")
}

func runShow(cmd *cobra.Command, args []string) error {
	gameID := args[0]

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	summary, err := db.GetGame(gameID)
	if err != nil {
		return fmt.Errorf("query game: %w", err)
	}
	if summary == nil {
		fmt.Fprintf(os.Stderr, "No stored game with id %q\n", gameID)
		return nil
	}

	stats, err := db.GetPlayerGameStats(gameID)
	if err != nil {
		return fmt.Errorf("get player stats: %w", err)
	}

	report.PrintGameHeader(os.Stdout, *summary)
	report.PrintPlayerTableTo(os.Stdout, stats, showPlayerID)

	if showEvents || showChanges {
		events, err := db.GetEvents(gameID)
		if err != nil {
			return fmt.Errorf("get events: %w", err)
		}
		fmt.Fprintln(os.Stdout)
		report.PrintEventTable(os.Stdout, events, showChanges)
	}
	return nil
}
