package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-nhl-metrics/internal/report"
	"github.com/pable/go-nhl-metrics/internal/storage"
)

var listTeams []string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored games",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringSliceVar(&listTeams, "team", nil, "only games involving these team codes (e.g. TOR,MTL)")
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	if len(listTeams) > 0 {
		refs, err := db.GamesForTeams(listTeams)
		if err != nil {
			return fmt.Errorf("list games: %w", err)
		}
		if len(refs) == 0 {
			fmt.Fprintln(os.Stdout, "No stored games for those teams.")
			return nil
		}
		for _, r := range refs {
			fmt.Fprintf(os.Stdout, "%s  %s  %s %d – %d %s\n",
				r.GameID, r.Date, r.AwayTeam, r.AwayScore, r.HomeScore, r.HomeTeam)
		}
		return nil
	}

	games, err := db.ListGames()
	if err != nil {
		return fmt.Errorf("list games: %w", err)
	}
	if len(games) == 0 {
		fmt.Fprintln(os.Stdout, "No games stored yet. Run 'nhlmetrics scrape <game-id>' to add one.")
		return nil
	}
	report.PrintGameList(os.Stdout, games)
	return nil
}
