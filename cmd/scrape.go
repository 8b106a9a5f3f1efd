package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-nhl-metrics/internal/nhl"
	"github.com/pable/go-nhl-metrics/internal/patch"
	"github.com/pable/go-nhl-metrics/internal/pipeline"
	"github.com/pable/go-nhl-metrics/internal/report"
	"github.com/pable/go-nhl-metrics/internal/storage"
	"github.com/pable/go-nhl-metrics/internal/xg"
)

var (
	scrapeForce  bool
	scrapeQuiet  bool
	scrapePlayer string
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape <game-id>...",
	Short: "Scrape one or more games and store the reconciled metrics",
	Long: `Fetch the play-by-play feed and the HTML reports for each game id
(e.g. 2025020001), reconcile them into a single enriched timeline, and store
the events and per-player stat lines.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().BoolVar(&scrapeForce, "force", false, "re-scrape games that are already stored")
	scrapeCmd.Flags().BoolVar(&scrapeQuiet, "quiet", false, "skip the per-game stat tables")
	scrapeCmd.Flags().StringVar(&scrapePlayer, "player", "", "highlight a player id (e.g. AUSTON.MATTHEWS)")
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cfg.LogLevel)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	patches, err := patch.Load(cfg.PatchFile)
	if err != nil {
		return fmt.Errorf("load patches: %w", err)
	}
	registry, err := xg.LoadEmbedded()
	if err != nil {
		return fmt.Errorf("load shot models: %w", err)
	}
	client := nhl.NewClient(cfg.APIBaseURL, cfg.ReportsBaseURL,
		time.Duration(cfg.TimeoutSeconds)*time.Second, log)
	pipe := pipeline.New(client, patches, registry, log)

	ctx := cmd.Context()
	var failed int
	for _, gameID := range args {
		if err := scrapeOne(ctx, db, pipe, gameID); err != nil {
			log.Error().Err(err).Str("game_id", gameID).Msg("scrape failed")
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d games failed", failed, len(args))
	}
	return nil
}

func scrapeOne(ctx context.Context, db *storage.DB, pipe *pipeline.Pipeline, gameID string) error {
	exists, err := db.GameExists(gameID)
	if err != nil {
		return fmt.Errorf("check game: %w", err)
	}
	if exists && !scrapeForce {
		fmt.Fprintf(os.Stdout, "Game %s already stored — showing cached results.\n", gameID)
		return showStored(db, gameID)
	}

	fmt.Fprintf(os.Stdout, "Scraping %s...\n", gameID)
	res, err := pipe.ProcessGame(ctx, gameID)
	if err != nil {
		return fmt.Errorf("process game: %w", err)
	}

	if err := db.InsertGame(res.Summary()); err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	if err := db.InsertEvents(res.Events); err != nil {
		return fmt.Errorf("insert events: %w", err)
	}
	if err := db.InsertPlayerGameStats(res.Stats); err != nil {
		return fmt.Errorf("insert player stats: %w", err)
	}

	report.PrintGameHeader(os.Stdout, res.Summary())
	if !scrapeQuiet {
		report.PrintPlayerTableTo(os.Stdout, res.Stats, scrapePlayer)
	}
	return nil
}

func showStored(db *storage.DB, gameID string) error {
	summary, err := db.GetGame(gameID)
	if err != nil || summary == nil {
		return fmt.Errorf("game not found: %s", gameID)
	}
	stats, err := db.GetPlayerGameStats(gameID)
	if err != nil {
		return err
	}
	report.PrintGameHeader(os.Stdout, *summary)
	if !scrapeQuiet {
		report.PrintPlayerTableTo(os.Stdout, stats, scrapePlayer)
	}
	return nil
}
