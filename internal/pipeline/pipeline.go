// Package pipeline processes one game end-to-end: fetch both sources, merge
// the roster, normalize, derive changes, reconcile, enrich, score, aggregate.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pable/go-nhl-metrics/internal/aggregator"
	"github.com/pable/go-nhl-metrics/internal/enrich"
	"github.com/pable/go-nhl-metrics/internal/htmlreport"
	"github.com/pable/go-nhl-metrics/internal/model"
	"github.com/pable/go-nhl-metrics/internal/nhl"
	"github.com/pable/go-nhl-metrics/internal/normalize"
	"github.com/pable/go-nhl-metrics/internal/patch"
	"github.com/pable/go-nhl-metrics/internal/reconcile"
	"github.com/pable/go-nhl-metrics/internal/roster"
	"github.com/pable/go-nhl-metrics/internal/shifts"
	"github.com/pable/go-nhl-metrics/internal/xg"
)

// Pipeline wires the engine stages behind one entry point.
type Pipeline struct {
	client   *nhl.Client
	patches  patch.Set
	registry *xg.Registry
	log      zerolog.Logger
}

// New assembles a pipeline. The xG registry's lifecycle belongs to the
// caller; the pipeline only borrows it.
func New(client *nhl.Client, patches patch.Set, registry *xg.Registry, log zerolog.Logger) *Pipeline {
	return &Pipeline{client: client, patches: patches, registry: registry, log: log}
}

// GameResult is one processed game's canonical output.
type GameResult struct {
	Meta   model.GameMeta
	Events []model.CanonicalEvent
	Stats  []model.PlayerGameStats
}

// Summary condenses the result for storage listing.
func (r *GameResult) Summary() model.GameSummary {
	s := model.GameSummary{
		GameID:   r.Meta.GameID,
		Season:   r.Meta.Season,
		Session:  r.Meta.Session,
		Date:     r.Meta.Date,
		HomeTeam: r.Meta.HomeTeam,
		AwayTeam: r.Meta.AwayTeam,
		Events:   len(r.Events),
	}
	if n := len(r.Events); n > 0 {
		last := r.Events[n-1]
		s.HomeScore, s.AwayScore = last.HomeScore, last.AwayScore
		// The final goal is credited to the state after the last event.
		if last.Type == model.Goal {
			if last.Venue == model.VenueHome {
				s.HomeScore++
			} else {
				s.AwayScore++
			}
		}
	}
	return s
}

// ProcessGame runs the full reconciliation for one game.
func (p *Pipeline) ProcessGame(ctx context.Context, gameID string) (*GameResult, error) {
	if _, err := nhl.ValidateGameID(gameID); err != nil {
		return nil, err
	}
	docs, err := p.client.FetchGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	feed, err := normalize.DecodeMachineFeed(docs.PlayByPlay)
	if err != nil {
		return nil, err
	}
	meta := feed.Meta()
	override := p.patches.Get(gameID)
	if override.ForceSession != "" {
		meta.Session = override.ForceSession
	}

	ros, err := p.buildRoster(docs, meta, feed, override)
	if err != nil {
		return nil, err
	}

	machineEvs, err := normalize.Machine(feed, ros)
	if err != nil {
		return nil, err
	}
	reportEvs, err := p.reportEvents(docs, ros, override)
	if err != nil {
		return nil, err
	}
	changes, err := p.changeEvents(docs, meta, ros, override)
	if err != nil {
		return nil, err
	}

	items, err := reconcile.Merge(reportEvs, machineEvs, changes, meta)
	if err != nil {
		return nil, fmt.Errorf("reconcile game %s: %w", gameID, err)
	}
	events, err := enrich.Run(items, meta, ros)
	if err != nil {
		return nil, fmt.Errorf("enrich game %s: %w", gameID, err)
	}
	p.registry.Score(events)

	stats, err := aggregator.Aggregate(meta, events, ros)
	if err != nil {
		return nil, fmt.Errorf("aggregate game %s: %w", gameID, err)
	}

	p.log.Info().Str("game", gameID).Int("events", len(events)).Msg("processed game")
	return &GameResult{Meta: meta, Events: events, Stats: stats}, nil
}

// ProcessGames iterates game ids sequentially with a skip-and-continue
// policy: one game's failure is reported, not propagated.
func (p *Pipeline) ProcessGames(ctx context.Context, gameIDs []string) ([]*GameResult, []error) {
	var results []*GameResult
	var errs []error
	for _, id := range gameIDs {
		res, err := p.ProcessGame(ctx, id)
		if err != nil {
			p.log.Warn().Str("game", id).Err(err).Msg("skipping game")
			errs = append(errs, fmt.Errorf("game %s: %w", id, err))
			continue
		}
		results = append(results, res)
	}
	return results, errs
}

func (p *Pipeline) buildRoster(docs *nhl.GameDocs, meta model.GameMeta, feed *normalize.MachineFeed, override patch.Override) (*model.Roster, error) {
	rows, err := htmlreport.Rows(bytes.NewReader(docs.RosterHTML))
	if err != nil {
		return nil, err
	}
	players, err := normalize.RosterReport(splitRoster(rows, meta))
	if err != nil {
		return nil, err
	}
	applyJerseyFixes(players, override.JerseyFixes)
	return roster.Build(meta, feed.APIPlayers(), players)
}

func (p *Pipeline) reportEvents(docs *nhl.GameDocs, ros *model.Roster, override patch.Override) ([]model.RawEvent, error) {
	rows, err := htmlreport.Rows(bytes.NewReader(docs.EventsHTML))
	if err != nil {
		return nil, err
	}
	rows = dropRows(rows, override.DropReportRows)
	return normalize.Report(rows, ros)
}

func (p *Pipeline) changeEvents(docs *nhl.GameDocs, meta model.GameMeta, ros *model.Roster, override patch.Override) ([]model.ChangeEvent, error) {
	var intervals []model.ShiftInterval
	charts := []struct {
		data  []byte
		team  string
		venue model.Venue
	}{
		{docs.HomeShifts, meta.HomeTeam, model.VenueHome},
		{docs.AwayShifts, meta.AwayTeam, model.VenueAway},
	}
	for _, chart := range charts {
		rows, err := htmlreport.Rows(bytes.NewReader(chart.data))
		if err != nil {
			return nil, err
		}
		sections := splitShifts(rows, chart.team, chart.venue)
		fixShiftHeaders(sections, chart.team, override.JerseyFixes)
		ivs, err := normalize.Shifts(sections, ros)
		if err != nil {
			return nil, err
		}
		intervals = append(intervals, ivs...)
	}
	return shifts.Changes(intervals, meta, ros), nil
}

// applyJerseyFixes rewrites misprinted jersey numbers on the report roster so
// the team+jersey join against the machine feed holds.
func applyJerseyFixes(players []roster.ReportPlayer, fixes []patch.JerseyFix) {
	for i := range players {
		for _, f := range fixes {
			if players[i].Team == f.Team && players[i].Jersey == f.From {
				players[i].Jersey = f.To
			}
		}
	}
}

// fixShiftHeaders applies the same jersey fixes to shift-chart player labels.
func fixShiftHeaders(sections []normalize.ShiftSection, team string, fixes []patch.JerseyFix) {
	for i := range sections {
		for _, f := range fixes {
			if f.Team != team {
				continue
			}
			prefix := strconv.Itoa(f.From) + " "
			if strings.HasPrefix(sections[i].Player, prefix) {
				sections[i].Player = strconv.Itoa(f.To) + " " + strings.TrimPrefix(sections[i].Player, prefix)
			}
		}
	}
}

// dropRows discards report rows whose event number is patched out.
func dropRows(rows [][]string, drop []int) [][]string {
	if len(drop) == 0 {
		return rows
	}
	dropSet := make(map[int]bool, len(drop))
	for _, n := range drop {
		dropSet[n] = true
	}
	out := rows[:0:0]
	for _, row := range rows {
		if len(row) > 0 {
			if n, err := strconv.Atoi(strings.TrimSpace(row[0])); err == nil && dropSet[n] {
				continue
			}
		}
		out = append(out, row)
	}
	return out
}
