package report

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/pable/go-nhl-metrics/internal/model"
	"github.com/pable/go-nhl-metrics/internal/storage"
)

// PrintGameHeader prints a one-line summary header for the game.
func PrintGameHeader(w io.Writer, s model.GameSummary) {
	fmt.Fprintf(w, "\nGame: %s  |  Date: %s  |  Season: %s (%s)  |  %s %d – %d %s  |  Events: %d\n\n",
		s.GameID, s.Date, s.Season, s.Session,
		s.AwayTeam, s.AwayScore, s.HomeScore, s.HomeTeam, s.Events)
}

// PrintPlayerTable prints the player stats table to stdout.
// If focusPlayerID is non-empty, that player's row is marked with ">".
func PrintPlayerTable(stats []model.PlayerGameStats, focusPlayerID string) {
	PrintPlayerTableTo(os.Stdout, stats, focusPlayerID)
}

// PrintPlayerTableTo writes the player stats table to the provided writer.
func PrintPlayerTableTo(w io.Writer, stats []model.PlayerGameStats, focusPlayerID string) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))

	table.Header(
		" ", "PLAYER", "TEAM", "POS", "G", "A1", "A2", "P", "SOG", "iCF", "iFF", "ixG",
		"CF", "CA", "CF%", "xGF", "xGA", "FO%", "HITS", "BLK", "GIVE", "TAKE", "PIM",
	)

	for i := range stats {
		s := &stats[i]
		marker := " "
		if focusPlayerID != "" && s.PlayerID == focusPlayerID {
			marker = ">"
		}
		foStr := "—"
		if s.FaceoffWins+s.FaceoffLosses > 0 {
			foStr = fmt.Sprintf("%.0f%%", s.FaceoffPct())
		}
		table.Append(
			marker,
			s.Name,
			s.Team,
			s.Position,
			strconv.Itoa(s.Goals),
			strconv.Itoa(s.PrimaryAssists),
			strconv.Itoa(s.SecondaryAssists),
			strconv.Itoa(s.Points()),
			strconv.Itoa(s.Shots),
			strconv.Itoa(s.ICF),
			strconv.Itoa(s.IFF),
			fmt.Sprintf("%.2f", s.IxG),
			strconv.Itoa(s.CF),
			strconv.Itoa(s.CA),
			fmt.Sprintf("%.0f%%", s.CFPct()),
			fmt.Sprintf("%.2f", s.XGF),
			fmt.Sprintf("%.2f", s.XGA),
			foStr,
			strconv.Itoa(s.HitsGiven),
			strconv.Itoa(s.Blocks),
			strconv.Itoa(s.Giveaways),
			strconv.Itoa(s.Takeaways),
			strconv.Itoa(s.PIM),
		)
	}
	table.Render()
}

// PrintEventTable prints the reconciled timeline. Change events are skipped
// unless withChanges is set; the table gets long either way.
func PrintEventTable(w io.Writer, events []model.CanonicalEvent, withChanges bool) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
	table.Header("PER", "TIME", "TYPE", "TEAM", "STRENGTH", "SCORE", "P1", "P2", "xG", "DIST", "DANGER")

	for i := range events {
		ev := &events[i]
		if ev.Type == model.Change && !withChanges {
			continue
		}
		xgStr := "—"
		if ev.PredGoal > 0 {
			xgStr = fmt.Sprintf("%.3f", ev.PredGoal)
		}
		distStr := "—"
		if ev.HasCoords && ev.Type.IsShotAttempt() {
			distStr = fmt.Sprintf("%.0f", ev.DistFt)
		}
		danger := ""
		switch {
		case ev.HighDanger:
			danger = "HIGH"
		case ev.Danger:
			danger = "MED"
		}
		table.Append(
			strconv.Itoa(ev.Period),
			clockString(ev.Seconds),
			string(ev.Type),
			ev.Team,
			ev.StrengthState,
			fmt.Sprintf("%d-%d", ev.AwayScore, ev.HomeScore),
			ev.Player(0),
			ev.Player(1),
			xgStr,
			distStr,
			danger,
		)
	}
	table.Render()
}

// PrintAggregateTable prints per-player stats summed across every stored game.
func PrintAggregateTable(w io.Writer, aggs []model.PlayerAggregate) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("PLAYER", "TEAM", "GP", "G", "A", "P", "SOG", "ixG", "CF%", "xGF", "xGA", "BLK", "PIM")

	for i := range aggs {
		a := &aggs[i]
		table.Append(
			a.Name,
			a.Team,
			strconv.Itoa(a.Games),
			strconv.Itoa(a.Goals),
			strconv.Itoa(a.PrimaryAssists+a.SecondaryAssists),
			strconv.Itoa(a.Points()),
			strconv.Itoa(a.Shots),
			fmt.Sprintf("%.2f", a.IxG),
			fmt.Sprintf("%.0f%%", a.CFPct()),
			fmt.Sprintf("%.2f", a.XGF),
			fmt.Sprintf("%.2f", a.XGA),
			strconv.Itoa(a.Blocks),
			strconv.Itoa(a.PIM),
		)
	}
	table.Render()
}

// PrintGameList prints stored game summaries, newest first.
func PrintGameList(w io.Writer, games []model.GameSummary) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("GAME", "DATE", "SESSION", "AWAY", "HOME", "SCORE", "EVENTS")

	for _, g := range games {
		table.Append(
			g.GameID,
			g.Date,
			g.Session,
			g.AwayTeam,
			g.HomeTeam,
			fmt.Sprintf("%d-%d", g.AwayScore, g.HomeScore),
			strconv.Itoa(g.Events),
		)
	}
	table.Render()
}

// PrintTeamRecords prints each team's record across stored games.
func PrintTeamRecords(w io.Writer, records []storage.TeamRecord) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("TEAM", "GP", "W", "L", "GF", "GA", "DIFF")

	for _, r := range records {
		table.Append(
			r.Team,
			strconv.Itoa(r.Games),
			strconv.Itoa(r.Wins),
			strconv.Itoa(r.Losses),
			strconv.Itoa(r.GoalsFor),
			strconv.Itoa(r.GoalsAgainst),
			fmt.Sprintf("%+d", r.GoalsFor-r.GoalsAgainst),
		)
	}
	table.Render()
}

// clockString renders elapsed seconds in a period as M:SS.
func clockString(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
