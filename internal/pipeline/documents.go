package pipeline

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pable/go-nhl-metrics/internal/model"
	"github.com/pable/go-nhl-metrics/internal/normalize"
)

// The roster report prints both teams side by side: a flattened player row is
// [awayJersey, awayPos, awayName, homeJersey, homePos, homeName]. A marker
// row containing "Scratches" switches the remaining rows to the scratch
// lists.
func splitRoster(rows [][]string, meta model.GameMeta) []normalize.RosterSection {
	sections := []normalize.RosterSection{
		{Team: meta.AwayTeam, Venue: model.VenueAway},
		{Team: meta.HomeTeam, Venue: model.VenueHome},
		{Team: meta.AwayTeam, Venue: model.VenueAway, Scratch: true},
		{Team: meta.HomeTeam, Venue: model.VenueHome, Scratch: true},
	}
	scratch := false
	for _, row := range rows {
		if containsMarker(row, "Scratches") {
			scratch = true
			continue
		}
		if len(row) < 6 {
			continue
		}
		away, home := row[0:3], row[3:6]
		ai, hi := 0, 1
		if scratch {
			ai, hi = 2, 3
		}
		if isJersey(away[0]) {
			sections[ai].Rows = append(sections[ai].Rows, away)
		}
		if isJersey(home[0]) {
			sections[hi].Rows = append(sections[hi].Rows, home)
		}
	}
	return sections
}

var shiftHeaderRe = regexp.MustCompile(`^\d+\s+\S`)

// A shift chart interleaves one-cell player headers ("26 RIELLY, MORGAN")
// with that player's shift rows.
func splitShifts(rows [][]string, team string, venue model.Venue) []normalize.ShiftSection {
	var sections []normalize.ShiftSection
	for _, row := range rows {
		if len(row) == 1 && shiftHeaderRe.MatchString(strings.TrimSpace(row[0])) {
			sections = append(sections, normalize.ShiftSection{
				Team: team, Venue: venue, Player: strings.TrimSpace(row[0]),
			})
			continue
		}
		if len(sections) == 0 || len(row) < 4 || !isJersey(row[0]) {
			continue
		}
		cur := &sections[len(sections)-1]
		cur.Rows = append(cur.Rows, row)
	}
	return sections
}

func containsMarker(row []string, marker string) bool {
	for _, cell := range row {
		if strings.Contains(cell, marker) {
			return true
		}
	}
	return false
}

func isJersey(cell string) bool {
	_, err := strconv.Atoi(strings.TrimSpace(cell))
	return err == nil
}
