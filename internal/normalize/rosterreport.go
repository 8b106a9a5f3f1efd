package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pable/go-nhl-metrics/internal/model"
	"github.com/pable/go-nhl-metrics/internal/roster"
)

// RosterSection is one block of player rows cut from the roster report: one
// team's active list or scratch list. Each row is [jersey, position, name];
// a leading "*" on the name marks a starter (the report prints starters in
// bold, which the cell extractor renders as the marker).
type RosterSection struct {
	Team    string
	Venue   model.Venue
	Scratch bool
	Rows    [][]string
}

// RosterReport flattens roster-report sections into report players.
func RosterReport(sections []RosterSection) ([]roster.ReportPlayer, error) {
	var out []roster.ReportPlayer
	for _, sec := range sections {
		for _, row := range sec.Rows {
			if len(row) < 3 {
				continue
			}
			jersey, err := strconv.Atoi(strings.TrimSpace(row[0]))
			if err != nil {
				continue // column header row
			}
			name := strings.TrimSpace(row[2])
			starter := strings.HasPrefix(name, "*")
			name = strings.TrimSpace(strings.TrimPrefix(name, "*"))
			// Captain/alternate markers are not part of the name.
			name = strings.TrimSuffix(name, " (A)")
			name = strings.TrimSuffix(name, " (C)")
			if name == "" {
				return nil, fmt.Errorf("roster report %s #%d: empty name", sec.Team, jersey)
			}
			out = append(out, roster.ReportPlayer{
				Team:     sec.Team,
				Jersey:   jersey,
				Name:     name,
				Position: strings.TrimSpace(row[1]),
				Scratch:  sec.Scratch,
				Starter:  starter,
				Venue:    sec.Venue,
			})
		}
	}
	return out, nil
}
