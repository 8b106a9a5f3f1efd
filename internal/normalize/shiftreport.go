package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pable/go-nhl-metrics/internal/model"
)

// ShiftSection is one player's block from a shift chart: the header label as
// printed ("26 RIELLY, MORGAN") plus shift rows
// [shiftNo, period, start, end, duration]. Start/end cells read
// "elapsed / remaining"; only the elapsed half is used.
type ShiftSection struct {
	Team   string
	Venue  model.Venue
	Player string
	Rows   [][]string
}

var shiftHeaderRe = regexp.MustCompile(`^(\d+)\s+(.+)$`)

// Shifts flattens shift-chart sections into per-player intervals. End times
// that are missing or precede their start are marked for repair (-1); the
// change deriver fixes them using period-length conventions.
func Shifts(sections []ShiftSection, ros *model.Roster) ([]model.ShiftInterval, error) {
	var out []model.ShiftInterval
	for _, sec := range sections {
		m := shiftHeaderRe.FindStringSubmatch(strings.TrimSpace(sec.Player))
		if m == nil {
			return nil, fmt.Errorf("shift chart %s: bad player label %q", sec.Team, sec.Player)
		}
		jersey, _ := strconv.Atoi(m[1])
		entry, ok := ros.Lookup(sec.Team, jersey)
		if !ok {
			return nil, fmt.Errorf("shift chart %s: #%d %s not on roster", sec.Team, jersey, m[2])
		}
		for _, row := range sec.Rows {
			if len(row) < 4 {
				continue
			}
			if _, err := strconv.Atoi(strings.TrimSpace(row[0])); err != nil {
				continue // header row
			}
			period, err := parseShiftPeriod(row[1])
			if err != nil {
				return nil, fmt.Errorf("shift chart %s #%d: %w", sec.Team, jersey, err)
			}
			start, err := parseElapsed(row[2])
			if err != nil {
				return nil, fmt.Errorf("shift chart %s #%d: %w", sec.Team, jersey, err)
			}
			end, err := parseElapsed(row[3])
			if err != nil {
				end = -1 // blank or malformed end, repaired downstream
			}
			out = append(out, model.ShiftInterval{
				PlayerID: entry.PlayerID,
				Team:     sec.Team,
				Venue:    sec.Venue,
				Period:   period,
				Start:    start,
				End:      end,
				Position: entry.Position,
				Jersey:   jersey,
			})
		}
	}
	return out, nil
}

// parseShiftPeriod handles the chart's "OT" label for period 4.
func parseShiftPeriod(cell string) (int, error) {
	s := strings.TrimSpace(cell)
	if s == "OT" {
		return 4, nil
	}
	p, err := strconv.Atoi(s)
	if err != nil || p < 1 {
		return 0, fmt.Errorf("bad period %q", cell)
	}
	return p, nil
}

// parseElapsed reads the elapsed half of an "elapsed / remaining" cell.
func parseElapsed(cell string) (int, error) {
	s := strings.TrimSpace(cell)
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("bad shift time %q", cell)
	}
	mins, _ := strconv.Atoi(m[1])
	secs, _ := strconv.Atoi(m[2])
	return mins*60 + secs, nil
}
