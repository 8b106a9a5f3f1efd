// Package roster merges the machine-feed and report-feed player lists into
// one game roster keyed by team+jersey, assigning each player a stable
// cross-source id.
package roster

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pable/go-nhl-metrics/internal/model"
)

// ErrIntegrity is returned when an active report player has no machine-feed
// counterpart at the same team+jersey.
var ErrIntegrity = errors.New("roster integrity")

// APIPlayer is one machine-feed roster spot.
type APIPlayer struct {
	Team      string
	Jersey    int
	APIID     int64
	FirstName string
	LastName  string
	Position  string
}

// ReportPlayer is one report-feed roster row (active or scratch).
type ReportPlayer struct {
	Team     string
	Jersey   int
	Name     string // "LAST, FIRST" as printed on the report
	Position string
	Scratch  bool
	Starter  bool
	Venue    model.Venue
}

// nicknames maps report first-name spellings onto the machine feed's.
var nicknames = map[string]string{
	"ALEXANDER":   "ALEX",
	"ALEXANDRE":   "ALEX",
	"CHRISTOPHER": "CHRIS",
	"CRISTOVAL":   "BOO",
	"EVGENII":     "EVGENI",
	"JACOB":       "JAKE",
	"JONATHON":    "JONATHAN",
	"JOSHUA":      "JOSH",
	"MATTHEW":     "MATT",
	"MAXIM":       "MAX",
	"MAXIME":      "MAX",
	"MICHAEL":     "MIKE",
	"MITCHELL":    "MITCH",
	"NICHOLAS":    "NICK",
	"NICOLAS":     "NICK",
	"SAMUEL":      "SAM",
	"WILLIAM":     "WILL",
	"ZACHARY":     "ZACH",
}

// disambiguation handles distinct real players whose names collapse to the
// same id. The predicate decides, per game, whether the suffixed variant
// applies; season is "YYYYYYYY", position is the roster position code.
var disambiguation = map[string]func(season, position string) bool{
	"SEBASTIAN.AHO":   func(_, pos string) bool { return pos == "D" },
	"ERIK.GUSTAFSSON": func(season, _ string) bool { return season >= "20152016" },
	"COLIN.WHITE":     func(season, _ string) bool { return season >= "20162017" },
	"SEAN.COLLINS":    func(_, pos string) bool { return pos == "D" },
	"ALEX.PICARD":     func(_, pos string) bool { return pos != "D" },
	"MIKKO.LEHTONEN":  func(season, _ string) bool { return season >= "20202021" },
	"NATHAN.SMITH":    func(season, _ string) bool { return season >= "20212022" },
	"DANIIL.TARASOV":  func(_, pos string) bool { return pos == "G" },
}

// PlayerID derives the cross-source id from a report "LAST, FIRST" name.
// Nickname contractions and the disambiguation table are applied so the id
// matches what the machine feed's names produce.
func PlayerID(reportName, season, position string) string {
	last, first := splitReportName(reportName)
	first = strings.ToUpper(strings.TrimSpace(first))
	last = strings.ToUpper(strings.TrimSpace(last))
	if nick, ok := nicknames[first]; ok {
		first = nick
	}
	id := first + "." + last
	id = strings.ReplaceAll(id, " ", ".")
	if pred, ok := disambiguation[id]; ok && pred(season, position) {
		id += "2"
	}
	return id
}

// splitReportName splits "LAST, FIRST" into its halves; a name with no comma
// is treated as all last name.
func splitReportName(name string) (last, first string) {
	if i := strings.Index(name, ","); i >= 0 {
		return name[:i], name[i+1:]
	}
	return name, ""
}

// Build joins the machine roster onto the report roster by team+jersey and
// returns the merged game roster. Scratches carry no machine-side id; an
// active report player missing from the machine feed is a data error.
func Build(meta model.GameMeta, api []APIPlayer, report []ReportPlayer) (*model.Roster, error) {
	type key struct {
		team   string
		jersey int
	}
	apiByKey := make(map[key]APIPlayer, len(api))
	for _, p := range api {
		apiByKey[key{p.Team, p.Jersey}] = p
	}

	entries := make([]model.RosterEntry, 0, len(report))
	seen := make(map[key]bool, len(report))
	for _, rp := range report {
		k := key{rp.Team, rp.Jersey}
		seen[k] = true
		e := model.RosterEntry{
			Team:     rp.Team,
			Jersey:   rp.Jersey,
			PlayerID: PlayerID(rp.Name, meta.Season, rp.Position),
			Name:     rp.Name,
			Position: rp.Position,
			Scratch:  rp.Scratch,
			Starter:  rp.Starter,
			Venue:    meta.VenueOf(rp.Team),
		}
		ap, ok := apiByKey[k]
		if ok {
			e.APIID = ap.APIID
			if e.Position == "" {
				e.Position = ap.Position
			}
		} else if !rp.Scratch {
			return nil, fmt.Errorf("%w: active %s #%d (%s) missing from machine feed",
				ErrIntegrity, rp.Team, rp.Jersey, rp.Name)
		}
		entries = append(entries, e)
	}

	// Machine-only players (no report row at that team+jersey) still get an
	// entry so machine events can resolve; id derives from the feed's names.
	for _, p := range api {
		k := key{p.Team, p.Jersey}
		if seen[k] {
			continue
		}
		name := strings.ToUpper(p.LastName) + ", " + strings.ToUpper(p.FirstName)
		entries = append(entries, model.RosterEntry{
			Team:     p.Team,
			Jersey:   p.Jersey,
			PlayerID: PlayerID(name, meta.Season, p.Position),
			APIID:    p.APIID,
			Name:     name,
			Position: p.Position,
			Venue:    meta.VenueOf(p.Team),
		})
	}

	return model.NewRoster(entries), nil
}
