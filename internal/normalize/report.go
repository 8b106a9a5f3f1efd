package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pable/go-nhl-metrics/internal/model"
)

// Extraction regexes for the report's free-text descriptions.
var (
	clockRe    = regexp.MustCompile(`^(\d{1,2}):(\d{2})`)
	teamPairRe = regexp.MustCompile(`([A-Z]{3}|[A-Z]\.[A-Z])\s*#(\d+)`)
	prefixRe   = regexp.MustCompile(`^([A-Z]{3}|[A-Z]\.[A-Z])[\s,]`)
	jerseyRe   = regexp.MustCompile(`#(\d+)`)
	zoneRe     = regexp.MustCompile(`(Off|Neu|Def)\. Zone`)
	distRe     = regexp.MustCompile(`(\d+) ft\.`)
	minutesRe  = regexp.MustCompile(`\((\d+) min\)`)
	servedRe   = regexp.MustCompile(`(?i)Served By:\s*#(\d+)`)
	drawnRe    = regexp.MustCompile(`(?i)Drawn By:\s*([A-Z]{3}|[A-Z]\.[A-Z])\s*#(\d+)`)
	assistsRe  = regexp.MustCompile(`(?i)Assists?:\s*(.*)$`)
)

// shotTypes is the closed shot-type vocabulary as printed on the reports.
var shotTypes = []string{
	"Wrist", "Slap", "Snap", "Backhand", "Tip-In", "Deflected",
	"Wrap-around", "Bat", "Poke", "Between Legs", "Cradle",
}

// dottedTeams maps the report's dotted team codes onto the machine feed's.
var dottedTeams = map[string]string{
	"N.J": "NJD", "S.J": "SJS", "L.A": "LAK", "T.B": "TBL",
}

func normTeam(code string) string {
	if full, ok := dottedTeams[code]; ok {
		return full
	}
	return code
}

// nonTeamTypes match on period+time+version alone during reconciliation and
// carry no event team.
var nonTeamTypes = map[model.EventType]bool{
	model.PerStart: true, model.PerEnd: true, model.GameEnd: true,
	model.Stoppage: true, model.ShootComp: true,
}

// NonTeamType reports whether t is matched without a team key.
func NonTeamType(t model.EventType) bool { return nonTeamTypes[t] }

var reportTokens = map[string]model.EventType{
	"GOAL": model.Goal, "SHOT": model.Shot, "MISS": model.Miss,
	"BLOCK": model.Block, "HIT": model.Hit, "FAC": model.Faceoff,
	"GIVE": model.Giveaway, "TAKE": model.Takeaway, "PENL": model.Penalty,
	"STOP": model.Stoppage, "DELPEN": model.DelPen, "PSTR": model.PerStart,
	"PEND": model.PerEnd, "GEND": model.GameEnd, "SOC": model.ShootComp,
}

// Report flattens the events-report rows into RawEvents. Each row is the cell
// sequence [eventNo, period, strength, time, token, description]; rows whose
// first cell is not an integer are header noise and are skipped.
func Report(rows [][]string, ros *model.Roster) ([]model.RawEvent, error) {
	var events []model.RawEvent
	for _, row := range rows {
		if len(row) < 6 {
			continue
		}
		if _, err := strconv.Atoi(strings.TrimSpace(row[0])); err != nil {
			continue
		}
		tok, ok := reportTokens[strings.TrimSpace(row[4])]
		if !ok {
			continue // ANTHEM, PGSTR, EISTR and friends
		}
		period, err := strconv.Atoi(strings.TrimSpace(row[1]))
		if err != nil {
			return nil, fmt.Errorf("report row %s: bad period %q", row[0], row[1])
		}
		m := clockRe.FindStringSubmatch(strings.TrimSpace(row[3]))
		if m == nil {
			return nil, fmt.Errorf("report row %s: bad time %q", row[0], row[3])
		}
		mins, _ := strconv.Atoi(m[1])
		secs, _ := strconv.Atoi(m[2])

		ev := model.RawEvent{
			SourceIdx:   len(events),
			Type:        tok,
			Period:      period,
			Seconds:     mins*60 + secs,
			Description: strings.TrimSpace(row[5]),
		}
		if err := fillReportEvent(&ev, ros); err != nil {
			return nil, fmt.Errorf("report row %s (%s): %w", row[0], tok, err)
		}
		events = append(events, ev)
	}
	assignVersions(events, func(e *model.RawEvent) string {
		return e.Primary().PlayerID
	})
	return events, nil
}

// fillReportEvent runs the per-type extractor over the description, resolving
// jersey tokens against the roster.
func fillReportEvent(ev *model.RawEvent, ros *model.Roster) error {
	desc := ev.Description
	if !NonTeamType(ev.Type) {
		if m := prefixRe.FindStringSubmatch(desc); m != nil {
			ev.Team = normTeam(m[1])
		}
	}
	zone := ""
	if m := zoneRe.FindStringSubmatch(desc); m != nil {
		zone = m[1]
	}

	switch ev.Type {
	case model.Faceoff:
		pairs := resolvePairs(desc, ros)
		ev.Players = rolePair(pairs, "winner", "loser")
		swapIfMismatched(ev)
		ev.Detail = model.FaceoffDetail{Zone: zone}

	case model.Block:
		// The line prefix names the shooting side but the event belongs to
		// the blockers, so the extracted team is swapped against player
		// order: slot one becomes the blocker.
		pairs := resolvePairs(desc, ros)
		var shooter, blocker model.RolePlayer
		if len(pairs) > 0 {
			shooter = pairs[0]
			shooter.Role = "shooter"
		}
		if len(pairs) > 1 {
			blocker = pairs[1]
			blocker.Role = "blocker"
			ev.Team = normTeam(teamOfPair(desc, 1))
		} else {
			// No blocker named ("BLOCKED BY TEAMMATE"): the shot died on the
			// shooter's own side, so the event stays with the prefix team and
			// a teammate pseudo-blocker fills the slot.
			blocker = model.RolePlayer{Role: "blocker", PlayerID: model.PseudoTeammate}
		}
		ev.Players = []model.RolePlayer{blocker, shooter}
		ev.Detail = model.BlockDetail{Zone: zone}

	case model.Hit:
		pairs := resolvePairs(desc, ros)
		ev.Players = rolePair(pairs, "hitter", "hittee")
		ev.Detail = model.GenericDetail{Zone: zone}

	case model.Goal:
		det := model.ShotDetail{ShotType: matchShotType(desc), DistanceFt: parseDistance(desc), Zone: zone}
		ev.Detail = det
		head := desc
		var assists string
		if m := assistsRe.FindStringSubmatchIndex(desc); m != nil {
			head = desc[:m[0]]
			assists = desc[m[2]:m[3]]
		}
		if rp, ok := resolveJersey(head, ev.Team, "scorer", ros); ok {
			ev.Players = append(ev.Players, rp)
		}
		for i, jm := range jerseyRe.FindAllStringSubmatch(assists, 2) {
			role := "assist1"
			if i == 1 {
				role = "assist2"
			}
			if rp, ok := resolveJerseyNum(jm[1], ev.Team, role, ros); ok {
				ev.Players = append(ev.Players, rp)
			}
		}

	case model.Shot, model.Miss:
		ev.Detail = model.ShotDetail{
			ShotType:   matchShotType(desc),
			DistanceFt: parseDistance(desc),
			Zone:       zone,
			MissReason: missReason(desc),
		}
		if rp, ok := resolveJersey(desc, ev.Team, "shooter", ros); ok {
			ev.Players = append(ev.Players, rp)
		}

	case model.Giveaway, model.Takeaway:
		ev.Detail = model.GenericDetail{Zone: zone}
		if rp, ok := resolveJersey(desc, ev.Team, "player", ros); ok {
			ev.Players = append(ev.Players, rp)
		}

	case model.Penalty, model.DelPen:
		det := model.PenaltyDetail{Reason: NormalizePenaltyReason(desc), Zone: zone}
		if m := minutesRe.FindStringSubmatch(desc); m != nil {
			det.Minutes, _ = strconv.Atoi(m[1])
		}
		upper := strings.ToUpper(desc)
		switch {
		// A team penalty names no individual offender: slot one becomes the
		// BENCH pseudo-player, slot two the serving player.
		case strings.Contains(upper, "TEAM") && servedRe.MatchString(desc):
			det.BenchFlag = true
			ev.Players = append(ev.Players, model.RolePlayer{Role: "committed_by", PlayerID: model.PseudoBench})
		default:
			if rp, ok := resolveJersey(desc, ev.Team, "committed_by", ros); ok {
				ev.Players = append(ev.Players, rp)
			}
		}
		if m := servedRe.FindStringSubmatch(desc); m != nil {
			if rp, ok := resolveJerseyNum(m[1], ev.Team, "served_by", ros); ok {
				ev.Players = append(ev.Players, rp)
			}
		}
		if m := drawnRe.FindStringSubmatch(desc); m != nil {
			if rp, ok := resolveJerseyNum(m[2], normTeam(m[1]), "drawn_by", ros); ok {
				ev.Players = append(ev.Players, rp)
			}
		}
		ev.Detail = det

	case model.Stoppage:
		ev.Detail = model.GenericDetail{Reason: desc}

	default:
		ev.Detail = model.GenericDetail{}
	}
	return nil
}

// resolvePairs extracts every "TEAM #N" token and resolves each against the
// roster, in text order.
func resolvePairs(desc string, ros *model.Roster) []model.RolePlayer {
	var out []model.RolePlayer
	for _, m := range teamPairRe.FindAllStringSubmatch(desc, 3) {
		team := normTeam(m[1])
		jersey, _ := strconv.Atoi(m[2])
		rp := model.RolePlayer{Jersey: jersey}
		if e, ok := ros.Lookup(team, jersey); ok {
			rp.PlayerID = e.PlayerID
			rp.APIID = e.APIID
			rp.Position = e.Position
		} else {
			rp.PlayerID = model.PseudoBench
		}
		out = append(out, rp)
	}
	return out
}

// teamOfPair returns the raw team code of the i-th "TEAM #N" token.
func teamOfPair(desc string, i int) string {
	ms := teamPairRe.FindAllStringSubmatch(desc, 3)
	if i >= len(ms) {
		return ""
	}
	return ms[i][1]
}

func rolePair(pairs []model.RolePlayer, first, second string) []model.RolePlayer {
	if len(pairs) > 0 {
		pairs[0].Role = first
	}
	if len(pairs) > 1 {
		pairs[1].Role = second
		pairs = pairs[:2]
	}
	return pairs
}

// swapIfMismatched fixes rows where the event team and player order disagree:
// slot one must belong to the event team.
func swapIfMismatched(ev *model.RawEvent) {
	if len(ev.Players) < 2 || ev.Team == "" {
		return
	}
	first := ev.Players[0]
	if first.PlayerID == model.PseudoBench || first.PlayerID == model.PseudoTeammate {
		return
	}
	// Player team is recoverable from the pair ordering in the description:
	// the resolved entry's team was fixed at roster build.
	if !playerOnTeam(ev, first) {
		r0, r1 := ev.Players[0].Role, ev.Players[1].Role
		ev.Players[0], ev.Players[1] = ev.Players[1], ev.Players[0]
		ev.Players[0].Role, ev.Players[1].Role = r0, r1
	}
}

func playerOnTeam(ev *model.RawEvent, rp model.RolePlayer) bool {
	// Pair extraction preserved jersey+id only; compare via the description's
	// team token order.
	ms := teamPairRe.FindAllStringSubmatch(ev.Description, 3)
	for _, m := range ms {
		j, _ := strconv.Atoi(m[2])
		if j == rp.Jersey {
			return normTeam(m[1]) == ev.Team
		}
	}
	return true
}

// resolveJersey resolves the first "#N" token in desc against team's roster.
func resolveJersey(desc, team, role string, ros *model.Roster) (model.RolePlayer, bool) {
	m := jerseyRe.FindStringSubmatch(desc)
	if m == nil {
		return model.RolePlayer{}, false
	}
	return resolveJerseyNum(m[1], team, role, ros)
}

func resolveJerseyNum(num, team, role string, ros *model.Roster) (model.RolePlayer, bool) {
	jersey, _ := strconv.Atoi(num)
	rp := model.RolePlayer{Role: role, Jersey: jersey}
	if e, ok := ros.Lookup(team, jersey); ok {
		rp.PlayerID = e.PlayerID
		rp.APIID = e.APIID
		rp.Position = e.Position
		return rp, true
	}
	rp.PlayerID = model.PseudoBench
	return rp, true
}

func matchShotType(desc string) string {
	for _, st := range shotTypes {
		if strings.Contains(desc, st) {
			return st
		}
	}
	return ""
}

func parseDistance(desc string) int {
	if m := distRe.FindStringSubmatch(desc); m != nil {
		d, _ := strconv.Atoi(m[1])
		return d
	}
	return -1
}

var missReasons = []string{"Wide of Net", "Over Net", "Hit Crossbar", "Goalpost", "Short"}

func missReason(desc string) string {
	for _, r := range missReasons {
		if strings.Contains(desc, r) {
			return r
		}
	}
	return ""
}
