// Package enrich runs the single forward pass over the reconciled timeline,
// threading a GameState through a pure step function to derive score,
// strength, on-ice personnel, zone context and shot geometry per event.
package enrich

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/pable/go-nhl-metrics/internal/model"
	"github.com/pable/go-nhl-metrics/internal/reconcile"
)

// ErrSchema means a constructed canonical event failed validation; the record
// cannot be repaired downstream, so the error is fatal for the game.
var ErrSchema = errors.New("canonical event schema")

// zoneLookahead bounds the search for the faceoff that anchors a change's
// zone start.
const zoneLookahead = 8

// Run enriches the ordered timeline into canonical events.
func Run(items []reconcile.Item, meta model.GameMeta, ros *model.Roster) ([]model.CanonicalEvent, error) {
	state := model.NewGameState()
	out := make([]model.CanonicalEvent, 0, len(items))
	var prev *model.CanonicalEvent
	for i, it := range items {
		next, ev := Step(state, prev, it, meta, ros)
		if it.Change != nil {
			ev.ZoneStart = zoneStart(items, i)
		}
		if err := validate(&ev); err != nil {
			return nil, err
		}
		out = append(out, ev)
		prev = &out[len(out)-1]
		state = next
	}
	return out, nil
}

// Step is the pure transition function: it consumes the state before the
// event and returns the state after it plus the enriched record. The score a
// goal produces lands on the *following* event's state.
func Step(state model.GameState, prev *model.CanonicalEvent, it reconcile.Item, meta model.GameMeta, ros *model.Roster) (model.GameState, model.CanonicalEvent) {
	next := state.Clone()

	// 1. Credit the previous goal. Shootout attempts are not running-score
	// goals; only the last goal of the period before the shootout counts,
	// and it is credited here when the first shootout-period event arrives.
	if prev != nil && prev.Type == model.Goal && !isShootout(prev.Period, meta.Session) {
		if prev.Venue == model.VenueHome {
			next.HomeScore++
		} else if prev.Venue == model.VenueAway {
			next.AwayScore++
		}
	}

	ev := model.CanonicalEvent{
		GameID:  meta.GameID,
		Season:  meta.Season,
		Session: meta.Session,
		Key:     it.Key,
		Type:    it.Type(),
	}

	// 2. Personnel.
	if c := it.Change; c != nil {
		onIce := next.HomeOnIce
		if c.Venue == model.VenueAway {
			onIce = next.AwayOnIce
		}
		for _, id := range c.Off() {
			delete(onIce, id)
		}
		for _, id := range c.On() {
			if e, ok := ros.ByPlayerID(c.Team, id); ok {
				onIce[id] = e
			}
		}
		ev.Period = c.Period
		ev.Seconds = c.Seconds
		ev.Team = c.Team
		ev.OppTeam = meta.Opponent(c.Team)
		ev.Venue = c.Venue
		ev.ChangeOn = c.On()
		ev.ChangeOff = c.Off()
	} else {
		e := it.Event
		ev.Period = e.Period
		ev.Seconds = e.Seconds
		ev.Team = e.Team
		if e.Team != "" {
			ev.OppTeam = meta.Opponent(e.Team)
			ev.Venue = meta.VenueOf(e.Team)
		}
		ev.Players = e.Players
		ev.Description = e.Description
		ev.Detail = e.Detail
		ev.Version = e.Version
	}
	ev.GameSec = gameSeconds(ev.Period, ev.Seconds, meta.Session)
	ev.HomeScore = next.HomeScore
	ev.AwayScore = next.AwayScore

	// 3+4. Strength and score, from the event team's perspective; non-team
	// events read as the home side.
	fillContext(&ev, next, meta, it)

	// 5. Shot geometry.
	if ev.Type.IsShotAttempt() && it.Event != nil && it.Event.HasCoords {
		det, _ := ev.Detail.(model.ShotDetail)
		x, y := normalizeShot(it.Event.X, it.Event.Y, det.DistanceFt, det.ShotType)
		ev.HasCoords = true
		ev.X, ev.Y = x, y
		ev.DistFt = shotDistance(x, y)
		ev.AngleDeg = shotAngle(x, y)
		ev.Danger, ev.HighDanger = classifyDanger(x, y)
	}

	return next, ev
}

// fillContext derives strength/score state and the on-ice snapshot.
func fillContext(ev *model.CanonicalEvent, state model.GameState, meta model.GameMeta, it reconcile.Item) {
	homeSkaters, homeGoalie := splitBench(state.HomeOnIce)
	awaySkaters, awayGoalie := splitBench(state.AwayOnIce)
	ev.HomeSkaters = len(homeSkaters)
	ev.AwaySkaters = len(awaySkaters)

	eventIsHome := ev.Venue != model.VenueAway // non-team events read as home

	ownSk, oppSk := homeSkaters, awaySkaters
	ownG, oppG := homeGoalie, awayGoalie
	ownScore, oppScore := state.HomeScore, state.AwayScore
	if !eventIsHome {
		ownSk, oppSk = awaySkaters, homeSkaters
		ownG, oppG = awayGoalie, homeGoalie
		ownScore, oppScore = state.AwayScore, state.HomeScore
	}

	ev.ScoreState = strconv.Itoa(ownScore) + "v" + strconv.Itoa(oppScore)
	ev.OppScoreState = strconv.Itoa(oppScore) + "v" + strconv.Itoa(ownScore)

	switch {
	case isShootout(ev.Period, meta.Session) || isPenaltyShot(it):
		ev.StrengthState = model.StrengthPenaltyShot
		ev.OppStrength = model.StrengthPenaltyShot
	case len(state.HomeOnIce) > 6 || len(state.AwayOnIce) > 6:
		ev.StrengthState = model.StrengthIllegal
		ev.OppStrength = model.StrengthIllegal
	default:
		own := sideStrength(len(ownSk), ownG)
		opp := sideStrength(len(oppSk), oppG)
		ev.StrengthState = own + "v" + opp
		ev.OppStrength = opp + "v" + own
	}

	ev.Teammates = ownSk
	ev.Opponents = oppSk
	ev.OwnGoalie = ownG
	ev.OppGoalie = oppG
}

// splitBench returns the sorted skater ids and the goalie id ("" when the net
// is empty).
func splitBench(onIce map[string]model.RosterEntry) ([]string, string) {
	var skaters []string
	goalie := ""
	for id, e := range onIce {
		if e.IsGoalie() {
			goalie = id
			continue
		}
		skaters = append(skaters, id)
	}
	sort.Strings(skaters)
	return skaters, goalie
}

// sideStrength renders one side of the strength state: the skater count, or
// "E" when the team has pulled its goalie.
func sideStrength(skaters int, goalie string) string {
	if goalie == "" {
		return "E"
	}
	return strconv.Itoa(skaters)
}

func isShootout(period int, session string) bool {
	return period >= model.ShootoutPeriod && session != model.SessionPlayoffs
}

func isPenaltyShot(it reconcile.Item) bool {
	if it.Event == nil {
		return false
	}
	return penaltyShotRe.MatchString(it.Event.Description)
}

var penaltyShotRe = regexp.MustCompile(`(?i)penalty shot`)

// zoneStart locates the nearest upcoming faceoff at the same game-clock
// second; a change with no such faceoff happened on the fly.
func zoneStart(items []reconcile.Item, i int) string {
	c := items[i].Change
	for j := i + 1; j < len(items) && j <= i+zoneLookahead; j++ {
		it := items[j]
		if it.Event == nil || it.Event.Type != model.Faceoff {
			continue
		}
		if it.Event.Period != c.Period || it.Event.Seconds != c.Seconds {
			break // timeline is ordered; past the same-second window
		}
		det, ok := it.Event.Detail.(model.FaceoffDetail)
		if !ok || det.Zone == "" {
			continue
		}
		zone := det.Zone
		if it.Event.Team != c.Team {
			zone = flipZone(zone)
		}
		return zone
	}
	return "OTF"
}

func flipZone(zone string) string {
	switch zone {
	case "Off":
		return "Def"
	case "Def":
		return "Off"
	default:
		return zone
	}
}

// gameSeconds converts a period clock to seconds since the opening puck drop.
func gameSeconds(period, seconds int, session string) int {
	total := 0
	for p := 1; p < period; p++ {
		total += model.PeriodLength(p, session)
	}
	return total + seconds
}

var (
	strengthRe = regexp.MustCompile(`^\d+v\d+$|^\dvE$|^Ev\d+$|^ILLEGAL$|^1v0$`)
	scoreRe    = regexp.MustCompile(`^\d+v\d+$`)
)

// validate enforces the output contract; a violation is fatal for the game.
func validate(ev *model.CanonicalEvent) error {
	switch {
	case ev.Period < 1:
		return fmt.Errorf("%w: period %d", ErrSchema, ev.Period)
	case ev.Seconds < 0:
		return fmt.Errorf("%w: seconds %d", ErrSchema, ev.Seconds)
	case !strengthRe.MatchString(ev.StrengthState):
		return fmt.Errorf("%w: strength %q", ErrSchema, ev.StrengthState)
	case !scoreRe.MatchString(ev.ScoreState):
		return fmt.Errorf("%w: score %q", ErrSchema, ev.ScoreState)
	case ev.PredGoal < 0 || ev.PredGoal > 1:
		return fmt.Errorf("%w: pred_goal %f", ErrSchema, ev.PredGoal)
	}
	return nil
}
