// Package normalize flattens each raw source into typed events with a common
// minimal field set: time, type, team, and up to three player-role slots.
package normalize

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pable/go-nhl-metrics/internal/model"
	"github.com/pable/go-nhl-metrics/internal/roster"
)

// MachineFeed is the decoded api-web play-by-play document.
type MachineFeed struct {
	ID       int    `json:"id"`
	Season   int    `json:"season"`
	GameType int    `json:"gameType"` // 1 preseason, 2 regular, 3 playoffs
	GameDate string `json:"gameDate"`
	Venue    struct {
		Default string `json:"default"`
	} `json:"venue"`
	HomeTeam    feedTeam     `json:"homeTeam"`
	AwayTeam    feedTeam     `json:"awayTeam"`
	RosterSpots []rosterSpot `json:"rosterSpots"`
	Plays       []feedPlay   `json:"plays"`
}

type feedTeam struct {
	ID     int    `json:"id"`
	Abbrev string `json:"abbrev"`
}

type rosterSpot struct {
	TeamID        int   `json:"teamId"`
	PlayerID      int64 `json:"playerId"`
	SweaterNumber int   `json:"sweaterNumber"`
	PositionCode  string `json:"positionCode"`
	FirstName     struct {
		Default string `json:"default"`
	} `json:"firstName"`
	LastName struct {
		Default string `json:"default"`
	} `json:"lastName"`
}

type feedPlay struct {
	TypeDescKey      string `json:"typeDescKey"`
	SortOrder        int    `json:"sortOrder"`
	TimeInPeriod     string `json:"timeInPeriod"`
	PeriodDescriptor struct {
		Number     int    `json:"number"`
		PeriodType string `json:"periodType"`
	} `json:"periodDescriptor"`
	Details feedDetails `json:"details"`
}

type feedDetails struct {
	EventOwnerTeamID    int      `json:"eventOwnerTeamId"`
	XCoord              *float64 `json:"xCoord"`
	YCoord              *float64 `json:"yCoord"`
	ZoneCode            string   `json:"zoneCode"`
	ShotType            string   `json:"shotType"`
	Reason              string   `json:"reason"`
	DescKey             string   `json:"descKey"`
	TypeCode            string   `json:"typeCode"`
	Duration            int      `json:"duration"`
	ScoringPlayerID     int64    `json:"scoringPlayerId"`
	Assist1PlayerID     int64    `json:"assist1PlayerId"`
	Assist2PlayerID     int64    `json:"assist2PlayerId"`
	ShootingPlayerID    int64    `json:"shootingPlayerId"`
	GoalieInNetID       int64    `json:"goalieInNetId"`
	BlockingPlayerID    int64    `json:"blockingPlayerId"`
	HittingPlayerID     int64    `json:"hittingPlayerId"`
	HitteePlayerID      int64    `json:"hitteePlayerId"`
	WinningPlayerID     int64    `json:"winningPlayerId"`
	LosingPlayerID      int64    `json:"losingPlayerId"`
	PlayerID            int64    `json:"playerId"` // GIVE/TAKE
	CommittedByPlayerID int64    `json:"committedByPlayerId"`
	DrawnByPlayerID     int64    `json:"drawnByPlayerId"`
	ServedByPlayerID    int64    `json:"servedByPlayerId"`
}

// DecodeMachineFeed parses the machine-feed JSON document.
func DecodeMachineFeed(data []byte) (*MachineFeed, error) {
	var f MachineFeed
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode machine feed: %w", err)
	}
	if len(f.Plays) == 0 {
		return nil, fmt.Errorf("machine feed has no plays")
	}
	return &f, nil
}

// Meta extracts the per-game header from the feed.
func (f *MachineFeed) Meta() model.GameMeta {
	session := model.SessionRegular
	switch f.GameType {
	case 1:
		session = model.SessionPreseason
	case 3:
		session = model.SessionPlayoffs
	}
	return model.GameMeta{
		GameID:   strconv.Itoa(f.ID),
		Season:   strconv.Itoa(f.Season),
		Session:  session,
		HomeTeam: f.HomeTeam.Abbrev,
		AwayTeam: f.AwayTeam.Abbrev,
		Date:     f.GameDate,
		VenueStr: f.Venue.Default,
	}
}

// APIPlayers converts the feed's roster spots for the roster join.
func (f *MachineFeed) APIPlayers() []roster.APIPlayer {
	out := make([]roster.APIPlayer, 0, len(f.RosterSpots))
	for _, s := range f.RosterSpots {
		out = append(out, roster.APIPlayer{
			Team:      f.teamAbbrev(s.TeamID),
			Jersey:    s.SweaterNumber,
			APIID:     s.PlayerID,
			FirstName: s.FirstName.Default,
			LastName:  s.LastName.Default,
			Position:  s.PositionCode,
		})
	}
	return out
}

func (f *MachineFeed) teamAbbrev(id int) string {
	switch id {
	case f.HomeTeam.ID:
		return f.HomeTeam.Abbrev
	case f.AwayTeam.ID:
		return f.AwayTeam.Abbrev
	default:
		return ""
	}
}

// typeDescToToken maps the feed's long-form event names to vocabulary tokens.
var typeDescToToken = map[string]model.EventType{
	"goal":              model.Goal,
	"shot-on-goal":      model.Shot,
	"missed-shot":       model.Miss,
	"blocked-shot":      model.Block,
	"hit":               model.Hit,
	"faceoff":           model.Faceoff,
	"giveaway":          model.Giveaway,
	"takeaway":          model.Takeaway,
	"penalty":           model.Penalty,
	"stoppage":          model.Stoppage,
	"delayed-penalty":   model.DelPen,
	"period-start":      model.PerStart,
	"period-end":        model.PerEnd,
	"game-end":          model.GameEnd,
	"shootout-complete": model.ShootComp,
}

// Machine flattens the feed's plays into RawEvents, resolving player ids
// against the merged roster and assigning same-second versions.
func Machine(f *MachineFeed, ros *model.Roster) ([]model.RawEvent, error) {
	events := make([]model.RawEvent, 0, len(f.Plays))
	for i, p := range f.Plays {
		tok, ok := typeDescToToken[p.TypeDescKey]
		if !ok {
			continue // bench-side noise (game-scheduled, challenges, ...)
		}
		sec, err := parseClock(p.TimeInPeriod)
		if err != nil {
			return nil, fmt.Errorf("machine event %d (%s): %w", i, p.TypeDescKey, err)
		}
		ev := model.RawEvent{
			SourceIdx: i,
			Type:      tok,
			Period:    p.PeriodDescriptor.Number,
			Seconds:   sec,
			Team:      f.teamAbbrev(p.Details.EventOwnerTeamID),
		}
		if p.Details.XCoord != nil && p.Details.YCoord != nil {
			ev.HasCoords = true
			ev.X, ev.Y = *p.Details.XCoord, *p.Details.YCoord
		}
		ev.Players, ev.Detail = machineRoles(tok, p.Details, ros)
		events = append(events, ev)
	}
	assignVersions(events, func(e *model.RawEvent) string {
		return strconv.FormatInt(e.Primary().APIID, 10)
	})
	return events, nil
}

// machineRoles applies the per-type role table: which detail fields become
// which player-role slots, in order.
func machineRoles(t model.EventType, d feedDetails, ros *model.Roster) ([]model.RolePlayer, model.Detail) {
	role := func(label string, apiID int64) (model.RolePlayer, bool) {
		if apiID == 0 {
			return model.RolePlayer{}, false
		}
		rp := model.RolePlayer{Role: label, APIID: apiID}
		if e, ok := ros.ByAPIID(apiID); ok {
			rp.PlayerID = e.PlayerID
			rp.Jersey = e.Jersey
			rp.Position = e.Position
		}
		return rp, true
	}
	var players []model.RolePlayer
	add := func(label string, id int64) {
		if rp, ok := role(label, id); ok {
			players = append(players, rp)
		}
	}

	switch t {
	case model.Goal:
		add("scorer", d.ScoringPlayerID)
		add("assist1", d.Assist1PlayerID)
		add("assist2", d.Assist2PlayerID)
		return players, model.ShotDetail{ShotType: d.ShotType, DistanceFt: -1, Zone: d.ZoneCode}
	case model.Shot, model.Miss:
		add("shooter", d.ShootingPlayerID)
		add("goalie", d.GoalieInNetID)
		return players, model.ShotDetail{ShotType: d.ShotType, DistanceFt: -1, Zone: d.ZoneCode, MissReason: d.Reason}
	case model.Block:
		// Owner team is the blocking team, so the blocker fills slot one to
		// keep "players[0] is on the event team" true for every type.
		add("blocker", d.BlockingPlayerID)
		add("shooter", d.ShootingPlayerID)
		return players, model.BlockDetail{Zone: d.ZoneCode}
	case model.Hit:
		add("hitter", d.HittingPlayerID)
		add("hittee", d.HitteePlayerID)
		return players, model.GenericDetail{Zone: d.ZoneCode}
	case model.Faceoff:
		add("winner", d.WinningPlayerID)
		add("loser", d.LosingPlayerID)
		return players, model.FaceoffDetail{Zone: d.ZoneCode}
	case model.Giveaway, model.Takeaway:
		add("player", d.PlayerID)
		return players, model.GenericDetail{Zone: d.ZoneCode}
	case model.Penalty, model.DelPen:
		det := model.PenaltyDetail{
			Reason:  NormalizePenaltyReason(strings.ReplaceAll(d.DescKey, "-", " ")),
			Minutes: d.Duration,
			Zone:    d.ZoneCode,
		}
		// A bench or team-staff penalty has no committing skater; the slot is
		// filled with a synthetic BENCH pseudo-player.
		if d.CommittedByPlayerID == 0 && (d.TypeCode == "BEN" || d.ServedByPlayerID != 0) {
			det.BenchFlag = true
			players = append(players, model.RolePlayer{Role: "committed_by", PlayerID: model.PseudoBench})
		} else {
			add("committed_by", d.CommittedByPlayerID)
		}
		add("served_by", d.ServedByPlayerID)
		add("drawn_by", d.DrawnByPlayerID)
		return players, det
	case model.Stoppage:
		return nil, model.GenericDetail{Reason: d.Reason}
	default:
		return nil, model.GenericDetail{}
	}
}

// parseClock converts "MM:SS" elapsed time to seconds.
func parseClock(s string) (int, error) {
	mm, ss, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("bad clock %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("bad clock %q", s)
	}
	sec, err := strconv.Atoi(ss)
	if err != nil || sec > 59 {
		return 0, fmt.Errorf("bad clock %q", s)
	}
	return m*60 + sec, nil
}

// assignVersions numbers events sharing (type, period, seconds, primary) in
// encounter order, so simultaneous duplicates stay distinguishable.
func assignVersions(events []model.RawEvent, primary func(*model.RawEvent) string) {
	type vkey struct {
		t       model.EventType
		period  int
		seconds int
		primary string
	}
	counts := make(map[vkey]int)
	for i := range events {
		e := &events[i]
		k := vkey{e.Type, e.Period, e.Seconds, primary(e)}
		counts[k]++
		e.Version = counts[k]
	}
}
