package model

import "strconv"

// Venue says which side of the scoresheet a team is on.
type Venue int

const (
	VenueUnknown Venue = 0
	VenueHome    Venue = 1
	VenueAway    Venue = 2
)

func (v Venue) String() string {
	switch v {
	case VenueHome:
		return "home"
	case VenueAway:
		return "away"
	default:
		return "?"
	}
}

// EventType is the closed event vocabulary shared by both sources.
type EventType string

const (
	Goal      EventType = "GOAL"
	Shot      EventType = "SHOT"
	Miss      EventType = "MISS"
	Block     EventType = "BLOCK"
	Hit       EventType = "HIT"
	Faceoff   EventType = "FAC"
	Giveaway  EventType = "GIVE"
	Takeaway  EventType = "TAKE"
	Penalty   EventType = "PENL"
	Stoppage  EventType = "STOP"
	Change    EventType = "CHANGE"
	DelPen    EventType = "DELPEN"
	PerStart  EventType = "PSTR"
	PerEnd    EventType = "PEND"
	GameEnd   EventType = "GEND"
	ShootComp EventType = "SOC"
)

// typePriority breaks ties between events recorded at the same second.
// Changes sort ahead of the faceoff that follows them so zone starts can be
// read off the upcoming faceoff.
var typePriority = map[EventType]int{
	PerStart: 1, Change: 2, Faceoff: 3,
	Hit: 4, Giveaway: 5, Takeaway: 6,
	Miss: 7, Shot: 8, Block: 9, Goal: 10,
	Stoppage: 11, DelPen: 12, Penalty: 13,
	PerEnd: 14, GameEnd: 15, ShootComp: 16,
}

// Priority returns the same-second tie-break rank for t. Unknown types sort last.
func (t EventType) Priority() int {
	if p, ok := typePriority[t]; ok {
		return p
	}
	return 99
}

// IsShotAttempt reports whether t is an unblocked attempt on net (Fenwick event).
func (t EventType) IsShotAttempt() bool {
	return t == Goal || t == Shot || t == Miss
}

// IsCorsi reports whether t counts as a shot attempt including blocks.
func (t EventType) IsCorsi() bool {
	return t.IsShotAttempt() || t == Block
}

// Session types as carried by the machine feed's game-type field.
const (
	SessionPreseason = "PR"
	SessionRegular   = "R"
	SessionPlayoffs  = "P"
)

// Period lengths in seconds.
const (
	RegulationPeriodSeconds = 1200
	OvertimePeriodSeconds   = 300 // regular-season 3-on-3 OT
)

// PeriodLength returns the nominal length of a period for shift repair and
// clock math. Playoff overtimes run full length.
func PeriodLength(period int, session string) int {
	if period >= 4 && session != SessionPlayoffs {
		return OvertimePeriodSeconds
	}
	return RegulationPeriodSeconds
}

// ShootoutPeriod is the period number of the shootout in a regular-season game.
const ShootoutPeriod = 5

// Pseudo-player ids used when a role cannot be resolved to a skater.
const (
	PseudoBench    = "BENCH"
	PseudoReferee  = "REFEREE"
	PseudoTeammate = "TEAMMATE"
)

// RosterEntry is one player on one team's game roster, merged across sources.
// Unique per (game, team, jersey); immutable after the roster is built.
type RosterEntry struct {
	Team     string // 3-letter team code
	Jersey   int
	PlayerID string // cross-source id, e.g. "AUSTON.MATTHEWS"
	APIID    int64  // machine-feed numeric id; 0 for report-only entries (scratches)
	Name     string
	Position string // C, L, R, D, G
	Scratch  bool
	Starter  bool
	Venue    Venue
}

// IsForward reports whether the entry plays a forward position.
func (r RosterEntry) IsForward() bool {
	return r.Position == "C" || r.Position == "L" || r.Position == "R"
}

// IsGoalie reports whether the entry is a goaltender.
func (r RosterEntry) IsGoalie() bool { return r.Position == "G" }

// Roster is the merged game roster, indexed by team code and jersey.
type Roster struct {
	Entries []RosterEntry
	byKey   map[string]*RosterEntry
}

func rosterKey(team string, jersey int) string {
	return team + "#" + strconv.Itoa(jersey)
}

// NewRoster indexes entries by team+jersey.
func NewRoster(entries []RosterEntry) *Roster {
	r := &Roster{Entries: entries, byKey: make(map[string]*RosterEntry, len(entries))}
	for i := range r.Entries {
		e := &r.Entries[i]
		r.byKey[rosterKey(e.Team, e.Jersey)] = e
	}
	return r
}

// Lookup finds the roster entry for a team+jersey pair.
func (r *Roster) Lookup(team string, jersey int) (RosterEntry, bool) {
	e, ok := r.byKey[rosterKey(team, jersey)]
	if !ok {
		return RosterEntry{}, false
	}
	return *e, true
}

// ByAPIID finds the entry with the given machine-feed player id.
func (r *Roster) ByAPIID(id int64) (RosterEntry, bool) {
	if id == 0 {
		return RosterEntry{}, false
	}
	for _, e := range r.Entries {
		if e.APIID == id {
			return e, true
		}
	}
	return RosterEntry{}, false
}

// ByPlayerID finds the entry with the given cross-source id on the given team.
func (r *Roster) ByPlayerID(team, playerID string) (RosterEntry, bool) {
	for _, e := range r.Entries {
		if e.Team == team && e.PlayerID == playerID {
			return e, true
		}
	}
	return RosterEntry{}, false
}

// StartingGoalie returns the starting goaltender for a team, and false if the
// roster records none.
func (r *Roster) StartingGoalie(team string) (RosterEntry, bool) {
	var fallback *RosterEntry
	for i := range r.Entries {
		e := &r.Entries[i]
		if e.Team != team || !e.IsGoalie() || e.Scratch {
			continue
		}
		if e.Starter {
			return *e, true
		}
		if fallback == nil {
			fallback = e
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return RosterEntry{}, false
}

// RolePlayer is one resolved player-role slot on an event.
type RolePlayer struct {
	Role     string // per-type role label, e.g. "scorer", "blocker", "committed_by"
	PlayerID string // cross-source id or a Pseudo* sentinel
	APIID    int64
	Jersey   int
	Position string
}

// ---- Per-type event detail (one variant per event type). ----

// Detail carries the fields that only exist for some event types.
type Detail interface{ eventDetail() }

// ShotDetail covers GOAL, SHOT and MISS.
type ShotDetail struct {
	ShotType   string // closed set: Wrist, Slap, Snap, ...
	DistanceFt int    // parsed from report text; -1 when absent
	Zone       string // Off, Neu, Def from the event team's perspective
	MissReason string // MISS only: Wide of Net, Over Net, ...
}

// PenaltyDetail covers PENL and DELPEN.
type PenaltyDetail struct {
	Reason    string // normalized closed vocabulary
	Minutes   int
	BenchFlag bool // committed by the bench / team staff
	Zone      string
}

// FaceoffDetail covers FAC.
type FaceoffDetail struct {
	Zone string // zone from the winning team's perspective
}

// BlockDetail covers BLOCK.
type BlockDetail struct {
	Zone string
}

// GenericDetail covers types with no extra fields (HIT, GIVE, TAKE, STOP, ...).
type GenericDetail struct {
	Zone   string
	Reason string // STOP only: stoppage reason text
}

func (ShotDetail) eventDetail()    {}
func (PenaltyDetail) eventDetail() {}
func (FaceoffDetail) eventDetail() {}
func (BlockDetail) eventDetail()   {}
func (GenericDetail) eventDetail() {}

// RawEvent is one normalized event from either source. Machine events carry
// coordinates; report events carry a description. Immutable once emitted by
// its normalizer; the reconciler merges machine-only fields onto the report
// record it matches.
type RawEvent struct {
	SourceIdx int // encounter order within the source document
	Type      EventType
	Period    int
	Seconds   int // elapsed seconds in period
	Team      string
	Players   []RolePlayer
	Detail    Detail

	// Report-only.
	Description string

	// Machine-only; HasCoords gates X/Y.
	HasCoords bool
	X, Y      float64

	// Version disambiguates same-second duplicates sharing (type, period,
	// time, primary player); assigned 1..n in encounter order.
	Version int
}

// Primary returns the first player-role slot, or a zero RolePlayer.
func (e *RawEvent) Primary() RolePlayer {
	if len(e.Players) == 0 {
		return RolePlayer{}
	}
	return e.Players[0]
}

// ShiftInterval is one continuous on-ice stint for one player.
// Non-overlapping per player per period by construction.
type ShiftInterval struct {
	PlayerID string
	Team     string
	Venue    Venue
	Period   int
	Start    int // seconds elapsed in period
	End      int // seconds elapsed in period; <0 or < Start means "repair me"
	Position string
	Jersey   int
}

// ChangeEvent is a derived pseudo-event: all simultaneous personnel changes
// for one team at one timestamp, split by position group and sorted by jersey.
type ChangeEvent struct {
	Team    string
	Venue   Venue
	Period  int
	Seconds int

	OnF, OnD, OnG    []string // cross-source player ids
	OffF, OffD, OffG []string
}

// On returns every player coming on across position groups.
func (c *ChangeEvent) On() []string {
	out := make([]string, 0, len(c.OnF)+len(c.OnD)+len(c.OnG))
	out = append(out, c.OnF...)
	out = append(out, c.OnD...)
	return append(out, c.OnG...)
}

// Off returns every player going off across position groups.
func (c *ChangeEvent) Off() []string {
	out := make([]string, 0, len(c.OffF)+len(c.OffD)+len(c.OffG))
	out = append(out, c.OffF...)
	out = append(out, c.OffD...)
	return append(out, c.OffG...)
}

// SortKey totally orders the reconciled timeline.
type SortKey struct {
	Period   int
	Seconds  int
	Priority int // per-type tie-break
	Index    int // source sequence, final tie-break
}

// Less reports whether k sorts before o.
func (k SortKey) Less(o SortKey) bool {
	if k.Period != o.Period {
		return k.Period < o.Period
	}
	if k.Seconds != o.Seconds {
		return k.Seconds < o.Seconds
	}
	if k.Priority != o.Priority {
		return k.Priority < o.Priority
	}
	return k.Index < o.Index
}

// Strength-state sentinel for impossible on-ice counts.
const StrengthIllegal = "ILLEGAL"

// StrengthPenaltyShot is forced for penalty shots and the shootout.
const StrengthPenaltyShot = "1v0"

// CanonicalEvent is the unified output record: one reconciled event plus the
// game context at the moment it happened. Read-only after enrichment.
type CanonicalEvent struct {
	GameID  string
	Season  string
	Session string
	Key     SortKey

	Type    EventType
	Period  int
	Seconds int // in period
	GameSec int // since opening puck drop

	Team    string // event team; empty for non-team types
	OppTeam string
	Venue   Venue // event team's venue

	Players     []RolePlayer
	Description string
	Detail      Detail
	Version     int

	// Change events only.
	ChangeOn, ChangeOff []string

	// Context.
	ScoreState    string // "{event-team}v{opp}"
	OppScoreState string
	StrengthState string // "5v5", "6v5", "5vE", "1v0", "ILLEGAL"
	OppStrength   string
	HomeScore     int
	AwayScore     int

	// On-ice snapshot from the event team's perspective.
	Teammates   []string
	Opponents   []string
	OwnGoalie   string // empty when net is empty
	OppGoalie   string
	HomeSkaters int
	AwaySkaters int

	// Geometry; valid when HasCoords.
	HasCoords  bool
	X, Y       float64 // normalized to a single attacking direction
	DistFt     float64
	AngleDeg   float64
	Danger     bool
	HighDanger bool

	// Change events: Off/Neu/Def zone of the shift start, or "OTF".
	ZoneStart string

	PredGoal float64 // modeled goal probability; 0 outside scope
}

// Player returns the PlayerID in role slot i ("" when absent).
func (e *CanonicalEvent) Player(i int) string {
	if i < 0 || i >= len(e.Players) {
		return ""
	}
	return e.Players[i].PlayerID
}

// GameState is the running context threaded through enrichment. Transient.
type GameState struct {
	HomeScore, AwayScore int
	HomeOnIce, AwayOnIce map[string]RosterEntry
}

// NewGameState returns an empty state with allocated on-ice sets.
func NewGameState() GameState {
	return GameState{
		HomeOnIce: make(map[string]RosterEntry),
		AwayOnIce: make(map[string]RosterEntry),
	}
}

// Clone deep-copies the state so a step function can stay pure.
func (s GameState) Clone() GameState {
	c := GameState{HomeScore: s.HomeScore, AwayScore: s.AwayScore}
	c.HomeOnIce = make(map[string]RosterEntry, len(s.HomeOnIce))
	for k, v := range s.HomeOnIce {
		c.HomeOnIce[k] = v
	}
	c.AwayOnIce = make(map[string]RosterEntry, len(s.AwayOnIce))
	for k, v := range s.AwayOnIce {
		c.AwayOnIce[k] = v
	}
	return c
}

// GameMeta is the per-game header shared by both sources.
type GameMeta struct {
	GameID   string
	Season   string // e.g. "20252026"
	Session  string // SessionRegular etc.
	HomeTeam string
	AwayTeam string
	Date     string // "YYYY-MM-DD"
	VenueStr string
}

// Opponent returns the other team code for the given team.
func (m GameMeta) Opponent(team string) string {
	if team == m.HomeTeam {
		return m.AwayTeam
	}
	return m.HomeTeam
}

// VenueOf returns which side of the scoresheet the team is on.
func (m GameMeta) VenueOf(team string) Venue {
	switch team {
	case m.HomeTeam:
		return VenueHome
	case m.AwayTeam:
		return VenueAway
	default:
		return VenueUnknown
	}
}
