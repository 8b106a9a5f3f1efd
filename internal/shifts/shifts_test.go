package shifts

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pable/go-nhl-metrics/internal/model"
)

var shiftMeta = model.GameMeta{
	GameID:   "2025020001",
	Season:   "20252026",
	Session:  model.SessionRegular,
	HomeTeam: "TOR",
	AwayTeam: "MTL",
}

func shiftRoster() *model.Roster {
	return model.NewRoster([]model.RosterEntry{
		{Team: "TOR", Jersey: 34, PlayerID: "AUSTON.MATTHEWS", Position: "C", Venue: model.VenueHome},
		{Team: "TOR", Jersey: 60, PlayerID: "JOSEPH.WOLL", Position: "G", Starter: true, Venue: model.VenueHome},
		{Team: "MTL", Jersey: 35, PlayerID: "SAM.MONTEMBEAULT", Position: "G", Starter: true, Venue: model.VenueAway},
	})
}

func interval(team, id, pos string, jersey, period, start, end int) model.ShiftInterval {
	return model.ShiftInterval{
		PlayerID: id, Team: team, Venue: shiftMeta.VenueOf(team),
		Period: period, Start: start, End: end, Position: pos, Jersey: jersey,
	}
}

func TestChangesGroupsSameSecond(t *testing.T) {
	// Matthews goes off and Nylander comes on at the same second: one event
	// with both sides filled.
	intervals := []model.ShiftInterval{
		interval("TOR", "AUSTON.MATTHEWS", "C", 34, 1, 0, 45),
		interval("TOR", "WILL.NYLANDER", "R", 88, 1, 45, 90),
		interval("TOR", "JOSEPH.WOLL", "G", 60, 1, 0, 1200),
	}
	changes := Changes(intervals, shiftMeta, shiftRoster())

	var at45 *model.ChangeEvent
	for i := range changes {
		if changes[i].Period == 1 && changes[i].Seconds == 45 && changes[i].Team == "TOR" {
			at45 = &changes[i]
		}
	}
	if at45 == nil {
		t.Fatal("no change event at 1/45 for TOR")
	}
	if diff := cmp.Diff([]string{"WILL.NYLANDER"}, at45.OnF); diff != "" {
		t.Errorf("OnF mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"AUSTON.MATTHEWS"}, at45.OffF); diff != "" {
		t.Errorf("OffF mismatch (-want +got):\n%s", diff)
	}
}

func TestChangesSplitsPositions(t *testing.T) {
	intervals := []model.ShiftInterval{
		interval("TOR", "AUSTON.MATTHEWS", "C", 34, 1, 0, 45),
		interval("TOR", "JAKE.MCCABE", "D", 22, 1, 0, 45),
		interval("TOR", "JOSEPH.WOLL", "G", 60, 1, 0, 45),
	}
	changes := Changes(intervals, shiftMeta, shiftRoster())

	start := changes[0]
	if start.Seconds != 0 || start.Team != "TOR" {
		t.Fatalf("first event: %+v", start)
	}
	if len(start.OnF) != 1 || len(start.OnD) != 1 || len(start.OnG) != 1 {
		t.Errorf("position split: F=%v D=%v G=%v", start.OnF, start.OnD, start.OnG)
	}
	if got := start.On(); len(got) != 3 {
		t.Errorf("On(): %v", got)
	}
}

func TestRepairEnds(t *testing.T) {
	// A shift with no recorded end runs to the period horn.
	intervals := []model.ShiftInterval{
		interval("TOR", "AUSTON.MATTHEWS", "C", 34, 1, 1100, -1),
	}
	changes := Changes(intervals, shiftMeta, shiftRoster())

	var offAt int = -1
	for _, c := range changes {
		if len(c.OffF) > 0 {
			offAt = c.Seconds
		}
	}
	if offAt != model.RegulationPeriodSeconds {
		t.Errorf("repaired end: want %d, got %d", model.RegulationPeriodSeconds, offAt)
	}
}

func TestRepairEndsOvertime(t *testing.T) {
	// Regular-season overtime runs five minutes.
	intervals := []model.ShiftInterval{
		interval("TOR", "AUSTON.MATTHEWS", "C", 34, 4, 120, -1),
	}
	changes := Changes(intervals, shiftMeta, shiftRoster())

	var offAt int = -1
	for _, c := range changes {
		if len(c.OffF) > 0 {
			offAt = c.Seconds
		}
	}
	if offAt != model.OvertimePeriodSeconds {
		t.Errorf("repaired OT end: want %d, got %d", model.OvertimePeriodSeconds, offAt)
	}
}

func TestGoalieSynthesis(t *testing.T) {
	// MTL's chart has no goalie rows at all; the starter is put on at zero.
	intervals := []model.ShiftInterval{
		interval("TOR", "JOSEPH.WOLL", "G", 60, 1, 0, 1200),
		interval("MTL", "NICK.SUZUKI", "C", 14, 1, 0, 45),
	}
	changes := Changes(intervals, shiftMeta, shiftRoster())

	found := false
	for _, c := range changes {
		if c.Team == "MTL" && c.Period == 1 && c.Seconds == 0 {
			for _, g := range c.OnG {
				if g == "SAM.MONTEMBEAULT" {
					found = true
				}
			}
		}
	}
	if !found {
		t.Error("starting goalie not synthesized for MTL")
	}
}

func TestGoalieSynthesisUsesPreviousPeriod(t *testing.T) {
	// TOR's backup played period 1; period 2 has no goalie rows, so the
	// period-1 goalie carries over rather than the starter.
	intervals := []model.ShiftInterval{
		interval("TOR", "DENNIS.HILDEBY", "G", 35, 1, 0, 1200),
		interval("TOR", "AUSTON.MATTHEWS", "C", 34, 2, 0, 45),
		interval("MTL", "SAM.MONTEMBEAULT", "G", 35, 1, 0, 1200),
		interval("MTL", "SAM.MONTEMBEAULT", "G", 35, 2, 0, 1200),
	}
	changes := Changes(intervals, shiftMeta, shiftRoster())

	var got string
	for _, c := range changes {
		if c.Team == "TOR" && c.Period == 2 && c.Seconds == 0 && len(c.OnG) > 0 {
			got = c.OnG[0]
		}
	}
	if got != "DENNIS.HILDEBY" {
		t.Errorf("carried goalie: want DENNIS.HILDEBY, got %q", got)
	}
}

func TestChangesSorted(t *testing.T) {
	intervals := []model.ShiftInterval{
		interval("TOR", "AUSTON.MATTHEWS", "C", 34, 2, 0, 45),
		interval("MTL", "NICK.SUZUKI", "C", 14, 1, 30, 75),
		interval("TOR", "WILL.NYLANDER", "R", 88, 1, 0, 60),
	}
	changes := Changes(intervals, shiftMeta, shiftRoster())
	for i := 1; i < len(changes); i++ {
		a, b := changes[i-1], changes[i]
		if a.Period > b.Period ||
			(a.Period == b.Period && a.Seconds > b.Seconds) ||
			(a.Period == b.Period && a.Seconds == b.Seconds && a.Team > b.Team) {
			t.Fatalf("not sorted at %d: %+v before %+v", i, a, b)
		}
	}
}
