package normalize

import (
	"testing"

	"github.com/pable/go-nhl-metrics/internal/model"
)

func TestRosterReport(t *testing.T) {
	sections := []RosterSection{
		{Team: "TOR", Venue: model.VenueHome, Rows: [][]string{
			{"#", "Pos", "Name"},
			{"34", "C", "*MATTHEWS, AUSTON (C)"},
			{"88", "R", "NYLANDER, WILLIAM (A)"},
		}},
		{Team: "TOR", Venue: model.VenueHome, Scratch: true, Rows: [][]string{
			{"25", "D", "HAKANPAA, JANI"},
		}},
	}
	players, err := RosterReport(sections)
	if err != nil {
		t.Fatalf("RosterReport: %v", err)
	}
	if len(players) != 3 {
		t.Fatalf("players: %d", len(players))
	}

	matthews := players[0]
	if matthews.Name != "MATTHEWS, AUSTON" {
		t.Errorf("captain marker kept: %q", matthews.Name)
	}
	if !matthews.Starter {
		t.Error("bold marker must set Starter")
	}
	if players[1].Name != "NYLANDER, WILLIAM" || players[1].Starter {
		t.Errorf("alternate: %+v", players[1])
	}
	if !players[2].Scratch || players[2].Jersey != 25 {
		t.Errorf("scratch: %+v", players[2])
	}
}

func TestRosterReportEmptyName(t *testing.T) {
	sections := []RosterSection{
		{Team: "TOR", Rows: [][]string{{"34", "C", "*"}}},
	}
	if _, err := RosterReport(sections); err == nil {
		t.Fatal("empty name accepted")
	}
}

func TestShiftsParsing(t *testing.T) {
	ros := normRoster()
	sections := []ShiftSection{
		{Team: "TOR", Venue: model.VenueHome, Player: "34 MATTHEWS, AUSTON", Rows: [][]string{
			{"SHF", "PER", "START", "END", "DUR"},
			{"1", "1", "0:00 / 20:00", "0:45 / 19:15", "0:45"},
			{"2", "OT", "1:30 / 3:30", "", "0:42"},
		}},
	}
	ivs, err := Shifts(sections, ros)
	if err != nil {
		t.Fatalf("Shifts: %v", err)
	}
	if len(ivs) != 2 {
		t.Fatalf("intervals: %d", len(ivs))
	}

	first := ivs[0]
	if first.PlayerID != "AUSTON.MATTHEWS" || first.Position != "C" || first.Jersey != 34 {
		t.Errorf("identity: %+v", first)
	}
	if first.Period != 1 || first.Start != 0 || first.End != 45 {
		t.Errorf("elapsed halves: %+v", first)
	}

	ot := ivs[1]
	if ot.Period != 4 {
		t.Errorf("OT label: %+v", ot)
	}
	if ot.Start != 90 || ot.End != -1 {
		t.Errorf("blank end must be marked for repair: %+v", ot)
	}
}

func TestShiftsUnknownPlayer(t *testing.T) {
	sections := []ShiftSection{
		{Team: "TOR", Player: "99 GRETZKY, WAYNE", Rows: nil},
	}
	if _, err := Shifts(sections, normRoster()); err == nil {
		t.Fatal("unknown jersey accepted")
	}
}

func TestShiftsBadHeader(t *testing.T) {
	sections := []ShiftSection{
		{Team: "TOR", Player: "TORONTO MAPLE LEAFS", Rows: nil},
	}
	if _, err := Shifts(sections, normRoster()); err == nil {
		t.Fatal("banner accepted as player label")
	}
}
