package pipeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pable/go-nhl-metrics/internal/model"
	"github.com/pable/go-nhl-metrics/internal/normalize"
	"github.com/pable/go-nhl-metrics/internal/patch"
	"github.com/pable/go-nhl-metrics/internal/roster"
)

var pipeMeta = model.GameMeta{
	GameID:   "2025020001",
	Season:   "20252026",
	Session:  model.SessionRegular,
	HomeTeam: "TOR",
	AwayTeam: "MTL",
}

func TestSplitRoster(t *testing.T) {
	rows := [][]string{
		{"#", "Pos", "Name", "#", "Pos", "Name"},
		{"14", "C", "SUZUKI, NICK", "34", "C", "MATTHEWS, AUSTON"},
		{"48", "D", "HUTSON, LANE", "60", "G", "WOLL, JOSEPH"},
		{"Scratches", "", "", "Scratches", "", ""},
		{"77", "D", "STRUBLE, JAYDEN", "25", "D", "HAKANPAA, JANI"},
	}
	sections := splitRoster(rows, pipeMeta)
	if len(sections) != 4 {
		t.Fatalf("sections: %d", len(sections))
	}

	away := sections[0]
	if away.Team != "MTL" || away.Scratch || len(away.Rows) != 2 {
		t.Errorf("away dressed: %+v", away)
	}
	if diff := cmp.Diff([]string{"14", "C", "SUZUKI, NICK"}, away.Rows[0]); diff != "" {
		t.Errorf("away row (-want +got):\n%s", diff)
	}
	home := sections[1]
	if home.Team != "TOR" || len(home.Rows) != 2 {
		t.Errorf("home dressed: %+v", home)
	}
	if got := sections[2].Rows; len(got) != 1 || got[0][2] != "STRUBLE, JAYDEN" {
		t.Errorf("away scratches: %v", got)
	}
	if got := sections[3].Rows; len(got) != 1 || got[0][2] != "HAKANPAA, JANI" {
		t.Errorf("home scratches: %v", got)
	}
}

func TestSplitShifts(t *testing.T) {
	rows := [][]string{
		{"TORONTO MAPLE LEAFS"}, // banner, no leading number
		{"34 MATTHEWS, AUSTON"},
		{"1", "1", "0:00", "0:45", "0:45"},
		{"2", "1", "1:30", "2:12", "0:42"},
		{"SHF", "PER", "START", "END", "DUR"}, // column header, not a shift
		{"88 NYLANDER, WILLIAM"},
		{"1", "1", "0:45", "1:30", "0:45"},
	}
	sections := splitShifts(rows, "TOR", model.VenueHome)
	if len(sections) != 2 {
		t.Fatalf("sections: %d", len(sections))
	}
	if sections[0].Player != "34 MATTHEWS, AUSTON" || len(sections[0].Rows) != 2 {
		t.Errorf("first section: %+v", sections[0])
	}
	if sections[1].Player != "88 NYLANDER, WILLIAM" || len(sections[1].Rows) != 1 {
		t.Errorf("second section: %+v", sections[1])
	}
	if sections[0].Team != "TOR" || sections[0].Venue != model.VenueHome {
		t.Errorf("section identity: %+v", sections[0])
	}
}

func TestDropRows(t *testing.T) {
	rows := [][]string{
		{"1", "1", "EV", "0:00", "PSTR", "Period Start"},
		{"122", "2", "EV", "0:00", "FAC", "duplicate draw"},
		{"123", "2", "EV", "0:10", "HIT", "keep me"},
	}
	out := dropRows(rows, []int{122})
	if len(out) != 2 {
		t.Fatalf("rows after drop: %d", len(out))
	}
	if out[1][0] != "123" {
		t.Errorf("wrong row dropped: %v", out)
	}
	if got := dropRows(rows, nil); len(got) != 3 {
		t.Errorf("empty drop list must keep everything: %d", len(got))
	}
}

func TestApplyJerseyFixes(t *testing.T) {
	players := []roster.ReportPlayer{
		{Team: "VAN", Jersey: 12, Name: "ERIKSSON, LOKE"},
		{Team: "TOR", Jersey: 12, Name: "OTHER, GUY"},
	}
	applyJerseyFixes(players, []patch.JerseyFix{{Team: "VAN", From: 12, To: 26}})
	if players[0].Jersey != 26 {
		t.Errorf("fix not applied: %+v", players[0])
	}
	if players[1].Jersey != 12 {
		t.Errorf("fix leaked across teams: %+v", players[1])
	}
}

func TestFixShiftHeaders(t *testing.T) {
	sections := []normalize.ShiftSection{
		{Team: "VAN", Player: "12 ERIKSSON, LOKE"},
		{Team: "VAN", Player: "120 NOBODY, REAL"}, // prefix must match the full number
	}
	fixShiftHeaders(sections, "VAN", []patch.JerseyFix{{Team: "VAN", From: 12, To: 26}})
	if sections[0].Player != "26 ERIKSSON, LOKE" {
		t.Errorf("header not fixed: %q", sections[0].Player)
	}
	if sections[1].Player != "120 NOBODY, REAL" {
		t.Errorf("partial number rewritten: %q", sections[1].Player)
	}
}

func TestSummaryCreditsFinalGoal(t *testing.T) {
	res := &GameResult{
		Meta: pipeMeta,
		Events: []model.CanonicalEvent{
			{Type: model.Faceoff, HomeScore: 0, AwayScore: 0},
			{Type: model.Goal, Venue: model.VenueAway, HomeScore: 2, AwayScore: 2},
		},
	}
	s := res.Summary()
	if s.HomeScore != 2 || s.AwayScore != 3 {
		t.Errorf("final overtime goal uncounted: %d-%d", s.HomeScore, s.AwayScore)
	}
	if s.Events != 2 || s.GameID != "2025020001" {
		t.Errorf("summary identity: %+v", s)
	}
}
