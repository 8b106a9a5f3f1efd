package roster

import (
	"errors"
	"testing"

	"github.com/pable/go-nhl-metrics/internal/model"
)

func TestPlayerID(t *testing.T) {
	cases := []struct {
		name     string
		season   string
		position string
		want     string
	}{
		{"MATTHEWS, AUSTON", "20252026", "C", "AUSTON.MATTHEWS"},
		{"MARNER, MITCHELL", "20252026", "R", "MITCH.MARNER"},
		{"OVECHKIN, ALEXANDER", "20252026", "L", "ALEX.OVECHKIN"},
		{"NURSE, DARNELL", "20252026", "D", "DARNELL.NURSE"},
		// Multi-word last names pick up dots.
		{"DEL ZOTTO, MICHAEL", "20152016", "D", "MIKE.DEL.ZOTTO"},
		// No comma means all last name.
		{"ZAMBONI", "20252026", "", ".ZAMBONI"},
	}
	for _, c := range cases {
		if got := PlayerID(c.name, c.season, c.position); got != c.want {
			t.Errorf("PlayerID(%q) = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestPlayerIDDisambiguation(t *testing.T) {
	// Two Sebastian Ahos: the defenseman gets the suffix, the center does not.
	if got := PlayerID("AHO, SEBASTIAN", "20252026", "C"); got != "SEBASTIAN.AHO" {
		t.Errorf("center: got %q", got)
	}
	if got := PlayerID("AHO, SEBASTIAN", "20252026", "D"); got != "SEBASTIAN.AHO2" {
		t.Errorf("defenseman: got %q", got)
	}
	// Erik Gustafsson splits on season.
	if got := PlayerID("GUSTAFSSON, ERIK", "20142015", "D"); got != "ERIK.GUSTAFSSON" {
		t.Errorf("early season: got %q", got)
	}
	if got := PlayerID("GUSTAFSSON, ERIK", "20182019", "D"); got != "ERIK.GUSTAFSSON2" {
		t.Errorf("late season: got %q", got)
	}
}

func buildMeta() model.GameMeta {
	return model.GameMeta{
		GameID:   "2025020001",
		Season:   "20252026",
		Session:  model.SessionRegular,
		HomeTeam: "TOR",
		AwayTeam: "MTL",
	}
}

func TestBuildMergesSources(t *testing.T) {
	api := []APIPlayer{
		{Team: "TOR", Jersey: 34, APIID: 8479318, FirstName: "Auston", LastName: "Matthews", Position: "C"},
		{Team: "MTL", Jersey: 14, APIID: 8480018, FirstName: "Nick", LastName: "Suzuki", Position: "C"},
	}
	report := []ReportPlayer{
		{Team: "TOR", Jersey: 34, Name: "MATTHEWS, AUSTON", Position: "C", Starter: true},
		{Team: "MTL", Jersey: 14, Name: "SUZUKI, NICK", Position: "C"},
		{Team: "TOR", Jersey: 85, Name: "HOLLOWELL, MAC", Position: "D", Scratch: true},
	}

	ros, err := Build(buildMeta(), api, report)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	e, ok := ros.Lookup("TOR", 34)
	if !ok {
		t.Fatal("TOR #34 missing")
	}
	if e.PlayerID != "AUSTON.MATTHEWS" || e.APIID != 8479318 || !e.Starter {
		t.Errorf("merged entry mismatch: %+v", e)
	}
	if e.Venue != model.VenueHome {
		t.Errorf("venue: want home, got %v", e.Venue)
	}

	// Scratches keep a roster row but no machine id.
	scr, ok := ros.Lookup("TOR", 85)
	if !ok {
		t.Fatal("scratch missing from roster")
	}
	if !scr.Scratch || scr.APIID != 0 {
		t.Errorf("scratch entry mismatch: %+v", scr)
	}

	if _, ok := ros.ByAPIID(8480018); !ok {
		t.Error("ByAPIID lookup failed for MTL #14")
	}
}

func TestBuildActiveMissingFromFeed(t *testing.T) {
	report := []ReportPlayer{
		{Team: "TOR", Jersey: 34, Name: "MATTHEWS, AUSTON", Position: "C"},
	}
	_, err := Build(buildMeta(), nil, report)
	if !errors.Is(err, ErrIntegrity) {
		t.Fatalf("expected ErrIntegrity, got %v", err)
	}
}

func TestBuildMachineOnlyPlayer(t *testing.T) {
	api := []APIPlayer{
		{Team: "MTL", Jersey: 48, APIID: 8483457, FirstName: "Lane", LastName: "Hutson", Position: "D"},
	}
	ros, err := Build(buildMeta(), api, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	e, ok := ros.Lookup("MTL", 48)
	if !ok {
		t.Fatal("machine-only player missing")
	}
	if e.PlayerID != "LANE.HUTSON" || e.APIID != 8483457 {
		t.Errorf("machine-only entry mismatch: %+v", e)
	}
}
