package normalize

import (
	"testing"

	"github.com/pable/go-nhl-metrics/internal/model"
)

// row builds one events-report row: [eventNo, period, strength, time, token, description].
func row(no, period, clock, token, desc string) []string {
	return []string{no, period, "EV", clock, token, desc}
}

func TestReportSkipsHeaderRows(t *testing.T) {
	rows := [][]string{
		{"#", "Per", "Str", "Time", "Event", "Description"},
		row("1", "1", "0:00", "PSTR", "Period Start- Local time: 7:08 EDT"),
		row("2", "1", "0:00", "ANTHEM", "National Anthem"),
	}
	events, err := Report(rows, normRoster())
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if len(events) != 1 || events[0].Type != model.PerStart {
		t.Fatalf("expected only PSTR, got %+v", events)
	}
}

func TestReportFaceoffSwap(t *testing.T) {
	// The winning team's prefix disagrees with pair order: MTL won but TOR's
	// center is printed first. Slot one must end up on the event team.
	rows := [][]string{
		row("3", "1", "0:00", "FAC", "MTL won Neu. Zone - TOR #34 MATTHEWS vs MTL #14 SUZUKI"),
	}
	events, err := Report(rows, normRoster())
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	ev := events[0]
	if ev.Team != "MTL" {
		t.Errorf("team: %s", ev.Team)
	}
	if ev.Players[0].Role != "winner" || ev.Players[0].PlayerID != "NICK.SUZUKI" {
		t.Errorf("winner slot: %+v", ev.Players[0])
	}
	if ev.Players[1].Role != "loser" || ev.Players[1].PlayerID != "AUSTON.MATTHEWS" {
		t.Errorf("loser slot: %+v", ev.Players[1])
	}
	det, _ := ev.Detail.(model.FaceoffDetail)
	if det.Zone != "Neu" {
		t.Errorf("zone: %q", det.Zone)
	}
}

func TestReportBlockNamedBlocker(t *testing.T) {
	// The prefix names the shooting side; the event belongs to the blockers.
	rows := [][]string{
		row("10", "1", "5:12", "BLOCK", "TOR #34 MATTHEWS BLOCKED BY MTL #48 HUTSON, Wrist, Def. Zone"),
	}
	events, err := Report(rows, normRoster())
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	ev := events[0]
	if ev.Team != "MTL" {
		t.Errorf("team must be the blocking side: %s", ev.Team)
	}
	if ev.Players[0].Role != "blocker" || ev.Players[0].PlayerID != "LANE.HUTSON" {
		t.Errorf("blocker slot: %+v", ev.Players[0])
	}
	if ev.Players[1].Role != "shooter" || ev.Players[1].PlayerID != "AUSTON.MATTHEWS" {
		t.Errorf("shooter slot: %+v", ev.Players[1])
	}
}

func TestReportBlockUnnamedBlocker(t *testing.T) {
	rows := [][]string{
		row("11", "1", "6:03", "BLOCK", "TOR #34 MATTHEWS BLOCKED BY TEAMMATE, Wrist, Def. Zone"),
	}
	events, err := Report(rows, normRoster())
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	ev := events[0]
	// The blocking teammate is on the shooter's own side, so the event team
	// stays with the line's prefix.
	if ev.Team != "TOR" {
		t.Errorf("teammate block must stay with the shooter's team: %s", ev.Team)
	}
	if ev.Players[0].PlayerID != model.PseudoTeammate {
		t.Errorf("blocker slot: %+v", ev.Players[0])
	}
	if ev.Players[1].Role != "shooter" || ev.Players[1].PlayerID != "AUSTON.MATTHEWS" {
		t.Errorf("shooter slot: %+v", ev.Players[1])
	}
}

func TestReportGoalAssists(t *testing.T) {
	rows := [][]string{
		row("40", "2", "12:44", "GOAL", "TOR #34 MATTHEWS(12), Wrist, Off. Zone, 15 ft. Assists: #88 NYLANDER(20); #22 MCCABE(5)"),
	}
	events, err := Report(rows, normRoster())
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	ev := events[0]
	if ev.Team != "TOR" || ev.Seconds != 764 {
		t.Errorf("header: %+v", ev)
	}
	if len(ev.Players) != 3 {
		t.Fatalf("players: %+v", ev.Players)
	}
	if ev.Players[0].Role != "scorer" || ev.Players[0].PlayerID != "AUSTON.MATTHEWS" {
		t.Errorf("scorer: %+v", ev.Players[0])
	}
	if ev.Players[1].Role != "assist1" || ev.Players[1].PlayerID != "WILL.NYLANDER" {
		t.Errorf("assist1: %+v", ev.Players[1])
	}
	if ev.Players[2].Role != "assist2" || ev.Players[2].PlayerID != "JAKE.MCCABE" {
		t.Errorf("assist2: %+v", ev.Players[2])
	}
	det, _ := ev.Detail.(model.ShotDetail)
	if det.ShotType != "Wrist" || det.DistanceFt != 15 || det.Zone != "Off" {
		t.Errorf("detail: %+v", det)
	}
}

func TestReportShotAndMiss(t *testing.T) {
	rows := [][]string{
		row("20", "1", "8:30", "SHOT", "TOR ONGOAL - #88 NYLANDER, Snap, Off. Zone, 25 ft."),
		row("21", "1", "9:10", "MISS", "MTL #14 SUZUKI, Wrist, Wide of Net, Off. Zone, 30 ft."),
	}
	events, err := Report(rows, normRoster())
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	shot := events[0]
	if shot.Players[0].Role != "shooter" || shot.Players[0].PlayerID != "WILL.NYLANDER" {
		t.Errorf("shot shooter: %+v", shot.Players)
	}
	sd, _ := shot.Detail.(model.ShotDetail)
	if sd.ShotType != "Snap" || sd.DistanceFt != 25 {
		t.Errorf("shot detail: %+v", sd)
	}
	miss := events[1]
	md, _ := miss.Detail.(model.ShotDetail)
	if md.MissReason != "Wide of Net" || md.DistanceFt != 30 {
		t.Errorf("miss detail: %+v", md)
	}
}

func TestReportTeamPenalty(t *testing.T) {
	rows := [][]string{
		row("55", "3", "4:20", "PENL", "MTL TEAM Too many men/ice - bench(2 min) Served By: #14 SUZUKI, Drawn By: TOR #88 NYLANDER"),
	}
	events, err := Report(rows, normRoster())
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	ev := events[0]
	det, _ := ev.Detail.(model.PenaltyDetail)
	if !det.BenchFlag || det.Minutes != 2 {
		t.Errorf("detail: %+v", det)
	}
	if det.Reason != "Too many men on the ice" {
		t.Errorf("reason: %q", det.Reason)
	}
	if ev.Players[0].Role != "committed_by" || ev.Players[0].PlayerID != model.PseudoBench {
		t.Errorf("committed_by: %+v", ev.Players[0])
	}
	if ev.Players[1].Role != "served_by" || ev.Players[1].PlayerID != "NICK.SUZUKI" {
		t.Errorf("served_by: %+v", ev.Players[1])
	}
	if ev.Players[2].Role != "drawn_by" || ev.Players[2].PlayerID != "WILL.NYLANDER" {
		t.Errorf("drawn_by: %+v", ev.Players[2])
	}
}

func TestReportVersions(t *testing.T) {
	rows := [][]string{
		row("30", "1", "7:12", "GIVE", "MTL GIVEAWAY - #14 SUZUKI, Def. Zone"),
		row("31", "1", "7:12", "GIVE", "MTL GIVEAWAY - #14 SUZUKI, Def. Zone"),
	}
	events, err := Report(rows, normRoster())
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if events[0].Version != 1 || events[1].Version != 2 {
		t.Errorf("versions: %d, %d", events[0].Version, events[1].Version)
	}
}

func TestNormTeam(t *testing.T) {
	cases := map[string]string{
		"N.J": "NJD", "S.J": "SJS", "L.A": "LAK", "T.B": "TBL", "TOR": "TOR",
	}
	for in, want := range cases {
		if got := normTeam(in); got != want {
			t.Errorf("normTeam(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizePenaltyReason(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hi-sticking", "High-sticking"},
		{"HIGH STICK", "High-sticking"},
		{"Interference - Goalkeeper", "Goalkeeper interference"},
		{"Interference", "Interference"},
		{"Tripping", "Tripping"},
		{"Delaying Game - Puck over glass", "Delay of game"},
		{"Cross checking", "Cross-checking"},
		{"Fighting (maj)", "Fighting"},
		{"Game Misconduct", "Misconduct"},
		{"nonsense text", "Minor"},
	}
	for _, c := range cases {
		if got := NormalizePenaltyReason(c.in); got != c.want {
			t.Errorf("NormalizePenaltyReason(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
