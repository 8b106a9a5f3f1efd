// Package aggregator sums canonical events into per-player stat lines. Pure
// grouping and summation; every number here is derivable from the timeline.
package aggregator

import (
	"fmt"
	"sort"

	"github.com/pable/go-nhl-metrics/internal/model"
)

// Aggregate computes PlayerGameStats for every player appearing in a game's
// canonical timeline.
func Aggregate(meta model.GameMeta, events []model.CanonicalEvent, ros *model.Roster) ([]model.PlayerGameStats, error) {
	if events == nil {
		return nil, fmt.Errorf("nil event timeline")
	}

	stats := make(map[string]*model.PlayerGameStats)
	get := func(playerID, team string) *model.PlayerGameStats {
		if isPseudo(playerID) || playerID == "" {
			return nil
		}
		if s, ok := stats[playerID]; ok {
			return s
		}
		s := &model.PlayerGameStats{GameID: meta.GameID, PlayerID: playerID, Team: team}
		if e, ok := ros.ByPlayerID(team, playerID); ok {
			s.Name = e.Name
			s.Position = e.Position
		}
		stats[playerID] = s
		return s
	}

	add := func(s *model.PlayerGameStats, fn func(*model.PlayerGameStats)) {
		if s != nil {
			fn(s)
		}
	}

	for i := range events {
		ev := &events[i]
		switch ev.Type {
		case model.Goal:
			add(get(ev.Player(0), ev.Team), func(s *model.PlayerGameStats) {
				s.Goals++
				s.Shots++
				s.ICF++
				s.IFF++
				s.IxG += ev.PredGoal
			})
			add(get(roleID(ev, "assist1"), ev.Team), func(s *model.PlayerGameStats) { s.PrimaryAssists++ })
			add(get(roleID(ev, "assist2"), ev.Team), func(s *model.PlayerGameStats) { s.SecondaryAssists++ })
		case model.Shot:
			add(get(ev.Player(0), ev.Team), func(s *model.PlayerGameStats) {
				s.Shots++
				s.ICF++
				s.IFF++
				s.IxG += ev.PredGoal
			})
		case model.Miss:
			add(get(ev.Player(0), ev.Team), func(s *model.PlayerGameStats) {
				s.ICF++
				s.IFF++
				s.IxG += ev.PredGoal
			})
		case model.Block:
			// Slot one is the blocker; the shooter still takes the attempt.
			// A teammate block keeps both players on the event team.
			add(get(ev.Player(0), ev.Team), func(s *model.PlayerGameStats) { s.Blocks++ })
			shooterTeam := ev.OppTeam
			if ev.Player(0) == model.PseudoTeammate {
				shooterTeam = ev.Team
			}
			add(get(roleID(ev, "shooter"), shooterTeam), func(s *model.PlayerGameStats) { s.ICF++ })
		case model.Faceoff:
			add(get(ev.Player(0), ev.Team), func(s *model.PlayerGameStats) { s.FaceoffWins++ })
			add(get(roleID(ev, "loser"), ev.OppTeam), func(s *model.PlayerGameStats) { s.FaceoffLosses++ })
		case model.Hit:
			add(get(ev.Player(0), ev.Team), func(s *model.PlayerGameStats) { s.HitsGiven++ })
			add(get(roleID(ev, "hittee"), ev.OppTeam), func(s *model.PlayerGameStats) { s.HitsTaken++ })
		case model.Giveaway:
			add(get(ev.Player(0), ev.Team), func(s *model.PlayerGameStats) { s.Giveaways++ })
		case model.Takeaway:
			add(get(ev.Player(0), ev.Team), func(s *model.PlayerGameStats) { s.Takeaways++ })
		case model.Penalty:
			if det, ok := ev.Detail.(model.PenaltyDetail); ok {
				add(get(roleID(ev, "committed_by"), ev.Team), func(s *model.PlayerGameStats) { s.PIM += det.Minutes })
			}
		}

		// On-ice credit for shot attempts and goals. The attempt belongs to
		// the event team except for opponent blocks, where the shot came
		// from the blocker's opponents. Teammate blocks stay an attempt by
		// the event team itself.
		if !ev.Type.IsCorsi() {
			continue
		}
		forTeam, forIDs := ev.Team, onIce(ev, true)
		againstIDs := onIce(ev, false)
		if ev.Type == model.Block && ev.Player(0) != model.PseudoTeammate {
			forTeam = ev.OppTeam
			forIDs, againstIDs = againstIDs, forIDs
		}
		for _, id := range forIDs {
			add(get(id, forTeam), func(s *model.PlayerGameStats) {
				s.CF++
				s.XGF += ev.PredGoal
				if ev.Type == model.Goal {
					s.GF++
				}
			})
		}
		oppTeam := meta.Opponent(forTeam)
		for _, id := range againstIDs {
			add(get(id, oppTeam), func(s *model.PlayerGameStats) {
				s.CA++
				s.XGA += ev.PredGoal
				if ev.Type == model.Goal {
					s.GA++
				}
			})
		}
	}

	out := make([]model.PlayerGameStats, 0, len(stats))
	for _, s := range stats {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Team != out[j].Team {
			return out[i].Team < out[j].Team
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out, nil
}

// onIce returns the event team's on-ice ids (own=true) or the opponents',
// goalie included.
func onIce(ev *model.CanonicalEvent, own bool) []string {
	var ids []string
	if own {
		ids = append(ids, ev.Teammates...)
		if ev.OwnGoalie != "" {
			ids = append(ids, ev.OwnGoalie)
		}
		return ids
	}
	ids = append(ids, ev.Opponents...)
	if ev.OppGoalie != "" {
		ids = append(ids, ev.OppGoalie)
	}
	return ids
}

func roleID(ev *model.CanonicalEvent, role string) string {
	for _, p := range ev.Players {
		if p.Role == role {
			return p.PlayerID
		}
	}
	return ""
}

func isPseudo(id string) bool {
	return id == model.PseudoBench || id == model.PseudoReferee || id == model.PseudoTeammate
}
