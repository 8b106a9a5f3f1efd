// Package shifts derives discrete personnel-change events from continuous
// per-player on-ice intervals.
package shifts

import (
	"sort"

	"github.com/pable/go-nhl-metrics/internal/model"
)

// Changes groups shift intervals by exact start/end second per (period, team)
// and emits one ChangeEvent per timestamp. A timestamp that is both a start
// and an end for the team becomes a single event with both sides populated.
func Changes(intervals []model.ShiftInterval, meta model.GameMeta, ros *model.Roster) []model.ChangeEvent {
	repaired := repairEnds(intervals, meta.Session)

	type groupKey struct {
		period int
		team   string
	}
	type moment struct {
		on, off []model.ShiftInterval
	}
	groups := make(map[groupKey]map[int]*moment)
	at := func(k groupKey, sec int) *moment {
		if groups[k] == nil {
			groups[k] = make(map[int]*moment)
		}
		m := groups[k][sec]
		if m == nil {
			m = &moment{}
			groups[k][sec] = m
		}
		return m
	}
	for _, iv := range repaired {
		k := groupKey{iv.Period, iv.Team}
		at(k, iv.Start).on = append(at(k, iv.Start).on, iv)
		at(k, iv.End).off = append(at(k, iv.End).off, iv)
	}

	var out []model.ChangeEvent
	for k, moments := range groups {
		secs := make([]int, 0, len(moments))
		for sec := range moments {
			secs = append(secs, sec)
		}
		sort.Ints(secs)
		for _, sec := range secs {
			m := moments[sec]
			ev := model.ChangeEvent{
				Team:    k.team,
				Venue:   meta.VenueOf(k.team),
				Period:  k.period,
				Seconds: sec,
			}
			ev.OnF, ev.OnD, ev.OnG = splitPositions(m.on)
			ev.OffF, ev.OffD, ev.OffG = splitPositions(m.off)
			out = append(out, ev)
		}
	}

	out = append(out, synthesizeGoalies(repaired, meta, ros)...)

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Period != b.Period {
			return a.Period < b.Period
		}
		if a.Seconds != b.Seconds {
			return a.Seconds < b.Seconds
		}
		return a.Team < b.Team
	})
	return out
}

// repairEnds fixes missing or inconsistent end times using period-length
// conventions: a shift that never ends runs to the period horn, shortened for
// 3-on-3 overtime in non-playoff sessions.
func repairEnds(intervals []model.ShiftInterval, session string) []model.ShiftInterval {
	out := make([]model.ShiftInterval, len(intervals))
	copy(out, intervals)
	for i := range out {
		iv := &out[i]
		if iv.End < 0 || iv.End < iv.Start {
			iv.End = model.PeriodLength(iv.Period, session)
		}
	}
	return out
}

// splitPositions splits a moment's intervals into forward/defense/goalie id
// lists, each sorted by jersey for determinism.
func splitPositions(ivs []model.ShiftInterval) (f, d, g []string) {
	sorted := make([]model.ShiftInterval, len(ivs))
	copy(sorted, ivs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Jersey < sorted[j].Jersey })
	for _, iv := range sorted {
		switch iv.Position {
		case "G":
			g = append(g, iv.PlayerID)
		case "D":
			d = append(d, iv.PlayerID)
		default:
			f = append(f, iv.PlayerID)
		}
	}
	return f, d, g
}

// synthesizeGoalies covers periods whose shift chart records no goalie rows
// at all: the starting (or previous-period) goalie is put on at second zero
// so the on-ice sets never silently lose the netminder.
func synthesizeGoalies(intervals []model.ShiftInterval, meta model.GameMeta, ros *model.Roster) []model.ChangeEvent {
	type periodTeam struct {
		period int
		team   string
	}
	periods := make(map[int]bool)
	hasGoalie := make(map[periodTeam]bool)
	lastGoalie := make(map[periodTeam]string)
	for _, iv := range intervals {
		periods[iv.Period] = true
		if iv.Position == "G" {
			k := periodTeam{iv.Period, iv.Team}
			hasGoalie[k] = true
			lastGoalie[k] = iv.PlayerID
		}
	}

	var out []model.ChangeEvent
	for _, team := range []string{meta.AwayTeam, meta.HomeTeam} {
		for period := range periods {
			if period >= model.ShootoutPeriod || hasGoalie[periodTeam{period, team}] {
				continue
			}
			goalie := ""
			for p := period - 1; p >= 1; p-- {
				if g, ok := lastGoalie[periodTeam{p, team}]; ok {
					goalie = g
					break
				}
			}
			if goalie == "" {
				if e, ok := ros.StartingGoalie(team); ok {
					goalie = e.PlayerID
				}
			}
			if goalie == "" {
				continue // genuinely empty net all period
			}
			out = append(out, model.ChangeEvent{
				Team:    team,
				Venue:   meta.VenueOf(team),
				Period:  period,
				Seconds: 0,
				OnG:     []string{goalie},
			})
		}
	}
	return out
}
