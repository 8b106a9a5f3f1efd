// Package reconcile matches report events to machine events, merges
// machine-only fields onto the report record, and interleaves the result with
// derived change events into one totally ordered timeline.
package reconcile

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/pable/go-nhl-metrics/internal/model"
	"github.com/pable/go-nhl-metrics/internal/normalize"
)

// ErrAmbiguousMatch means more than one machine event satisfied a report
// event's key. Versioning is supposed to make this impossible; when it
// happens the game's ordering cannot be trusted, so the event is fatal.
var ErrAmbiguousMatch = errors.New("ambiguous cross-source match")

// Item is one timeline entry: exactly one of Event or Change is set.
type Item struct {
	Key    model.SortKey
	Event  *model.RawEvent
	Change *model.ChangeEvent
}

// Type returns the entry's event type.
func (it Item) Type() model.EventType {
	if it.Change != nil {
		return model.Change
	}
	return it.Event.Type
}

func fullKey(t model.EventType, team, primary string, period, seconds, version int) string {
	return string(t) + "|" + team + "|" + primary + "|" +
		strconv.Itoa(period) + "|" + strconv.Itoa(seconds) + "|" + strconv.Itoa(version)
}

func looseKey(t model.EventType, period, seconds, version int) string {
	return string(t) + "||" + strconv.Itoa(period) + "|" + strconv.Itoa(seconds) + "|" + strconv.Itoa(version)
}

// Merge reconciles the report timeline against the machine timeline and
// interleaves change events, returning the ordered result.
func Merge(report []model.RawEvent, machine []model.RawEvent, changes []model.ChangeEvent, meta model.GameMeta) ([]Item, error) {
	full := make(map[string][]*model.RawEvent)
	loose := make(map[string][]*model.RawEvent)
	for i := range machine {
		m := &machine[i]
		full[fullKey(m.Type, m.Team, m.Primary().PlayerID, m.Period, m.Seconds, m.Version)] = append(
			full[fullKey(m.Type, m.Team, m.Primary().PlayerID, m.Period, m.Seconds, m.Version)], m)
		loose[looseKey(m.Type, m.Period, m.Seconds, m.Version)] = append(
			loose[looseKey(m.Type, m.Period, m.Seconds, m.Version)], m)
	}

	items := make([]Item, 0, len(report)+len(changes))
	for i := range report {
		re := &report[i]
		matched, err := lookup(re, full, loose)
		if err != nil {
			return nil, err
		}
		if matched != nil {
			mergeMachineFields(re, matched)
		}
		items = append(items, Item{Event: re})
	}
	for i := range changes {
		items = append(items, Item{Change: &changes[i]})
	}

	// Shootout ordering: every attempt is stamped 0:00, so the report's
	// sequence index is the only trustworthy tie-break there.
	shootoutIdxOnly := meta.Session != model.SessionPlayoffs
	for i := range items {
		it := &items[i]
		if it.Change != nil {
			c := it.Change
			it.Key = model.SortKey{Period: c.Period, Seconds: c.Seconds, Priority: model.Change.Priority(), Index: 100000 + i}
			continue
		}
		e := it.Event
		prio := e.Type.Priority()
		if shootoutIdxOnly && e.Period >= model.ShootoutPeriod {
			prio = 0
		}
		it.Key = model.SortKey{Period: e.Period, Seconds: e.Seconds, Priority: prio, Index: e.SourceIdx}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Key.Less(items[j].Key) })
	return items, nil
}

// lookup finds the machine event matching a report event, applying per-type
// key relaxations. Zero matches is fine (the report event stands alone);
// more than one is fatal.
func lookup(re *model.RawEvent, full, loose map[string][]*model.RawEvent) (*model.RawEvent, error) {
	var cands []*model.RawEvent
	if normalize.NonTeamType(re.Type) {
		cands = loose[looseKey(re.Type, re.Period, re.Seconds, re.Version)]
	} else {
		cands = full[fullKey(re.Type, re.Team, re.Primary().PlayerID, re.Period, re.Seconds, re.Version)]
		// Faceoffs fall back to period+time+version when the primary key
		// finds nothing (jersey misprints on the winner are common).
		if len(cands) == 0 && re.Type == model.Faceoff {
			cands = loose[looseKey(re.Type, re.Period, re.Seconds, re.Version)]
		}
	}
	if re.Type == model.Penalty {
		cands = filterPenalty(re, cands)
	}
	switch len(cands) {
	case 0:
		return nil, nil
	case 1:
		return cands[0], nil
	default:
		return nil, fmt.Errorf("%w: %s at %d/%d v%d (%d candidates)",
			ErrAmbiguousMatch, re.Type, re.Period, re.Seconds, re.Version, len(cands))
	}
}

// filterPenalty keeps only candidates whose secondary/tertiary role ids agree
// with the report's, when both sides name them.
func filterPenalty(re *model.RawEvent, cands []*model.RawEvent) []*model.RawEvent {
	var out []*model.RawEvent
	for _, c := range cands {
		if rolesAgree(re, c, "served_by") && rolesAgree(re, c, "drawn_by") {
			out = append(out, c)
		}
	}
	return out
}

func rolesAgree(a, b *model.RawEvent, role string) bool {
	ra, aok := findRole(a, role)
	rb, bok := findRole(b, role)
	if !aok || !bok {
		return true // one side is silent, no disagreement
	}
	return ra.PlayerID == rb.PlayerID
}

func findRole(e *model.RawEvent, role string) (model.RolePlayer, bool) {
	for _, p := range e.Players {
		if p.Role == role {
			return p, true
		}
	}
	return model.RolePlayer{}, false
}

// mergeMachineFields copies machine-only fields (coordinates, api-side
// numeric ids) onto the matched report event.
func mergeMachineFields(re *model.RawEvent, m *model.RawEvent) {
	if m.HasCoords {
		re.HasCoords = true
		re.X, re.Y = m.X, m.Y
	}
	for i := range re.Players {
		if re.Players[i].APIID != 0 {
			continue
		}
		if mp, ok := findRole(m, re.Players[i].Role); ok {
			re.Players[i].APIID = mp.APIID
		}
	}
	// Roles only the machine feed carries (goalie in net on shots).
	for _, mp := range m.Players {
		if _, ok := findRole(re, mp.Role); !ok && mp.Role == "goalie" {
			re.Players = append(re.Players, mp)
		}
	}
}
