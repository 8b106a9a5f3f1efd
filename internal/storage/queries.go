package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/pable/go-nhl-metrics/internal/model"
)

// GameExists returns true if a game with the given id is already stored.
func (db *DB) GameExists(gameID string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM games WHERE game_id = ?", gameID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertGame inserts a game header. Uses INSERT OR REPLACE for idempotency.
func (db *DB) InsertGame(summary model.GameSummary) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO games(game_id, season, session, game_date, home_team, away_team, home_score, away_score, event_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.GameID, summary.Season, summary.Session, summary.Date,
		summary.HomeTeam, summary.AwayTeam,
		summary.HomeScore, summary.AwayScore, summary.Events,
	)
	return err
}

// InsertEvents bulk-inserts the canonical timeline in a transaction.
func (db *DB) InsertEvents(events []model.CanonicalEvent) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO events(
			game_id, period, period_seconds, game_seconds, priority, seq,
			event_type, version, event_team, opp_team, venue,
			p1, p1_role, p2, p2_role, p3, p3_role,
			score_state, strength_state, home_score, away_score,
			teammates, opponents, own_goalie, opp_goalie,
			has_coords, x, y, dist_ft, angle_deg, danger, high_danger,
			zone_start, pred_goal, description
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range events {
		ev := &events[i]
		var ids, roles [3]string
		for j := 0; j < 3 && j < len(ev.Players); j++ {
			ids[j] = ev.Players[j].PlayerID
			roles[j] = ev.Players[j].Role
		}
		_, err = stmt.Exec(
			ev.GameID, ev.Period, ev.Seconds, ev.GameSec, ev.Key.Priority, ev.Key.Index,
			string(ev.Type), ev.Version, ev.Team, ev.OppTeam, ev.Venue.String(),
			ids[0], roles[0], ids[1], roles[1], ids[2], roles[2],
			ev.ScoreState, ev.StrengthState, ev.HomeScore, ev.AwayScore,
			strings.Join(ev.Teammates, ","), strings.Join(ev.Opponents, ","),
			ev.OwnGoalie, ev.OppGoalie,
			boolInt(ev.HasCoords), ev.X, ev.Y, ev.DistFt, ev.AngleDeg,
			boolInt(ev.Danger), boolInt(ev.HighDanger),
			ev.ZoneStart, ev.PredGoal, ev.Description,
		)
		if err != nil {
			return fmt.Errorf("insert event %s/%d/%d: %w", ev.GameID, ev.Period, ev.Key.Index, err)
		}
	}
	return tx.Commit()
}

// InsertPlayerGameStats bulk-inserts per-player stat lines in a transaction.
func (db *DB) InsertPlayerGameStats(stats []model.PlayerGameStats) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO player_game_stats(
			game_id, player_id, name, team, position,
			goals, primary_assists, secondary_assists,
			shots, icf, iff, ixg,
			cf, ca, xgf, xga, gf, ga,
			faceoff_wins, faceoff_losses,
			hits_given, hits_taken, giveaways, takeaways, blocks, pim
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range stats {
		_, err = stmt.Exec(
			s.GameID, s.PlayerID, s.Name, s.Team, s.Position,
			s.Goals, s.PrimaryAssists, s.SecondaryAssists,
			s.Shots, s.ICF, s.IFF, s.IxG,
			s.CF, s.CA, s.XGF, s.XGA, s.GF, s.GA,
			s.FaceoffWins, s.FaceoffLosses,
			s.HitsGiven, s.HitsTaken, s.Giveaways, s.Takeaways, s.Blocks, s.PIM,
		)
		if err != nil {
			return fmt.Errorf("insert player_game_stats for %s: %w", s.PlayerID, err)
		}
	}
	return tx.Commit()
}

// ListGames returns all stored game summaries ordered by date descending.
func (db *DB) ListGames() ([]model.GameSummary, error) {
	rows, err := db.conn.Query(`
		SELECT game_id, season, session, game_date, home_team, away_team, home_score, away_score, event_count
		FROM games ORDER BY game_date DESC, game_id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.GameSummary
	for rows.Next() {
		var s model.GameSummary
		if err := rows.Scan(&s.GameID, &s.Season, &s.Session, &s.Date,
			&s.HomeTeam, &s.AwayTeam, &s.HomeScore, &s.AwayScore, &s.Events); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetGame returns the stored summary for a game id, or nil when absent.
func (db *DB) GetGame(gameID string) (*model.GameSummary, error) {
	var s model.GameSummary
	err := db.conn.QueryRow(`
		SELECT game_id, season, session, game_date, home_team, away_team, home_score, away_score, event_count
		FROM games WHERE game_id = ?`, gameID).
		Scan(&s.GameID, &s.Season, &s.Session, &s.Date,
			&s.HomeTeam, &s.AwayTeam, &s.HomeScore, &s.AwayScore, &s.Events)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetPlayerGameStats returns all player stat lines for a game, scorers first.
func (db *DB) GetPlayerGameStats(gameID string) ([]model.PlayerGameStats, error) {
	rows, err := db.conn.Query(`
		SELECT player_id, name, team, position,
		       goals, primary_assists, secondary_assists,
		       shots, icf, iff, ixg,
		       cf, ca, xgf, xga, gf, ga,
		       faceoff_wins, faceoff_losses,
		       hits_given, hits_taken, giveaways, takeaways, blocks, pim
		FROM player_game_stats WHERE game_id = ?
		ORDER BY goals + primary_assists + secondary_assists DESC, ixg DESC`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerGameStats
	for rows.Next() {
		var s model.PlayerGameStats
		if err := rows.Scan(
			&s.PlayerID, &s.Name, &s.Team, &s.Position,
			&s.Goals, &s.PrimaryAssists, &s.SecondaryAssists,
			&s.Shots, &s.ICF, &s.IFF, &s.IxG,
			&s.CF, &s.CA, &s.XGF, &s.XGA, &s.GF, &s.GA,
			&s.FaceoffWins, &s.FaceoffLosses,
			&s.HitsGiven, &s.HitsTaken, &s.Giveaways, &s.Takeaways, &s.Blocks, &s.PIM,
		); err != nil {
			return nil, err
		}
		s.GameID = gameID
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetEvents returns the stored canonical timeline for a game in play order.
// Only the columns needed by the show command are rehydrated.
func (db *DB) GetEvents(gameID string) ([]model.CanonicalEvent, error) {
	rows, err := db.conn.Query(`
		SELECT period, period_seconds, game_seconds, priority, seq,
		       event_type, version, event_team, opp_team,
		       p1, p1_role, p2, p2_role, p3, p3_role,
		       score_state, strength_state, home_score, away_score,
		       teammates, opponents, own_goalie, opp_goalie,
		       has_coords, x, y, dist_ft, angle_deg, danger, high_danger,
		       zone_start, pred_goal, description
		FROM events WHERE game_id = ?
		ORDER BY period, period_seconds, priority, seq`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CanonicalEvent
	for rows.Next() {
		var ev model.CanonicalEvent
		var typ, mates, opps string
		var ids, roles [3]string
		var coordsInt, dangerInt, highInt int
		if err := rows.Scan(
			&ev.Period, &ev.Seconds, &ev.GameSec, &ev.Key.Priority, &ev.Key.Index,
			&typ, &ev.Version, &ev.Team, &ev.OppTeam,
			&ids[0], &roles[0], &ids[1], &roles[1], &ids[2], &roles[2],
			&ev.ScoreState, &ev.StrengthState, &ev.HomeScore, &ev.AwayScore,
			&mates, &opps, &ev.OwnGoalie, &ev.OppGoalie,
			&coordsInt, &ev.X, &ev.Y, &ev.DistFt, &ev.AngleDeg, &dangerInt, &highInt,
			&ev.ZoneStart, &ev.PredGoal, &ev.Description,
		); err != nil {
			return nil, err
		}
		ev.GameID = gameID
		ev.Type = model.EventType(typ)
		ev.Key.Period = ev.Period
		ev.Key.Seconds = ev.Seconds
		for j := 0; j < 3; j++ {
			if ids[j] == "" {
				break
			}
			ev.Players = append(ev.Players, model.RolePlayer{Role: roles[j], PlayerID: ids[j]})
		}
		if mates != "" {
			ev.Teammates = strings.Split(mates, ",")
		}
		if opps != "" {
			ev.Opponents = strings.Split(opps, ",")
		}
		ev.HasCoords = coordsInt != 0
		ev.Danger = dangerInt != 0
		ev.HighDanger = highInt != 0
		out = append(out, ev)
	}
	return out, rows.Err()
}

// GetPlayerAggregates sums every stored stat line per player across games,
// ordered by points then expected goals.
func (db *DB) GetPlayerAggregates() ([]model.PlayerAggregate, error) {
	rows, err := db.conn.Query(`
		SELECT player_id, MAX(name), MAX(team), COUNT(1),
		       SUM(goals), SUM(primary_assists), SUM(secondary_assists),
		       SUM(shots), SUM(icf), SUM(iff), SUM(ixg),
		       SUM(cf), SUM(ca), SUM(xgf), SUM(xga), SUM(gf), SUM(ga),
		       SUM(faceoff_wins), SUM(faceoff_losses),
		       SUM(hits_given), SUM(hits_taken),
		       SUM(giveaways), SUM(takeaways), SUM(blocks), SUM(pim)
		FROM player_game_stats
		GROUP BY player_id
		ORDER BY SUM(goals + primary_assists + secondary_assists) DESC, SUM(ixg) DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerAggregate
	for rows.Next() {
		var a model.PlayerAggregate
		if err := rows.Scan(
			&a.PlayerID, &a.Name, &a.Team, &a.Games,
			&a.Goals, &a.PrimaryAssists, &a.SecondaryAssists,
			&a.Shots, &a.ICF, &a.IFF, &a.IxG,
			&a.CF, &a.CA, &a.XGF, &a.XGA, &a.GF, &a.GA,
			&a.FaceoffWins, &a.FaceoffLosses,
			&a.HitsGiven, &a.HitsTaken,
			&a.Giveaways, &a.Takeaways, &a.Blocks, &a.PIM,
		); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
