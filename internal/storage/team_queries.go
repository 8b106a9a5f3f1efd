package storage

import (
	"database/sql"
	"fmt"
	"strings"
)

// TeamRecord holds a team's win/loss record and goal totals across stored games.
type TeamRecord struct {
	Team         string
	Games        int
	Wins         int
	Losses       int
	GoalsFor     int
	GoalsAgainst int
}

// TeamGameRef is a lightweight game row for team-filtered listings.
type TeamGameRef struct {
	GameID    string
	Date      string
	HomeTeam  string
	AwayTeam  string
	HomeScore int
	AwayScore int
}

// GetTeamRecords sums each team's record over every stored game, home and away
// sides combined, ordered by wins descending.
func (db *DB) GetTeamRecords() ([]TeamRecord, error) {
	rows, err := db.conn.Query(`
		SELECT team, COUNT(1), SUM(win), SUM(gf), SUM(ga)
		FROM (
			SELECT home_team AS team,
			       CASE WHEN home_score > away_score THEN 1 ELSE 0 END AS win,
			       home_score AS gf, away_score AS ga
			FROM games
			UNION ALL
			SELECT away_team,
			       CASE WHEN away_score > home_score THEN 1 ELSE 0 END,
			       away_score, home_score
			FROM games
		)
		GROUP BY team
		ORDER BY SUM(win) DESC, team`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TeamRecord
	for rows.Next() {
		var r TeamRecord
		if err := rows.Scan(&r.Team, &r.Games, &r.Wins, &r.GoalsFor, &r.GoalsAgainst); err != nil {
			return nil, err
		}
		r.Losses = r.Games - r.Wins
		out = append(out, r)
	}
	return out, rows.Err()
}

// GamesForTeams returns stored games involving any of the given team codes,
// newest first. An empty filter returns every game.
func (db *DB) GamesForTeams(teams []string) ([]TeamGameRef, error) {
	query := `
		SELECT game_id, game_date, home_team, away_team, home_score, away_score
		FROM games`
	var args []interface{}
	if len(teams) > 0 {
		ph := placeholders(len(teams))
		query += fmt.Sprintf(" WHERE home_team IN (%s) OR away_team IN (%s)", ph, ph)
		for _, t := range teams {
			args = append(args, t)
		}
		for _, t := range teams {
			args = append(args, t)
		}
	}
	query += " ORDER BY game_date DESC, game_id DESC"

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	return scanGameRefs(rows)
}

func scanGameRefs(rows *sql.Rows) ([]TeamGameRef, error) {
	defer rows.Close()
	var out []TeamGameRef
	for rows.Next() {
		var r TeamGameRef
		if err := rows.Scan(&r.GameID, &r.Date, &r.HomeTeam, &r.AwayTeam, &r.HomeScore, &r.AwayScore); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
