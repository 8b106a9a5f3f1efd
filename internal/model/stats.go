package model

// ---- Aggregated metrics ----

// PlayerGameStats is one player's stat line for one game, summed from
// canonical events.
type PlayerGameStats struct {
	GameID   string
	PlayerID string
	Name     string
	Team     string
	Position string

	Goals            int
	PrimaryAssists   int
	SecondaryAssists int

	Shots int // on goal, including goals
	ICF   int // individual Corsi (all attempts)
	IFF   int // individual Fenwick (unblocked attempts)
	IxG   float64

	// On-ice, all strengths.
	CF, CA   int
	XGF, XGA float64
	GF, GA   int

	FaceoffWins   int
	FaceoffLosses int

	HitsGiven int
	HitsTaken int
	Giveaways int
	Takeaways int
	Blocks    int
	PIM       int
}

// Points is goals plus all assists.
func (s *PlayerGameStats) Points() int {
	return s.Goals + s.PrimaryAssists + s.SecondaryAssists
}

// CFPct is the on-ice Corsi share, 0 when no attempts were observed.
func (s *PlayerGameStats) CFPct() float64 {
	if s.CF+s.CA == 0 {
		return 0
	}
	return float64(s.CF) / float64(s.CF+s.CA) * 100
}

// FaceoffPct is the faceoff win share, 0 when no draws were taken.
func (s *PlayerGameStats) FaceoffPct() float64 {
	if s.FaceoffWins+s.FaceoffLosses == 0 {
		return 0
	}
	return float64(s.FaceoffWins) / float64(s.FaceoffWins+s.FaceoffLosses) * 100
}

// PlayerAggregate holds one player's stats summed across all stored games.
type PlayerAggregate struct {
	PlayerID string
	Name     string
	Team     string
	Games    int

	Goals, PrimaryAssists, SecondaryAssists int
	Shots, ICF, IFF                         int
	IxG                                     float64
	CF, CA                                  int
	XGF, XGA                                float64
	GF, GA                                  int
	FaceoffWins, FaceoffLosses              int
	HitsGiven, HitsTaken                    int
	Giveaways, Takeaways, Blocks, PIM       int
}

// Points is goals plus all assists.
func (a *PlayerAggregate) Points() int {
	return a.Goals + a.PrimaryAssists + a.SecondaryAssists
}

// CFPct is the on-ice Corsi share across all games.
func (a *PlayerAggregate) CFPct() float64 {
	if a.CF+a.CA == 0 {
		return 0
	}
	return float64(a.CF) / float64(a.CF+a.CA) * 100
}

// GameSummary is a lightweight record for list/show commands.
type GameSummary struct {
	GameID    string
	Season    string
	Session   string
	Date      string
	HomeTeam  string
	AwayTeam  string
	HomeScore int
	AwayScore int
	Events    int
}
