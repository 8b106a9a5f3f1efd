// Package nhl fetches the two per-game source documents: the gamecenter
// play-by-play JSON and the HTML game reports.
package nhl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// ErrBadGameID means the game id failed validation before any network access.
var ErrBadGameID = errors.New("bad game id")

// GameDocs bundles one game's raw source documents.
type GameDocs struct {
	GameID     string
	Season     string // "YYYYYYYY" report-path season
	PlayByPlay []byte // machine feed JSON
	RosterHTML []byte // RO report
	EventsHTML []byte // PL report
	HomeShifts []byte // TH report
	AwayShifts []byte // TV report
}

// Client fetches game documents over one reused session, memoizing by game
// id so derived artifacts sharing roster/shift data never refetch.
type Client struct {
	apiBase     string
	reportsBase string
	httpClient  *http.Client
	log         zerolog.Logger
	memo        map[string]*GameDocs
}

// NewClient builds a client with the given base URLs and request timeout.
func NewClient(apiBase, reportsBase string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		apiBase:     apiBase,
		reportsBase: reportsBase,
		httpClient:  &http.Client{Timeout: timeout},
		log:         log,
		memo:        make(map[string]*GameDocs),
	}
}

// ValidateGameID checks the canonical 10-digit id (SSSSTTNNNN: season year,
// game type, game number) and returns the report-path season string.
func ValidateGameID(gameID string) (season string, err error) {
	if len(gameID) != 10 {
		return "", fmt.Errorf("%w: %q is not 10 digits", ErrBadGameID, gameID)
	}
	for _, c := range gameID {
		if c < '0' || c > '9' {
			return "", fmt.Errorf("%w: %q is not numeric", ErrBadGameID, gameID)
		}
	}
	year := gameID[:4]
	if year < "1917" {
		return "", fmt.Errorf("%w: season %s predates the league", ErrBadGameID, year)
	}
	gameType := gameID[4:6]
	switch gameType {
	case "01", "02", "03", "04":
	default:
		return "", fmt.Errorf("%w: unknown game type %s", ErrBadGameID, gameType)
	}
	next := fmt.Sprintf("%04d", atoi4(year)+1)
	return year + next, nil
}

func atoi4(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}

// FetchGame returns all five documents for a game, from the memo when the
// game was already fetched this run.
func (c *Client) FetchGame(ctx context.Context, gameID string) (*GameDocs, error) {
	if docs, ok := c.memo[gameID]; ok {
		return docs, nil
	}
	season, err := ValidateGameID(gameID)
	if err != nil {
		return nil, err
	}

	docs := &GameDocs{GameID: gameID, Season: season}
	docs.PlayByPlay, err = c.get(ctx, fmt.Sprintf("%s/v1/gamecenter/%s/play-by-play", c.apiBase, gameID))
	if err != nil {
		return nil, fmt.Errorf("fetch play-by-play: %w", err)
	}

	// Report paths key on the season and the id's last six digits.
	tail := gameID[4:]
	reports := []struct {
		code string
		dst  *[]byte
	}{
		{"RO", &docs.RosterHTML},
		{"PL", &docs.EventsHTML},
		{"TH", &docs.HomeShifts},
		{"TV", &docs.AwayShifts},
	}
	for _, r := range reports {
		url := fmt.Sprintf("%s/%s/%s%s.HTM", c.reportsBase, season, r.code, tail)
		*r.dst, err = c.get(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("fetch %s report: %w", r.code, err)
		}
	}

	c.log.Debug().Str("game", gameID).Msg("fetched source documents")
	c.memo[gameID] = docs
	return docs, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusNotFound:
		return nil, fmt.Errorf("nhl: %s not found", url)
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return nil, fmt.Errorf("nhl: rate limited fetching %s, wait a moment and retry", url)
	default:
		snippet := string(body)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return nil, fmt.Errorf("nhl: HTTP %d: %s", resp.StatusCode, snippet)
	}
}
