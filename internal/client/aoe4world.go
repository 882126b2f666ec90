package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"aoe4stats/ingestion/internal/metrics"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultBaseURL is the AoE4 World public API root
	DefaultBaseURL = "https://aoe4world.com/api/v0"

	// DefaultRateLimitDelay is the minimum gap between two requests
	DefaultRateLimitDelay = 500 * time.Millisecond

	// MaxPageSize is the largest page the leaderboard endpoint serves
	MaxPageSize = 200

	userAgent = "AoE4-Stats-Integration/1.0"
)

// Leaderboards lists every ranked leaderboard synced by default
var Leaderboards = []string{"rm_solo", "rm_team", "rm_1v1", "rm_2v2", "rm_3v3", "rm_4v4"}

// RankLevels lists every rank tier synced by default
var RankLevels = []string{"all", "bronze", "silver", "gold", "platinum", "diamond", "conqueror"}

// RequestError is returned for any non-2xx response
type RequestError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *RequestError) Error() string {
	if e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden {
		return fmt.Sprintf("API authentication failed (status %d) for %s: %s", e.StatusCode, e.URL, e.Body)
	}
	return fmt.Sprintf("API returned status %d for %s: %s", e.StatusCode, e.URL, e.Body)
}

// Client is the AoE4 World API client.
//
// A Client is not safe for concurrent use: the rate limiter keeps the end time
// of the previous request on the instance.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	rateLimitDelay time.Duration
	lastRequest    time.Time
}

// NewClient creates a new AoE4 World API client
func NewClient(baseURL string, timeout, rateLimitDelay time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if rateLimitDelay < 0 {
		rateLimitDelay = 0
	}

	return &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		rateLimitDelay: rateLimitDelay,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// waitForRateLimit sleeps until rateLimitDelay has passed since the previous request ended
func (c *Client) waitForRateLimit(ctx context.Context) error {
	if c.rateLimitDelay == 0 || c.lastRequest.IsZero() {
		return nil
	}

	wait := c.rateLimitDelay - time.Since(c.lastRequest)
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	metrics.RecordRateLimitWait(wait.Seconds())
	return nil
}

// get performs a rate limited GET request against the API and returns the raw body.
// Failures are returned to the caller immediately; nothing is retried.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if err := c.waitForRateLimit(ctx); err != nil {
		return nil, err
	}
	defer func() { c.lastRequest = time.Now() }()

	reqURL := c.baseURL + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	log.Debug().
		Str("url", reqURL).
		Str("method", req.Method).
		Msg("Making API request")

	label := endpointLabel(endpoint)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordAPICall(label, "transport_error", time.Since(start).Seconds())
		return nil, fmt.Errorf("API request to %s failed: %w", reqURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	metrics.RecordAPICall(label, strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RequestError{
			StatusCode: resp.StatusCode,
			URL:        reqURL,
			Body:       truncate(string(body), 512),
		}
	}

	log.Debug().
		Str("url", reqURL).
		Int("status", resp.StatusCode).
		Int("size", len(body)).
		Msg("API request successful")

	return body, nil
}

// getJSON performs get and decodes the body into out
func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	body, err := c.get(ctx, endpoint, params)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s response: %w", endpoint, err)
	}

	return nil
}

// GetCivStats fetches per-civilization win and pick rates for one leaderboard and rank tier
func (c *Client) GetCivStats(ctx context.Context, leaderboard, rankLevel string) ([]CivStat, error) {
	params := url.Values{}
	params.Set("rank_level", rankLevel)

	var resp StatsResponse
	if err := c.getJSON(ctx, "/stats/"+url.PathEscape(leaderboard), params, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch civ stats %s/%s: %w", leaderboard, rankLevel, err)
	}

	return resp.Civilizations, nil
}

// GetAllCivStats fetches civ stats for every leaderboard and rank tier.
// A failing pair is logged and skipped; it never aborts the remaining pairs.
func (c *Client) GetAllCivStats(ctx context.Context) []TaggedCivStat {
	var all []TaggedCivStat

	for _, leaderboard := range Leaderboards {
		for _, rankLevel := range RankLevels {
			stats, err := c.GetCivStats(ctx, leaderboard, rankLevel)
			if err != nil {
				log.Error().
					Err(err).
					Str("leaderboard", leaderboard).
					Str("rank_level", rankLevel).
					Msg("Failed to fetch civ stats, skipping")
				continue
			}

			fetchedAt := time.Now().UTC()
			for _, stat := range stats {
				all = append(all, TaggedCivStat{
					CivStat:     stat,
					Leaderboard: leaderboard,
					RankLevel:   rankLevel,
					FetchedAt:   fetchedAt,
				})
			}
		}
	}

	return all
}

// GetLeaderboard fetches one page of a leaderboard. count must be positive and
// is capped at MaxPageSize.
func (c *Client) GetLeaderboard(ctx context.Context, leaderboard string, count, page int) (*LeaderboardPage, error) {
	if count < 1 {
		return nil, fmt.Errorf("failed to fetch leaderboard %s: count must be positive, got %d", leaderboard, count)
	}
	if count > MaxPageSize {
		count = MaxPageSize
	}
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("count", strconv.Itoa(count))
	params.Set("page", strconv.Itoa(page))

	var resp LeaderboardPage
	if err := c.getJSON(ctx, "/leaderboards/"+url.PathEscape(leaderboard), params, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard %s: %w", leaderboard, err)
	}

	return &resp, nil
}

// GetTopPlayers fetches the first page of a leaderboard, tagging each player with
// the leaderboard and fetch time
func (c *Client) GetTopPlayers(ctx context.Context, leaderboard string, count int) ([]LeaderboardPlayer, error) {
	page, err := c.GetLeaderboard(ctx, leaderboard, count, 1)
	if err != nil {
		return nil, err
	}

	fetchedAt := time.Now().UTC()
	players := page.Players
	for i := range players {
		players[i].Leaderboard = leaderboard
		players[i].FetchedAt = fetchedAt
	}

	return players, nil
}

// GetPlayer fetches a player profile
func (c *Client) GetPlayer(ctx context.Context, playerID int64) (*PlayerProfile, error) {
	var profile PlayerProfile
	if err := c.getJSON(ctx, fmt.Sprintf("/players/%d", playerID), nil, &profile); err != nil {
		return nil, fmt.Errorf("failed to fetch player %d: %w", playerID, err)
	}

	return &profile, nil
}

// SearchPlayers searches players by name substring
func (c *Client) SearchPlayers(ctx context.Context, query string) ([]PlayerSummary, error) {
	params := url.Values{}
	params.Set("query", query)

	var resp PlayerSearchResponse
	if err := c.getJSON(ctx, "/players/search", params, &resp); err != nil {
		return nil, fmt.Errorf("failed to search players %q: %w", query, err)
	}

	return resp.Players, nil
}

// GetPlayerGames fetches one page of a player's recent games
func (c *Client) GetPlayerGames(ctx context.Context, playerID int64, count, page int) ([]Game, error) {
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("count", strconv.Itoa(count))
	params.Set("page", strconv.Itoa(page))

	var resp GamesResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/players/%d/games", playerID), params, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch games for player %d: %w", playerID, err)
	}

	return resp.Games, nil
}

// GetGame fetches a single game by ID
func (c *Client) GetGame(ctx context.Context, gameID int64) (*Game, error) {
	var game Game
	if err := c.getJSON(ctx, fmt.Sprintf("/games/%d", gameID), nil, &game); err != nil {
		return nil, fmt.Errorf("failed to fetch game %d: %w", gameID, err)
	}

	return &game, nil
}

// GetMapStats fetches per-map statistics for a leaderboard
func (c *Client) GetMapStats(ctx context.Context, leaderboard string) ([]MapStat, error) {
	var resp MapStatsResponse
	if err := c.getJSON(ctx, "/stats/"+url.PathEscape(leaderboard)+"/maps", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch map stats %s: %w", leaderboard, err)
	}

	return resp.Maps, nil
}

// endpointLabel reduces a path to a low-cardinality metrics label
func endpointLabel(endpoint string) string {
	parts := strings.Split(strings.Trim(endpoint, "/"), "/")
	switch {
	case len(parts) == 0 || parts[0] == "":
		return "root"
	case parts[0] == "stats" && len(parts) == 3:
		return "stats_maps"
	case parts[0] == "players" && len(parts) == 2 && parts[1] == "search":
		return "players_search"
	case parts[0] == "players" && len(parts) == 3:
		return "players_games"
	default:
		return parts[0]
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
