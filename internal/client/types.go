package client

import "time"

// CivStat is one civilization row of a /stats/{leaderboard} response
type CivStat struct {
	CivSlug    string  `json:"civ_slug"`
	CivName    string  `json:"civ_name"`
	WinRate    float64 `json:"win_rate"`
	PickRate   float64 `json:"pick_rate"`
	GamesCount int     `json:"games_count"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
}

// StatsResponse wraps the civilizations list returned by /stats/{leaderboard}
type StatsResponse struct {
	Leaderboard   string    `json:"leaderboard"`
	RankLevel     string    `json:"rank_level"`
	Civilizations []CivStat `json:"civilizations"`
}

// TaggedCivStat is a CivStat annotated with where and when it was fetched
type TaggedCivStat struct {
	CivStat
	Leaderboard string
	RankLevel   string
	FetchedAt   time.Time
}

// LeaderboardPlayer is one entry of a leaderboard page
type LeaderboardPlayer struct {
	ProfileID  int64   `json:"profile_id"`
	Name       string  `json:"name"`
	Rank       int     `json:"rank"`
	Rating     int     `json:"rating"`
	GamesCount int     `json:"games_count"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	WinRate    float64 `json:"win_rate"`
	Country    string  `json:"country"`

	// Set by GetTopPlayers, not part of the payload
	Leaderboard string    `json:"-"`
	FetchedAt   time.Time `json:"-"`
}

// LeaderboardPage is the paginated /leaderboards/{leaderboard} response
type LeaderboardPage struct {
	Page       int                 `json:"page"`
	PerPage    int                 `json:"per_page"`
	Count      int                 `json:"count"`
	TotalCount int                 `json:"total_count"`
	Players    []LeaderboardPlayer `json:"players"`
}

// ModeStats is a player's standing in one leaderboard
type ModeStats struct {
	Rating      int     `json:"rating"`
	Rank        int     `json:"rank"`
	RankLevel   string  `json:"rank_level"`
	WinRate     float64 `json:"win_rate"`
	GamesCount  int     `json:"games_count"`
	WinsCount   int     `json:"wins_count"`
	LossesCount int     `json:"losses_count"`
}

// PlayerProfile is the /players/{id} response
type PlayerProfile struct {
	ProfileID int64                `json:"profile_id"`
	Name      string               `json:"name"`
	SteamID   string               `json:"steam_id"`
	Country   string               `json:"country"`
	SiteURL   string               `json:"site_url"`
	Modes     map[string]ModeStats `json:"modes"`
}

// PlayerSummary is one result of a player search
type PlayerSummary struct {
	ProfileID  int64  `json:"profile_id"`
	Name       string `json:"name"`
	Country    string `json:"country"`
	LastGameAt string `json:"last_game_at"`
}

// PlayerSearchResponse wraps /players/search results
type PlayerSearchResponse struct {
	Query   string          `json:"query"`
	Players []PlayerSummary `json:"players"`
}

// GamePlayer is one participant of a game
type GamePlayer struct {
	ProfileID    int64  `json:"profile_id"`
	Name         string `json:"name"`
	Civilization string `json:"civilization"`
	Result       string `json:"result"`
	Rating       int    `json:"rating"`
	RatingDiff   int    `json:"rating_diff"`
}

// TeamMember wraps a GamePlayer the way the API nests it inside teams
type TeamMember struct {
	Player GamePlayer `json:"player"`
}

// Game is a single match
type Game struct {
	GameID      int64          `json:"game_id"`
	StartedAt   string         `json:"started_at"`
	UpdatedAt   string         `json:"updated_at"`
	Duration    int            `json:"duration"`
	Map         string         `json:"map"`
	Kind        string         `json:"kind"`
	Leaderboard string         `json:"leaderboard"`
	Server      string         `json:"server"`
	Teams       [][]TeamMember `json:"teams"`
}

// GamesResponse wraps /players/{id}/games
type GamesResponse struct {
	Page    int    `json:"page"`
	PerPage int    `json:"per_page"`
	Games   []Game `json:"games"`
}

// MapStat is one row of /stats/{leaderboard}/maps
type MapStat struct {
	MapID      int     `json:"map_id"`
	Map        string  `json:"map"`
	GamesCount int     `json:"games_count"`
	PickRate   float64 `json:"pick_rate"`
}

// MapStatsResponse wraps the maps list
type MapStatsResponse struct {
	Maps []MapStat `json:"maps"`
}
