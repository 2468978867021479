// internal/stats/stats.go
//
// Player statistics: one record per player, updated once per finished game.
//
// The record is a flat key-value set (games_played, wins_1..wins_6,
// max_streak, cur_streak, best_time, total_time, total_wins) so that it maps
// onto any preference-style store. Best time is optional: nil until the
// first win.
package stats

import (
	"context"
	"fmt"

	"github.com/robalobadob/wordleclone/internal/game"
)

// Stats is a player's aggregate record.
type Stats struct {
	GamesPlayed      int                  `json:"gamesPlayed"`
	WinDistribution  [game.MaxGuesses]int `json:"winDistribution"` // index i = wins in i+1 guesses
	CurrentStreak    int                  `json:"currentStreak"`
	MaxStreak        int                  `json:"maxStreak"`
	BestTimeSeconds  *int64               `json:"bestTimeSeconds"`
	TotalTimeSeconds int64                `json:"totalTimeSeconds"`
	TotalWins        int                  `json:"totalWins"`
}

// Result is the outcome of one finished game.
type Result struct {
	Won     bool
	Guesses int
	Seconds int64
}

// Apply returns s updated with r.
func (s Stats) Apply(r Result) Stats {
	s.GamesPlayed++
	if !r.Won {
		s.CurrentStreak = 0
		return s
	}

	s.WinDistribution[distIndex(r.Guesses)]++
	s.TotalWins++
	s.CurrentStreak++
	s.MaxStreak = max(s.MaxStreak, s.CurrentStreak)
	s.TotalTimeSeconds += r.Seconds
	if s.BestTimeSeconds == nil || r.Seconds < *s.BestTimeSeconds {
		best := r.Seconds
		s.BestTimeSeconds = &best
	}
	return s
}

// WinPercent is the integer percentage of games won; 0 with no games.
func (s Stats) WinPercent() int {
	if s.GamesPlayed == 0 {
		return 0
	}
	return s.TotalWins * 100 / s.GamesPlayed
}

// AverageTime is the mean completion time of wins in seconds; 0 with no wins.
func (s Stats) AverageTime() int64 {
	if s.TotalWins == 0 {
		return 0
	}
	return s.TotalTimeSeconds / int64(s.TotalWins)
}

// distIndex maps a guess count to its distribution slot, clamped to 0..5.
func distIndex(guesses int) int {
	return min(max(guesses, 1), game.MaxGuesses) - 1
}

// Store persists Stats per player.
// Implementations may be backed by memory (this package) or SQLite.
type Store interface {
	// Load returns the player's record; an unknown player has a zero record.
	Load(ctx context.Context, playerID string) (Stats, error)

	// Record applies r to the player's record atomically and returns the new record.
	Record(ctx context.Context, playerID string, r Result) (Stats, error)
}

// Preference keys.
const (
	keyGamesPlayed = "games_played"
	keyMaxStreak   = "max_streak"
	keyCurStreak   = "cur_streak"
	keyBestTime    = "best_time"
	keyTotalTime   = "total_time"
	keyTotalWins   = "total_wins"
)

func winKey(i int) string { return fmt.Sprintf("wins_%d", i+1) }

// toPrefs flattens s into key-value pairs. best_time is omitted when unset.
func (s Stats) toPrefs() map[string]int64 {
	p := map[string]int64{
		keyGamesPlayed: int64(s.GamesPlayed),
		keyMaxStreak:   int64(s.MaxStreak),
		keyCurStreak:   int64(s.CurrentStreak),
		keyTotalTime:   s.TotalTimeSeconds,
		keyTotalWins:   int64(s.TotalWins),
	}
	for i, n := range s.WinDistribution {
		p[winKey(i)] = int64(n)
	}
	if s.BestTimeSeconds != nil {
		p[keyBestTime] = *s.BestTimeSeconds
	}
	return p
}

// fromPrefs is the inverse of toPrefs; missing keys read as zero / unset.
func fromPrefs(p map[string]int64) Stats {
	s := Stats{
		GamesPlayed:      int(p[keyGamesPlayed]),
		MaxStreak:        int(p[keyMaxStreak]),
		CurrentStreak:    int(p[keyCurStreak]),
		TotalTimeSeconds: p[keyTotalTime],
		TotalWins:        int(p[keyTotalWins]),
	}
	for i := range s.WinDistribution {
		s.WinDistribution[i] = int(p[winKey(i)])
	}
	if v, ok := p[keyBestTime]; ok {
		s.BestTimeSeconds = &v
	}
	return s
}
