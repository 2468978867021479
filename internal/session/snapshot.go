package session

import (
	"github.com/robalobadob/wordleclone/internal/game"
	"github.com/robalobadob/wordleclone/internal/stats"
)

// Snapshot is a read-only view of a Game for rendering.
// The target is only revealed once the game is over.
type Snapshot struct {
	GameID  string                                 `json:"gameId"`
	Mode    string                                 `json:"mode"`
	Board   [game.MaxGuesses]game.EvaluationResult `json:"board"`
	Row     int                                    `json:"row"`
	Col     int                                    `json:"col"`
	Current string                                 `json:"current"`
	State   game.Phase                             `json:"state"`
	Keys    map[string]game.LetterStatus           `json:"keys"`
	Message string                                 `json:"message,omitempty"`
	Target  string                                 `json:"target,omitempty"`
	Stats   *stats.Stats                           `json:"stats,omitempty"`
}

// Snapshot returns the current view.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

func (g *Game) snapshotLocked() Snapshot {
	s := Snapshot{
		GameID:  g.ID,
		Mode:    g.opts.Mode,
		Board:   g.state.Board,
		Row:     g.state.Row,
		Col:     g.state.Col,
		Current: g.state.Current(),
		State:   g.state.Phase,
		Keys:    g.state.Keys.Map(),
		Message: g.message,
	}
	if g.state.Phase.Terminal() {
		s.Target = g.state.Target.String()
		if g.stats != nil {
			st := *g.stats
			s.Stats = &st
		}
	}
	return s
}
