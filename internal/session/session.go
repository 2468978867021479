// internal/session/session.go
//
// Game is the controller that sits between an input surface (HTTP, CLI)
// and the pure game reducer.
// Responsibilities:
//   - Own one game.State and swap it atomically per key event.
//   - Raise a transient user-facing message on rejected submissions and
//     clear it after MessageTTL.
//   - Record the player's statistics exactly once when the game ends.
//   - Notify finish hooks (daily results) with the outcome.
//
// All mutations happen under one mutex; the only asynchronous piece is the
// message-clear timer.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordleclone/internal/game"
	"github.com/robalobadob/wordleclone/internal/stats"
)

// DefaultMessageTTL is how long a rejection message stays visible.
const DefaultMessageTTL = 2 * time.Second

// User-facing messages for rejected submissions.
const (
	MsgIncomplete = "Not enough letters"
	MsgNotAWord   = "Not in word list"
)

// Message returns the user-facing text for a reducer error, or "".
func Message(err error) string {
	switch {
	case errors.Is(err, game.ErrIncompleteGuess):
		return MsgIncomplete
	case errors.Is(err, game.ErrNotInWordList):
		return MsgNotAWord
	}
	return ""
}

// Finished describes a game that has just ended.
type Finished struct {
	GameID   string
	PlayerID string
	Mode     string
	Target   string
	Won      bool
	Guesses  int
	Elapsed  time.Duration
}

// Options configures a Game. Zero values fall back to sane defaults.
type Options struct {
	PlayerID   string
	Mode       string // "random" or "daily"; informational
	Stats      stats.Store
	MessageTTL time.Duration
	Now        func() time.Time
	OnFinish   func(ctx context.Context, f Finished)
}

// Game is one player's board plus its presentation state.
type Game struct {
	ID string

	dict game.Dictionary
	opts Options

	mu         sync.Mutex
	state      game.State
	startedAt  time.Time
	lastActive time.Time
	message    string
	msgSeq     uint64
	msgTimer   *time.Timer
	recorded   bool
	stats      *stats.Stats
}

// New starts a game for target.
func New(dict game.Dictionary, target game.Guess, opts Options) *Game {
	if opts.MessageTTL <= 0 {
		opts.MessageTTL = DefaultMessageTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Mode == "" {
		opts.Mode = "random"
	}
	g := &Game{ID: uuid.NewString(), dict: dict, opts: opts}
	g.reset(target)
	return g
}

// PlayerID returns the owner of the game.
func (g *Game) PlayerID() string { return g.opts.PlayerID }

// Restart begins a fresh board with a new target.
func (g *Game) Restart(target game.Guess) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reset(target)
	log.Debug().Str("gameId", g.ID).Msg("game restarted")
}

func (g *Game) reset(target game.Guess) {
	g.state = game.New(target)
	g.startedAt = g.opts.Now()
	g.lastActive = g.startedAt
	g.recorded = false
	g.stats = nil
	g.clearMessageLocked()
}

// Key applies one logical key event. A rejected submission returns the
// reducer error together with a snapshot carrying the transient message.
func (g *Game) Key(ctx context.Context, ev game.Event) (Snapshot, error) {
	return g.apply(ctx, func(game.State) []game.Event { return []game.Event{ev} })
}

// Type sends every letter of word followed by submit, stopping at the first error.
func (g *Game) Type(ctx context.Context, word string) (Snapshot, error) {
	return g.apply(ctx, func(game.State) []game.Event { return game.TypeWord(word) })
}

// Guess clears any partially typed row, then types word and submits it.
// The whole sequence runs under one lock, so concurrent guesses never mix letters.
func (g *Game) Guess(ctx context.Context, word string) (Snapshot, error) {
	return g.apply(ctx, func(s game.State) []game.Event {
		evs := make([]game.Event, 0, s.Col+len(word)+1)
		for i := 0; i < s.Col; i++ {
			evs = append(evs, game.Delete())
		}
		return append(evs, game.TypeWord(word)...)
	})
}

// apply folds the events built from the current state. Events before a
// rejected one stay applied.
func (g *Game) apply(ctx context.Context, build func(game.State) []game.Event) (Snapshot, error) {
	g.mu.Lock()
	g.lastActive = g.opts.Now()

	wasDone := g.state.Phase.Terminal()
	next, err := game.ApplyAll(g.state, g.dict, build(g.state)...)
	g.state = next
	if err != nil {
		if msg := Message(err); msg != "" {
			g.raiseLocked(msg)
		}
		snap := g.snapshotLocked()
		g.mu.Unlock()
		return snap, err
	}

	var fin *Finished
	if !wasDone && next.Phase.Terminal() && !g.recorded {
		g.recorded = true
		won, guesses, _ := next.Outcome()
		fin = &Finished{
			GameID:   g.ID,
			PlayerID: g.opts.PlayerID,
			Mode:     g.opts.Mode,
			Target:   next.Target.String(),
			Won:      won,
			Guesses:  guesses,
			Elapsed:  g.opts.Now().Sub(g.startedAt),
		}
		g.recordLocked(ctx, *fin)
	}
	snap := g.snapshotLocked()
	g.mu.Unlock()

	// Hooks run outside the lock; they may take their time (DB writes).
	if fin != nil && g.opts.OnFinish != nil {
		g.opts.OnFinish(ctx, *fin)
	}
	return snap, nil
}

// recordLocked writes the outcome into the stats store. Failures are logged:
// a finished game stays finished even if the store is unavailable.
func (g *Game) recordLocked(ctx context.Context, f Finished) {
	ev := log.Info().Str("gameId", g.ID).Str("player", f.PlayerID).
		Bool("won", f.Won).Int("guesses", f.Guesses).Str("target", f.Target)
	ev.Msg("game finished")

	if g.opts.Stats == nil {
		return
	}
	s, err := g.opts.Stats.Record(ctx, f.PlayerID, stats.Result{
		Won:     f.Won,
		Guesses: f.Guesses,
		Seconds: int64(f.Elapsed / time.Second),
	})
	if err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("record stats")
		return
	}
	g.stats = &s
}

func (g *Game) raiseLocked(msg string) {
	g.msgSeq++
	seq := g.msgSeq
	g.message = msg
	if g.msgTimer != nil {
		g.msgTimer.Stop()
	}
	g.msgTimer = time.AfterFunc(g.opts.MessageTTL, func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if g.msgSeq == seq {
			g.message = ""
		}
	})
}

func (g *Game) clearMessageLocked() {
	g.msgSeq++
	g.message = ""
	if g.msgTimer != nil {
		g.msgTimer.Stop()
		g.msgTimer = nil
	}
}

// LastActive is when the game last started or received input.
func (g *Game) LastActive() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastActive
}

func (g *Game) visibleMessage() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.message
}

// State returns a copy of the underlying board.
func (g *Game) State() game.State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Close stops the pending message timer.
func (g *Game) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clearMessageLocked()
}
