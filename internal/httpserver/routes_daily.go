// internal/httpserver/routes_daily.go
//
// "Daily Challenge" mode.
//   - POST /game/new {mode:"daily"} starts (or resumes) today's game.
//   - GET  /daily/leaderboard returns the fastest wins for today or ?date=.
//
// Each player gets one attempt per UTC day: the result is written to
// daily_results when the game ends, win or lose, and a finished day cannot
// be restarted. The word is picked deterministically from date + salt.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordleclone/internal/daily"
	"github.com/robalobadob/wordleclone/internal/game"
	"github.com/robalobadob/wordleclone/internal/session"
)

var errAlreadyPlayed = errors.New("daily already played")

type dailyServer struct {
	srv    *Server
	store  *daily.Store
	salt   string
	mu     sync.Mutex
	active map[string]string // player|date -> game ID
}

func newDailyServer(s *Server) *dailyServer {
	return &dailyServer{
		srv:    s,
		store:  daily.NewStore(s.db),
		salt:   s.cfg.Game.DailySalt,
		active: make(map[string]string),
	}
}

// start returns the caller's game for today, creating it on first call.
func (d *dailyServer) start(ctx context.Context, pid string) (*session.Game, error) {
	now := d.srv.now()
	date := daily.DateKey(now)

	played, err := d.store.AlreadyPlayed(ctx, pid, date)
	if err != nil {
		return nil, err
	}
	if played {
		return nil, errAlreadyPlayed
	}

	key := pid + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()
	if id, ok := d.active[key]; ok {
		if g, err := d.srv.games.Get(ctx, id); err == nil {
			return g, nil
		}
	}

	idx := daily.WordIndex(now, d.salt, d.srv.words.Len())
	target, err := game.ParseGuess(d.srv.words.At(idx))
	if err != nil {
		return nil, err
	}
	opts := d.srv.sessionOptions(pid, modeDaily)
	opts.OnFinish = func(ctx context.Context, f session.Finished) {
		d.finish(ctx, key, daily.Result{
			PlayerID:  f.PlayerID,
			Date:      date,
			WordIndex: idx,
			Won:       f.Won,
			Guesses:   f.Guesses,
			ElapsedMs: f.Elapsed.Milliseconds(),
		})
	}
	g := session.New(d.srv.words, target, opts)
	if err := d.srv.games.Save(ctx, g); err != nil {
		return nil, err
	}
	d.active[key] = g.ID
	log.Info().Str("gameId", g.ID).Str("player", pid).Str("date", date).Msg("daily started")
	return g, nil
}

func (d *dailyServer) finish(ctx context.Context, key string, res daily.Result) {
	if err := d.store.InsertResult(ctx, res); err != nil {
		log.Warn().Err(err).Str("player", res.PlayerID).Msg("persist daily result")
	}
	d.mu.Lock()
	delete(d.active, key)
	d.mu.Unlock()
}

// prune forgets active daily games that are no longer in the game store.
func (d *dailyServer) prune(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, id := range d.active {
		if _, err := d.srv.games.Get(ctx, id); err != nil {
			delete(d.active, key)
		}
	}
}

type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.srv.now())
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	rows, err := d.store.Leaderboard(r.Context(), date, min(limit, 100))
	if err != nil {
		log.Error().Err(err).Msg("leaderboard")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
