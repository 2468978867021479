// internal/httpserver/routes_game.go
//
// Game, solver and stats endpoints.
// Responsibilities:
//   - POST /game/new creates a random (or fixed-answer) game, or delegates to
//     the daily mode.
//   - GET /game/{id}, POST /game/{id}/key and /guess drive a game the caller owns.
//   - Rejected submissions answer 422 with the message and the snapshot.
//   - POST /solver filters the word list; GET /stats/me reads the caller's record.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordleclone/internal/game"
	"github.com/robalobadob/wordleclone/internal/session"
	"github.com/robalobadob/wordleclone/internal/solver"
	"github.com/robalobadob/wordleclone/internal/stats"
)

const (
	modeRandom = "random"
	modeDaily  = "daily"
)

type newGameReq struct {
	Mode   string `json:"mode"`   // "random" (default) | "daily"
	Answer string `json:"answer"` // optional fixed answer for random games
}

// handleNewGame creates a game owned by the caller and returns its snapshot.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json")
			return
		}
	}
	pid := s.playerID(w, r)

	var (
		g   *session.Game
		err error
	)
	switch req.Mode {
	case "", modeRandom:
		g, err = s.newRandomGame(r, pid, req.Answer)
	case modeDaily:
		g, err = s.daily.start(r.Context(), pid)
	default:
		writeError(w, http.StatusBadRequest, "bad_mode")
		return
	}
	switch {
	case errors.Is(err, game.ErrInvalidLength), errors.Is(err, game.ErrInvalidLetters),
		errors.Is(err, game.ErrNotInWordList):
		writeError(w, http.StatusBadRequest, "invalid_answer")
		return
	case errors.Is(err, errAlreadyPlayed):
		writeError(w, http.StatusConflict, "already_played")
		return
	case err != nil:
		log.Error().Err(err).Str("mode", req.Mode).Msg("new game")
		writeError(w, http.StatusInternalServerError, "new_game_failed")
		return
	}
	writeJSON(w, http.StatusOK, g.Snapshot())
}

func (s *Server) newRandomGame(r *http.Request, pid, answer string) (*session.Game, error) {
	var (
		target game.Guess
		err    error
	)
	if answer != "" {
		target, err = game.ParseGuess(answer)
		if err == nil && !s.words.Contains(target.String()) {
			err = game.ErrNotInWordList
		}
	} else {
		target, err = s.words.RandomTarget()
	}
	if err != nil {
		return nil, err
	}
	g := session.New(s.words, target, s.sessionOptions(pid, modeRandom))
	if err := s.games.Save(r.Context(), g); err != nil {
		return nil, err
	}
	log.Info().Str("gameId", g.ID).Str("player", pid).Msg("game started")
	return g, nil
}

func (s *Server) sessionOptions(pid, mode string) session.Options {
	return session.Options{
		PlayerID:   pid,
		Mode:       mode,
		Stats:      s.stats,
		MessageTTL: s.cfg.Game.MessageTTL.Std(),
		Now:        s.now,
	}
}

// ownedGame loads {id} and checks it belongs to the caller. Games owned by
// someone else are reported as missing.
func (s *Server) ownedGame(w http.ResponseWriter, r *http.Request) (*session.Game, bool) {
	g, err := s.games.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil || g.PlayerID() != s.playerID(w, r) {
		writeError(w, http.StatusNotFound, "not_found")
		return nil, false
	}
	return g, true
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, ok := s.ownedGame(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, g.Snapshot())
}

type keyReq struct {
	Key string `json:"key"`
}

// handleKey applies one key event (letter, ENTER or BACKSPACE).
func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	var req keyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	ev, err := game.ParseKey(req.Key)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_key")
		return
	}
	g, ok := s.ownedGame(w, r)
	if !ok {
		return
	}
	snap, err := g.Key(r.Context(), ev)
	writeSnapshot(w, snap, err)
}

type guessReq struct {
	Guess string `json:"guess"`
}

// handleGuess types a whole word over the current row and submits it.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if _, err := game.ParseGuess(req.Guess); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_guess")
		return
	}
	g, ok := s.ownedGame(w, r)
	if !ok {
		return
	}
	snap, err := g.Guess(r.Context(), req.Guess)
	writeSnapshot(w, snap, err)
}

type rejection struct {
	Error    string           `json:"error"`
	Message  string           `json:"message"`
	Snapshot session.Snapshot `json:"snapshot"`
}

// writeSnapshot answers 200 with the snapshot, or 422 when the reducer
// rejected the submission.
func writeSnapshot(w http.ResponseWriter, snap session.Snapshot, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, snap)
	case errors.Is(err, game.ErrIncompleteGuess):
		writeJSON(w, http.StatusUnprocessableEntity, rejection{"incomplete_guess", session.Message(err), snap})
	case errors.Is(err, game.ErrNotInWordList):
		writeJSON(w, http.StatusUnprocessableEntity, rejection{"not_in_word_list", session.Message(err), snap})
	default:
		log.Error().Err(err).Str("gameId", snap.GameID).Msg("apply key")
		writeError(w, http.StatusInternalServerError, "internal")
	}
}

type solverReq struct {
	Green  string `json:"green"`
	Yellow string `json:"yellow"`
	Gray   string `json:"gray"`
}

type solverRes struct {
	Count   int      `json:"count"`
	Matches []string `json:"matches"`
}

// handleSolver filters the word list by the given clues.
func (s *Server) handleSolver(w http.ResponseWriter, r *http.Request) {
	var req solverReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	c, err := solver.ParseConstraints(req.Green, req.Yellow, req.Gray)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_pattern")
		return
	}
	matches := solver.Filter(s.words.Words(), c)
	writeJSON(w, http.StatusOK, solverRes{Count: len(matches), Matches: matches})
}

type statsRes struct {
	PlayerID    string      `json:"playerId"`
	WinPercent  int         `json:"winPercent"`
	AverageTime int64       `json:"averageTime"`
	Stats       stats.Stats `json:"stats"`
}

// handleStats returns the caller's statistics (account or anonymous player).
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	pid := s.playerID(w, r)
	st, err := s.stats.Load(r.Context(), pid)
	if err != nil {
		log.Error().Err(err).Str("player", pid).Msg("load stats")
		writeError(w, http.StatusInternalServerError, "stats_unavailable")
		return
	}
	writeJSON(w, http.StatusOK, statsRes{
		PlayerID:    pid,
		WinPercent:  st.WinPercent(),
		AverageTime: st.AverageTime(),
		Stats:       st,
	})
}
