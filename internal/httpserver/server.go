// internal/httpserver/server.go
//
// HTTP server wiring for the Wordle backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     per-client rate limit on key/guess routes).
//   - Public endpoints: "/", "/health", "/debug/words", "/solver".
//   - Game endpoints (optional auth): /game/new, /game/{id}, /game/{id}/key,
//     /game/{id}/guess. Guests play under an anonymous cookie ID.
//   - Daily Challenge: "daily" mode on /game/new plus /daily/leaderboard.
//   - Accounts: /auth/* and /stats/me.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Games live in the in-memory store; statistics and daily results are
//     persisted through SQLite.
//   - Start runs an idle sweep: games without input for Game.IdleTTL are
//     evicted, along with idle rate-limit buckets.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordleclone/internal/config"
	"github.com/robalobadob/wordleclone/internal/stats"
	"github.com/robalobadob/wordleclone/internal/store"
	"github.com/robalobadob/wordleclone/internal/words"
)

// Deps are the collaborators a Server needs.
type Deps struct {
	Config config.Config
	Games  store.Store
	DB     *sql.DB
	Words  *words.List
	Stats  stats.Store
	Now    func() time.Time // defaults to time.Now
}

// Server bundles router, game registry, and persistence handles.
type Server struct {
	r      *chi.Mux
	cfg    config.Config
	games  store.Store
	db     *sql.DB
	words  *words.List
	stats  stats.Store
	daily  *dailyServer
	limits *limiter
	now    func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	if d.Now == nil {
		d.Now = time.Now
	}
	s := &Server{
		r:      chi.NewRouter(),
		cfg:    d.Config,
		games:  d.Games,
		db:     d.DB,
		words:  d.Words,
		stats:  d.Stats,
		limits: newLimiter(d.Config.Server.RateLimitRPS, d.Config.Server.RateLimitBurst, d.Now),
		now:    d.Now,
	}
	s.daily = newDailyServer(s)

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(cors(d.Config.Server.ClientOrigin))

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service": "wordle-go",
			"endpoints": []string{
				"/health", "POST /game/new", "GET /game/{id}", "POST /game/{id}/key",
				"POST /game/{id}/guess", "POST /solver", "GET /stats/me",
				"GET /daily/leaderboard", "/auth/*",
			},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]int{"words": s.words.Len()})
	})

	s.r.Post("/solver", s.handleSolver)

	// Game + stats: OPTIONAL AUTH (guests can play)
	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth())
		r.Post("/game/new", s.handleNewGame)
		r.Get("/game/{id}", s.handleGetGame)
		r.With(s.limits.middleware).Post("/game/{id}/key", s.handleKey)
		r.With(s.limits.middleware).Post("/game/{id}/guess", s.handleGuess)
		r.Get("/stats/me", s.handleStats)
		r.Get("/daily/leaderboard", s.daily.handleLeaderboard)
	})

	s.mountAuthRoutes()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start serves HTTP on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go s.sweepLoop(sweepCtx)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down http server")
	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) sweepLoop(ctx context.Context) {
	if s.cfg.Game.IdleTTL <= 0 {
		return
	}
	every := max(s.cfg.Game.IdleTTL.Std()/2, time.Second)
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.sweepIdle(ctx)
		}
	}
}

// sweepIdle evicts games and rate-limit buckets idle for longer than Game.IdleTTL.
func (s *Server) sweepIdle(ctx context.Context) {
	cutoff := s.now().Add(-s.cfg.Game.IdleTTL.Std())
	n, err := s.games.Sweep(ctx, cutoff)
	if err != nil {
		log.Warn().Err(err).Msg("sweep idle games")
		return
	}
	s.daily.prune(ctx)
	buckets := s.limits.sweep(cutoff)
	if n > 0 || buckets > 0 {
		log.Debug().Int("games", n).Int("limiters", buckets).Msg("idle sweep")
	}
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
