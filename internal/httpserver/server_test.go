package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordleclone/internal/config"
	"github.com/robalobadob/wordleclone/internal/daily"
	"github.com/robalobadob/wordleclone/internal/db"
	"github.com/robalobadob/wordleclone/internal/stats"
	"github.com/robalobadob/wordleclone/internal/store"
	"github.com/robalobadob/wordleclone/internal/words"
)

var (
	testWords = words.New([]string{"crane", "slate", "train", "brain", "grain", "drain", "plain"})
	testNow   = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
)

func newTestServer(t *testing.T, mutate func(*config.Config)) *httptest.Server {
	t.Helper()
	ts, _ := startTestServer(t, mutate, func() time.Time { return testNow })
	return ts
}

func startTestServer(t *testing.T, mutate func(*config.Config), now func() time.Time) (*httptest.Server, *Server) {
	t.Helper()
	sqlDB, err := db.OpenAndMigrate(context.Background(), filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	cfg := config.Default()
	cfg.Server.RateLimitRPS = 1000
	cfg.Server.RateLimitBurst = 1000
	cfg.Game.MessageTTL = config.Duration(time.Hour)
	if mutate != nil {
		mutate(&cfg)
	}
	srv := New(Deps{
		Config: cfg,
		Games:  store.NewMemoryStore(),
		DB:     sqlDB,
		Words:  testWords,
		Stats:  stats.NewSQLiteStore(sqlDB),
		Now:    now,
	})
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, srv
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type client struct {
	t    *testing.T
	base string
	hc   *http.Client
}

// newClient returns a client with its own cookie jar, i.e. its own player.
func newClient(t *testing.T, ts *httptest.Server) *client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &client{t: t, base: ts.URL, hc: &http.Client{Jar: jar}}
}

func (c *client) do(method, path string, body any, out any) int {
	c.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.base+path, rd)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	res, err := c.hc.Do(req)
	require.NoError(c.t, err)
	defer res.Body.Close()
	assert.Contains(c.t, res.Header.Get("Content-Type"), "application/json")
	if out != nil {
		require.NoError(c.t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

type cellView struct {
	Letter string `json:"letter"`
	Status string `json:"status"`
}

type snapView struct {
	GameID  string            `json:"gameId"`
	Mode    string            `json:"mode"`
	Board   [][]cellView      `json:"board"`
	Row     int               `json:"row"`
	Col     int               `json:"col"`
	Current string            `json:"current"`
	State   string            `json:"state"`
	Keys    map[string]string `json:"keys"`
	Message string            `json:"message"`
	Target  string            `json:"target"`
	Stats   *stats.Stats      `json:"stats"`
}

type rejectionView struct {
	Error    string   `json:"error"`
	Message  string   `json:"message"`
	Snapshot snapView `json:"snapshot"`
}

func TestHealthAndNotFound(t *testing.T) {
	c := newClient(t, newTestServer(t, nil))
	var health map[string]bool
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/health", nil, &health))
	assert.True(t, health["ok"])

	var count map[string]int
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/debug/words", nil, &count))
	assert.Equal(t, 7, count["words"])

	var nf map[string]string
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/nope", nil, &nf))
	assert.Equal(t, "not_found", nf["error"])
}

func TestGameKeyFlow(t *testing.T) {
	ts := newTestServer(t, nil)
	c := newClient(t, ts)

	var snap snapView
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/new", map[string]string{"answer": "crane"}, &snap))
	require.NotEmpty(t, snap.GameID)
	assert.Equal(t, "random", snap.Mode)
	assert.Equal(t, "playing", snap.State)
	assert.Empty(t, snap.Target)
	id := snap.GameID

	for _, k := range []string{"s", "L", "A", "T", "E", "ENTER"} {
		require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/"+id+"/key", map[string]string{"key": k}, &snap))
	}
	assert.Equal(t, 1, snap.Row)
	assert.Equal(t, "absent", snap.Keys["S"])
	assert.Equal(t, "correct", snap.Keys["A"])
	assert.Equal(t, "correct", snap.Keys["E"])
	assert.Equal(t, cellView{Letter: "A", Status: "correct"}, snap.Board[0][2])

	// Incomplete row.
	var rej rejectionView
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/"+id+"/key", map[string]string{"key": "c"}, &snap))
	assert.Equal(t, http.StatusUnprocessableEntity, c.do(http.MethodPost, "/game/"+id+"/key", map[string]string{"key": "enter"}, &rej))
	assert.Equal(t, "incomplete_guess", rej.Error)
	assert.Equal(t, "Not enough letters", rej.Message)
	assert.Equal(t, "C", rej.Snapshot.Current)

	// Unknown word; the guess replaces the partial row.
	rej = rejectionView{}
	assert.Equal(t, http.StatusUnprocessableEntity, c.do(http.MethodPost, "/game/"+id+"/guess", map[string]string{"guess": "zzzzz"}, &rej))
	assert.Equal(t, "not_in_word_list", rej.Error)
	assert.Equal(t, "Not in word list", rej.Snapshot.Message)
	assert.Equal(t, 1, rej.Snapshot.Row)

	var bad map[string]string
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/game/"+id+"/key", map[string]string{"key": "F1"}, &bad))
	assert.Equal(t, "bad_key", bad["error"])
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/game/"+id+"/guess", map[string]string{"guess": "abc"}, &bad))
	assert.Equal(t, "invalid_guess", bad["error"])

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/"+id+"/guess", map[string]string{"guess": "crane"}, &snap))
	assert.Equal(t, "won", snap.State)
	assert.Equal(t, "CRANE", snap.Target)
	require.NotNil(t, snap.Stats)
	assert.Equal(t, 1, snap.Stats.WinDistribution[1])

	var got snapView
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/game/"+id, nil, &got))
	assert.Equal(t, "won", got.State)

	var me statsRes
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/stats/me", nil, &me))
	assert.NotEmpty(t, me.PlayerID)
	assert.Equal(t, 1, me.Stats.GamesPlayed)
	assert.Equal(t, 100, me.WinPercent)

	// Another player cannot see the game.
	other := newClient(t, ts)
	assert.Equal(t, http.StatusNotFound, other.do(http.MethodGet, "/game/"+id, nil, &bad))
}

func TestNewGameValidation(t *testing.T) {
	c := newClient(t, newTestServer(t, nil))
	var bad map[string]string
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/game/new", map[string]string{"mode": "cheat"}, &bad))
	assert.Equal(t, "bad_mode", bad["error"])
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/game/new", map[string]string{"answer": "toolong"}, &bad))
	assert.Equal(t, "invalid_answer", bad["error"])
	// A well-formed answer outside the word list could never be guessed.
	bad = nil
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/game/new", map[string]string{"answer": "zzzzz"}, &bad))
	assert.Equal(t, "invalid_answer", bad["error"])

	var snap snapView
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/new", nil, &snap))
	assert.NotEmpty(t, snap.GameID)
}

func TestSolver(t *testing.T) {
	c := newClient(t, newTestServer(t, nil))

	var res solverRes
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/solver", solverReq{Green: "__AIN"}, &res))
	assert.Equal(t, 5, res.Count)
	assert.ElementsMatch(t, []string{"TRAIN", "BRAIN", "GRAIN", "DRAIN", "PLAIN"}, res.Matches)

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/solver", solverReq{Green: "__ain", Yellow: "r", Gray: "TD"}, &res))
	assert.ElementsMatch(t, []string{"BRAIN", "GRAIN"}, res.Matches)

	var bad map[string]string
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/solver", solverReq{Green: "ABCDEF"}, &bad))
	assert.Equal(t, "bad_pattern", bad["error"])
}

func TestDailyOncePerDay(t *testing.T) {
	ts := newTestServer(t, nil)
	c := newClient(t, ts)

	var snap snapView
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/new", map[string]string{"mode": "daily"}, &snap))
	assert.Equal(t, "daily", snap.Mode)

	// Resuming returns the same game.
	var again snapView
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/new", map[string]string{"mode": "daily"}, &again))
	assert.Equal(t, snap.GameID, again.GameID)

	cfg := config.Default()
	answer := testWords.At(daily.WordIndex(testNow, cfg.Game.DailySalt, testWords.Len()))
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/"+snap.GameID+"/guess", map[string]string{"guess": answer}, &snap))
	assert.Equal(t, "won", snap.State)

	var bad map[string]string
	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/game/new", map[string]string{"mode": "daily"}, &bad))
	assert.Equal(t, "already_played", bad["error"])

	var lb lbRes
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/daily/leaderboard", nil, &lb))
	assert.Equal(t, "2026-03-14", lb.Date)
	require.Len(t, lb.Top, 1)
	assert.Equal(t, 1, lb.Top[0].Guesses)
}

func TestAuthFlow(t *testing.T) {
	ts := newTestServer(t, nil)
	c := newClient(t, ts)
	creds := credentials{Username: "alice_1", Password: "correct horse"}

	var me authUser
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/auth/signup", creds, &me))
	assert.Equal(t, "alice_1", me.Username)

	var who authUser
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/auth/me", nil, &who))
	assert.Equal(t, me.ID, who.ID)

	// Signed-in players keep stats under their account ID.
	var st statsRes
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/stats/me", nil, &st))
	assert.Equal(t, me.ID, st.PlayerID)

	var bad map[string]string
	assert.Equal(t, http.StatusConflict, newClient(t, ts).do(http.MethodPost, "/auth/signup",
		credentials{Username: "ALICE_1", Password: "another pass"}, &bad))
	assert.Equal(t, http.StatusBadRequest, newClient(t, ts).do(http.MethodPost, "/auth/signup",
		credentials{Username: "x", Password: "short"}, &bad))
	assert.Equal(t, "invalid_signup", bad["error"])

	other := newClient(t, ts)
	assert.Equal(t, http.StatusUnauthorized, other.do(http.MethodPost, "/auth/login",
		credentials{Username: "alice_1", Password: "wrong password"}, &bad))
	require.Equal(t, http.StatusOK, other.do(http.MethodPost, "/auth/login", creds, &who))
	assert.Equal(t, me.ID, who.ID)

	var ok map[string]bool
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/auth/logout", nil, &ok))
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/auth/me", nil, &bad))
}

func TestRateLimit(t *testing.T) {
	ts := newTestServer(t, func(cfg *config.Config) {
		cfg.Server.RateLimitRPS = 1
		cfg.Server.RateLimitBurst = 2
	})
	c := newClient(t, ts)

	var snap snapView
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/new", map[string]string{"answer": "crane"}, &snap))
	path := "/game/" + snap.GameID + "/key"
	assert.Equal(t, http.StatusOK, c.do(http.MethodPost, path, map[string]string{"key": "a"}, nil))
	assert.Equal(t, http.StatusOK, c.do(http.MethodPost, path, map[string]string{"key": "b"}, nil))

	var bad map[string]string
	assert.Equal(t, http.StatusTooManyRequests, c.do(http.MethodPost, path, map[string]string{"key": "c"}, &bad))
	assert.Equal(t, "rate_limited", bad["error"])
}

func TestIdleSweepEvictsGames(t *testing.T) {
	clk := &testClock{now: testNow}
	ts, srv := startTestServer(t, func(cfg *config.Config) {
		cfg.Game.IdleTTL = config.Duration(30 * time.Minute)
	}, clk.Now)
	c := newClient(t, ts)

	var idle, busy, today snapView
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/new", map[string]string{"answer": "crane"}, &idle))
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/new", map[string]string{"answer": "slate"}, &busy))
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/new", map[string]string{"mode": "daily"}, &today))

	clk.Advance(20 * time.Minute)
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/"+busy.GameID+"/key", map[string]string{"key": "a"}, nil))
	clk.Advance(15 * time.Minute)
	srv.sweepIdle(context.Background())

	var bad map[string]string
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/game/"+idle.GameID, nil, &bad))
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/game/"+today.GameID, nil, &bad))
	var got snapView
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/game/"+busy.GameID, nil, &got))
	assert.Equal(t, "A", got.Current)

	srv.daily.mu.Lock()
	assert.Empty(t, srv.daily.active)
	srv.daily.mu.Unlock()
	srv.limits.mu.Lock()
	assert.Len(t, srv.limits.byKey, 1, "bucket used 15 minutes ago survives")
	srv.limits.mu.Unlock()

	clk.Advance(time.Hour)
	srv.sweepIdle(context.Background())
	srv.limits.mu.Lock()
	assert.Empty(t, srv.limits.byKey)
	srv.limits.mu.Unlock()
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/game/"+busy.GameID, nil, &bad))

	// An evicted, unfinished daily game can be started again.
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/new", map[string]string{"mode": "daily"}, &today))
	assert.Equal(t, 0, today.Row)
}
