package stats

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordleclone/internal/db"
)

func TestApplyWinsAndLosses(t *testing.T) {
	var s Stats
	assert.Nil(t, s.BestTimeSeconds)
	assert.Equal(t, 0, s.WinPercent())
	assert.Equal(t, int64(0), s.AverageTime())

	s = s.Apply(Result{Won: true, Guesses: 3, Seconds: 90})
	s = s.Apply(Result{Won: true, Guesses: 5, Seconds: 30})
	s = s.Apply(Result{Won: false, Guesses: 6, Seconds: 200})
	s = s.Apply(Result{Won: true, Guesses: 1, Seconds: 60})

	assert.Equal(t, 4, s.GamesPlayed)
	assert.Equal(t, 3, s.TotalWins)
	assert.Equal(t, [6]int{1, 0, 1, 0, 1, 0}, s.WinDistribution)
	assert.Equal(t, 1, s.CurrentStreak)
	assert.Equal(t, 2, s.MaxStreak)
	require.NotNil(t, s.BestTimeSeconds)
	assert.Equal(t, int64(30), *s.BestTimeSeconds)
	assert.Equal(t, int64(180), s.TotalTimeSeconds)
	assert.Equal(t, 75, s.WinPercent())
	assert.Equal(t, int64(60), s.AverageTime())
}

func TestApplyClampsDistribution(t *testing.T) {
	s := Stats{}.Apply(Result{Won: true, Guesses: 9}).Apply(Result{Won: true, Guesses: 0})
	assert.Equal(t, 1, s.WinDistribution[5])
	assert.Equal(t, 1, s.WinDistribution[0])
}

func TestPrefsRoundTripKeepsUnsetBestTime(t *testing.T) {
	s := Stats{GamesPlayed: 2, CurrentStreak: 0}
	p := s.toPrefs()
	assert.NotContains(t, p, keyBestTime)
	assert.Nil(t, fromPrefs(p).BestTimeSeconds)
}

func openSQLite(t *testing.T) Store {
	t.Helper()
	sqlDB, err := db.OpenAndMigrate(context.Background(), filepath.Join(t.TempDir(), "stats.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return NewSQLiteStore(sqlDB)
}

func TestStores(t *testing.T) {
	stores := map[string]func(t *testing.T) Store{
		"memory": func(*testing.T) Store { return NewMemoryStore() },
		"sqlite": openSQLite,
	}
	for name, mk := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			st := mk(t)

			empty, err := st.Load(ctx, "nobody")
			require.NoError(t, err)
			assert.Equal(t, Stats{}, empty)

			results := []Result{
				{Won: true, Guesses: 4, Seconds: 120},
				{Won: true, Guesses: 2, Seconds: 45},
				{Won: false, Guesses: 6, Seconds: 300},
			}
			var want Stats
			for _, r := range results {
				want = want.Apply(r)
				got, err := st.Record(ctx, "p1", r)
				require.NoError(t, err)
				assert.Equal(t, want, got)
			}

			loaded, err := st.Load(ctx, "p1")
			require.NoError(t, err)
			assert.Equal(t, want, loaded)

			other, err := st.Load(ctx, "p2")
			require.NoError(t, err)
			assert.Equal(t, 0, other.GamesPlayed)
		})
	}
}

func TestStoresConcurrentRecord(t *testing.T) {
	stores := map[string]func(t *testing.T) Store{
		"memory": func(*testing.T) Store { return NewMemoryStore() },
		"sqlite": openSQLite,
	}
	for name, mk := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			st := mk(t)

			const players, perPlayer = 16, 4
			errc := make(chan error, players*perPlayer)
			var wg sync.WaitGroup
			for p := 0; p < players; p++ {
				p := p
				for i := 0; i < perPlayer; i++ {
					wg.Add(1)
					go func() {
						defer wg.Done()
						_, err := st.Record(ctx, fmt.Sprintf("p%d", p), Result{Won: true, Guesses: 3, Seconds: 10})
						errc <- err
					}()
				}
			}
			wg.Wait()
			close(errc)
			for err := range errc {
				require.NoError(t, err)
			}

			for p := 0; p < players; p++ {
				got, err := st.Load(ctx, fmt.Sprintf("p%d", p))
				require.NoError(t, err)
				assert.Equal(t, perPlayer, got.GamesPlayed)
				assert.Equal(t, perPlayer, got.CurrentStreak)
				assert.Equal(t, perPlayer, got.WinDistribution[2])
			}
		})
	}
}
