// cmd/wordle/main.go
//
// Terminal front end for the game.
//   wordle play   - interactive game on stdin/stdout
//   wordle solve  - list words matching green/yellow/gray clues
//   wordle stats  - show the player's statistics
//   wordle words  - inspect the loaded word list
//
// Settings come from internal/config (TOML, .env, env); the persistent flags
// below override them.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordleclone/internal/config"
	"github.com/robalobadob/wordleclone/internal/db"
	"github.com/robalobadob/wordleclone/internal/session"
	"github.com/robalobadob/wordleclone/internal/stats"
	"github.com/robalobadob/wordleclone/internal/words"
)

// app carries flag values and lazily opened resources for one invocation.
type app struct {
	cfg config.Config

	dbPath    string
	memory    bool
	player    string
	wordsFile string
	logLevel  string

	list    *words.List
	stats   stats.Store
	closers []func() error
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "wordle",
		Short:        "Play Wordle and filter candidate words from the terminal",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.dbPath, "db", "", "SQLite database for statistics (default from DB_PATH)")
	pf.BoolVar(&a.memory, "memory", false, "keep statistics in memory only")
	pf.StringVar(&a.player, "player", "local", "player ID statistics are recorded under")
	pf.StringVar(&a.wordsFile, "words", "", "word list file, one word per line (default: embedded list)")
	pf.StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(
		newPlayCmd(a),
		newSolveCmd(a),
		newStatsCmd(a),
		newWordsCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
	if lvl, err := zerolog.ParseLevel(a.logLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	f := cmd.Flags()
	if f.Changed("db") {
		cfg.DBPath = a.dbPath
	}
	if f.Changed("words") {
		cfg.Game.WordsFile = a.wordsFile
	}
	a.cfg = cfg
	return nil
}

// wordList loads the word list once; a failure ends the command.
func (a *app) wordList(ctx context.Context) (*words.List, error) {
	if a.list != nil {
		return a.list, nil
	}
	l, err := session.Boot(ctx, words.LoadAsync(ctx, a.cfg.Game.WordsFile))
	if err != nil {
		return nil, err
	}
	a.list = l
	return l, nil
}

// statsStore opens the configured statistics backend once.
func (a *app) statsStore(ctx context.Context) (stats.Store, error) {
	if a.stats != nil {
		return a.stats, nil
	}
	if a.memory {
		a.stats = stats.NewMemoryStore()
		return a.stats, nil
	}
	sqlDB, err := db.OpenAndMigrate(ctx, a.cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open stats db: %w", err)
	}
	a.closers = append(a.closers, sqlDB.Close)
	a.stats = stats.NewSQLiteStore(sqlDB)
	return a.stats, nil
}

func (a *app) close() error {
	var first error
	for _, c := range a.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
