package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordleclone/internal/config"
	"github.com/robalobadob/wordleclone/internal/db"
	"github.com/robalobadob/wordleclone/internal/httpserver"
	"github.com/robalobadob/wordleclone/internal/session"
	"github.com/robalobadob/wordleclone/internal/stats"
	"github.com/robalobadob/wordleclone/internal/store"
	"github.com/robalobadob/wordleclone/internal/words"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The word list loads in the background while the database opens.
	pending := words.LoadAsync(ctx, cfg.Game.WordsFile)

	sqlDB, err := db.OpenAndMigrate(ctx, cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open database")
	}
	defer sqlDB.Close()

	list, err := session.Boot(ctx, pending)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word list")
	}

	srv := httpserver.New(httpserver.Deps{
		Config: cfg,
		Games:  store.NewMemoryStore(),
		DB:     sqlDB,
		Words:  list,
		Stats:  stats.NewSQLiteStore(sqlDB),
	})
	log.Info().Str("port", cfg.Server.Port).Int("words", list.Len()).Msg("starting go-server")
	if err := srv.Start(ctx, ":"+cfg.Server.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
