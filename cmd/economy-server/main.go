package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"crown-ledger/internal/catalog"
	"crown-ledger/internal/config"
	"crown-ledger/internal/cooldown"
	"crown-ledger/internal/game"
	"crown-ledger/internal/jobs"
	"crown-ledger/internal/ledger"
	"crown-ledger/internal/logging"
	"crown-ledger/internal/persist"
	"crown-ledger/internal/store"
)

func main() {
	app, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	logging.Init(app.Log)
	cfg, eco := app.Server, app.Economy

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var snap persist.Snapshotter
	if cfg.EconomyPGDSN != "" {
		pg, err := persist.NewPostgres(ctx, cfg.EconomyPGDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("postgres snapshot backend init failed")
		}
		defer pg.Close()
		snap = pg
		log.Info().Msg("using postgres snapshot backend")
	} else {
		f, err := persist.NewFile(cfg.StatePath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.StatePath).Msg("file snapshot backend init failed")
		}
		snap = f
		log.Info().Str("path", cfg.StatePath).Msg("using file snapshot backend")
	}

	st, err := store.Open(ctx, snap)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}

	led := ledger.New(st, eco.DefaultCurrency)
	tracker := cooldown.New(st)
	evaluator := game.NewEvaluator(led, st, eco.GuessSecret, eco.GuessPlayReward, eco.GuessCorrectReward)
	cat := catalog.Default()
	proc := catalog.NewProcessor(cat, led)

	sched, err := jobs.NewScheduler(st, cfg.FlushSpec)
	if err != nil {
		log.Fatal().Err(err).Str("spec", cfg.FlushSpec).Msg("flush scheduler init failed")
	}
	sched.Start()

	r := newRouter(st, cfg, eco, led, tracker, evaluator, cat, proc)
	logRoutes(r)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Msg("http listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server stopped")
	}

	sched.Stop()
	if err := st.Close(context.Background()); err != nil {
		log.Error().Err(err).Msg("final snapshot save failed")
	} else {
		log.Info().Msg("ledger state saved")
	}
}
