package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"crown-ledger/internal/catalog"
	"crown-ledger/internal/config"
	"crown-ledger/internal/cooldown"
	"crown-ledger/internal/game"
	"crown-ledger/internal/ledger"
	"crown-ledger/internal/persist"
	"crown-ledger/internal/store"
)

func testEconomyConfig() config.EconomyConfig {
	return config.EconomyConfig{
		DefaultCurrency:    "crowns",
		DailyReward:        50,
		DailyPeriod:        24 * time.Hour,
		GuessSecret:        7,
		GuessPlayReward:    100,
		GuessCorrectReward: 1000,
		ActivityReward:     1,
	}
}

func newTestRouter(t *testing.T, cfg config.ServerConfig) (*chi.Mux, *store.Store, *ledger.Ledger) {
	t.Helper()
	f, err := persist.NewFile(filepath.Join(t.TempDir(), "crowns.json"))
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	st, err := store.Open(context.Background(), f)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	eco := testEconomyConfig()
	led := ledger.New(st, eco.DefaultCurrency)
	tracker := cooldown.New(st)
	evaluator := game.NewEvaluator(led, st, eco.GuessSecret, eco.GuessPlayReward, eco.GuessCorrectReward)
	cat := catalog.Default()
	proc := catalog.NewProcessor(cat, led)
	return newRouter(st, cfg, eco, led, tracker, evaluator, cat, proc), st, led
}
