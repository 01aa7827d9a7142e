package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"crown-ledger/internal/catalog"
	"crown-ledger/internal/config"
	"crown-ledger/internal/cooldown"
	"crown-ledger/internal/game"
	"crown-ledger/internal/ledger"
	"crown-ledger/internal/store"
)

func newRouter(
	st *store.Store,
	cfg config.ServerConfig,
	eco config.EconomyConfig,
	led *ledger.Ledger,
	tracker *cooldown.Tracker,
	evaluator *game.Evaluator,
	cat *catalog.Catalog,
	proc *catalog.Processor,
) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(apiLogMiddleware()).Get("/healthz", healthHandler(st))

	r.Route("/api", func(r chi.Router) {
		r.Use(apiLogMiddleware())
		r.Use(bodyCaptureMiddleware(4096))

		r.Get("/public/users/{user_id}/balance", balanceHandler(led))
		r.Get("/public/catalog", catalogHandler(cat, eco))
		r.Get("/public/leaderboard", leaderboardHandler(st, eco))

		r.Post("/users/{user_id}/daily", dailyHandler(tracker, led, eco))
		r.Post("/users/{user_id}/guess", guessHandler(evaluator))
		r.Post("/users/{user_id}/purchase", purchaseHandler(proc))
		r.Post("/users/{user_id}/activity", activityHandler(led, eco))

		r.Group(func(r chi.Router) {
			r.Use(adminAuthMiddleware(cfg.AdminAPIKey))
			r.Post("/topup", topupHandler(led))
			r.Post("/debit", adminDebitHandler(led))
			r.Get("/ledger", ledgerHandler(st))
			r.Post("/flush", flushHandler(st))
		})
	})

	return r
}

func logRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 16)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	for _, rt := range routes {
		log.Debug().Str("method", rt.Method).Str("route", rt.Path).Msg("route registered")
	}
}
