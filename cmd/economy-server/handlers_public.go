package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"crown-ledger/internal/catalog"
	"crown-ledger/internal/config"
	"crown-ledger/internal/cooldown"
	"crown-ledger/internal/game"
	"crown-ledger/internal/ledger"
	"crown-ledger/internal/store"
)

func healthHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "ok",
			"dirty":  st.Dirty(),
		})
	}
}

func balanceHandler(led *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := chi.URLParam(r, "user_id")
		if user == "" {
			writeHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		currency := r.URL.Query().Get("currency")
		if currency == "" {
			currency = led.Currency
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user_id":  user,
			"currency": currency,
			"balance":  led.Store.Balance(user, currency),
		})
	}
}

func catalogHandler(cat *catalog.Catalog, eco config.EconomyConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items := cat.Items()
		out := make([]map[string]any, 0, len(items))
		for _, it := range items {
			out = append(out, map[string]any{
				"name":   it.Name,
				"price":  it.Price,
				"effect": it.Effect,
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"currency": eco.DefaultCurrency,
			"items":    out,
		})
	}
}

func leaderboardHandler(st *store.Store, eco config.EconomyConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currency := r.URL.Query().Get("currency")
		if currency == "" {
			currency = eco.DefaultCurrency
		}
		limit := 10
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
				limit = n
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"currency": currency,
			"items":    st.TopBalances(currency, limit),
		})
	}
}

func dailyHandler(tracker *cooldown.Tracker, led *ledger.Ledger, eco config.EconomyConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := chi.URLParam(r, "user_id")
		if user == "" {
			writeHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}

		if err := tracker.Claim(r.Context(), user, "daily", time.Now(), eco.DailyPeriod); err != nil {
			var ce *cooldown.Error
			if errors.As(err, &ce) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"error":             "cooldown_active",
					"remaining_seconds": int64(ce.Remaining / time.Second),
				})
				return
			}
			writeHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}

		bal, err := led.CreditDaily(r.Context(), user, eco.DailyReward)
		if err != nil {
			writeHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user_id":  user,
			"reward":   eco.DailyReward,
			"currency": eco.DefaultCurrency,
			"balance":  bal,
		})
	}
}

func guessHandler(evaluator *game.Evaluator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := chi.URLParam(r, "user_id")
		if user == "" {
			writeHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		var req struct {
			Guess *int `json:"guess"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}

		res, err := evaluator.Guess(r.Context(), user, req.Guess)
		if err != nil {
			writeHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		out := map[string]any{
			"user_id":    user,
			"outcome":    res.Outcome,
			"first_play": res.FirstPlay,
			"balance":    res.Balance,
		}
		if res.PlayReward > 0 {
			out["play_reward"] = res.PlayReward
		}
		if res.CorrectReward > 0 {
			out["correct_reward"] = res.CorrectReward
		}
		if res.Outcome == game.OutcomeIncorrect {
			out["secret"] = res.Secret
		}
		_ = json.NewEncoder(w).Encode(out)
	}
}

func purchaseHandler(proc *catalog.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := chi.URLParam(r, "user_id")
		if user == "" {
			writeHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		var req struct {
			Item string `json:"item"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Item == "" {
			writeHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}

		// The effect is returned as a descriptor; granting it (e.g. a chat
		// role) is the command layer's job.
		receipt, err := proc.Purchase(r.Context(), user, req.Item, nil)
		switch {
		case errors.Is(err, catalog.ErrItemNotFound):
			writeHTTPError(w, http.StatusNotFound, "item_not_found")
			return
		case errors.Is(err, store.ErrInsufficientFunds):
			writeHTTPError(w, http.StatusPaymentRequired, "insufficient_funds")
			return
		case err != nil:
			writeHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user_id": user,
			"item":    receipt.Item.Name,
			"price":   receipt.Item.Price,
			"effect":  receipt.Item.Effect,
			"balance": receipt.Balance,
		})
	}
}

func activityHandler(led *ledger.Ledger, eco config.EconomyConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := chi.URLParam(r, "user_id")
		if user == "" {
			writeHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		bal, err := led.CreditActivity(r.Context(), user, eco.ActivityReward)
		if err != nil {
			writeHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user_id": user,
			"reward":  eco.ActivityReward,
			"balance": bal,
		})
	}
}
