package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"crown-ledger/internal/config"
)

func TestPublicBalanceAndCatalog(t *testing.T) {
	router, _, led := newTestRouter(t, config.ServerConfig{})

	req := httptest.NewRequest(http.MethodGet, "/api/public/users/alice/balance", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("balance expected 200, got %d", w.Code)
	}
	var balResp struct {
		UserID   string `json:"user_id"`
		Currency string `json:"currency"`
		Balance  int64  `json:"balance"`
	}
	if err := json.NewDecoder(w.Body).Decode(&balResp); err != nil {
		t.Fatalf("decode balance: %v", err)
	}
	if balResp.Balance != 0 || balResp.Currency != "crowns" {
		t.Fatalf("expected zero crowns balance, got %+v", balResp)
	}

	if _, err := led.CreditGrant(context.Background(), "alice", 250, "seed"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/api/public/users/alice/balance", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if err := json.NewDecoder(w.Body).Decode(&balResp); err != nil {
		t.Fatalf("decode balance: %v", err)
	}
	if balResp.Balance != 250 {
		t.Fatalf("expected balance 250, got %d", balResp.Balance)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/public/catalog", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("catalog expected 200, got %d", w.Code)
	}
	var catResp struct {
		Currency string `json:"currency"`
		Items    []struct {
			Name  string `json:"name"`
			Price int64  `json:"price"`
		} `json:"items"`
	}
	if err := json.NewDecoder(w.Body).Decode(&catResp); err != nil {
		t.Fatalf("decode catalog: %v", err)
	}
	if len(catResp.Items) != 7 {
		t.Fatalf("expected 7 catalog items, got %d", len(catResp.Items))
	}
	if catResp.Items[0].Name != "vip" || catResp.Items[0].Price != 100 {
		t.Fatalf("expected vip at 100 first, got %+v", catResp.Items[0])
	}
}

func TestDailyClaimAndCooldown(t *testing.T) {
	router, _, _ := newTestRouter(t, config.ServerConfig{})

	req := httptest.NewRequest(http.MethodPost, "/api/users/alice/daily", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("daily expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var claimResp struct {
		Reward  int64 `json:"reward"`
		Balance int64 `json:"balance"`
	}
	if err := json.NewDecoder(w.Body).Decode(&claimResp); err != nil {
		t.Fatalf("decode daily: %v", err)
	}
	if claimResp.Reward != 50 || claimResp.Balance != 50 {
		t.Fatalf("expected reward 50 balance 50, got %+v", claimResp)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/users/alice/daily", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second daily expected 429, got %d", w.Code)
	}
	var coolResp struct {
		Error            string `json:"error"`
		RemainingSeconds int64  `json:"remaining_seconds"`
	}
	if err := json.NewDecoder(w.Body).Decode(&coolResp); err != nil {
		t.Fatalf("decode cooldown: %v", err)
	}
	if coolResp.Error != "cooldown_active" {
		t.Fatalf("expected cooldown_active, got %q", coolResp.Error)
	}
	if coolResp.RemainingSeconds <= 0 || coolResp.RemainingSeconds > 86400 {
		t.Fatalf("remaining out of range: %d", coolResp.RemainingSeconds)
	}

	// Other users are unaffected.
	req = httptest.NewRequest(http.MethodPost, "/api/users/bob/daily", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("bob daily expected 200, got %d", w.Code)
	}
}

func TestGuessEndpoint(t *testing.T) {
	router, _, _ := newTestRouter(t, config.ServerConfig{})

	postGuess := func(user, body string) (*httptest.ResponseRecorder, map[string]any) {
		t.Helper()
		req := httptest.NewRequest(http.MethodPost, "/api/users/"+user+"/guess", bytes.NewBufferString(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("guess expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var out map[string]any
		if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
			t.Fatalf("decode guess: %v", err)
		}
		return w, out
	}

	// No guess value: prompt, nothing granted.
	_, out := postGuess("alice", `{}`)
	if out["outcome"] != "prompt" {
		t.Fatalf("expected prompt outcome, got %v", out["outcome"])
	}
	if out["balance"].(float64) != 0 {
		t.Fatalf("prompt should not change balance, got %v", out["balance"])
	}

	// First wrong guess: participation only, secret revealed.
	_, out = postGuess("alice", `{"guess":3}`)
	if out["outcome"] != "incorrect" {
		t.Fatalf("expected incorrect, got %v", out["outcome"])
	}
	if out["first_play"] != true {
		t.Fatalf("expected first_play true, got %v", out["first_play"])
	}
	if out["play_reward"].(float64) != 100 {
		t.Fatalf("expected play_reward 100, got %v", out["play_reward"])
	}
	if out["secret"].(float64) != 7 {
		t.Fatalf("expected secret 7 revealed, got %v", out["secret"])
	}
	if out["balance"].(float64) != 100 {
		t.Fatalf("expected balance 100, got %v", out["balance"])
	}

	// Correct guess after participation: correctness reward only.
	_, out = postGuess("alice", `{"guess":7}`)
	if out["outcome"] != "correct" {
		t.Fatalf("expected correct, got %v", out["outcome"])
	}
	if out["first_play"] != false {
		t.Fatalf("expected first_play false, got %v", out["first_play"])
	}
	if _, ok := out["play_reward"]; ok {
		t.Fatal("participation must not repeat")
	}
	if out["correct_reward"].(float64) != 1000 {
		t.Fatalf("expected correct_reward 1000, got %v", out["correct_reward"])
	}
	if out["balance"].(float64) != 1100 {
		t.Fatalf("expected balance 1100, got %v", out["balance"])
	}

	// First correct guess for a fresh user grants both rewards.
	_, out = postGuess("bob", `{"guess":7}`)
	if out["balance"].(float64) != 1100 {
		t.Fatalf("expected bob balance 1100, got %v", out["balance"])
	}
	if out["play_reward"].(float64) != 100 || out["correct_reward"].(float64) != 1000 {
		t.Fatalf("expected both rewards, got %v", out)
	}
}

func TestPurchaseEndpoint(t *testing.T) {
	router, _, led := newTestRouter(t, config.ServerConfig{})

	req := httptest.NewRequest(http.MethodPost, "/api/users/alice/purchase", bytes.NewBufferString(`{"item":"vip"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusPaymentRequired {
		t.Fatalf("broke purchase expected 402, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/users/alice/purchase", bytes.NewBufferString(`{"item":"Golden Goose"}`))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown item expected 404, got %d", w.Code)
	}

	if _, err := led.CreditGrant(context.Background(), "alice", 500, "seed"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	req = httptest.NewRequest(http.MethodPost, "/api/users/alice/purchase", bytes.NewBufferString(`{"item":"Peasant's Hat"}`))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("purchase expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var buyResp struct {
		Item    string `json:"item"`
		Price   int64  `json:"price"`
		Balance int64  `json:"balance"`
	}
	if err := json.NewDecoder(w.Body).Decode(&buyResp); err != nil {
		t.Fatalf("decode purchase: %v", err)
	}
	if buyResp.Item != "Peasant's Hat" || buyResp.Price != 300 || buyResp.Balance != 200 {
		t.Fatalf("unexpected receipt: %+v", buyResp)
	}
}

func TestActivityAndLeaderboard(t *testing.T) {
	router, _, led := newTestRouter(t, config.ServerConfig{})

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/users/alice/activity", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("activity expected 200, got %d", w.Code)
		}
	}
	if _, err := led.CreditGrant(context.Background(), "bob", 10, "seed"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/public/leaderboard?limit=2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("leaderboard expected 200, got %d", w.Code)
	}
	var lbResp struct {
		Items []struct {
			UserID  string `json:"user_id"`
			Balance int64  `json:"balance"`
		} `json:"items"`
	}
	if err := json.NewDecoder(w.Body).Decode(&lbResp); err != nil {
		t.Fatalf("decode leaderboard: %v", err)
	}
	if len(lbResp.Items) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(lbResp.Items))
	}
	if lbResp.Items[0].UserID != "bob" || lbResp.Items[0].Balance != 10 {
		t.Fatalf("expected bob first with 10, got %+v", lbResp.Items[0])
	}
	if lbResp.Items[1].UserID != "alice" || lbResp.Items[1].Balance != 3 {
		t.Fatalf("expected alice second with 3, got %+v", lbResp.Items[1])
	}
}
