package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"crown-ledger/internal/ledger"
	"crown-ledger/internal/store"
)

func topupHandler(led *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID string `json:"user_id"`
			Amount int64  `json:"amount"`
			Note   string `json:"note"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
			writeHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		if req.Note == "" {
			req.Note = "topup"
		}
		bal, err := led.CreditGrant(r.Context(), req.UserID, req.Amount, req.Note)
		if errors.Is(err, store.ErrInvalidAmount) {
			writeHTTPError(w, http.StatusBadRequest, "invalid_amount")
			return
		}
		if err != nil {
			writeHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user_id": req.UserID,
			"balance": bal,
		})
	}
}

func adminDebitHandler(led *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID string `json:"user_id"`
			Amount int64  `json:"amount"`
			Note   string `json:"note"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
			writeHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		if req.Note == "" {
			req.Note = "debit"
		}
		bal, err := led.DebitGrant(r.Context(), req.UserID, req.Amount, req.Note)
		switch {
		case errors.Is(err, store.ErrInvalidAmount):
			writeHTTPError(w, http.StatusBadRequest, "invalid_amount")
			return
		case errors.Is(err, store.ErrInsufficientFunds):
			writeHTTPError(w, http.StatusPaymentRequired, "insufficient_funds")
			return
		case err != nil:
			writeHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user_id": req.UserID,
			"balance": bal,
		})
	}
}

func ledgerHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 50
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": st.Entries(limit),
		})
	}
}

func flushHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := st.Flush(r.Context()); err != nil {
			writeHTTPError(w, http.StatusInternalServerError, "flush_failed")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":    true,
			"dirty": st.Dirty(),
		})
	}
}
