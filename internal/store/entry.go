package store

import "time"

// Entry is one journal line for a successful credit or debit. Amount is
// signed: credits positive, debits negative.
type Entry struct {
	ID        string    `json:"id"`
	User      string    `json:"user_id"`
	Currency  string    `json:"currency"`
	Amount    int64     `json:"amount"`
	Type      string    `json:"type"`
	RefType   string    `json:"ref_type"`
	RefID     string    `json:"ref_id"`
	CreatedAt time.Time `json:"created_at"`
}

// RankedBalance is one leaderboard row.
type RankedBalance struct {
	User    string `json:"user_id"`
	Balance int64  `json:"balance"`
}
