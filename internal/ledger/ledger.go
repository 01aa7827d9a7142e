// Package ledger names the economy's credit and debit kinds on top of the
// store, so callers never spell journal entry types by hand.
package ledger

import (
	"context"

	"crown-ledger/internal/store"
)

type Ledger struct {
	Store    *store.Store
	Currency string
}

func New(s *store.Store, currency string) *Ledger {
	return &Ledger{Store: s, Currency: currency}
}

func (l *Ledger) Balance(user string) int64 {
	return l.Store.Balance(user, l.Currency)
}

func (l *Ledger) CreditDaily(ctx context.Context, user string, amount int64) (int64, error) {
	return l.Store.Credit(ctx, user, l.Currency, amount, "daily_reward", "claim", "daily")
}

func (l *Ledger) CreditParticipation(ctx context.Context, user string, amount int64) (int64, error) {
	return l.Store.Credit(ctx, user, l.Currency, amount, "guess_participation", "game", "guess")
}

func (l *Ledger) CreditCorrectGuess(ctx context.Context, user string, amount int64) (int64, error) {
	return l.Store.Credit(ctx, user, l.Currency, amount, "guess_correct", "game", "guess")
}

func (l *Ledger) CreditActivity(ctx context.Context, user string, amount int64) (int64, error) {
	return l.Store.Credit(ctx, user, l.Currency, amount, "chat_activity", "message", "chat")
}

func (l *Ledger) CreditGrant(ctx context.Context, user string, amount int64, note string) (int64, error) {
	return l.Store.Credit(ctx, user, l.Currency, amount, "admin_grant", "admin", note)
}

func (l *Ledger) DebitGrant(ctx context.Context, user string, amount int64, note string) (int64, error) {
	return l.Store.Debit(ctx, user, l.Currency, amount, "admin_debit", "admin", note)
}

func (l *Ledger) DebitPurchase(ctx context.Context, user string, amount int64, item string) (int64, error) {
	return l.Store.Debit(ctx, user, l.Currency, amount, "purchase", "item", item)
}

// RefundPurchase compensates a debit whose paired effect failed to apply.
func (l *Ledger) RefundPurchase(ctx context.Context, user string, amount int64, item string) (int64, error) {
	return l.Store.Credit(ctx, user, l.Currency, amount, "purchase_refund", "item", item)
}
