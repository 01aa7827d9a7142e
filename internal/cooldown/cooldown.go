package cooldown

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crown-ledger/internal/store"
)

var ErrCooldownActive = errors.New("cooldown_active")

// Error carries how long the caller must wait, truncated to whole seconds.
type Error struct {
	Remaining time.Duration
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s remaining", ErrCooldownActive.Error(), e.Remaining)
}

func (e *Error) Unwrap() error {
	return ErrCooldownActive
}

// Tracker gates timed actions per (user, action). The check-and-update is a
// single atomic step inside the store lock, so two near-simultaneous claims
// can never both succeed.
type Tracker struct {
	store *store.Store
}

func New(s *store.Store) *Tracker {
	return &Tracker{store: s}
}

// Claim returns nil and records now when the action may fire, or an *Error
// with the remaining wait. A denied claim leaves the record untouched.
func (t *Tracker) Claim(ctx context.Context, user, action string, now time.Time, period time.Duration) error {
	res := t.store.TryClaim(ctx, user, action, now, period)
	if res.Allowed {
		return nil
	}
	remaining := res.Remaining.Truncate(time.Second)
	if remaining < res.Remaining {
		remaining += time.Second
	}
	return &Error{Remaining: remaining}
}
