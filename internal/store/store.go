package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"crown-ledger/internal/persist"
)

// journalCap bounds the in-memory entry journal exposed to admins.
const journalCap = 256

// Store is the authoritative in-memory economy state: balances, cooldown
// records and first-attempt flags, all guarded by one mutex so every
// mutating call is a short critical section. Mutations write through to the
// snapshotter; a failed write keeps the state in memory, marks the store
// dirty and is retried by the flush scheduler.
type Store struct {
	mu         sync.RWMutex
	balances   map[string]map[string]int64
	cooldowns  map[string]map[string]time.Time
	firstTries map[string]map[string]bool
	journal    []Entry
	dirty      bool

	snap persist.Snapshotter
}

// ClaimResult reports the outcome of a cooldown-gated claim.
type ClaimResult struct {
	Allowed   bool
	Remaining time.Duration
}

// Open builds a store from the snapshotter's last saved state. A missing or
// corrupt snapshot degrades to empty state with a warning; any other load
// failure is returned so startup can abort.
func Open(ctx context.Context, snap persist.Snapshotter) (*Store, error) {
	loaded, err := snap.Load(ctx)
	switch {
	case errors.Is(err, persist.ErrSnapshotMissing):
		log.Warn().Msg("no ledger snapshot found, starting empty")
	case errors.Is(err, persist.ErrSnapshotCorrupt):
		log.Warn().Err(err).Msg("ledger snapshot unreadable, starting empty")
	case err != nil:
		return nil, err
	}
	return &Store{
		balances:   loaded.Balances,
		cooldowns:  loaded.Cooldowns,
		firstTries: loaded.FirstTries,
		snap:       snap,
	}, nil
}

// Balance returns 0 for users or currencies that have no record.
func (s *Store) Balance(user, currency string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balances[user][currency]
}

func (s *Store) Credit(ctx context.Context, user, currency string, amount int64, entryType, refType, refID string) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.balances[user] == nil {
		s.balances[user] = map[string]int64{}
	}
	newBal := s.balances[user][currency] + amount
	s.balances[user][currency] = newBal
	s.appendEntryLocked(user, currency, amount, entryType, refType, refID)
	s.saveLocked(ctx)
	return newBal, nil
}

func (s *Store) Debit(ctx context.Context, user, currency string, amount int64, entryType, refType, refID string) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	bal := s.balances[user][currency]
	if bal < amount {
		return 0, ErrInsufficientFunds
	}
	newBal := bal - amount
	s.balances[user][currency] = newBal
	s.appendEntryLocked(user, currency, -amount, entryType, refType, refID)
	s.saveLocked(ctx)
	return newBal, nil
}

// TryClaim is the atomic check-and-update for cooldown-gated actions. The
// record is moved to now only when the claim is allowed.
func (s *Store) TryClaim(ctx context.Context, user, action string, now time.Time, period time.Duration) ClaimResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if last, ok := s.cooldowns[user][action]; ok {
		if elapsed := now.Sub(last); elapsed < period {
			return ClaimResult{Remaining: period - elapsed}
		}
	}
	if s.cooldowns[user] == nil {
		s.cooldowns[user] = map[string]time.Time{}
	}
	s.cooldowns[user][action] = now
	s.saveLocked(ctx)
	return ClaimResult{Allowed: true}
}

func (s *Store) FirstTryDone(game, user string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.firstTries[game][user]
}

// MarkFirstTry latches the flag; it never reverts.
func (s *Store) MarkFirstTry(ctx context.Context, game, user string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.firstTries[game][user] {
		return
	}
	if s.firstTries[game] == nil {
		s.firstTries[game] = map[string]bool{}
	}
	s.firstTries[game][user] = true
	s.saveLocked(ctx)
}

// Entries returns up to limit journal entries, newest first.
func (s *Store) Entries(limit int) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.journal) {
		limit = len(s.journal)
	}
	out := make([]Entry, 0, limit)
	for i := len(s.journal) - 1; i >= len(s.journal)-limit; i-- {
		out = append(out, s.journal[i])
	}
	return out
}

// TopBalances ranks holders of one currency, largest balance first. Ties
// break on user ID so the ordering is stable.
func (s *Store) TopBalances(currency string, limit int) []RankedBalance {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]RankedBalance, 0, len(s.balances))
	for user, currencies := range s.balances {
		if bal, ok := currencies[currency]; ok {
			out = append(out, RankedBalance{User: user, Balance: bal})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Balance != out[j].Balance {
			return out[i].Balance > out[j].Balance
		}
		return out[i].User < out[j].User
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

// Dirty reports whether in-memory state is ahead of durable storage.
func (s *Store) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// Flush writes the current state if it is ahead of durable storage.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty {
		return nil
	}
	if err := s.snap.Save(ctx, s.snapshotLocked()); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

// Close performs the final save of the store lifecycle.
func (s *Store) Close(ctx context.Context) error {
	return s.Flush(ctx)
}

func (s *Store) appendEntryLocked(user, currency string, amount int64, entryType, refType, refID string) {
	s.journal = append(s.journal, Entry{
		ID:        NewEntryID(),
		User:      user,
		Currency:  currency,
		Amount:    amount,
		Type:      entryType,
		RefType:   refType,
		RefID:     refID,
		CreatedAt: time.Now().UTC(),
	})
	if len(s.journal) > journalCap {
		s.journal = s.journal[len(s.journal)-journalCap:]
	}
}

func (s *Store) saveLocked(ctx context.Context) {
	s.dirty = true
	if err := s.snap.Save(ctx, s.snapshotLocked()); err != nil {
		log.Warn().Err(err).Msg("snapshot save failed, state held in memory for retry")
		return
	}
	s.dirty = false
}

func (s *Store) snapshotLocked() persist.Snapshot {
	snap := persist.NewSnapshot()
	for user, currencies := range s.balances {
		cp := make(map[string]int64, len(currencies))
		for currency, amount := range currencies {
			cp[currency] = amount
		}
		snap.Balances[user] = cp
	}
	for user, actions := range s.cooldowns {
		cp := make(map[string]time.Time, len(actions))
		for action, last := range actions {
			cp[action] = last
		}
		snap.Cooldowns[user] = cp
	}
	for game, users := range s.firstTries {
		cp := make(map[string]bool, len(users))
		for user, done := range users {
			cp[user] = done
		}
		snap.FirstTries[game] = cp
	}
	return snap
}
