// Package game implements the number-guessing game: a one-time participation
// bonus on a user's first completed guess, and a correctness reward for
// every guess that hits the secret.
package game

import (
	"context"
	"sync"

	"crown-ledger/internal/ledger"
	"crown-ledger/internal/store"
)

// Name scopes the first-attempt flags in the snapshot.
const Name = "guess"

type Outcome string

const (
	// OutcomePrompt means no guess value was submitted: no state change.
	OutcomePrompt    Outcome = "prompt"
	OutcomeCorrect   Outcome = "correct"
	OutcomeIncorrect Outcome = "incorrect"
)

type Result struct {
	Outcome   Outcome
	FirstPlay bool
	// PlayReward is the participation amount granted this call, 0 otherwise.
	PlayReward    int64
	CorrectReward int64
	// Secret is revealed only on an incorrect guess.
	Secret  int
	Balance int64
}

type Evaluator struct {
	// mu serializes whole guess evaluations; the flag check and the reward
	// postings must act as one step for concurrent first guesses.
	mu sync.Mutex

	ledger *ledger.Ledger
	store  *store.Store

	secret        int
	playReward    int64
	correctReward int64
}

func NewEvaluator(led *ledger.Ledger, st *store.Store, secret int, playReward, correctReward int64) *Evaluator {
	return &Evaluator{
		ledger:        led,
		store:         st,
		secret:        secret,
		playReward:    playReward,
		correctReward: correctReward,
	}
}

// Guess evaluates one submission. A nil guess is a prompt outcome and grants
// nothing. The first completed guess flips the user to played and grants the
// participation reward exactly once; a correct guess grants the correctness
// reward every time.
func (e *Evaluator) Guess(ctx context.Context, user string, guess *int) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if guess == nil {
		return Result{Outcome: OutcomePrompt, Balance: e.ledger.Balance(user)}, nil
	}

	res := Result{Balance: e.ledger.Balance(user)}
	if !e.store.FirstTryDone(Name, user) {
		bal, err := e.ledger.CreditParticipation(ctx, user, e.playReward)
		if err != nil {
			return Result{}, err
		}
		e.store.MarkFirstTry(ctx, Name, user)
		res.FirstPlay = true
		res.PlayReward = e.playReward
		res.Balance = bal
	}

	if *guess == e.secret {
		bal, err := e.ledger.CreditCorrectGuess(ctx, user, e.correctReward)
		if err != nil {
			return Result{}, err
		}
		res.Outcome = OutcomeCorrect
		res.CorrectReward = e.correctReward
		res.Balance = bal
		return res, nil
	}

	res.Outcome = OutcomeIncorrect
	res.Secret = e.secret
	return res, nil
}
