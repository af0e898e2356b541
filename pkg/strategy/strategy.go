// Package strategy holds the move-selection algorithms and the registry
// used to look them up by name.
//
// A strategy receives the numbers still available, the mover's held numbers,
// the opponent's held numbers and the progression length, and returns one of
// the available numbers.
package strategy

import (
	"context"
	"errors"
	"math/rand"

	"github.com/IlikeChooros/go-szemeredi/pkg/mcts"
)

var (
	ErrEmptyChoiceSet = errors.New("strategy: no available moves")
	ErrDuplicateName  = errors.New("strategy: name already registered")
)

// Position handed to a strategy, from the mover's point of view
type Request struct {
	Available []int
	Own       []int
	Opponent  []int
	K         int

	// Source of randomness, when nil a new one is seeded from mcts.SeedGeneratorFn
	Rand *rand.Rand
	// Remembered search tree of this player, used by 'mcts_cached', owned by the caller
	Cache *mcts.Cache
}

func (r *Request) rand() *rand.Rand {
	if r.Rand == nil {
		r.Rand = rand.New(rand.NewSource(mcts.SeedGeneratorFn()))
	}
	return r.Rand
}

type Strategy interface {
	// Pick one of the available values
	ChooseMove(ctx context.Context, req Request) (int, error)
}

// Adapter for plain functions, that can't fail apart from an empty choice set
type Func func(req Request) int

func (f Func) ChooseMove(_ context.Context, req Request) (int, error) {
	if len(req.Available) == 0 {
		return 0, ErrEmptyChoiceSet
	}
	return f(req), nil
}

// Choose a move with the named strategy from the default registry
func Choose(ctx context.Context, name string, available, own, opp []int, k int) (int, error) {
	return Default().Get(name).ChooseMove(ctx, Request{
		Available: available,
		Own:       own,
		Opponent:  opp,
		K:         k,
	})
}
