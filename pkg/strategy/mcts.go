package strategy

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/IlikeChooros/go-szemeredi/pkg/mcts"
	"github.com/IlikeChooros/go-szemeredi/pkg/progression"
)

// Monte Carlo tree search from the current position, optionally continuing
// the tree remembered in Request.Cache
type MCTSStrategy struct {
	cached   bool
	limits   mcts.Limits
	c        float64
	listener *mcts.StatsListener
	logger   zerolog.Logger
	indexes  *progression.Cache
}

type MCTSOption func(*MCTSStrategy)

// Reuse the subtree remembered in Request.Cache
func Cached(cached bool) MCTSOption {
	return func(s *MCTSStrategy) { s.cached = cached }
}

func WithLimits(limits mcts.Limits) MCTSOption {
	return func(s *MCTSStrategy) { s.limits = limits }
}

// Shorthand for a cycle-only limit
func WithIterations(cycles uint32) MCTSOption {
	return func(s *MCTSStrategy) { s.limits = *mcts.DefaultLimits().SetCycles(cycles) }
}

func WithExplorationParam(c float64) MCTSOption {
	return func(s *MCTSStrategy) { s.c = c }
}

func WithListener(listener *mcts.StatsListener) MCTSOption {
	return func(s *MCTSStrategy) { s.listener = listener }
}

func WithLogger(logger zerolog.Logger) MCTSOption {
	return func(s *MCTSStrategy) { s.logger = logger }
}

// Index cache to use, progression.Shared by default
func WithIndexCache(cache *progression.Cache) MCTSOption {
	return func(s *MCTSStrategy) { s.indexes = cache }
}

func NewMCTS(opts ...MCTSOption) *MCTSStrategy {
	s := &MCTSStrategy{
		limits:  *mcts.DefaultLimits(),
		c:       mcts.ExplorationParam,
		logger:  zerolog.Nop(),
		indexes: progression.Shared,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MCTSStrategy) treeOptions(req *Request) []mcts.Option {
	// every search gets its own copy, the limiter keeps a pointer
	limits := s.limits
	return []mcts.Option{
		mcts.WithRand(req.rand()),
		mcts.WithLimits(&limits),
		mcts.WithExplorationParam(s.c),
		mcts.WithListener(s.listener),
		mcts.WithLogger(s.logger),
	}
}

func (s *MCTSStrategy) ChooseMove(ctx context.Context, req Request) (int, error) {
	if len(req.Available) == 0 {
		return 0, ErrEmptyChoiceSet
	}

	values := make([]int, 0, len(req.Available)+len(req.Own)+len(req.Opponent))
	values = append(append(append(values, req.Available...), req.Own...), req.Opponent...)
	index, err := s.indexes.Get(req.K, values)
	if err != nil {
		return 0, err
	}

	opts := s.treeOptions(&req)
	cache := req.Cache
	if !s.cached {
		cache = nil
	}

	var tree *mcts.Tree
	if cache != nil {
		if reused, ok := cache.Reuse(index, req.Own, req.Opponent, opts...); ok {
			tree = reused
			s.logger.Debug().
				Int32("visits", tree.Node(tree.Root()).N()).
				Int("size", tree.Size()).
				Msg("reusing search tree")
		}
	}
	if tree == nil {
		if tree, err = mcts.NewTree(index, req.Available, req.Own, req.Opponent, opts...); err != nil {
			return 0, err
		}
	}

	move, err := tree.Search(ctx)
	if err != nil {
		return 0, fmt.Errorf("mcts strategy: %w", err)
	}

	if cache != nil {
		cache.Remember(tree, tree.BestChild(tree.Root(), mcts.BestChildMostVisits))
	}
	return move, nil
}
