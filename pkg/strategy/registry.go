package strategy

import (
	"fmt"
	"strings"
	"sync"
)

const (
	Random        = "random"
	Min           = "min"
	Heuristic     = "heuristic"
	HeuristicFast = "heuristic_fast"
	OverlapMax    = "overlap_max"
	MCTS          = "mcts"
	MCTSCached    = "mcts_cached"
)

// Named strategies, safe for concurrent use
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
	names      []string
}

func NewRegistry() *Registry {
	return &Registry{strategies: make(map[string]Strategy)}
}

func (r *Registry) Register(name string, s Strategy) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.strategies[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	r.strategies[name] = s
	r.names = append(r.names, name)
	return nil
}

// Exact name lookup
func (r *Registry) Lookup(name string) (Strategy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.strategies[name]
	return s, ok
}

// Like Lookup, but ignores the case, and falls back to 'random'
// (or nil, if even that is not registered)
func (r *Registry) Get(name string) Strategy {
	if s, ok := r.Lookup(name); ok {
		return s
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, n := range r.names {
		if strings.EqualFold(n, name) {
			return r.strategies[n]
		}
	}
	return r.strategies[Random]
}

// Registered names, in registration order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.names...)
}

// Registry with every built-in strategy
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	builtins := []struct {
		name string
		s    Strategy
	}{
		{Random, Func(chooseRandom)},
		{Heuristic, Func(chooseHeuristic)},
		{Min, Func(chooseMin)},
		{HeuristicFast, Func(chooseHeuristicFast)},
		{OverlapMax, OverlapStrategy{}},
		{MCTSCached, NewMCTS(Cached(true))},
		{MCTS, NewMCTS()},
	}
	for _, b := range builtins {
		if err := r.Register(b.name, b.s); err != nil {
			panic(err)
		}
	}
	return r
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Process-wide registry with the built-in strategies,
// new strategies registered here become visible to every caller
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewDefaultRegistry()
	})
	return defaultRegistry
}
