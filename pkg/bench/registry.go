package bench

import (
	"github.com/rs/zerolog"

	"github.com/IlikeChooros/go-szemeredi/pkg/mcts"
	"github.com/IlikeChooros/go-szemeredi/pkg/metrics"
	"github.com/IlikeChooros/go-szemeredi/pkg/strategy"
)

// NewRegistry copies the built-in strategies, with both MCTS variants
// running 'iterations' cycles per move and reporting their searches to 'm'
// (which may be nil)
func NewRegistry(iterations uint32, m *metrics.Metrics, logger zerolog.Logger) *strategy.Registry {
	r := strategy.NewRegistry()
	builtins := strategy.Default()

	for _, name := range builtins.Names() {
		s, _ := builtins.Lookup(name)
		switch name {
		case strategy.MCTS, strategy.MCTSCached:
			opts := []strategy.MCTSOption{
				strategy.Cached(name == strategy.MCTSCached),
				strategy.WithIterations(iterations),
				strategy.WithLogger(logger.With().Str("strategy", name).Logger()),
			}
			if m != nil {
				opts = append(opts, strategy.WithListener(searchListener(name, m)))
			}
			s = strategy.NewMCTS(opts...)
		}
		if err := r.Register(name, s); err != nil {
			panic(err)
		}
	}
	return r
}

func searchListener(name string, m *metrics.Metrics) *mcts.StatsListener {
	return mcts.NewStatsListener().OnStop(func(stats mcts.ListenerTreeStats) {
		m.RecordSearch(name, uint32(stats.Cycles))
	})
}
