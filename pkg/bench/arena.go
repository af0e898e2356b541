package bench

/*
Tournament subpackage, plays a round robin between registered strategies:
every ordered pair of distinct strategies meets NumGames times, the first
strategy of the pair always moving first. Games are independent, so they are
spread over a pool of workers, each game owning its random sources and
search caches.
*/

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/IlikeChooros/go-szemeredi/pkg/config"
	"github.com/IlikeChooros/go-szemeredi/pkg/game"
	"github.com/IlikeChooros/go-szemeredi/pkg/mcts"
	"github.com/IlikeChooros/go-szemeredi/pkg/metrics"
	"github.com/IlikeChooros/go-szemeredi/pkg/movelog"
	"github.com/IlikeChooros/go-szemeredi/pkg/strategy"
)

var (
	ErrUnknownStrategy = errors.New("bench: unknown strategy")
	ErrTooFewPlayers   = errors.New("bench: a tournament needs at least two strategies")
)

// One scheduled game
type Match struct {
	First, Second string
	// 1-based, counted per ordered pair
	GameID int
	Seed   int64
}

type Arena struct {
	Settings game.Settings
	// Participants, every registered strategy when empty
	Strategies []string
	NumGames   int
	Workers    int
	// Seed of the schedule, 0 picks one with mcts.SeedGeneratorFn
	Seed      int64
	SaveMoves bool
	MovesDir  string

	registry *strategy.Registry
	metrics  *metrics.Metrics
	listener Listener
	logger   zerolog.Logger
	runID    uuid.UUID
	mu       sync.Mutex
}

type ArenaOption func(*Arena)

func WithRegistry(r *strategy.Registry) ArenaOption {
	return func(a *Arena) { a.registry = r }
}

func WithMetrics(m *metrics.Metrics) ArenaOption {
	return func(a *Arena) { a.metrics = m }
}

func WithListener(l Listener) ArenaOption {
	return func(a *Arena) {
		if l != nil {
			a.listener = l
		}
	}
}

func WithLogger(logger zerolog.Logger) ArenaOption {
	return func(a *Arena) { a.logger = logger }
}

func WithRunID(id uuid.UUID) ArenaOption {
	return func(a *Arena) { a.runID = id }
}

func NewArena(settings game.Settings, opts ...ArenaOption) *Arena {
	a := &Arena{
		Settings: settings,
		NumGames: 10,
		Workers:  1,
		MovesDir: config.DefaultMovesDir,
		registry: strategy.Default(),
		listener: DefaultListener{},
		logger:   zerolog.Nop(),
		runID:    uuid.New(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Arena set up from a tournament configuration
func FromConfig(cfg config.Tournament, opts ...ArenaOption) *Arena {
	a := NewArena(cfg.Settings, opts...)
	a.Strategies = cfg.Strategies
	a.NumGames = cfg.NumGames
	a.Workers = cfg.Workers
	a.Seed = cfg.Seed
	a.SaveMoves = cfg.SaveMoves
	a.MovesDir = cfg.MovesDir
	return a
}

func (a *Arena) RunID() string {
	return a.runID.String()
}

func (a *Arena) names() ([]string, error) {
	if len(a.Strategies) == 0 {
		return a.registry.Names(), nil
	}
	for _, name := range a.Strategies {
		if _, ok := a.registry.Lookup(name); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
		}
	}
	return a.Strategies, nil
}

// Schedule lists every game of the tournament, grouped by ordered pair.
// Seeds are drawn up front, so results don't depend on worker scheduling.
func (a *Arena) Schedule() ([]Match, error) {
	names, err := a.names()
	if err != nil {
		return nil, err
	}
	if len(names) < 2 {
		return nil, ErrTooFewPlayers
	}

	seed := a.Seed
	if seed == 0 {
		seed = mcts.SeedGeneratorFn()
	}
	r := rand.New(rand.NewSource(seed))

	matches := make([]Match, 0, len(names)*(len(names)-1)*a.NumGames)
	for _, first := range names {
		for _, second := range names {
			if first == second {
				continue
			}
			for i := 1; i <= a.NumGames; i++ {
				matches = append(matches, Match{
					First:  first,
					Second: second,
					GameID: i,
					Seed:   r.Int63(),
				})
			}
		}
	}
	return matches, nil
}

// Run plays the whole tournament. On error the results gathered so far
// are returned along with it.
func (a *Arena) Run(ctx context.Context) (*Results, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	names, err := a.names()
	if err != nil {
		return nil, err
	}
	matches, err := a.Schedule()
	if err != nil {
		return nil, err
	}

	results := newResults(a.RunID(), a.Settings, names)
	workers := max(1, a.Workers)
	a.listener.OnStart(StartInfo{
		RunID:      a.RunID(),
		Strategies: names,
		TotalGames: len(matches),
		Workers:    workers,
	})
	a.logger.Info().
		Str("run", a.RunID()).
		Int("strategies", len(names)).
		Int("games", len(matches)).
		Int("workers", workers).
		Stringer("settings", a.Settings).
		Msg("tournament started")

	start := time.Now()
	finished := 0
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, m := range matches {
		m := m
		g.Go(func() error {
			res, err := a.play(gctx, m)
			if err != nil {
				return err
			}

			if res.Log != nil {
				if err := res.Log.Save(filepath.Join(a.MovesDir, res.Log.FileName())); err != nil {
					return fmt.Errorf("save moves: %w", err)
				}
			}

			a.mu.Lock()
			defer a.mu.Unlock()
			results.add(res)
			finished++
			if a.metrics != nil {
				a.metrics.RecordGame(res.First, res.Second, res.Winner)
			}
			a.listener.OnFinishedGame(ProgressInfo{Finished: finished, Total: len(matches), Game: res})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		a.logger.Error().Err(err).Int("finished", finished).Msg("tournament aborted")
		return results, err
	}

	a.logger.Info().
		Str("run", a.RunID()).
		Int("games", results.TotalGames).
		Dur("took", time.Since(start)).
		Msg("tournament finished")
	a.listener.OnFinishedWork(results)
	return results, nil
}

type seat struct {
	name     string
	strategy strategy.Strategy
	rand     *rand.Rand
	cache    *mcts.Cache
	took     time.Duration
}

// Play a single game of the schedule
func (a *Arena) play(ctx context.Context, m Match) (GameResult, error) {
	res := GameResult{First: m.First, Second: m.Second, GameID: m.GameID}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	r := rand.New(rand.NewSource(m.Seed))
	g, err := game.New(a.Settings, game.WithRand(r), game.WithLogger(a.logger))
	if err != nil {
		return res, err
	}

	// Fresh caches, so no search tree outlives its game
	seats := [2]seat{
		{name: m.First, strategy: a.registry.Get(m.First), rand: rand.New(rand.NewSource(r.Int63())), cache: mcts.NewCache()},
		{name: m.Second, strategy: a.registry.Get(m.Second), rand: rand.New(rand.NewSource(r.Int63())), cache: mcts.NewCache()},
	}

	if a.metrics != nil {
		a.metrics.GamesInFlight.Inc()
		defer a.metrics.GamesInFlight.Dec()
	}

	for !g.GameOver() {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		turn := g.Turn()
		s := &seats[int(turn)-1]
		req := strategy.Request{
			Available: g.Available(),
			Own:       g.Held(turn),
			Opponent:  g.Held(turn.Other()),
			K:         g.K(),
			Rand:      s.rand,
			Cache:     s.cache,
		}

		start := time.Now()
		move, err := s.strategy.ChooseMove(ctx, req)
		took := time.Since(start)
		if err != nil {
			return res, fmt.Errorf("%s vs %s #%d: %s: %w", m.First, m.Second, m.GameID, s.name, err)
		}
		if err := g.MakeMove(move); err != nil {
			return res, fmt.Errorf("%s vs %s #%d: %s chose %d: %w", m.First, m.Second, m.GameID, s.name, move, err)
		}
		s.took += took

		if a.metrics != nil {
			a.metrics.RecordMove(s.name, took)
		}
		a.mu.Lock()
		a.listener.OnMoveMade(MoveInfo{
			First:   m.First,
			Second:  m.Second,
			GameID:  m.GameID,
			Player:  turn,
			Move:    move,
			MoveNum: len(g.Moves()),
			Took:    took,
		})
		a.mu.Unlock()
	}

	res.Winner = g.Winner()
	res.FirstTime = seats[0].took
	res.SecondTime = seats[1].took
	res.Moves = len(g.Moves())
	if a.SaveMoves {
		res.Log = movelog.FromGame(g, m.First, m.Second, m.GameID)
	}

	a.logger.Debug().
		Str("first", m.First).
		Str("second", m.Second).
		Int("game", m.GameID).
		Int("winner", res.Winner).
		Int("moves", res.Moves).
		Msg("game finished")
	return res, nil
}
