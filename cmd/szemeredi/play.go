package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/IlikeChooros/go-szemeredi/pkg/game"
	"github.com/IlikeChooros/go-szemeredi/pkg/mcts"
	"github.com/IlikeChooros/go-szemeredi/pkg/movelog"
	"github.com/IlikeChooros/go-szemeredi/pkg/strategy"
)

const humanName = "player"

type playOptions struct {
	settings   game.Settings
	strategy   string
	first      string
	seed       int64
	iterations uint32
	info       bool
	columns    int
	saveDir    string
}

func newPlayCmd(a *app) *cobra.Command {
	opts := playOptions{
		settings:   game.Settings{K: 3, X: 20, Lower: 1, Bound: 100},
		strategy:   strategy.Random,
		first:      humanName,
		iterations: mcts.DefaultIterations,
	}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play against a strategy in the terminal",
		Long: `Play a game against one of the registered strategies, entering the
number to claim on each turn. Type 'q' to give up.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.first != humanName && opts.first != "computer" {
				return fmt.Errorf("--first must be %q or %q, got %q", humanName, "computer", opts.first)
			}
			return a.play(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.settings.K, "k", opts.settings.K, "Progression length needed to win")
	f.IntVar(&opts.settings.X, "x", opts.settings.X, "Pool size")
	f.IntVar(&opts.settings.Lower, "lower", opts.settings.Lower, "Smallest value of the universe")
	f.IntVar(&opts.settings.Bound, "bound", opts.settings.Bound, "Largest value of the universe")
	f.StringVarP(&opts.strategy, "strategy", "s", opts.strategy, "Opponent strategy")
	f.StringVar(&opts.first, "first", opts.first, "Who moves first: player or computer")
	f.Int64Var(&opts.seed, "seed", 0, "Seed of the pool and the opponent (0 for a random one)")
	f.Uint32Var(&opts.iterations, "iterations", opts.iterations, "MCTS cycles per move")
	f.BoolVar(&opts.info, "info", false, "Print the search summary of MCTS opponents")
	f.IntVar(&opts.columns, "columns", movelog.DefaultColumns, "Numbers per grid row")
	f.StringVar(&opts.saveDir, "save-dir", "", "Save the move log of the game into this directory")
	return cmd
}

func (a *app) opponent(out io.Writer, opts playOptions) strategy.Strategy {
	switch name := strings.ToLower(opts.strategy); name {
	case strategy.MCTS, strategy.MCTSCached:
		mctsOpts := []strategy.MCTSOption{
			strategy.Cached(name == strategy.MCTSCached),
			strategy.WithIterations(opts.iterations),
			strategy.WithLogger(a.logger),
		}
		if opts.info {
			mctsOpts = append(mctsOpts, strategy.WithListener(infoListener(out)))
		}
		return strategy.NewMCTS(mctsOpts...)
	}

	if _, ok := strategy.Default().Lookup(opts.strategy); !ok {
		a.logger.Warn().Str("strategy", opts.strategy).Msg("unknown strategy, falling back")
	}
	return strategy.Default().Get(opts.strategy)
}

func infoListener(out io.Writer) *mcts.StatsListener {
	return mcts.NewStatsListener().OnStop(func(lts mcts.ListenerTreeStats) {
		if len(lts.Lines) == 0 {
			return
		}
		main := lts.Lines[0]
		fmt.Fprintf(out, "info eval %.2f depth %d cps %d cycles %d pv %v\n",
			main.Eval, lts.Maxdepth, lts.Cps, lts.Cycles, main.Moves)
		fmt.Fprintf(out, "bestmove %d\n", main.BestMove)
	})
}

func (a *app) play(cmd *cobra.Command, opts playOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	seed := opts.seed
	if seed == 0 {
		seed = mcts.SeedGeneratorFn()
	}
	r := rand.New(rand.NewSource(seed))

	g, err := game.New(opts.settings, game.WithRand(r), game.WithLogger(a.logger))
	if err != nil {
		return err
	}

	human, first, second := game.Player1, humanName, opts.strategy
	if opts.first != humanName {
		human, first, second = game.Player2, opts.strategy, humanName
	}
	l := movelog.FromGame(g, first, second, 1)

	renderer := movelog.NewRenderer(out)
	renderer.Columns = opts.columns
	renderer.Header(l)

	opponent := a.opponent(out, opts)
	req := strategy.Request{K: g.K(), Rand: r, Cache: mcts.NewCache()}
	in := bufio.NewScanner(cmd.InOrStdin())

	for !g.GameOver() {
		if g.Turn() != human {
			req.Available, req.Own, req.Opponent = g.Available(), g.Held(g.Turn()), g.Held(human)
			move, err := opponent.ChooseMove(ctx, req)
			if err != nil {
				return err
			}
			if err := g.MakeMove(move); err != nil {
				return fmt.Errorf("%s chose %d: %w", opts.strategy, move, err)
			}
			fmt.Fprintf(out, "%s takes %d\n", opts.strategy, move)
			continue
		}

		renderer.Grid(g)
		fmt.Fprintf(out, "Available: %v\nYour move: ", g.Available())
		if !in.Scan() {
			if err := in.Err(); err != nil {
				return err
			}
			return errors.New("input closed before the game ended")
		}

		text := strings.TrimSpace(in.Text())
		if text == "q" || text == "quit" {
			fmt.Fprintln(out, "Game abandoned")
			return nil
		}
		v, err := strconv.Atoi(text)
		if err != nil {
			fmt.Fprintf(out, "%q is not a number\n", text)
			continue
		}
		if err := g.MakeMove(v); err != nil {
			if errors.Is(err, game.ErrIllegalMove) {
				fmt.Fprintf(out, "%d is not available\n", v)
				continue
			}
			return err
		}
	}

	fmt.Fprintln(out)
	renderer.Grid(g)
	l = movelog.FromGame(g, first, second, 1)
	renderer.Result(g, l)

	if opts.saveDir != "" {
		path := filepath.Join(opts.saveDir, l.FileName())
		if err := l.Save(path); err != nil {
			return err
		}
		fmt.Fprintf(out, "Moves saved to %s\n", path)
	}
	return nil
}
