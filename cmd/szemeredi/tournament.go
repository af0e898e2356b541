package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/IlikeChooros/go-szemeredi/pkg/bench"
	"github.com/IlikeChooros/go-szemeredi/pkg/config"
	"github.com/IlikeChooros/go-szemeredi/pkg/metrics"
)

func newTournamentCmd(a *app) *cobra.Command {
	// Flag values, applied over the loaded config only when given
	flags := config.Default()

	cmd := &cobra.Command{
		Use:   "tournament",
		Short: "Play every ordered pair of strategies against each other",
		Long: `Runs a round robin: each ordered pair of distinct strategies plays
num_games games, the first strategy of the pair always moving first.
Wins give 1 point and draws 0.5. Aggregate statistics are written to
tournament_<unix time>.json in the stats directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			applyFlags(cmd.Flags(), &cfg, &flags)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return a.runTournament(cmd, cfg)
		},
	}

	f := cmd.Flags()
	f.IntVar(&flags.K, "k", flags.K, "Progression length needed to win")
	f.IntVar(&flags.X, "x", flags.X, "Pool size")
	f.IntVar(&flags.Lower, "lower", flags.Lower, "Smallest value of the universe")
	f.IntVar(&flags.Bound, "bound", flags.Bound, "Largest value of the universe")
	f.IntVarP(&flags.NumGames, "games", "n", flags.NumGames, "Games per ordered pair")
	f.BoolVar(&flags.SaveMoves, "save-moves", flags.SaveMoves, "Save a move log of every game")
	f.StringSliceVarP(&flags.Strategies, "strategies", "s", nil, "Participating strategies (default all)")
	f.IntVarP(&flags.Workers, "workers", "w", flags.Workers, "Games played concurrently")
	f.Uint32Var(&flags.Iterations, "iterations", flags.Iterations, "MCTS cycles per move")
	f.Int64Var(&flags.Seed, "seed", flags.Seed, "Tournament seed (0 for a random one)")
	f.StringVar(&flags.MovesDir, "moves-dir", flags.MovesDir, "Directory of the move logs")
	f.StringVar(&flags.StatsDir, "stats-dir", flags.StatsDir, "Directory of the results")
	f.StringVar(&flags.MetricsFile, "metrics-file", "", "Write Prometheus metrics of the run to this file")
	return cmd
}

// Copies the explicitly set flags over the config
func applyFlags(fs *pflag.FlagSet, cfg, flags *config.Tournament) {
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "k":
			cfg.K = flags.K
		case "x":
			cfg.X = flags.X
		case "lower":
			cfg.Lower = flags.Lower
		case "bound":
			cfg.Bound = flags.Bound
		case "games":
			cfg.NumGames = flags.NumGames
		case "save-moves":
			cfg.SaveMoves = flags.SaveMoves
		case "strategies":
			cfg.Strategies = flags.Strategies
		case "workers":
			cfg.Workers = flags.Workers
		case "iterations":
			cfg.Iterations = flags.Iterations
		case "seed":
			cfg.Seed = flags.Seed
		case "moves-dir":
			cfg.MovesDir = flags.MovesDir
		case "stats-dir":
			cfg.StatsDir = flags.StatsDir
		case "metrics-file":
			cfg.MetricsFile = flags.MetricsFile
		}
	})
}

func (a *app) runTournament(cmd *cobra.Command, cfg config.Tournament) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	m := metrics.New()
	arena := bench.FromConfig(cfg,
		bench.WithRegistry(bench.NewRegistry(cfg.Iterations, m, a.logger)),
		bench.WithMetrics(m),
		bench.WithListener(bench.NewProgressListener(out)),
		bench.WithLogger(a.logger),
	)

	results, err := arena.Run(ctx)
	if err != nil {
		return fmt.Errorf("tournament: %w", err)
	}

	path, err := results.Save(cfg.StatsDir, time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Results saved to %s\n", path)
	fmt.Fprintln(out, bench.RankingTable(results))
	fmt.Fprintln(out, bench.MatchupTable(results))

	if cfg.MetricsFile != "" {
		if err := m.WriteToTextfile(cfg.MetricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		a.logger.Info().Str("path", cfg.MetricsFile).Msg("metrics written")
	}
	return nil
}
