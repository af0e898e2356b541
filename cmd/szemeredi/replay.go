package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/IlikeChooros/go-szemeredi/pkg/game"
	"github.com/IlikeChooros/go-szemeredi/pkg/movelog"
)

func newReplayCmd(a *app) *cobra.Command {
	var (
		steps   bool
		delay   time.Duration
		columns int
	)

	cmd := &cobra.Command{
		Use:   "replay <moves.json>",
		Short: "Replay a saved game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := movelog.Load(args[0])
			if err != nil {
				return err
			}

			r := movelog.NewRenderer(cmd.OutOrStdout())
			r.Columns = columns
			r.Header(l)

			ctx := cmd.Context()
			g, err := movelog.Replay(l, func(g *game.Game, i, move int) {
				if !steps {
					return
				}
				name := l.FirstPlayer
				if i%2 == 1 {
					name = l.SecondPlayer
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\nMove %d: %s takes %d\n", i+1, name, move)
				r.Grid(g)

				if delay > 0 && ctx.Err() == nil {
					select {
					case <-time.After(delay):
					case <-ctx.Done():
					}
				}
			})
			if err != nil {
				a.logger.Error().Err(err).Str("file", args[0]).Msg("replay stopped")
				return err
			}

			if !steps {
				r.Grid(g)
			}
			r.Result(g, l)
			return nil
		},
	}

	cmd.Flags().BoolVar(&steps, "steps", false, "Show the grid after every move")
	cmd.Flags().DurationVar(&delay, "delay", 0, "Pause between moves, with --steps")
	cmd.Flags().IntVar(&columns, "columns", movelog.DefaultColumns, "Numbers per grid row")
	return cmd
}
