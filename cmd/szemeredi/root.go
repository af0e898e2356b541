package main

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/IlikeChooros/go-szemeredi/pkg/logx"
)

// State shared by the subcommands
type app struct {
	logLevel   string
	configPath string
	logger     zerolog.Logger
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{logger: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "szemeredi",
		Short: "Szemerédi's game: play, replay and benchmark strategies",
		Long: `Two players alternately claim numbers from a randomly drawn pool,
the first to hold a k-term arithmetic progression wins.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logx.ParseLevel(a.logLevel)
			if err != nil {
				return err
			}
			if f, ok := cmd.ErrOrStderr().(*os.File); ok && f == os.Stderr {
				a.logger = logx.NewLogger(level)
			} else {
				a.logger = logx.New(cmd.ErrOrStderr(), level, true)
			}
			return nil
		},
	}

	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to a YAML or JSON tournament config")

	root.AddCommand(
		newTournamentCmd(a),
		newReplayCmd(a),
		newPlayCmd(a),
		newStrategiesCmd(),
	)
	return root
}
