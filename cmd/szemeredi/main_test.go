package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IlikeChooros/go-szemeredi/pkg/bench"
	"github.com/IlikeChooros/go-szemeredi/pkg/game"
	"github.com/IlikeChooros/go-szemeredi/pkg/movelog"
	"github.com/IlikeChooros/go-szemeredi/pkg/strategy"
)

func execute(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd(strings.NewReader(input), &out, &errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestStrategiesCmd(t *testing.T) {
	out, err := execute(t, "", "strategies")
	require.NoError(t, err)
	assert.Equal(t, strategy.Default().Names(), strings.Fields(out))
}

func TestTournamentCmd(t *testing.T) {
	dir := t.TempDir()
	stats, moves := filepath.Join(dir, "stats"), filepath.Join(dir, "moves")
	metricsFile := filepath.Join(dir, "run.prom")

	out, err := execute(t, "", "tournament",
		"--k", "3", "--x", "10", "--lower", "1", "--bound", "20",
		"-n", "1", "-s", "min,random", "--seed", "5",
		"--stats-dir", stats, "--moves-dir", moves, "--save-moves",
		"--metrics-file", metricsFile, "--log-level", "error")
	require.NoError(t, err)

	assert.Contains(t, out, "Running experiments: 2 algorithms, 2 games in total")
	assert.Contains(t, out, "Results saved to ")
	assert.Contains(t, out, "strategy")

	files, err := filepath.Glob(filepath.Join(stats, "tournament_*.json"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	results, err := bench.LoadResults(files[0])
	require.NoError(t, err)
	assert.Equal(t, 2, results.TotalGames)
	assert.Equal(t, game.Settings{K: 3, X: 10, Lower: 1, Bound: 20}, results.Settings)

	assert.FileExists(t, filepath.Join(moves, "min_vs_random_game_1.json"))
	assert.FileExists(t, filepath.Join(moves, "random_vs_min_game_1.json"))
	assert.FileExists(t, metricsFile)
}

func TestTournamentCmdConfigAndOverride(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "tournament.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{
  "k": 3, "x": 8, "lower": 1, "bound": 12,
  "num_games": 1,
  "strategies": ["min", "heuristic"],
  "seed": 3
}`), 0o644))

	stats := filepath.Join(dir, "stats")
	_, err := execute(t, "", "tournament", "--config", cfgPath, "--games", "2", "--stats-dir", stats)
	require.NoError(t, err)

	files, err := filepath.Glob(filepath.Join(stats, "tournament_*.json"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	results, err := bench.LoadResults(files[0])
	require.NoError(t, err)
	assert.Equal(t, 4, results.TotalGames, "flag overrides the file")
	assert.Equal(t, 8, results.Settings.X, "file overrides the defaults")
}

func TestTournamentCmdInvalid(t *testing.T) {
	_, err := execute(t, "", "tournament", "--x", "500", "--stats-dir", t.TempDir())
	require.Error(t, err)

	_, err = execute(t, "", "tournament", "-s", "min,grandmaster", "--stats-dir", t.TempDir())
	require.ErrorIs(t, err, bench.ErrUnknownStrategy)

	_, err = execute(t, "", "strategies", "--log-level", "loud")
	require.Error(t, err)
}

func TestReplayCmd(t *testing.T) {
	g, err := game.New(game.Settings{K: 3, X: 5, Lower: 1, Bound: 5}, game.WithGrid([]int{5, 4, 3, 2, 1}))
	require.NoError(t, err)
	for _, m := range []int{1, 5, 2, 4, 3} {
		require.NoError(t, g.MakeMove(m))
	}
	l := movelog.FromGame(g, "min", "random", 1)
	path := filepath.Join(t.TempDir(), l.FileName())
	require.NoError(t, l.Save(path))

	out, err := execute(t, "", "replay", "--steps", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Game #1: min vs random")
	assert.Contains(t, out, "Move 1: min takes 1")
	assert.Contains(t, out, "Move 2: random takes 5")
	assert.Contains(t, out, "Winner: player1 (min)")

	_, err = execute(t, "", "replay", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestPlayCmdHumanFirst(t *testing.T) {
	out, err := execute(t, "abc\n5\n1\n4\n3\n", "play",
		"--k", "3", "--x", "5", "--lower", "1", "--bound", "5", "--strategy", "min")
	require.NoError(t, err)

	assert.Contains(t, out, `"abc" is not a number`)
	assert.Contains(t, out, "1 is not available")
	assert.Contains(t, out, "min takes 1")
	assert.Contains(t, out, "min takes 2")
	assert.Contains(t, out, "Winner: player1 (player)")
}

func TestPlayCmdComputerFirst(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "5\n4\n", "play",
		"--k", "3", "--x", "5", "--lower", "1", "--bound", "5",
		"--strategy", "min", "--first", "computer", "--save-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Winner: player1 (min)")

	l, err := movelog.Load(filepath.Join(dir, "min_vs_player_game_1.json"))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 5, 2, 4, 3}, l.Moves)
}

func TestPlayCmdQuitAndErrors(t *testing.T) {
	out, err := execute(t, "q\n", "play")
	require.NoError(t, err)
	assert.Contains(t, out, "Game abandoned")

	_, err = execute(t, "", "play")
	require.Error(t, err, "input ends before the game")

	_, err = execute(t, "", "play", "--first", "nobody")
	require.Error(t, err)
}

func TestPlayCmdMCTSInfo(t *testing.T) {
	out, err := execute(t, "q\n", "play",
		"--k", "3", "--x", "6", "--lower", "1", "--bound", "6",
		"--strategy", "mcts", "--first", "computer", "--iterations", "100", "--info")
	require.NoError(t, err)
	assert.Contains(t, out, "info eval ")
	assert.Contains(t, out, "bestmove ")
	assert.Contains(t, out, "mcts takes ")
}
