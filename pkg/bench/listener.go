package bench

import (
	"fmt"
	"io"
	"time"

	"github.com/muesli/termenv"

	"github.com/IlikeChooros/go-szemeredi/pkg/game"
)

type StartInfo struct {
	RunID      string
	Strategies []string
	TotalGames int
	Workers    int
}

type MoveInfo struct {
	First, Second string
	GameID        int
	Player        game.Player
	Move          int
	// 1-based number of the move in its game
	MoveNum int
	Took    time.Duration
}

type ProgressInfo struct {
	Finished int
	Total    int
	Game     GameResult
}

// Receives tournament events, the arena never calls a listener concurrently
type Listener interface {
	OnStart(info StartInfo)
	OnMoveMade(info MoveInfo)
	OnFinishedGame(info ProgressInfo)
	OnFinishedWork(results *Results)
}

// Listener that ignores everything
type DefaultListener struct{}

func (DefaultListener) OnStart(StartInfo)           {}
func (DefaultListener) OnMoveMade(MoveInfo)         {}
func (DefaultListener) OnFinishedGame(ProgressInfo) {}
func (DefaultListener) OnFinishedWork(*Results)     {}

// Prints one line per finished game
type ProgressListener struct {
	DefaultListener
	out *termenv.Output
}

func NewProgressListener(w io.Writer, opts ...termenv.OutputOption) *ProgressListener {
	return &ProgressListener{out: termenv.NewOutput(w, opts...)}
}

func (p *ProgressListener) OnStart(info StartInfo) {
	fmt.Fprintf(p.out, "Running experiments: %d algorithms, %d games in total, %d workers (run %s)\n",
		len(info.Strategies), info.TotalGames, info.Workers, info.RunID)
}

func (p *ProgressListener) OnFinishedGame(info ProgressInfo) {
	width := len(fmt.Sprint(info.Total))
	counter := p.out.String(fmt.Sprintf("[%*d/%d]", width, info.Finished, info.Total)).Faint()

	outcome := p.out.String(info.Game.String())
	if info.Game.Winner == 0 {
		outcome = outcome.Foreground(p.out.Color("3"))
	} else {
		outcome = outcome.Foreground(p.out.Color("2"))
	}

	fmt.Fprintf(p.out, "%s %s vs %s #%d: %s\n", counter, info.Game.First, info.Game.Second, info.Game.GameID, outcome)
}

func (p *ProgressListener) OnFinishedWork(results *Results) {
	fmt.Fprintf(p.out, "Experiments completed, %d games played\n", results.TotalGames)
}
