package movelog

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/IlikeChooros/go-szemeredi/pkg/game"
)

const (
	player1Color  = "#4682B4" // steelblue
	player2Color  = "#B22222" // firebrick
	lastMoveColor = "#FFD700" // gold

	DefaultColumns = 10
)

// Draws a game to a terminal, numbers coloured by their holder
type Renderer struct {
	out     *termenv.Output
	Columns int
}

// Renderer writing to 'w', the colour profile is detected from 'w'
// unless given with termenv.WithProfile
func NewRenderer(w io.Writer, opts ...termenv.OutputOption) *Renderer {
	return &Renderer{
		out:     termenv.NewOutput(w, opts...),
		Columns: DefaultColumns,
	}
}

func (r *Renderer) color(p game.Player) termenv.Color {
	if p == game.Player1 {
		return r.out.Color(player1Color)
	}
	return r.out.Color(player2Color)
}

// Title and settings line of the log
func (r *Renderer) Header(l *Log) {
	title := r.out.String(fmt.Sprintf("Game #%d: %s vs %s", l.GameID, l.FirstPlayer, l.SecondPlayer)).Bold()
	fmt.Fprintln(r.out, title)
	fmt.Fprintf(r.out, "k=%d x=%d range=[%d, %d]\n", l.Settings.K, l.Settings.X, l.Settings.Lower, l.Settings.Bound)
}

// Pool in its original order, the last move highlighted,
// numbers of the completed progression underlined
func (r *Renderer) Grid(g *game.Game) {
	holder := make(map[int]game.Player, len(g.Grid()))
	for _, p := range []game.Player{game.Player1, game.Player2} {
		for _, v := range g.Held(p) {
			holder[v] = p
		}
	}

	winning := make(map[int]bool)
	for _, v := range WinningProgression(g) {
		winning[v] = true
	}

	last, hasLast := 0, false
	if moves := g.Moves(); len(moves) > 0 {
		last, hasLast = moves[len(moves)-1], true
	}

	width := 0
	for _, v := range g.Grid() {
		width = max(width, len(fmt.Sprint(v)))
	}

	columns := max(1, r.Columns)
	var b strings.Builder
	for i, v := range g.Grid() {
		cell := r.out.String(fmt.Sprintf("%*d", width, v))
		if p, ok := holder[v]; ok {
			cell = cell.Foreground(r.color(p)).Bold()
		}
		if hasLast && v == last {
			cell = cell.Background(r.out.Color(lastMoveColor))
		}
		if winning[v] {
			cell = cell.Underline()
		}

		b.WriteString(cell.String())
		if (i+1)%columns == 0 || i == len(g.Grid())-1 {
			b.WriteByte('\n')
		} else {
			b.WriteByte(' ')
		}
	}
	fmt.Fprint(r.out, b.String())
}

// Final result and both move lists
func (r *Renderer) Result(g *game.Game, l *Log) {
	switch g.Status() {
	case game.Won:
		name := l.FirstPlayer
		if g.Winner() == 2 {
			name = l.SecondPlayer
		}
		p := game.Player(g.Winner())
		fmt.Fprintf(r.out, "Winner: %s (%s)\n", r.out.String(p.String()).Foreground(r.color(p)).Bold(), name)
	case game.Draw:
		fmt.Fprintln(r.out, "Result: draw")
	default:
		fmt.Fprintln(r.out, "Result: unfinished")
	}

	fmt.Fprintf(r.out, "%s moves: %v\n", r.out.String(l.FirstPlayer).Foreground(r.color(game.Player1)), g.Player1Moves())
	fmt.Fprintf(r.out, "%s moves: %v\n", r.out.String(l.SecondPlayer).Foreground(r.color(game.Player2)), g.Player2Moves())
}

// Progression completed by the winner, nil if there is none
func WinningProgression(g *game.Game) []int {
	if g.Status() != game.Won {
		return nil
	}

	index := g.Index()
	held := index.Bits(g.Held(game.Player(g.Winner())))
	for i := 0; i < index.Len(); i++ {
		if held.ContainsAll(index.Set(i)) {
			return index.Progression(i)
		}
	}
	return nil
}
