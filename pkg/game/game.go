// Package game holds the authoritative state of a single Szemerédi game:
// the drawn pool, the numbers still available, each player's held numbers,
// and the win/draw detection against a progression index built once per game.
package game

import (
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/IlikeChooros/go-szemeredi/pkg/progression"
)

type Game struct {
	settings  Settings
	grid      []int
	index     *progression.Index
	available []int // ascending
	availBits progression.Bitset
	held      [2][]int
	heldBits  [2]progression.Bitset
	moves     []int
	turn      Player
	status    Status
	winner    Player
	logger    zerolog.Logger
}

type options struct {
	rand   *rand.Rand
	start  Player
	grid   []int
	logger zerolog.Logger
}

type Option func(*options)

// Source used to draw the pool
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rand = r }
}

// Player making the first move, Player1 by default
func WithStartingPlayer(p Player) Option {
	return func(o *options) { o.start = p }
}

// Use given pool (in display order) instead of drawing one, used by replays
func WithGrid(grid []int) Option {
	return func(o *options) { o.grid = slices.Clone(grid) }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Create a new game, drawing 'X' distinct numbers from {Lower..Bound}
func New(settings Settings, opts ...Option) (*Game, error) {
	o := options{start: Player1, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if o.start != Player1 && o.start != Player2 {
		return nil, fmt.Errorf("%w: starting player must be 1 or 2, got %d", ErrInvalidConfiguration, o.start)
	}

	grid := o.grid
	if grid == nil {
		if o.rand == nil {
			o.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		grid = samplePool(o.rand, settings)
	} else if err := validateGrid(grid, settings); err != nil {
		return nil, err
	}

	index, err := progression.New(settings.K, grid)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}

	g := &Game{
		settings:  settings,
		grid:      grid,
		index:     index,
		available: slices.Clone(index.Universe()),
		availBits: index.Bits(grid),
		heldBits:  [2]progression.Bitset{progression.NewBitset(index.Size()), progression.NewBitset(index.Size())},
		moves:     make([]int, 0, len(grid)),
		turn:      o.start,
		status:    InProgress,
		logger:    o.logger,
	}

	g.logger.Debug().
		Stringer("settings", settings).
		Ints("grid", grid).
		Int("progressions", index.Len()).
		Msg("new game")

	return g, nil
}

// Partial Fisher-Yates over the universe, without materializing it for huge ranges
func samplePool(r *rand.Rand, s Settings) []int {
	size := s.UniverseSize()
	swapped := make(map[int]int, s.X)
	pool := make([]int, s.X)

	at := func(i int) int {
		if v, ok := swapped[i]; ok {
			return v
		}
		return i
	}

	for i := 0; i < s.X; i++ {
		j := i + r.Intn(size-i)
		vi, vj := at(i), at(j)
		swapped[i], swapped[j] = vj, vi
		pool[i] = s.Lower + vj
	}
	return pool
}

func validateGrid(grid []int, s Settings) error {
	if len(grid) != s.X {
		return fmt.Errorf("%w: grid has %d numbers, expected %d", ErrInvalidConfiguration, len(grid), s.X)
	}
	seen := make(map[int]struct{}, len(grid))
	for _, v := range grid {
		if v < s.Lower || v > s.Bound {
			return fmt.Errorf("%w: grid value %d outside [%d, %d]", ErrInvalidConfiguration, v, s.Lower, s.Bound)
		}
		if _, dup := seen[v]; dup {
			return fmt.Errorf("%w: grid value %d repeated", ErrInvalidConfiguration, v)
		}
		seen[v] = struct{}{}
	}
	return nil
}

func heldIdx(p Player) int {
	return int(p) - 1
}

// Claim 'value' for the player on turn.
// Fails with ErrGameOver on a finished game, and with ErrIllegalMove when
// the value is not available, in both cases the state is left untouched.
func (g *Game) MakeMove(value int) error {
	if g.status != InProgress {
		return fmt.Errorf("%w: cannot play %d", ErrGameOver, value)
	}

	pos, ok := g.index.Position(value)
	if !ok || !g.availBits.Has(pos) {
		return fmt.Errorf("%w: %d is not available", ErrIllegalMove, value)
	}

	mover := g.turn
	i, _ := slices.BinarySearch(g.available, value)
	g.available = slices.Delete(g.available, i, i+1)
	g.availBits.Clear(pos)

	idx := heldIdx(mover)
	g.held[idx] = append(g.held[idx], value)
	g.heldBits[idx].Set(pos)
	g.moves = append(g.moves, value)
	g.turn = mover.Other()

	// Only the mover's set has changed, and it had no progression before this move
	if g.index.CompletedWith(g.heldBits[idx], pos) {
		g.status = Won
		g.winner = mover
		g.logger.Debug().Int("move", value).Stringer("winner", mover).Msg("progression completed")
	} else if len(g.available) == 0 {
		g.status = Draw
		g.logger.Debug().Int("move", value).Msg("pool exhausted, draw")
	} else {
		g.logger.Trace().Int("move", value).Stringer("player", mover).Msg("move")
	}

	return nil
}

// Numbers not claimed by either player, ascending
func (g *Game) Available() []int {
	return slices.Clone(g.available)
}

func (g *Game) IsAvailable(value int) bool {
	pos, ok := g.index.Position(value)
	return ok && g.availBits.Has(pos)
}

// Whether the value was drawn into the pool, claimed or not
func (g *Game) Contains(value int) bool {
	_, ok := g.index.Position(value)
	return ok
}

func (g *Game) Held(p Player) []int {
	if p != Player1 && p != Player2 {
		return nil
	}
	return slices.Clone(g.held[heldIdx(p)])
}

// Player 1 numbers in play order
func (g *Game) Player1Moves() []int {
	return g.Held(Player1)
}

// Player 2 numbers in play order
func (g *Game) Player2Moves() []int {
	return g.Held(Player2)
}

// Every move made so far, in play order
func (g *Game) Moves() []int {
	return slices.Clone(g.moves)
}

func (g *Game) Turn() Player {
	return g.turn
}

func (g *Game) Player1Turn() bool {
	return g.turn == Player1
}

func (g *Game) GameOver() bool {
	return g.status != InProgress
}

func (g *Game) Status() Status {
	return g.status
}

// 0 when there is no winner (yet, or a draw), 1 or 2 otherwise
func (g *Game) Winner() int {
	return int(g.winner)
}

// The drawn pool in its original order
func (g *Game) Grid() []int {
	return slices.Clone(g.grid)
}

func (g *Game) K() int {
	return g.settings.K
}

func (g *Game) Settings() Settings {
	return g.settings
}

// Progression index over the pool, shared read-only
func (g *Game) Index() *progression.Index {
	return g.index
}

func (g *Game) String() string {
	return fmt.Sprintf("Game{%s, status=%s, winner=%d, turn=%s, p1=%v, p2=%v, available=%d}",
		g.settings, g.status, g.winner, g.turn, g.held[0], g.held[1], len(g.available))
}
