// Package movelog reads, writes and replays the JSON record of a single game:
// its settings, the drawn grid, both strategy names and the moves in play order.
package movelog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/IlikeChooros/go-szemeredi/pkg/game"
)

var ErrMalformed = errors.New("movelog: malformed log")

type Log struct {
	Settings     game.Settings `json:"settings"`
	Grid         []int         `json:"grid"`
	FirstPlayer  string        `json:"first_player"`
	SecondPlayer string        `json:"second_player"`
	GameID       int           `json:"game_id"`
	Moves        []int         `json:"moves"`
}

// Record of a finished (or ongoing) game
func FromGame(g *game.Game, first, second string, id int) *Log {
	return &Log{
		Settings:     g.Settings(),
		Grid:         g.Grid(),
		FirstPlayer:  first,
		SecondPlayer: second,
		GameID:       id,
		Moves:        g.Moves(),
	}
}

// File name used by the tournament, '<first>_vs_<second>_game_<id>.json'
func (l *Log) FileName() string {
	return fmt.Sprintf("%s_vs_%s_game_%d.json", l.FirstPlayer, l.SecondPlayer, l.GameID)
}

func Read(r io.Reader) (*Log, error) {
	var l Log
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if l.Grid == nil {
		return nil, fmt.Errorf("%w: missing grid", ErrMalformed)
	}
	return &l, nil
}

// Write the log as indented JSON
func (l *Log) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(l)
}

func Load(path string) (*Log, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	l, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// Save the log to 'path', creating the parent directories
func (l *Log) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := l.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Rebuild the game from the grid and play every move in order,
// 'onMove' (optional) is called after each move with its 0-based number.
// Fails on the first illegal move, returning the game as it was before it.
func Replay(l *Log, onMove func(g *game.Game, i, move int)) (*game.Game, error) {
	g, err := game.New(l.Settings, game.WithGrid(l.Grid))
	if err != nil {
		return nil, err
	}

	for i, move := range l.Moves {
		if err := g.MakeMove(move); err != nil {
			return g, fmt.Errorf("move %d: %w", i+1, err)
		}
		if onMove != nil {
			onMove(g, i, move)
		}
	}
	return g, nil
}
