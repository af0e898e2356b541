package game

import (
	"errors"
	"fmt"
)

var (
	ErrIllegalMove          = errors.New("illegal move")
	ErrGameOver             = errors.New("game is over")
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

type Player int

const (
	None    Player = 0
	Player1 Player = 1
	Player2 Player = 2
)

func (p Player) Other() Player {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	}
	return None
}

func (p Player) String() string {
	switch p {
	case Player1:
		return "player1"
	case Player2:
		return "player2"
	}
	return "none"
}

type Status int

const (
	InProgress Status = iota
	Won
	Draw
)

func (s Status) String() string {
	switch s {
	case InProgress:
		return "in progress"
	case Won:
		return "won"
	case Draw:
		return "draw"
	}
	return "unknown"
}

// Game parameters, json names match the persisted move logs
type Settings struct {
	K     int `json:"k" yaml:"k"`         // target progression length
	X     int `json:"x" yaml:"x"`         // pool size
	Lower int `json:"lower" yaml:"lower"` // smallest value of the universe
	Bound int `json:"bound" yaml:"bound"` // largest value of the universe
}

func (s Settings) String() string {
	return fmt.Sprintf("k=%d, x=%d, lower=%d, bound=%d", s.K, s.X, s.Lower, s.Bound)
}

// Size of the universe {Lower..Bound}
func (s Settings) UniverseSize() int {
	if s.Bound < s.Lower {
		return 0
	}
	return s.Bound - s.Lower + 1
}

// Validate the settings, returned error wraps ErrInvalidConfiguration
func (s Settings) Validate() error {
	switch {
	case s.K <= 0:
		return fmt.Errorf("%w: k must be positive, got %d", ErrInvalidConfiguration, s.K)
	case s.Lower > s.Bound:
		return fmt.Errorf("%w: lower (%d) is greater than bound (%d)", ErrInvalidConfiguration, s.Lower, s.Bound)
	case s.X > s.UniverseSize():
		return fmt.Errorf("%w: pool size %d exceeds universe size %d", ErrInvalidConfiguration, s.X, s.UniverseSize())
	case s.X < s.K:
		return fmt.Errorf("%w: pool size %d is smaller than k=%d", ErrInvalidConfiguration, s.X, s.K)
	}
	return nil
}
