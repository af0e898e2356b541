package mcts

import (
	"fmt"
	"strings"
	"time"
)

// Budget of a single search. A zero field is not a limit, the search ends
// when any of the non-zero ones is reached, or when it is stopped.
type Limits struct {
	// Deepest selection path, in plies below the root
	Depth int `json:"depth,omitempty" yaml:"depth,omitempty"`
	// Tree size. Combined with a cycle or time limit, reaching it only
	// stops the tree from growing.
	Nodes    uint32        `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	Cycles   uint32        `json:"cycles,omitempty" yaml:"cycles,omitempty"`
	Movetime time.Duration `json:"movetime,omitempty" yaml:"movetime,omitempty"`
}

func (l Limits) String() string {
	if l.Infinite() {
		return "infinite"
	}

	parts := make([]string, 0, 4)
	if l.Cycles > 0 {
		parts = append(parts, fmt.Sprintf("cycles=%d", l.Cycles))
	}
	if l.Movetime > 0 {
		parts = append(parts, fmt.Sprintf("movetime=%s", l.Movetime))
	}
	if l.Nodes > 0 {
		parts = append(parts, fmt.Sprintf("nodes=%d", l.Nodes))
	}
	if l.Depth > 0 {
		parts = append(parts, fmt.Sprintf("depth=%d", l.Depth))
	}
	return strings.Join(parts, " ")
}

// No limit is set
func (l Limits) Infinite() bool {
	return l == Limits{}
}

// DefaultIterations cycles, nothing else
func DefaultLimits() *Limits {
	return &Limits{Cycles: DefaultIterations}
}

// Runs until stopped or until its context is done
func InfiniteLimits() *Limits {
	return &Limits{}
}

func (l *Limits) SetDepth(depth int) *Limits {
	l.Depth = max(depth, 0)
	return l
}

func (l *Limits) SetNodes(nodes uint32) *Limits {
	l.Nodes = nodes
	return l
}

// Set the number of selection-expansion-rollout-backpropagation cycles
func (l *Limits) SetCycles(cycles uint32) *Limits {
	l.Cycles = cycles
	return l
}

// Set the maximum time for the engine to think
func (l *Limits) SetMovetime(movetime time.Duration) *Limits {
	l.Movetime = max(movetime, 0)
	return l
}
