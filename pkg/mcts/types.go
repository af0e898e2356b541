package mcts

import "errors"

// Outcome of a playout for the root's player: 1 win, 0.5 draw, 0 loss
type Result float64

// Index of a node in the tree's arena
type NodeID int32

// Parent of the root
const NoNode NodeID = -1

// How the final (or any) child of a node is chosen
type BestChildPolicy int

const (
	// Most visited child, the move to actually play
	BestChildMostVisits BestChildPolicy = iota
	// Child maximizing the selection policy, as during the descent
	BestChildUCT
)

type SeedGeneratorFnType func() int64

var (
	// No move left at the root, or a player already holds a progression
	ErrTerminalRoot = errors.New("mcts: root position is terminal")
	// The search was stopped before any root child got a visit
	ErrNoChildren = errors.New("mcts: search ended without expanding the root")
)
