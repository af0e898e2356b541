package mcts

import "github.com/IlikeChooros/go-szemeredi/pkg/progression"

const (
	TerminalMask uint32 = 1
	// Set when every available move has its child
	ExpandedMask uint32 = 2
)

// Game state captured by a node, from the perspective of the root's player ('own')
type State struct {
	// Positions (in the tree's index) still available, in caller order.
	// The last 'expanded' of them already have children.
	available []int
	own       progression.Bitset
	opp       progression.Bitset
	// Whether the root's player is to move
	ownTurn bool
}

func (s *State) OwnTurn() bool {
	return s.ownTurn
}

// Number of moves left
func (s *State) Len() int {
	return len(s.available)
}

// A single node stored in the tree's arena, children and parent are arena indices.
// Node pointers are invalidated by any expansion, keep NodeIDs instead.
type NodeBase struct {
	NodeStats
	// Value claimed to reach this node, meaningless for the root
	Move     int
	Parent   NodeID
	Children []NodeID
	Flags    uint32
	state    State
	// Number of moves already expanded (popped from the end of the available list)
	expanded int
	// Outcome of a terminal node, for the root's player
	outcome Result
}

func (node *NodeBase) State() *State {
	return &node.state
}

// Reads the Flags, and returns whether the node is terminal
func (node *NodeBase) Terminal() bool {
	return node.Flags&TerminalMask == TerminalMask
}

// Every legal move has a child
func (node *NodeBase) Expanded() bool {
	return node.Flags&ExpandedMask == ExpandedMask
}

// Moves not yet turned into children, in expansion order reversed
// (the last one will be expanded first)
func (node *NodeBase) Untried() []int {
	return node.state.available[:len(node.state.available)-node.expanded]
}

// Outcome of a terminal node from the root player's perspective,
// 1 - root's player holds a progression, 0 - opponent holds one, 0.5 - draw
func (node *NodeBase) Outcome() Result {
	return node.outcome
}

func TerminalFlag(terminal bool) uint32 {
	flag := uint32(0)
	if terminal {
		flag |= TerminalMask
	}
	return flag
}

// Root node, checks every progression since the position is arbitrary
func newRootNode(index *progression.Index, available []int, own, opp progression.Bitset, ownTurn bool) NodeBase {
	node := NodeBase{
		Parent: NoNode,
		state: State{
			available: available,
			own:       own,
			opp:       opp,
			ownTurn:   ownTurn,
		},
	}

	switch {
	case index.Contains(own):
		node.Flags, node.outcome = TerminalMask, 1
	case index.Contains(opp):
		node.Flags, node.outcome = TerminalMask, 0
	case len(available) == 0:
		node.Flags, node.outcome = TerminalMask, 0.5
	}

	if len(available) == 0 {
		node.Flags |= ExpandedMask
	}
	return node
}

// Child of 'parent' after claiming 'pos', only the mover's set changed,
// so only progressions through 'pos' need checking
func newChildNode(index *progression.Index, parentID NodeID, parent *NodeBase, pos int) NodeBase {
	ps := &parent.state

	available := make([]int, 0, len(ps.available)-1)
	for _, p := range ps.available {
		if p != pos {
			available = append(available, p)
		}
	}

	own, opp := ps.own, ps.opp
	if ps.ownTurn {
		own = own.Clone()
		own.Set(pos)
	} else {
		opp = opp.Clone()
		opp.Set(pos)
	}

	node := NodeBase{
		Move:   index.Value(pos),
		Parent: parentID,
		state: State{
			available: available,
			own:       own,
			opp:       opp,
			ownTurn:   !ps.ownTurn,
		},
	}

	switch {
	case ps.ownTurn && index.CompletedWith(own, pos):
		node.Flags, node.outcome = TerminalMask, 1
	case !ps.ownTurn && index.CompletedWith(opp, pos):
		node.Flags, node.outcome = TerminalMask, 0
	case len(available) == 0:
		node.Flags, node.outcome = TerminalMask, 0.5
	}

	if len(available) == 0 {
		node.Flags |= ExpandedMask
	}
	return node
}
