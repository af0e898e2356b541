package mcts

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/IlikeChooros/go-szemeredi/pkg/progression"
)

type TreeStats struct {
	maxdepth int
	cps      uint32
	cycles   int
}

// Search tree of a single decision. Nodes live in one arena slice and refer
// to each other by NodeID, the tree is not safe for concurrent use
// (apart from Stop).
type Tree struct {
	TreeStats
	Limiter   LimiterLike
	index     *progression.Index
	nodes     []NodeBase
	root      NodeID
	selection SelectionPolicy
	backprop  Backpropagator
	rollout   RolloutPolicy
	listener  *StatsListener
	rand      *rand.Rand
	logger    zerolog.Logger

	// playout buffers
	scratch []int
	ownBuf  progression.Bitset
	oppBuf  progression.Bitset
}

type Option func(*Tree)

func WithRand(r *rand.Rand) Option {
	return func(t *Tree) {
		if r != nil {
			t.rand = r
		}
	}
}

func WithLimits(limits *Limits) Option {
	return func(t *Tree) { t.Limiter.SetLimits(limits) }
}

// UCB1 exploration constant, ExplorationParam by default
func WithExplorationParam(c float64) Option {
	return func(t *Tree) { t.selection = NewUCB1(c) }
}

func WithSelectionPolicy(policy SelectionPolicy) Option {
	return func(t *Tree) {
		if policy != nil {
			t.selection = policy
		}
	}
}

// RootPerspective by default
func WithBackprop(backprop Backpropagator) Option {
	return func(t *Tree) {
		if backprop != nil {
			t.backprop = backprop
		}
	}
}

// UniformRollout by default
func WithRolloutPolicy(policy RolloutPolicy) Option {
	return func(t *Tree) {
		if policy != nil {
			t.rollout = policy
		}
	}
}

func WithListener(listener *StatsListener) Option {
	return func(t *Tree) {
		if listener != nil {
			t.listener = listener
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(t *Tree) { t.logger = logger }
}

// Create a tree rooted at the position where the root's player holds 'own',
// the opponent holds 'opp', and the root's player is to move.
// 'available' order decides the expansion order, the last move is expanded first.
func NewTree(index *progression.Index, available, own, opp []int, opts ...Option) (*Tree, error) {
	positions := make([]int, len(available))
	for i, v := range available {
		pos, ok := index.Position(v)
		if !ok {
			return nil, fmt.Errorf("mcts: available value %d is not in the index universe", v)
		}
		positions[i] = pos
	}

	for _, held := range [][]int{own, opp} {
		for _, v := range held {
			if _, ok := index.Position(v); !ok {
				return nil, fmt.Errorf("mcts: held value %d is not in the index universe", v)
			}
		}
	}

	t := newTree(index)
	t.nodes = append(t.nodes, newRootNode(index, positions, index.Bits(own), index.Bits(opp), true))
	t.apply(opts...)
	return t, nil
}

// Tree without any nodes, with default settings
func newTree(index *progression.Index) *Tree {
	return &Tree{
		Limiter:   NewLimiter(),
		index:     index,
		root:      0,
		selection: NewUCB1(ExplorationParam),
		backprop:  RootPerspective{},
		rollout:   UniformRollout,
		listener:  NewStatsListener(),
		logger:    zerolog.Nop(),
		ownBuf:    progression.NewBitset(index.Size()),
		oppBuf:    progression.NewBitset(index.Size()),
	}
}

func (t *Tree) apply(opts ...Option) {
	for _, opt := range opts {
		opt(t)
	}
	if t.rand == nil {
		t.rand = rand.New(rand.NewSource(SeedGeneratorFn()))
	}
}

// Node with given id, the pointer is valid until the next expansion
func (t *Tree) Node(id NodeID) *NodeBase {
	return &t.nodes[id]
}

func (t *Tree) Root() NodeID {
	return t.root
}

func (t *Tree) Index() *progression.Index {
	return t.index
}

func (t *Tree) StatsListener() *StatsListener {
	return t.listener
}

// Stop a running search, safe to call from another goroutine
func (t *Tree) Stop() {
	t.Limiter.SetStop(true)
}

// Maximum depth reached during the search, note that usually MaxDepth != len(pv)
func (t *Tree) MaxDepth() int {
	return t.maxdepth
}

// Total number of 'iterations', 'cycles', 'simulations' ran during the last search
func (t *Tree) Cycles() int {
	return t.cycles
}

// Get cycles per second statistic
func (t *Tree) Cps() uint32 {
	return t.cps
}

// Number of nodes in the tree
func (t *Tree) Size() int {
	return len(t.nodes)
}

// Get the reason why the search was stopped, valid after search ends
func (t *Tree) StopReason() StopReason {
	return t.Limiter.StopReason()
}

func (t *Tree) SetLimits(limits *Limits) {
	t.Limiter.SetLimits(limits)
}

func (t *Tree) Limits() *Limits {
	return t.Limiter.Limits()
}

func (t *Tree) String() string {
	root := t.Node(t.root)
	return fmt.Sprintf("Tree={Size=%d, Stats:{maxdepth=%d, cps=%d, cycles=%d}, Root={N=%d, Q=%.1f, Children=%d}}",
		t.Size(), t.MaxDepth(), t.Cps(), t.Cycles(), root.N(), root.Q(), len(root.Children))
}

// 'the best move' in the position, false if the root has no visited children
func (t *Tree) RootMove() (int, bool) {
	root := t.Node(t.root)
	if !anyVisited(t, root.Children) {
		return 0, false
	}
	return t.Node(t.BestChild(t.root, BestChildMostVisits)).Move, true
}

// Current evaluation of the position
func (t *Tree) RootScore() Result {
	if move, ok := t.RootMove(); ok {
		for _, id := range t.Node(t.root).Children {
			if child := t.Node(id); child.Move == move {
				return child.AvgQ()
			}
		}
	}
	return Result(math.NaN())
}

func anyVisited(t *Tree, ids []NodeID) bool {
	for _, id := range ids {
		if t.Node(id).N() > 0 {
			return true
		}
	}
	return false
}

// Return best child, based on the policy. Panics when 'id' has no children,
// or with BestChildMostVisits, when none of them was visited.
func (t *Tree) BestChild(id NodeID, policy BestChildPolicy) NodeID {
	node := t.Node(id)
	if len(node.Children) == 0 {
		panic(fmt.Sprintf("mcts: BestChild called on node %d without children", id))
	}

	switch policy {
	case BestChildUCT:
		return t.selection.Select(t, id)
	case BestChildMostVisits:
		best := NoNode
		maxVisits := int32(0)
		for _, child := range node.Children {
			if v := t.Node(child).N(); v > maxVisits {
				maxVisits = v
				best = child
			}
		}
		if best == NoNode {
			panic(fmt.Sprintf("mcts: BestChild called on node %d without visited children", id))
		}
		return best
	}

	panic(fmt.Sprintf("mcts: unknown best child policy %d", policy))
}

// Get the principal variation (ie. the best sequence of nodes)
// from given starting 'root' node, based on given best child policy,
// returns the nodes and whether the line ends in a terminal node
func (t *Tree) PvNodes(root NodeID, policy BestChildPolicy, includeRoot bool) ([]NodeID, bool) {
	pv := make([]NodeID, 0, t.MaxDepth()+1)
	if includeRoot {
		pv = append(pv, root)
	}

	node := root
	for !t.Node(node).Terminal() && len(t.Node(node).Children) > 0 && anyVisited(t, t.Node(node).Children) {
		node = t.BestChild(node, policy)
		pv = append(pv, node)
	}

	return pv, t.Node(node).Terminal()
}

// Get the principal variation, but only the moves, returns (moves, terminal, draw)
func (t *Tree) Pv(root NodeID, policy BestChildPolicy, includeRoot bool) ([]int, bool, bool) {
	nodes, terminal := t.PvNodes(root, policy, includeRoot)
	pv := make([]int, len(nodes))
	for i, id := range nodes {
		pv[i] = t.Node(id).Move
	}

	last := root
	if len(nodes) > 0 {
		last = nodes[len(nodes)-1]
	}
	return pv, terminal, terminal && t.Node(last).Outcome() == 0.5
}

// Copy the subtree rooted at 'id' into a new, compacted tree, with 'id' becoming its root.
// Statistics are kept, the new tree shares the settings and the progression index.
func (t *Tree) Detach(id NodeID) *Tree {
	detached := &Tree{
		Limiter:   NewLimiter(),
		index:     t.index,
		nodes:     make([]NodeBase, 0, 64),
		root:      0,
		selection: t.selection,
		backprop:  t.backprop,
		rollout:   t.rollout,
		listener:  t.listener,
		rand:      t.rand,
		logger:    t.logger,
		ownBuf:    progression.NewBitset(t.index.Size()),
		oppBuf:    progression.NewBitset(t.index.Size()),
	}
	detached.Limiter.SetLimits(t.Limiter.Limits())

	// Breadth first, so every parent is copied before its children
	type entry struct {
		old   NodeID
		depth int
	}
	queue := []entry{{id, 0}}
	newIDs := map[NodeID]NodeID{id: 0}

	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]

		node := t.nodes[e.old]
		node.Children = nil
		if e.old == id {
			node.Parent = NoNode
		} else {
			node.Parent = newIDs[node.Parent]
		}

		detached.nodes = append(detached.nodes, node)
		detached.maxdepth = max(detached.maxdepth, e.depth)

		for _, child := range t.nodes[e.old].Children {
			newIDs[child] = NodeID(len(detached.nodes) + len(queue))
			queue = append(queue, entry{child, e.depth + 1})
		}
	}

	// Fill in the children lists, in their original order
	for old, nid := range newIDs {
		children := t.nodes[old].Children
		if len(children) == 0 {
			continue
		}
		mapped := make([]NodeID, len(children))
		for i, child := range children {
			mapped[i] = newIDs[child]
		}
		detached.nodes[nid].Children = mapped
	}

	return detached
}
