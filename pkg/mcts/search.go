package mcts

import (
	"context"
	"fmt"
)

// This function only resets the limiter and the counters,
// doesn't actually start the search
func (t *Tree) setupSearch(ctx context.Context) {
	t.Limiter.SetContext(ctx)
	t.Limiter.Reset()
	t.cps = 0
	t.cycles = 0
}

// Run the search from the current root, simply repeats:
//
// 1. selection - descend by the selection policy, while nodes are fully expanded
//
// 2. expansion - add one untried child to the reached node
//
// 3. rollout - play random moves to the end of the game
//
// 4. backpropagate - add the visit and the result up to the root
//
// Until runs out of the allocated cycles, time or nodes, or 'ctx' is done.
// Returns the move of the most visited root child.
func (t *Tree) Search(ctx context.Context) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	root := t.Node(t.root)
	if root.Terminal() {
		return 0, ErrTerminalRoot
	}

	t.setupSearch(ctx)

	for t.Limiter.Ok(uint32(t.Size()), uint32(t.MaxDepth()), uint32(t.Cycles())) {
		node := t.Selection()
		if t.Limiter.Expand() {
			node = t.Expand(node)
		}

		t.backprop.Backpropagate(t, node, t.Rollout(node))

		// Increment cycle count and store the cps
		t.cycles++
		t.cps = uint32(t.cycles) * 1000 / t.Limiter.Elapsed()
		t.listener.invokeCycle(t)
	}

	t.Limiter.EvaluateStopReason(uint32(t.Size()), uint32(t.MaxDepth()), uint32(t.Cycles()))
	t.listener.invoke(t.listener.onStop, t)

	move, ok := t.RootMove()
	if !ok {
		if err := ctx.Err(); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrNoChildren, err)
		}
		return 0, ErrNoChildren
	}

	t.logger.Debug().
		Int("move", move).
		Int("cycles", t.Cycles()).
		Int("size", t.Size()).
		Int("maxdepth", t.MaxDepth()).
		Uint32("cps", t.Cps()).
		Stringer("stop", t.StopReason()).
		Msg("search finished")

	return move, nil
}

// Descend from the root, while the node is fully expanded and not terminal,
// picking children by the selection policy
func (t *Tree) Selection() NodeID {
	id := t.root
	depth := 0
	for {
		node := t.Node(id)
		if node.Terminal() || !node.Expanded() || len(node.Children) == 0 {
			break
		}
		id = t.selection.Select(t, id)
		depth++
	}

	if depth > t.maxdepth {
		t.maxdepth = depth
		t.listener.invoke(t.listener.onDepth, t)
	}
	return id
}

// Turn the last untried move of 'id' into a child and return it,
// returns 'id' itself for terminal or fully expanded nodes
func (t *Tree) Expand(id NodeID) NodeID {
	parent := t.Node(id)
	if parent.Terminal() || parent.Expanded() {
		return id
	}

	untried := parent.Untried()
	pos := untried[len(untried)-1]
	child := newChildNode(t.index, id, parent, pos)

	parent.expanded++
	if parent.expanded == len(parent.state.available) {
		parent.Flags |= ExpandedMask
	}

	childID := NodeID(len(t.nodes))
	parent.Children = append(parent.Children, childID)
	// 'parent' pointer is invalid after this point
	t.nodes = append(t.nodes, child)

	if depth := t.depthOf(childID); depth > t.maxdepth {
		t.maxdepth = depth
		t.listener.invoke(t.listener.onDepth, t)
	}
	return childID
}

func (t *Tree) depthOf(id NodeID) int {
	depth := 0
	for id = t.Node(id).Parent; id != NoNode; id = t.Node(id).Parent {
		depth++
	}
	return depth
}

// Play random moves from the node's state until someone completes a progression,
// or the pool runs out. Returns the result for the root's player.
func (t *Tree) Rollout(id NodeID) Result {
	node := t.Node(id)
	if node.Terminal() {
		return node.outcome
	}

	s := &node.state
	avail := append(t.scratch[:0], s.available...)
	own, opp := t.ownBuf, t.oppBuf
	copy(own, s.own)
	copy(opp, s.opp)
	ownTurn := s.ownTurn

	var result Result = 0.5
	for len(avail) > 0 {
		i := t.rollout(t.rand, avail)
		pos := avail[i]
		avail[i] = avail[len(avail)-1]
		avail = avail[:len(avail)-1]

		if ownTurn {
			own.Set(pos)
			if t.index.CompletedWith(own, pos) {
				result = 1
				break
			}
		} else {
			opp.Set(pos)
			if t.index.CompletedWith(opp, pos) {
				result = 0
				break
			}
		}
		ownTurn = !ownTurn
	}

	t.scratch = avail[:0]
	return result
}
