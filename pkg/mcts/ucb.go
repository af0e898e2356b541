package mcts

import "math"

type SelectionPolicy interface {
	// Child of 'parent' to descend into, 'parent' must have at least one child
	Select(tree *Tree, parent NodeID) NodeID
}

type UCB1 struct {
	ExplorationParam float64
}

func (u *UCB1) SetExplorationParam(c float64) {
	u.ExplorationParam = max(0, c)
}

func NewUCB1(explorationParam float64) *UCB1 {
	return &UCB1{ExplorationParam: max(0, explorationParam)}
}

func (u *UCB1) Select(tree *Tree, parent NodeID) NodeID {
	node := tree.Node(parent)

	best := math.Inf(-1)
	index := NoNode
	lnParentVisits := math.Log(float64(node.N()))

	for _, id := range node.Children {
		child := tree.Node(id)
		visits := child.N()

		// Pick the unvisited one
		if visits == 0 {
			return id
		}

		// UCB 1 : wins/visits + C * sqrt(ln(parent_visits)/visits)
		// ucb1 = exploitation + exploration
		ucb1 := float64(child.Q())/float64(visits) +
			u.ExplorationParam*math.Sqrt(lnParentVisits/float64(visits))

		// Strictly greater, ties go to the earliest child
		if ucb1 > best {
			best = ucb1
			index = id
		}
	}

	return index
}
