package mcts

// Credits a rollout result to 'node' and its ancestors
type Backpropagator interface {
	Backpropagate(tree *Tree, node NodeID, result Result)
}

// Adds the same, root-perspective result to every node on the path.
// Opponent nodes are therefore scored by the root player's success too.
type RootPerspective struct{}

func (RootPerspective) Backpropagate(tree *Tree, node NodeID, result Result) {
	for node != NoNode {
		n := tree.Node(node)
		n.Add(result, 1)
		node = n.Parent
	}
}

// Assumes the game is 2 player and zero sum, meaning for given result for the root's player,
// the value for the enemy is exactly 1 - result. Each node is credited from the perspective
// of the player who made the move into it.
type ZeroSum struct{}

func (ZeroSum) Backpropagate(tree *Tree, node NodeID, result Result) {
	/*
		source: https://en.wikipedia.org/wiki/Monte_Carlo_tree_search
			If white loses the simulation, all nodes along the selection incremented their simulation count (the denominator),
			but among them only the black nodes were credited with wins (the numerator). If instead white wins,
			all nodes along the selection would still increment their simulation count, but among them
			only the white nodes would be credited with wins. In games where draws are possible,
			a draw causes the numerator for both black and white to be incremented by 0.5 and the denominator by 1.
	*/

	for node != NoNode {
		n := tree.Node(node)
		// Root player to move here, so the opponent moved into this node
		if n.state.ownTurn {
			n.Add(1-result, 1)
		} else {
			n.Add(result, 1)
		}
		node = n.Parent
	}
}
