package mcts

import "math/rand"

// Picks the next move of a playout, returns an index into 'available'
// (positions in the tree's progression index, order is arbitrary)
type RolloutPolicy func(r *rand.Rand, available []int) int

// Uniformly random playouts
func UniformRollout(r *rand.Rand, available []int) int {
	return r.Intn(len(available))
}
