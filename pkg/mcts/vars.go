package mcts

import "time"

// Cycles of a search with DefaultLimits
const DefaultIterations uint32 = 1000

// UCB1 exploration constant of new trees, sqrt(2) in theory
var ExplorationParam float64 = 1.4

// Negative values are clamped to 0
func SetExplorationParam(c float64) {
	ExplorationParam = max(0.0, c)
}

// Seeds the random source of trees created without WithRand,
// and of strategies called without one
var SeedGeneratorFn SeedGeneratorFnType = func() int64 {
	return time.Now().UnixNano()
}

// nil is ignored
func SetSeedGeneratorFn(f SeedGeneratorFnType) {
	if f != nil {
		SeedGeneratorFn = f
	}
}
