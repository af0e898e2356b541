package strategy

import (
	"math"
	"slices"

	"github.com/samber/lo"
)

func chooseRandom(req Request) int {
	return req.Available[req.rand().Intn(len(req.Available))]
}

func chooseMin(req Request) int {
	return lo.Min(req.Available)
}

// Median of the values, mean of the two middle ones for an even count
func median(values []int) float64 {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return float64(sorted[mid-1]+sorted[mid]) / 2
}

// Prefers central values, close to the mover's own numbers
func chooseHeuristic(req Request) int {
	med := median(req.Available)

	bestScore := math.Inf(-1)
	best := req.Available[0]
	for _, v := range req.Available {
		score := -math.Abs(float64(v) - med)
		if len(req.Own) > 0 {
			score -= float64(lo.Min(lo.Map(req.Own, func(h int, _ int) int {
				return abs(v - h)
			})))
		}
		if score > bestScore {
			bestScore = score
			best = v
		}
	}
	return best
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
