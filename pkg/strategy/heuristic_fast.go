package strategy

import (
	"slices"

	"github.com/samber/lo"
)

// Three tiers: win now, block the opponent's win, else the move with most
// progression partners among the available and own numbers
func chooseHeuristicFast(req Request) int {
	for _, v := range req.Available {
		if completesProgression(req.Own, v, req.K) {
			return v
		}
	}

	for _, v := range req.Available {
		if completesProgression(req.Opponent, v, req.K) {
			return v
		}
	}

	pool := append(slices.Clone(req.Available), req.Own...)
	present := lo.SliceToMap(pool, func(v int) (int, struct{}) { return v, struct{}{} })

	bestScore := -1
	best := req.Available[0]
	for _, v := range req.Available {
		if score := reflectionCount(v, pool, present); score > bestScore {
			bestScore = score
			best = v
		}
	}
	return best
}

// Number of values 'x' in the pool, for which 2v - x is in the pool too
func reflectionCount(v int, pool []int, present map[int]struct{}) int {
	count := 0
	for _, x := range pool {
		if x == v {
			continue
		}
		if _, ok := present[2*v-x]; ok {
			count++
		}
	}
	return count
}

// Brute force: does any (k-1)-subset of 'held', together with 'v', form a progression
func completesProgression(held []int, v, k int) bool {
	if k <= 0 || len(held) < k-1 {
		return false
	}

	combo := make([]int, 0, k)
	var walk func(start int) bool
	walk = func(start int) bool {
		if len(combo) == k-1 {
			return isProgression(append(combo, v))
		}
		// not enough values left to fill the combination
		for i := start; i <= len(held)-(k-1-len(combo)); i++ {
			combo = append(combo, held[i])
			if walk(i + 1) {
				return true
			}
			combo = combo[:len(combo)-1]
		}
		return false
	}
	return walk(0)
}

// Sorted values have a constant difference, single values count as progressions
func isProgression(values []int) bool {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	if len(sorted) < 2 {
		return true
	}
	d := sorted[1] - sorted[0]
	for i := 2; i < len(sorted); i++ {
		if sorted[i]-sorted[i-1] != d {
			return false
		}
	}
	return true
}
