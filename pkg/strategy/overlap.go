package strategy

import (
	"context"
	"slices"

	"github.com/IlikeChooros/go-szemeredi/pkg/progression"
)

// Plays toward the progression closest to completion, its own when it is
// at least as close as the opponent, the opponent's (blocking) otherwise
type OverlapStrategy struct {
	// Index cache, progression.Shared when nil
	Cache *progression.Cache
}

func (s OverlapStrategy) ChooseMove(_ context.Context, req Request) (int, error) {
	if len(req.Available) == 0 {
		return 0, ErrEmptyChoiceSet
	}

	cache := s.Cache
	if cache == nil {
		cache = progression.Shared
	}

	values := make([]int, 0, len(req.Available)+len(req.Own)+len(req.Opponent))
	values = append(append(append(values, req.Available...), req.Own...), req.Opponent...)
	index, err := cache.Get(req.K, values)
	if err != nil {
		return 0, err
	}

	own, opp := index.Bits(req.Own), index.Bits(req.Opponent)
	selfAPs, oppAPs := index.Winnable(opp), index.Winnable(own)
	if len(selfAPs) == 0 && len(oppAPs) == 0 {
		return chooseRandom(req), nil
	}

	selfOverlap, selfBest := bestOverlaps(index, selfAPs, own)
	oppOverlap, oppBest := bestOverlaps(index, oppAPs, opp)
	available := index.Bits(req.Available)

	if selfOverlap >= oppOverlap {
		if choices := mostFrequent(index, selfBest, available); len(choices) > 0 {
			return choices[req.rand().Intn(len(choices))], nil
		}
	}
	if choices := mostFrequent(index, oppBest, available); len(choices) > 0 {
		return choices[req.rand().Intn(len(choices))], nil
	}

	return chooseRandom(req), nil
}

// Largest number of 'held' members in any of the progressions, and the progressions reaching it
func bestOverlaps(index *progression.Index, aps []int, held progression.Bitset) (int, []int) {
	best := 0
	var out []int
	for _, i := range aps {
		overlap := index.Set(i).AndCount(held)
		switch {
		case overlap > best:
			best = overlap
			out = append(out[:0], i)
		case overlap == best:
			out = append(out, i)
		}
	}
	return best, out
}

// Available values appearing in the most of given progressions, ascending
func mostFrequent(index *progression.Index, aps []int, available progression.Bitset) []int {
	freq := make(map[int]int)
	for _, i := range aps {
		for _, v := range index.Progression(i) {
			if pos, _ := index.Position(v); available.Has(pos) {
				freq[v]++
			}
		}
	}

	maxFreq := 0
	for _, f := range freq {
		maxFreq = max(maxFreq, f)
	}

	var choices []int
	for v, f := range freq {
		if f == maxFreq {
			choices = append(choices, v)
		}
	}
	slices.Sort(choices)
	return choices
}
