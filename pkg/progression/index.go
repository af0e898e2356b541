// Package progression enumerates arithmetic progressions of a fixed length over
// a set of integers and answers "does this held set contain one of them" queries.
//
// An Index is built once per game (or per search root) and is immutable afterwards,
// so a single *Index can be shared by every node of a search tree and read from
// many goroutines at once.
package progression

import (
	"errors"
	"slices"
)

var ErrInvalidLength = errors.New("progression: length must be positive")

// Find returns every subset of 'universe' of size k, that forms an arithmetic
// progression when sorted. The universe must be sorted and contain distinct values.
//
// Progressions are enumerated by (start, difference) pairs, where the difference
// is taken from the second element of the progression, so the cost stays close to
// the actual number of progressions instead of C(n, k).
// Each returned progression is sorted ascending.
func Find(k int, universe []int) [][]int {
	n := len(universe)
	if k <= 0 || k > n {
		return [][]int{}
	}

	if k == 1 {
		result := make([][]int, n)
		for i, v := range universe {
			result[i] = []int{v}
		}
		return result
	}

	present := make(map[int]struct{}, n)
	for _, v := range universe {
		present[v] = struct{}{}
	}

	// The last element is at least (k-1)*d above the start
	last := universe[n-1]
	result := make([][]int, 0, n)

	for i := 0; i < n; i++ {
		start := universe[i]
		for j := i + 1; j < n; j++ {
			d := universe[j] - start
			if start+(k-1)*d > last {
				// differences only grow with j
				break
			}

			ok := true
			for m := 2; m < k; m++ {
				if _, found := present[start+m*d]; !found {
					ok = false
					break
				}
			}
			if !ok {
				continue
			}

			ap := make([]int, k)
			for m := 0; m < k; m++ {
				ap[m] = start + m*d
			}
			result = append(result, ap)
		}
	}

	return result
}

// Precomputed progressions of length k over a fixed universe.
type Index struct {
	k         int
	universe  []int
	positions map[int]int
	values    [][]int
	sets      []Bitset
	// progressions containing given universe position
	byPos [][]int32
}

// Build the index of all length-k progressions over given values,
// values may be unsorted and contain duplicates
func New(k int, values []int) (*Index, error) {
	if k <= 0 {
		return nil, ErrInvalidLength
	}

	universe := slices.Clone(values)
	slices.Sort(universe)
	universe = slices.Compact(universe)

	ix := &Index{
		k:         k,
		universe:  universe,
		positions: make(map[int]int, len(universe)),
		byPos:     make([][]int32, len(universe)),
	}

	for i, v := range universe {
		ix.positions[v] = i
	}

	ix.values = Find(k, universe)
	ix.sets = make([]Bitset, len(ix.values))
	for i, ap := range ix.values {
		set := NewBitset(len(universe))
		for _, v := range ap {
			pos := ix.positions[v]
			set.Set(pos)
			ix.byPos[pos] = append(ix.byPos[pos], int32(i))
		}
		ix.sets[i] = set
	}

	return ix, nil
}

func (ix *Index) K() int {
	return ix.k
}

// Number of progressions
func (ix *Index) Len() int {
	return len(ix.values)
}

// Size of the universe (and of every Bitset built by this index)
func (ix *Index) Size() int {
	return len(ix.universe)
}

// Sorted universe, must not be modified
func (ix *Index) Universe() []int {
	return ix.universe
}

// Copy of all the progressions, each sorted ascending
func (ix *Index) Progressions() [][]int {
	out := make([][]int, len(ix.values))
	for i := range ix.values {
		out[i] = slices.Clone(ix.values[i])
	}
	return out
}

// i-th progression values, must not be modified
func (ix *Index) Progression(i int) []int {
	return ix.values[i]
}

// i-th progression as a bitset, must not be modified
func (ix *Index) Set(i int) Bitset {
	return ix.sets[i]
}

// Position of the value in the universe
func (ix *Index) Position(v int) (int, bool) {
	pos, ok := ix.positions[v]
	return pos, ok
}

// Value at given universe position
func (ix *Index) Value(pos int) int {
	return ix.universe[pos]
}

// Convert values to a bitset, values outside the universe are ignored
func (ix *Index) Bits(values []int) Bitset {
	set := NewBitset(len(ix.universe))
	for _, v := range values {
		if pos, ok := ix.positions[v]; ok {
			set.Set(pos)
		}
	}
	return set
}

// Convert a bitset back to (ascending) values
func (ix *Index) Values(set Bitset) []int {
	out := make([]int, 0, set.Count())
	set.ForEach(func(pos int) {
		out = append(out, ix.universe[pos])
	})
	return out
}

// Reports whether 'held' is a superset of any progression
func (ix *Index) Contains(held Bitset) bool {
	for _, ap := range ix.sets {
		if held.ContainsAll(ap) {
			return true
		}
	}
	return false
}

// Same as Contains, but only checks progressions going through 'pos',
// enough when 'pos' is the only position added since the last check
func (ix *Index) CompletedWith(held Bitset, pos int) bool {
	if pos < 0 || pos >= len(ix.byPos) {
		return false
	}
	for _, i := range ix.byPos[pos] {
		if held.ContainsAll(ix.sets[i]) {
			return true
		}
	}
	return false
}

// Indices of the progressions, that don't intersect the 'blocked' set
func (ix *Index) Winnable(blocked Bitset) []int {
	out := make([]int, 0, len(ix.sets))
	for i, ap := range ix.sets {
		if !ap.Intersects(blocked) {
			out = append(out, i)
		}
	}
	return out
}
