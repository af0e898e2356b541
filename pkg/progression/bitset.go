package progression

import "math/bits"

// Bitset over the positions of an Index universe, the same idea as the
// tic-tac-toe bitboards, just not limited to 64 squares
type Bitset []uint64

func NewBitset(size int) Bitset {
	return make(Bitset, (size+63)/64)
}

func (b Bitset) Set(pos int) {
	b[pos>>6] |= 1 << (uint(pos) & 63)
}

func (b Bitset) Clear(pos int) {
	b[pos>>6] &^= 1 << (uint(pos) & 63)
}

func (b Bitset) Has(pos int) bool {
	if pos < 0 || pos>>6 >= len(b) {
		return false
	}
	return b[pos>>6]&(1<<(uint(pos)&63)) != 0
}

// Number of set positions
func (b Bitset) Count() int {
	n := 0
	for _, w := range b {
		n += bits.OnesCount64(w)
	}
	return n
}

func (b Bitset) Clone() Bitset {
	c := make(Bitset, len(b))
	copy(c, b)
	return c
}

// Reports whether every position of 'sub' is also set in b
func (b Bitset) ContainsAll(sub Bitset) bool {
	for i, w := range sub {
		if i >= len(b) {
			if w != 0 {
				return false
			}
			continue
		}
		if b[i]&w != w {
			return false
		}
	}
	return true
}

func (b Bitset) Intersects(other Bitset) bool {
	n := min(len(b), len(other))
	for i := 0; i < n; i++ {
		if b[i]&other[i] != 0 {
			return true
		}
	}
	return false
}

// Number of positions set in both b and other
func (b Bitset) AndCount(other Bitset) int {
	n := min(len(b), len(other))
	count := 0
	for i := 0; i < n; i++ {
		count += bits.OnesCount64(b[i] & other[i])
	}
	return count
}

func (b Bitset) Equal(other Bitset) bool {
	long, short := b, other
	if len(short) > len(long) {
		long, short = short, long
	}
	for i := range long {
		var w uint64
		if i < len(short) {
			w = short[i]
		}
		if long[i] != w {
			return false
		}
	}
	return true
}

// Calls fn for every set position, in ascending order
func (b Bitset) ForEach(fn func(pos int)) {
	for i, w := range b {
		for w != 0 {
			fn(i<<6 + bits.TrailingZeros64(w))
			w &= w - 1
		}
	}
}
