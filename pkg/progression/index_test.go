package progression

import (
	"fmt"
	"math/rand"
	"slices"
	"sort"
	"strings"
	"testing"
)

// Naive oracle, checks every k-subset of the universe
func naiveFind(k int, universe []int) [][]int {
	var out [][]int
	if k <= 0 || k > len(universe) {
		return out
	}

	subset := make([]int, 0, k)
	var rec func(start int)
	rec = func(start int) {
		if len(subset) == k {
			if isAP(subset) {
				out = append(out, slices.Clone(subset))
			}
			return
		}
		for i := start; i < len(universe); i++ {
			subset = append(subset, universe[i])
			rec(i + 1)
			subset = subset[:len(subset)-1]
		}
	}
	rec(0)
	return out
}

func isAP(seq []int) bool {
	if len(seq) < 2 {
		return true
	}
	d := seq[1] - seq[0]
	for i := 2; i < len(seq); i++ {
		if seq[i]-seq[i-1] != d {
			return false
		}
	}
	return true
}

func keys(aps [][]int) []string {
	out := make([]string, len(aps))
	for i, ap := range aps {
		s := slices.Clone(ap)
		slices.Sort(s)
		out[i] = fmt.Sprint(s)
	}
	sort.Strings(out)
	return out
}

func TestFindSmallPool(t *testing.T) {
	got := keys(Find(3, []int{1, 2, 3, 4, 5, 6}))
	want := keys([][]int{
		{1, 2, 3}, {2, 3, 4}, {3, 4, 5}, {4, 5, 6}, {1, 3, 5}, {2, 4, 6},
	})

	if strings.Join(got, ";") != strings.Join(want, ";") {
		t.Fatalf("Find(3, 1..6) = %v, want %v", got, want)
	}
}

func TestFindAgainstOracle(t *testing.T) {
	r := rand.New(rand.NewSource(7))

	for trial := 0; trial < 40; trial++ {
		n := 1 + r.Intn(12)
		perm := r.Perm(30)[:n]
		universe := make([]int, n)
		for i, v := range perm {
			universe[i] = v - 10
		}
		slices.Sort(universe)

		for k := 1; k <= 5; k++ {
			got := Find(k, universe)
			for _, ap := range got {
				if len(ap) != k {
					t.Fatalf("progression %v has length %d, want %d", ap, len(ap), k)
				}
				if !isAP(ap) {
					t.Fatalf("%v is not an arithmetic progression", ap)
				}
			}

			gotKeys := keys(got)
			for i := 1; i < len(gotKeys); i++ {
				if gotKeys[i] == gotKeys[i-1] {
					t.Fatalf("duplicate progression %s for k=%d over %v", gotKeys[i], k, universe)
				}
			}

			wantKeys := keys(naiveFind(k, universe))
			if strings.Join(gotKeys, ";") != strings.Join(wantKeys, ";") {
				t.Fatalf("k=%d universe=%v\n got %v\nwant %v", k, universe, gotKeys, wantKeys)
			}
		}
	}
}

func TestFindDegenerate(t *testing.T) {
	if got := Find(4, []int{1, 2, 3}); len(got) != 0 {
		t.Errorf("k larger than universe should give no progressions, got %v", got)
	}
	if got := Find(0, []int{1, 2, 3}); len(got) != 0 {
		t.Errorf("k=0 should give no progressions, got %v", got)
	}
	if got := Find(2, []int{5, 9}); len(got) != 1 {
		t.Errorf("k=2 over 2 values should give one progression, got %v", got)
	}
}

func TestIndexContains(t *testing.T) {
	ix, err := New(3, []int{6, 5, 4, 3, 2, 1, 1})
	if err != nil {
		t.Fatal(err)
	}

	if ix.Len() != 6 {
		t.Fatalf("expected 6 progressions, got %d", ix.Len())
	}
	if ix.Size() != 6 {
		t.Fatalf("duplicates should be removed from universe, got size %d", ix.Size())
	}

	held := ix.Bits([]int{1, 3})
	if ix.Contains(held) {
		t.Fatal("{1,3} should not contain a progression")
	}

	pos, ok := ix.Position(5)
	if !ok {
		t.Fatal("5 should be in the universe")
	}
	held.Set(pos)
	if !ix.Contains(held) || !ix.CompletedWith(held, pos) {
		t.Fatal("{1,3,5} should contain a progression")
	}

	two, _ := ix.Position(2)
	if ix.CompletedWith(held, two) {
		t.Fatal("no progression through 2 is completed by {1,3,5}")
	}

	if got := ix.Values(held); !slices.Equal(got, []int{1, 3, 5}) {
		t.Fatalf("Values() = %v", got)
	}
}

func TestIndexWinnable(t *testing.T) {
	ix, _ := New(3, []int{1, 2, 3, 4, 5, 6})
	blocked := ix.Bits([]int{3})

	for _, i := range ix.Winnable(blocked) {
		if slices.Contains(ix.Progression(i), 3) {
			t.Fatalf("progression %v contains blocked value 3", ix.Progression(i))
		}
	}

	// {4,5,6} and {2,4,6} don't contain 3
	if got := len(ix.Winnable(blocked)); got != 2 {
		t.Fatalf("expected 2 winnable progressions, got %d", got)
	}
}

func TestNewInvalidLength(t *testing.T) {
	if _, err := New(0, []int{1, 2}); err != ErrInvalidLength {
		t.Fatalf("expected ErrInvalidLength, got %v", err)
	}
}

func TestBitsetOps(t *testing.T) {
	a := NewBitset(130)
	a.Set(0)
	a.Set(64)
	a.Set(129)

	if a.Count() != 3 || !a.Has(129) || a.Has(1) {
		t.Fatalf("unexpected bitset state %v", a)
	}

	b := a.Clone()
	b.Clear(64)
	if !a.ContainsAll(b) || b.ContainsAll(a) {
		t.Fatal("containment is wrong")
	}
	if a.Equal(b) || !a.Equal(a.Clone()) {
		t.Fatal("equality is wrong")
	}
	if a.AndCount(b) != 2 {
		t.Fatalf("AndCount = %d, want 2", a.AndCount(b))
	}

	var seen []int
	a.ForEach(func(pos int) { seen = append(seen, pos) })
	if !slices.Equal(seen, []int{0, 64, 129}) {
		t.Fatalf("ForEach visited %v", seen)
	}
}

func TestCache(t *testing.T) {
	c := NewCache(2)

	a, err := c.Get(3, []int{3, 1, 2})
	if err != nil {
		t.Fatal(err)
	}
	b, _ := c.Get(3, []int{1, 2, 3, 3})
	if a != b {
		t.Fatal("same (k, universe) should return the same index")
	}

	c.Get(3, []int{1, 2, 3, 4})
	c.Get(2, []int{1, 2, 3})
	if c.Len() != 2 {
		t.Fatalf("cache should be bounded to 2 entries, got %d", c.Len())
	}

	hits, misses := c.Stats()
	if hits != 1 || misses != 3 {
		t.Fatalf("hits=%d misses=%d", hits, misses)
	}

	if _, err := c.Get(-1, []int{1}); err == nil {
		t.Fatal("expected an error for k=-1")
	}
}

func BenchmarkFind(b *testing.B) {
	universe := make([]int, 100)
	for i := range universe {
		universe[i] = i + 1
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Find(4, universe)
	}
}
